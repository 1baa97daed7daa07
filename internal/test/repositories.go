package test

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/edukar/edukar-store/internal/domain/errors"
	"github.com/edukar/edukar-store/internal/domain/model"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, user *model.User) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if _, exists := s.Users[user.Login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	created := *user
	created.ID = s.Next
	created.CreatedAt = time.Now()
	s.Next++
	s.Users[created.Login] = &created
	s.ByID[created.ID] = &created
	return &created, nil
}

// GetByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[login]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ProductRepositoryStub serves a fixed catalog.
type ProductRepositoryStub struct {
	Products   map[int64]*model.Product
	Categories []model.Category
	Err        error

	ListFn            func(context.Context, model.ProductFilter) (*model.ProductPage, error)
	RecommendationsFn func(context.Context, int64, int) ([]model.Product, error)
	Filters           []model.ProductFilter
}

// NewProductRepositoryStub indexes products by id.
func NewProductRepositoryStub(products ...model.Product) *ProductRepositoryStub {
	s := &ProductRepositoryStub{Products: make(map[int64]*model.Product)}
	for i := range products {
		p := products[i]
		s.Products[p.ID] = &p
	}
	return s
}

// List records the filter and returns shown products newest first.
func (s *ProductRepositoryStub) List(ctx context.Context, filter model.ProductFilter) (*model.ProductPage, error) {
	s.Filters = append(s.Filters, filter)
	if s.ListFn != nil {
		return s.ListFn(ctx, filter)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	var shown []model.Product
	for _, p := range s.sorted() {
		if p.Show {
			shown = append(shown, p)
		}
	}
	page := &model.ProductPage{Count: len(shown)}
	if filter.Offset < len(shown) {
		end := filter.Offset + filter.Limit
		if end > len(shown) {
			end = len(shown)
		}
		page.Products = shown[filter.Offset:end]
	}
	return page, nil
}

// GetBySlug returns a shown product with the slug.
func (s *ProductRepositoryStub) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	for _, p := range s.Products {
		if p.Slug == slug && p.Show {
			found := *p
			return &found, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// GetByIdentifier returns the product carrying the identifier.
func (s *ProductRepositoryStub) GetByIdentifier(ctx context.Context, identifier string) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	for _, p := range s.Products {
		if p.Identifier == identifier {
			found := *p
			return &found, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// GetByIDs returns the known products among ids ordered by id.
func (s *ProductRepositoryStub) GetByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var result []model.Product
	for _, id := range ids {
		if p, ok := s.Products[id]; ok {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Recommendations delegates to RecommendationsFn when set.
func (s *ProductRepositoryStub) Recommendations(ctx context.Context, productID int64, limit int) ([]model.Product, error) {
	if s.RecommendationsFn != nil {
		return s.RecommendationsFn(ctx, productID, limit)
	}
	return nil, s.Err
}

// ListCategories returns configured categories.
func (s *ProductRepositoryStub) ListCategories(ctx context.Context) ([]model.Category, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Categories, nil
}

func (s *ProductRepositoryStub) sorted() []model.Product {
	result := make([]model.Product, 0, len(s.Products))
	for _, p := range s.Products {
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result
}

// OwnershipRepositoryStub keeps the ownership ledger in memory.
type OwnershipRepositoryStub struct {
	Catalog *ProductRepositoryStub
	Err     error

	mu    sync.Mutex
	owned map[int64][]int64
}

// Grant adds products to the user ledger ignoring duplicates.
func (s *OwnershipRepositoryStub) Grant(userID int64, productIDs ...int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owned == nil {
		s.owned = make(map[int64][]int64)
	}
	for _, id := range productIDs {
		if !contains(s.owned[userID], id) {
			s.owned[userID] = append(s.owned[userID], id)
		}
	}
}

// Owned lists the product ids granted to the user in grant order.
func (s *OwnershipRepositoryStub) Owned(userID int64) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.owned[userID]...)
}

// OwnedAmong reports which of productIDs the user owns.
func (s *OwnershipRepositoryStub) OwnedAmong(ctx context.Context, userID int64, productIDs []int64) (map[int64]bool, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	owned := s.Owned(userID)
	result := make(map[int64]bool)
	for _, id := range productIDs {
		if contains(owned, id) {
			result[id] = true
		}
	}
	return result, nil
}

// ListProducts resolves the owned ids against the catalog.
func (s *OwnershipRepositoryStub) ListProducts(ctx context.Context, userID int64) ([]model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Catalog == nil {
		return nil, nil
	}
	var result []model.Product
	for _, id := range s.Owned(userID) {
		if p, ok := s.Catalog.Products[id]; ok {
			result = append(result, *p)
		}
	}
	return result, nil
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// SellRepositoryStub is an in-memory sell store that honors the status transitions.
type SellRepositoryStub struct {
	Ownership *OwnershipRepositoryStub
	Err       error
	FulfillFn func(context.Context, model.FulfillParams) (*model.Sell, bool, error)

	// ReceiptErr fails SetReceipt while set.
	ReceiptErr error

	mu            sync.Mutex
	sells         map[int64]*model.Sell
	receipts      map[int64][]byte
	next          int64
	receiptNumber int64
	Fulfilled     []model.FulfillParams
}

// NewSellRepositoryStub constructs an empty store granting into ownership.
func NewSellRepositoryStub(ownership *OwnershipRepositoryStub) *SellRepositoryStub {
	return &SellRepositoryStub{
		Ownership: ownership,
		sells:     make(map[int64]*model.Sell),
		receipts:  make(map[int64][]byte),
	}
}

// Put stores a sell as is, useful to seed a state.
func (s *SellRepositoryStub) Put(sell model.Sell) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sell.ID > s.next {
		s.next = sell.ID
	}
	s.sells[sell.ID] = &sell
}

// Snapshot returns a copy of the stored sell.
func (s *SellRepositoryStub) Snapshot(id int64) model.Sell {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sell, ok := s.sells[id]; ok {
		return *sell
	}
	return model.Sell{}
}

func (s *SellRepositoryStub) Create(ctx context.Context, sell *model.Sell) (*model.Sell, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.sells {
		if existing.OrderNumber == sell.OrderNumber {
			return nil, domainErrors.ErrAlreadyExists
		}
	}
	s.next++
	created := *sell
	created.ID = s.next
	created.Status = model.SellStatusPending
	created.Metadata = json.RawMessage("{}")
	created.OrderData = json.RawMessage("{}")
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	s.sells[created.ID] = &created
	result := created
	return &result, nil
}

func (s *SellRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Sell, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if sell, ok := s.sells[id]; ok {
		found := *sell
		return &found, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *SellRepositoryStub) GetByOrderID(ctx context.Context, orderID string) (*model.Sell, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sell := range s.sells {
		if sell.OrderID != "" && sell.OrderID == orderID {
			found := *sell
			return &found, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *SellRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.Sell, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Sell
	for _, sell := range s.sells {
		if sell.UserID == userID {
			result = append(result, *sell)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (s *SellRepositoryStub) SetOrder(ctx context.Context, sellID int64, orderID string, orderData json.RawMessage) error {
	return s.update(sellID, func(sell *model.Sell) {
		sell.OrderID = orderID
		sell.OrderData = orderData
	})
}

func (s *SellRepositoryStub) SetOrderData(ctx context.Context, sellID int64, orderData json.RawMessage) error {
	return s.update(sellID, func(sell *model.Sell) {
		sell.OrderData = orderData
	})
}

func (s *SellRepositoryStub) SetMetadata(ctx context.Context, sellID int64, status model.SellStatus, metadata json.RawMessage) error {
	return s.update(sellID, func(sell *model.Sell) {
		sell.Metadata = metadata
		if sell.Status == model.SellStatusPending {
			sell.Status = status
		}
	})
}

func (s *SellRepositoryStub) SetReceipt(ctx context.Context, sellID int64, receipt []byte) error {
	if s.ReceiptErr != nil {
		return s.ReceiptErr
	}
	return s.update(sellID, func(sell *model.Sell) {
		sell.HasReceipt = true
		s.receipts[sellID] = receipt
	})
}

func (s *SellRepositoryStub) GetReceipt(ctx context.Context, sellID int64) ([]byte, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	receipt, ok := s.receipts[sellID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return receipt, nil
}

func (s *SellRepositoryStub) update(sellID int64, fn func(*model.Sell)) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sell, ok := s.sells[sellID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	fn(sell)
	sell.UpdatedAt = time.Now()
	return nil
}

// Fulfill finishes the sell once, numbering receipts sequentially.
func (s *SellRepositoryStub) Fulfill(ctx context.Context, params model.FulfillParams) (*model.Sell, bool, error) {
	if s.FulfillFn != nil {
		return s.FulfillFn(ctx, params)
	}
	if s.Err != nil {
		return nil, false, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fulfilled = append(s.Fulfilled, params)

	sell, ok := s.sells[params.SellID]
	if !ok {
		return nil, false, domainErrors.ErrNotFound
	}
	if sell.Status == model.SellStatusFinished {
		found := *sell
		return &found, false, nil
	}

	s.receiptNumber++
	number := s.receiptNumber
	paidAt := params.PaidAt
	sell.Status = model.SellStatusFinished
	sell.ReceiptNumber = &number
	sell.PaidAt = &paidAt
	if params.Metadata != nil {
		sell.Metadata = params.Metadata
	}
	if params.OrderData != nil {
		sell.OrderData = params.OrderData
	}
	if s.Ownership != nil {
		s.Ownership.Grant(params.UserID, params.ProductIDs...)
	}
	found := *sell
	return &found, true, nil
}

// ClaimPending returns pending sells with a gateway order.
func (s *SellRepositoryStub) ClaimPending(ctx context.Context, limit int, minAge time.Duration) ([]model.Sell, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Sell
	for _, sell := range s.sells {
		if sell.Status == model.SellStatusPending && sell.OrderID != "" && len(result) < limit {
			result = append(result, *sell)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// WebhookEventRepositoryStub records stored events.
type WebhookEventRepositoryStub struct {
	Events    []model.WebhookEvent
	Processed map[int64]string
	Err       error
}

func (s *WebhookEventRepositoryStub) Create(ctx context.Context, event *model.WebhookEvent) (*model.WebhookEvent, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	created := *event
	created.ID = int64(len(s.Events) + 1)
	created.CreatedAt = time.Now()
	s.Events = append(s.Events, created)
	return &created, nil
}

func (s *WebhookEventRepositoryStub) MarkProcessed(ctx context.Context, id int64, processingError string) error {
	if s.Err != nil {
		return s.Err
	}
	if s.Processed == nil {
		s.Processed = make(map[int64]string)
	}
	s.Processed[id] = processingError
	return nil
}

// ClaimRepositoryStub keeps claims in memory.
type ClaimRepositoryStub struct {
	Claims map[int64]*model.Claim
	Err    error
}

func (s *ClaimRepositoryStub) Create(ctx context.Context, claim *model.Claim) (*model.Claim, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Claims == nil {
		s.Claims = make(map[int64]*model.Claim)
	}
	created := *claim
	created.ID = int64(len(s.Claims) + 1)
	created.CreatedAt = time.Now()
	s.Claims[created.ID] = &created
	result := created
	return &result, nil
}

func (s *ClaimRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Claim, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if claim, ok := s.Claims[id]; ok {
		found := *claim
		return &found, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *ClaimRepositoryStub) SetDocument(ctx context.Context, id int64, document []byte) error {
	if s.Err != nil {
		return s.Err
	}
	claim, ok := s.Claims[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	claim.Document = document
	return nil
}
