package test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/edukar/edukar-store/internal/adapter/culqi"
	"github.com/edukar/edukar-store/internal/adapter/mail"
	"github.com/edukar/edukar-store/internal/adapter/r2"
	domainErrors "github.com/edukar/edukar-store/internal/domain/errors"
	"github.com/edukar/edukar-store/internal/queue"
)

// CulqiClientStub records gateway calls and answers through overrides.
// Without overrides orders and charges are created and orders are pending.
type CulqiClientStub struct {
	ChargeFn  func(context.Context, culqi.ChargeRequest) (*culqi.Response, error)
	OrderFn   func(context.Context, culqi.OrderRequest) (*culqi.Response, error)
	ConsultFn func(context.Context, string) (*culqi.Response, error)

	mu       sync.Mutex
	Charges  []culqi.ChargeRequest
	Orders   []culqi.OrderRequest
	Consults []string
}

// JSONResponse builds a gateway response with a marshalled body.
func JSONResponse(status int, body any) *culqi.Response {
	raw, _ := json.Marshal(body)
	return &culqi.Response{StatusCode: status, Body: raw}
}

func (s *CulqiClientStub) CreateCharge(ctx context.Context, req culqi.ChargeRequest) (*culqi.Response, error) {
	s.mu.Lock()
	s.Charges = append(s.Charges, req)
	s.mu.Unlock()
	if s.ChargeFn != nil {
		return s.ChargeFn(ctx, req)
	}
	return JSONResponse(http.StatusCreated, map[string]any{"id": "chr_test", "amount": req.Amount}), nil
}

func (s *CulqiClientStub) CreateOrder(ctx context.Context, req culqi.OrderRequest) (*culqi.Response, error) {
	s.mu.Lock()
	s.Orders = append(s.Orders, req)
	s.mu.Unlock()
	if s.OrderFn != nil {
		return s.OrderFn(ctx, req)
	}
	return JSONResponse(http.StatusCreated, map[string]any{"id": "ord_" + req.OrderNumber, "state": culqi.OrderStatePending}), nil
}

func (s *CulqiClientStub) ConsultOrder(ctx context.Context, orderID string) (*culqi.Response, error) {
	s.mu.Lock()
	s.Consults = append(s.Consults, orderID)
	s.mu.Unlock()
	if s.ConsultFn != nil {
		return s.ConsultFn(ctx, orderID)
	}
	return JSONResponse(http.StatusOK, map[string]any{"id": orderID, "state": culqi.OrderStatePending}), nil
}

// ChargeCount returns the number of charges attempted.
func (s *CulqiClientStub) ChargeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Charges)
}

// PublisherStub collects enqueued tasks.
type PublisherStub struct {
	Err error

	mu    sync.Mutex
	tasks []queue.Task
}

func (s *PublisherStub) Enqueue(ctx context.Context, task queue.Task) error {
	if s.Err != nil {
		return s.Err
	}
	if err := task.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, task)
	return nil
}

// Tasks returns a copy of the enqueued tasks.
func (s *PublisherStub) Tasks() []queue.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]queue.Task(nil), s.tasks...)
}

// DocumentStoreStub serves objects from memory.
type DocumentStoreStub struct {
	Objects map[string][]byte
	Err     error
}

func (s DocumentStoreStub) Open(ctx context.Context, key string) (*r2.Object, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	data, ok := s.Objects[key]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &r2.Object{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentLength: int64(len(data)),
		ContentType:   "application/pdf",
	}, nil
}

// MailSenderStub records sent messages.
type MailSenderStub struct {
	Err error

	mu       sync.Mutex
	messages []mail.Message
}

func (s *MailSenderStub) Send(ctx context.Context, msg mail.Message) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return nil
}

// Messages returns a copy of sent messages.
func (s *MailSenderStub) Messages() []mail.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mail.Message(nil), s.messages...)
}

var (
	_ culqi.Client    = (*CulqiClientStub)(nil)
	_ queue.Publisher = (*PublisherStub)(nil)
	_ r2.Store        = DocumentStoreStub{}
	_ mail.Sender     = (*MailSenderStub)(nil)
)
