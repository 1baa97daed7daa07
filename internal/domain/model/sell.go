package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/edukar/edukar-store/internal/domain/errors"
)

// SellStatus describes where a sell is in the payment lifecycle.
type SellStatus int

const (
	SellStatusFinished SellStatus = 1
	SellStatusPending  SellStatus = 2
	SellStatusFailed   SellStatus = 3
)

func (s SellStatus) String() string {
	switch s {
	case SellStatusFinished:
		return "FINISHED"
	case SellStatusPending:
		return "PENDING"
	case SellStatusFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// SellItem is a product captured at the price it had when the sell was created.
type SellItem struct {
	ProductID int64
	Name      string
	Price     decimal.Decimal
}

// Sell is a purchase of one or more products.
type Sell struct {
	ID            int64
	UserID        int64
	FirstName     string
	LastName      string
	Email         string
	PhoneNumber   string
	Items         []SellItem
	Status        SellStatus
	OrderID       string
	OrderNumber   string
	Metadata      json.RawMessage
	OrderData     json.RawMessage
	TotalCost     decimal.Decimal
	ReceiptNumber *int64
	HasReceipt    bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
	PaidAt        *time.Time
}

// CheckPayable rejects sells that already reached a terminal status.
func (s *Sell) CheckPayable() error {
	switch s.Status {
	case SellStatusFinished:
		return domainErrors.ErrSellFinished
	case SellStatusFailed:
		return domainErrors.ErrSellClosed
	}
	return nil
}

// ProductIDs lists the products of the sell snapshot.
func (s *Sell) ProductIDs() []int64 {
	ids := make([]int64, 0, len(s.Items))
	for _, item := range s.Items {
		ids = append(ids, item.ProductID)
	}
	return ids
}

// BuyerName joins the buyer's first and last name.
func (s *Sell) BuyerName() string {
	switch {
	case s.FirstName == "":
		return s.LastName
	case s.LastName == "":
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// TotalCost sums the prices of products.
func TotalCost(products []Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.Price)
	}
	return total.Round(2)
}

// ToCents converts an amount to the integer minor units the gateway expects.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// FulfillParams describes the transition of a sell to FINISHED.
// Metadata carries a charge body, OrderData an order body; nil leaves the column as is.
type FulfillParams struct {
	SellID     int64
	UserID     int64
	ProductIDs []int64
	Metadata   json.RawMessage
	OrderData  json.RawMessage
	PaidAt     time.Time
}
