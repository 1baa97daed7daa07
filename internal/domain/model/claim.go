package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TypeGood tells whether a claim is about a product or a service.
type TypeGood int

const (
	TypeGoodProduct TypeGood = 1
	TypeGoodService TypeGood = 2
)

func (t TypeGood) String() string {
	if t == TypeGoodService {
		return "Servicio"
	}
	return "Producto"
}

// Claim is a consumer complaint record.
type Claim struct {
	ID          int64
	Date        time.Time
	Name        string
	Address     string
	DNI         string
	Email       string
	Phone       string
	IsMinor     bool
	ProxyName   string
	TypeGood    TypeGood
	ClaimAmount decimal.Decimal
	Description string
	ClaimDetail string
	Request     string
	Document    []byte
	CreatedAt   time.Time
}
