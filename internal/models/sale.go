package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentUPI    PaymentMethod = "upi"
	PaymentCard   PaymentMethod = "card"
	PaymentCash   PaymentMethod = "cash"
	PaymentCredit PaymentMethod = "loan/credit"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentUPI, PaymentCard, PaymentCash, PaymentCredit:
		return true
	}
	return false
}

// SaleItemsVersion is the current layout of the items_purchased document.
const SaleItemsVersion = 1

// SaleItem is the frozen copy of one cart line at settlement time.
type SaleItem struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
	Credit      decimal.Decimal `json:"credit"`
}

// SaleItems is the versioned snapshot stored in sales.items_purchased.
type SaleItems struct {
	Version       int             `json:"version"`
	Items         []SaleItem      `json:"items"`
	CreditsUsed   decimal.Decimal `json:"credits_used"`
	CreditsEarned decimal.Decimal `json:"credits_earned"`
}

func (s SaleItems) Value() (driver.Value, error) {
	if s.Version == 0 {
		s.Version = SaleItemsVersion
	}
	return json.Marshal(s)
}

func (s *SaleItems) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("sale items: unsupported source type %T", src)
	}
	var out SaleItems
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("sale items: %w", err)
	}
	if out.Version != SaleItemsVersion {
		return fmt.Errorf("sale items: unsupported snapshot version %d", out.Version)
	}
	*s = out
	return nil
}

type Sale struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	CustomerID     uuid.UUID       `db:"customer_id" json:"customer_id"`
	PhoneNumber    string          `db:"phone_number" json:"phone_number"`
	CompanyName    string          `db:"company_name" json:"company_name,omitempty"`
	IndividualName string          `db:"individual_name" json:"individual_name"`
	GSTNumber      string          `db:"gst_number" json:"gst_number,omitempty"`
	Items          SaleItems       `db:"items_purchased" json:"items_purchased"`
	PaymentMethod  PaymentMethod   `db:"payment_method" json:"payment_method"`
	OriginalAmount decimal.Decimal `db:"original_amount" json:"original_amount"`
	TotalAmount    decimal.Decimal `db:"total_amount" json:"total_amount"`
	CreditUsed     decimal.Decimal `db:"credit_used" json:"credit_used"`
	CreditEarned   decimal.Decimal `db:"credit_earned" json:"credit_earned"`
	SalesMadeBy    string          `db:"sales_made_by" json:"sales_made_by"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}
