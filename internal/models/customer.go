package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerRole prices one unit of credit for all customers holding the role.
type CustomerRole struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	RoleName    string          `db:"role_name" json:"role_name"`
	CreditWorth decimal.Decimal `db:"credit_worth" json:"credit_worth"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

type Customer struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	CompanyName    string          `db:"company_name" json:"company_name,omitempty"`
	IndividualName string          `db:"individual_name" json:"individual_name"`
	GSTNumber      string          `db:"gst_number" json:"gst_number,omitempty"`
	PhoneNumber    string          `db:"phone_number" json:"phone_number"`
	Role           string          `db:"role" json:"role"`
	TotalCredit    decimal.Decimal `db:"total_credit" json:"total_credit"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

type SalesStaff struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	PhoneNumber   string    `db:"phone_number" json:"phone_number"`
	AadhaarNumber string    `db:"adhaar_card_number" json:"adhaar_card_number"`
	Address       string    `db:"address" json:"address"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
