package models

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SettlementTx is the set of writes a settlement performs inside one
// transaction scope.
type SettlementTx interface {
	// LockCustomerByPhone reads the authoritative customer row and holds it
	// until the transaction ends.
	LockCustomerByPhone(ctx context.Context, phone string) (*Customer, error)
	CreateSale(ctx context.Context, sale *Sale) error
	// AdjustCustomerCredit adds delta to the stored balance in a single
	// statement. It fails with ErrInsufficientBalance instead of going negative.
	AdjustCustomerCredit(ctx context.Context, customerID uuid.UUID, delta decimal.Decimal) (*Customer, error)
}

// TxRunner runs fn in a transaction: all of fn's writes become visible
// together when fn returns nil, none of them otherwise.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(tx SettlementTx) error) error
}
