package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/loyalty-billing-service/internal/models"
)

const customerColumns = `id, company_name, individual_name, gst_number, phone_number, role,
		total_credit, created_at, updated_at`

type CustomerRepo struct {
	db *sqlx.DB
}

func NewCustomerRepo(db *sqlx.DB) *CustomerRepo {
	return &CustomerRepo{db: db}
}

func (r *CustomerRepo) FindByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	var c models.Customer
	query := `SELECT ` + customerColumns + ` FROM customers WHERE phone_number = $1`
	if err := sqlx.GetContext(ctx, r.db, &c, query, phone); err != nil {
		return nil, classify(err, "find customer by phone")
	}
	return &c, nil
}

func (r *CustomerRepo) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var c models.Customer
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.db, &c, query, id); err != nil {
		return nil, classify(err, "get customer")
	}
	return &c, nil
}

func (r *CustomerRepo) Create(ctx context.Context, c *models.Customer) error {
	query := `
		INSERT INTO customers
		(id, company_name, individual_name, gst_number, phone_number, role, total_credit, created_at, updated_at)
		VALUES (:id, :company_name, :individual_name, :gst_number, :phone_number, :role, :total_credit, :created_at, :updated_at)
	`
	_, err := r.db.NamedExecContext(ctx, query, c)
	return classify(err, "create customer")
}

func (r *CustomerRepo) AdjustCredit(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (*models.Customer, error) {
	return adjustCredit(ctx, r.db, id, delta)
}

// adjustCredit adds delta to the balance in one statement, so concurrent
// adjustments never overwrite each other. The WHERE clause refuses to take
// the balance below zero.
func adjustCredit(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID, delta decimal.Decimal) (*models.Customer, error) {
	var c models.Customer
	query := `
		UPDATE customers
		SET total_credit = total_credit + $2,
		    updated_at = NOW()
		WHERE id = $1 AND total_credit + $2 >= 0
		RETURNING ` + customerColumns
	err := sqlx.GetContext(ctx, q, &c, query, id, delta)
	if err == nil {
		return &c, nil
	}
	err = classify(err, "adjust customer credit")
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	// no row updated: either the customer is missing or the guard refused
	var exists bool
	if err := sqlx.GetContext(ctx, q, &exists, `SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)`, id); err != nil {
		return nil, classify(err, "check customer")
	}
	if exists {
		return nil, errors.Wrap(models.ErrInsufficientBalance, "adjust customer credit")
	}
	return nil, errors.Wrap(models.ErrNotFound, "adjust customer credit")
}
