package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Cheertaboi/loyalty-billing-service/internal/models"
)

const saleColumns = `id, customer_id, phone_number, company_name, individual_name, gst_number,
		items_purchased, payment_method, original_amount, total_amount, credit_used,
		credit_earned, sales_made_by, created_at`

type SaleRepo struct {
	db *sqlx.DB
}

func NewSaleRepo(db *sqlx.DB) *SaleRepo {
	return &SaleRepo{db: db}
}

func (r *SaleRepo) Get(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	var s models.Sale
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.db, &s, query, id); err != nil {
		return nil, classify(err, "get sale")
	}
	return &s, nil
}

func (r *SaleRepo) ListByPhone(ctx context.Context, phone string) ([]models.Sale, error) {
	sales := []models.Sale{}
	query := `SELECT ` + saleColumns + ` FROM sales WHERE phone_number = $1 ORDER BY created_at DESC`
	if err := sqlx.SelectContext(ctx, r.db, &sales, query, phone); err != nil {
		return nil, classify(err, "list sales")
	}
	return sales, nil
}

// insertSale writes the sale row. Sales are never updated afterwards.
func insertSale(ctx context.Context, e sqlx.ExtContext, s *models.Sale) error {
	query := `
		INSERT INTO sales
		(id, customer_id, phone_number, company_name, individual_name, gst_number,
		 items_purchased, payment_method, original_amount, total_amount, credit_used,
		 credit_earned, sales_made_by, created_at)
		VALUES (:id, :customer_id, :phone_number, :company_name, :individual_name, :gst_number,
		 :items_purchased, :payment_method, :original_amount, :total_amount, :credit_used,
		 :credit_earned, :sales_made_by, :created_at)
	`
	_, err := sqlx.NamedExecContext(ctx, e, query, s)
	return classify(err, "create sale")
}
