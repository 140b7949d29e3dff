package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Cheertaboi/loyalty-billing-service/internal/models"
)

type StaffRepo struct {
	db *sqlx.DB
}

func NewStaffRepo(db *sqlx.DB) *StaffRepo {
	return &StaffRepo{db: db}
}

func (r *StaffRepo) List(ctx context.Context) ([]models.SalesStaff, error) {
	staff := []models.SalesStaff{}
	query := `
		SELECT id, name, phone_number, adhaar_card_number, address, created_at
		FROM sales_staff
		ORDER BY created_at DESC
	`
	if err := sqlx.SelectContext(ctx, r.db, &staff, query); err != nil {
		return nil, classify(err, "list sales staff")
	}
	return staff, nil
}

func (r *StaffRepo) Create(ctx context.Context, s *models.SalesStaff) error {
	query := `
		INSERT INTO sales_staff (id, name, phone_number, adhaar_card_number, address, created_at)
		VALUES (:id, :name, :phone_number, :adhaar_card_number, :address, :created_at)
	`
	_, err := r.db.NamedExecContext(ctx, query, s)
	return classify(err, "create sales staff")
}

func (r *StaffRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sales_staff WHERE id = $1`, id)
	if err != nil {
		return classify(err, "delete sales staff")
	}
	return expectRow(res, "delete sales staff")
}
