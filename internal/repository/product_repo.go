package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Cheertaboi/loyalty-billing-service/internal/models"
)

const productColumns = `id, name_of_product, price, reward_rules, created_at, updated_at`

type ProductRepo struct {
	db *sqlx.DB
}

func NewProductRepo(db *sqlx.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

func (r *ProductRepo) List(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`
	if err := sqlx.SelectContext(ctx, r.db, &products, query); err != nil {
		return nil, classify(err, "list products")
	}
	return products, nil
}

func (r *ProductRepo) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.db, &p, query, id); err != nil {
		return nil, classify(err, "get product")
	}
	return &p, nil
}

func (r *ProductRepo) Create(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (id, name_of_product, price, reward_rules, created_at, updated_at)
		VALUES (:id, :name_of_product, :price, :reward_rules, :created_at, :updated_at)
	`
	_, err := r.db.NamedExecContext(ctx, query, p)
	return classify(err, "create product")
}

func (r *ProductRepo) Update(ctx context.Context, p *models.Product) error {
	query := `
		UPDATE products
		SET name_of_product = :name_of_product,
		    price = :price,
		    reward_rules = :reward_rules,
		    updated_at = :updated_at
		WHERE id = :id
	`
	res, err := r.db.NamedExecContext(ctx, query, p)
	if err != nil {
		return classify(err, "update product")
	}
	return expectRow(res, "update product")
}

func (r *ProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return classify(err, "delete product")
	}
	return expectRow(res, "delete product")
}

// RoleInUse reports whether any product carries a reward rule for roleName.
func (r *ProductRepo) RoleInUse(ctx context.Context, roleName string) (bool, error) {
	var used bool
	query := `SELECT EXISTS (SELECT 1 FROM products WHERE reward_rules ? $1)`
	if err := sqlx.GetContext(ctx, r.db, &used, query, roleName); err != nil {
		return false, classify(err, "check role usage")
	}
	return used, nil
}
