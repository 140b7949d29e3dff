package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Cheertaboi/loyalty-billing-service/internal/models"
)

const roleColumns = `id, role_name, credit_worth, created_at, updated_at`

type RoleRepo struct {
	db *sqlx.DB
}

func NewRoleRepo(db *sqlx.DB) *RoleRepo {
	return &RoleRepo{db: db}
}

func (r *RoleRepo) List(ctx context.Context) ([]models.CustomerRole, error) {
	roles := []models.CustomerRole{}
	query := `SELECT ` + roleColumns + ` FROM customer_roles ORDER BY created_at DESC`
	if err := sqlx.SelectContext(ctx, r.db, &roles, query); err != nil {
		return nil, classify(err, "list roles")
	}
	return roles, nil
}

func (r *RoleRepo) Get(ctx context.Context, id uuid.UUID) (*models.CustomerRole, error) {
	var role models.CustomerRole
	query := `SELECT ` + roleColumns + ` FROM customer_roles WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.db, &role, query, id); err != nil {
		return nil, classify(err, "get role")
	}
	return &role, nil
}

func (r *RoleRepo) GetByName(ctx context.Context, name string) (*models.CustomerRole, error) {
	var role models.CustomerRole
	query := `SELECT ` + roleColumns + ` FROM customer_roles WHERE role_name = $1`
	if err := sqlx.GetContext(ctx, r.db, &role, query, name); err != nil {
		return nil, classify(err, "get role by name")
	}
	return &role, nil
}

func (r *RoleRepo) Create(ctx context.Context, role *models.CustomerRole) error {
	query := `
		INSERT INTO customer_roles (id, role_name, credit_worth, created_at, updated_at)
		VALUES (:id, :role_name, :credit_worth, :created_at, :updated_at)
	`
	_, err := r.db.NamedExecContext(ctx, query, role)
	return classify(err, "create role")
}

func (r *RoleRepo) Update(ctx context.Context, role *models.CustomerRole) error {
	query := `
		UPDATE customer_roles
		SET role_name = :role_name, credit_worth = :credit_worth, updated_at = :updated_at
		WHERE id = :id
	`
	res, err := r.db.NamedExecContext(ctx, query, role)
	if err != nil {
		return classify(err, "update role")
	}
	return expectRow(res, "update role")
}

func (r *RoleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customer_roles WHERE id = $1`, id)
	if err != nil {
		return classify(err, "delete role")
	}
	return expectRow(res, "delete role")
}

// HeldByCustomers reports whether any customer is assigned roleName.
func (r *RoleRepo) HeldByCustomers(ctx context.Context, roleName string) (bool, error) {
	var held bool
	query := `SELECT EXISTS (SELECT 1 FROM customers WHERE role = $1)`
	if err := sqlx.GetContext(ctx, r.db, &held, query, roleName); err != nil {
		return false, classify(err, "check role holders")
	}
	return held, nil
}

// expectRow turns a statement that touched no row into ErrNotFound.
func expectRow(res sql.Result, msg string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, msg)
	}
	if n == 0 {
		return errors.Wrap(models.ErrNotFound, msg)
	}
	return nil
}
