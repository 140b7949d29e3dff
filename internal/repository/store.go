package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/loyalty-billing-service/internal/models"
)

// Postgres error codes the repositories react to.
const (
	codeForeignKeyViolation  = "23503"
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// classify maps driver errors onto the models sentinels and adds msg as
// context.
func classify(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Wrap(models.ErrNotFound, msg)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeUniqueViolation:
			return errors.Wrapf(models.ErrDuplicate, "%s: %s", msg, pqErr.Constraint)
		case codeForeignKeyViolation:
			return errors.Wrapf(models.ErrInUse, "%s: %s", msg, pqErr.Constraint)
		case codeCheckViolation:
			return errors.Wrap(models.ErrInsufficientBalance, msg)
		case codeSerializationFailure, codeDeadlockDetected:
			return errors.Wrap(models.ErrTxConflict, msg)
		}
	}
	return errors.Wrap(err, msg)
}

// Store runs settlement transactions against Postgres.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// WithinTx begins a READ COMMITTED transaction. Settlement reads lock the
// customer row with SELECT ... FOR UPDATE, so concurrent settlements for one
// customer queue on that row.
func (s *Store) WithinTx(ctx context.Context, fn func(tx models.SettlementTx) error) error {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return classify(err, "begin tx")
	}
	// ensure rollback on any exit
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(&settlementTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return classify(err, "tx commit")
	}
	committed = true
	return nil
}

type settlementTx struct {
	tx *sqlx.Tx
}

func (t *settlementTx) LockCustomerByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	var c models.Customer
	query := `SELECT ` + customerColumns + ` FROM customers WHERE phone_number = $1 FOR UPDATE`
	if err := sqlx.GetContext(ctx, t.tx, &c, query, phone); err != nil {
		return nil, classify(err, "lock customer")
	}
	return &c, nil
}

func (t *settlementTx) CreateSale(ctx context.Context, sale *models.Sale) error {
	return insertSale(ctx, t.tx, sale)
}

func (t *settlementTx) AdjustCustomerCredit(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (*models.Customer, error) {
	return adjustCredit(ctx, t.tx, id, delta)
}
