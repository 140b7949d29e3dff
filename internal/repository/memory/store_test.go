package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/loyalty-billing-service/internal/models"
)

func seedCustomer(t *testing.T, s *Store, phone, balance string) models.Customer {
	t.Helper()
	c := models.Customer{
		ID:          uuid.New(),
		PhoneNumber: phone,
		Role:        "regular",
		TotalCredit: decimal.RequireFromString(balance),
		CreatedAt:   time.Now(),
	}
	require.NoError(t, s.Customers().Create(context.Background(), &c))
	return c
}

func TestWithinTxCommits(t *testing.T) {
	s := New()
	c := seedCustomer(t, s, "9876543210", "10")
	ctx := context.Background()

	err := s.WithinTx(ctx, func(tx models.SettlementTx) error {
		locked, err := tx.LockCustomerByPhone(ctx, "9876543210")
		if err != nil {
			return err
		}
		sale := models.Sale{ID: uuid.New(), CustomerID: locked.ID, PhoneNumber: locked.PhoneNumber}
		if err := tx.CreateSale(ctx, &sale); err != nil {
			return err
		}
		_, err = tx.AdjustCustomerCredit(ctx, locked.ID, decimal.RequireFromString("-4"))
		return err
	})
	require.NoError(t, err)

	got, err := s.Customers().Get(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("6").Equal(got.TotalCredit))
	assert.Equal(t, 1, s.Sales().Count())
}

func TestWithinTxRollsBack(t *testing.T) {
	s := New()
	c := seedCustomer(t, s, "9876543210", "10")
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(tx models.SettlementTx) error {
		if _, err := tx.AdjustCustomerCredit(ctx, c.ID, decimal.RequireFromString("5")); err != nil {
			return err
		}
		if err := tx.CreateSale(ctx, &models.Sale{ID: uuid.New(), PhoneNumber: c.PhoneNumber}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Customers().Get(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("10").Equal(got.TotalCredit))
	assert.Equal(t, 0, s.Sales().Count())
}

func TestWithinTxHookAborts(t *testing.T) {
	s := New()
	seedCustomer(t, s, "9876543210", "10")
	s.SetHooks(Hooks{AfterCreateSale: func() error { return models.ErrTxConflict }})

	err := s.WithinTx(context.Background(), func(tx models.SettlementTx) error {
		return tx.CreateSale(context.Background(), &models.Sale{ID: uuid.New()})
	})
	assert.ErrorIs(t, err, models.ErrTxConflict)
	assert.Equal(t, 0, s.Sales().Count())
}

func TestWithinTxCancelled(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.WithinTx(ctx, func(models.SettlementTx) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestAdjustRejectsNegativeBalance(t *testing.T) {
	s := New()
	c := seedCustomer(t, s, "9876543210", "3")

	_, err := s.Customers().AdjustCredit(context.Background(), c.ID, decimal.RequireFromString("-3.01"))
	assert.ErrorIs(t, err, models.ErrInsufficientBalance)

	got, err := s.Customers().AdjustCredit(context.Background(), c.ID, decimal.RequireFromString("-3"))
	require.NoError(t, err)
	assert.True(t, got.TotalCredit.IsZero())

	_, err = s.Customers().AdjustCredit(context.Background(), uuid.New(), decimal.RequireFromString("1"))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestLockUnknownCustomer(t *testing.T) {
	s := New()
	err := s.WithinTx(context.Background(), func(tx models.SettlementTx) error {
		_, err := tx.LockCustomerByPhone(context.Background(), "0000000000")
		return err
	})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestProductRulesAreCopied(t *testing.T) {
	s := New()
	ctx := context.Background()
	rules := models.RewardRules{"regular": {ThresholdQuantity: 2, CreditAward: decimal.NewFromInt(1)}}
	p := models.Product{ID: uuid.New(), Name: "nails", Price: decimal.NewFromInt(3), RewardRules: rules}
	require.NoError(t, s.Products().Create(ctx, &p))

	rules["regular"] = models.RewardRule{ThresholdQuantity: 99}
	got, err := s.Products().Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.RewardRules["regular"].ThresholdQuantity)

	inUse, err := s.Products().RoleInUse(ctx, "regular")
	require.NoError(t, err)
	assert.True(t, inUse)
	inUse, err = s.Products().RoleInUse(ctx, "wholesale")
	require.NoError(t, err)
	assert.False(t, inUse)
}

func TestDuplicates(t *testing.T) {
	s := New()
	ctx := context.Background()
	seedCustomer(t, s, "9876543210", "0")

	dup := models.Customer{ID: uuid.New(), PhoneNumber: "9876543210"}
	assert.ErrorIs(t, s.Customers().Create(ctx, &dup), models.ErrDuplicate)

	role := models.CustomerRole{ID: uuid.New(), RoleName: "regular", CreditWorth: decimal.NewFromInt(1)}
	require.NoError(t, s.Roles().Create(ctx, &role))
	again := models.CustomerRole{ID: uuid.New(), RoleName: "regular"}
	assert.ErrorIs(t, s.Roles().Create(ctx, &again), models.ErrDuplicate)
}

func TestRoleDeleteHeldByCustomer(t *testing.T) {
	s := New()
	ctx := context.Background()
	role := models.CustomerRole{ID: uuid.New(), RoleName: "regular", CreditWorth: decimal.NewFromInt(1)}
	require.NoError(t, s.Roles().Create(ctx, &role))
	spare := models.CustomerRole{ID: uuid.New(), RoleName: "wholesale", CreditWorth: decimal.NewFromInt(2)}
	require.NoError(t, s.Roles().Create(ctx, &spare))
	seedCustomer(t, s, "9876543210", "0")

	held, err := s.Roles().HeldByCustomers(ctx, "regular")
	require.NoError(t, err)
	assert.True(t, held)
	assert.ErrorIs(t, s.Roles().Delete(ctx, role.ID), models.ErrInUse)

	held, err = s.Roles().HeldByCustomers(ctx, "wholesale")
	require.NoError(t, err)
	assert.False(t, held)
	assert.NoError(t, s.Roles().Delete(ctx, spare.ID))
}
