package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/loyalty-billing-service/internal/models"
	"github.com/Cheertaboi/loyalty-billing-service/internal/repository/memory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type recordingNotifier struct {
	mu    sync.Mutex
	sales []models.Sale
	err   error
}

func (n *recordingNotifier) NotifySale(_ context.Context, sale models.Sale, _ models.Customer) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sales = append(n.sales, sale)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sales)
}

type fixture struct {
	store      *memory.Store
	catalog    *CatalogService
	customers  *CustomerService
	carts      *CartService
	settlement *SettlementService
	sales      *SalesService
	notifier   *recordingNotifier
	logs       *test.Hook
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	store := memory.New()
	catalog := NewCatalogService(store.Products(), store.Roles(), time.Minute, log)
	notifier := &recordingNotifier{}
	return &fixture{
		store:      store,
		catalog:    catalog,
		customers:  NewCustomerService(store.Customers(), catalog, "regular", log),
		carts:      NewCartService(store.Customers(), catalog),
		settlement: NewSettlementService(store, notifier, SettlementConfig{MaxRetries: 3}, log),
		sales:      NewSalesService(store.Sales(), store.Customers()),
		notifier:   notifier,
		logs:       hook,
	}
}

func (f *fixture) role(t *testing.T, name, worth string) models.CustomerRole {
	t.Helper()
	r, err := f.catalog.CreateRole(context.Background(), RoleInput{RoleName: name, CreditWorth: d(worth)})
	require.NoError(t, err)
	return *r
}

func (f *fixture) product(t *testing.T, name, price string, rules models.RewardRules) models.Product {
	t.Helper()
	p, err := f.catalog.CreateProduct(context.Background(), ProductInput{Name: name, Price: d(price), RewardRules: rules})
	require.NoError(t, err)
	return *p
}

func (f *fixture) customer(t *testing.T, phone, role, balance string) models.Customer {
	t.Helper()
	ctx := context.Background()
	c, err := f.customers.Register(ctx, RegisterCustomerInput{IndividualName: "Test " + phone, PhoneNumber: phone, Role: role})
	require.NoError(t, err)
	if b := d(balance); !b.IsZero() {
		c, err = f.customers.AdjustCredit(ctx, c.ID, b)
		require.NoError(t, err)
	}
	return *c
}

func (f *fixture) balance(t *testing.T, phone string) decimal.Decimal {
	t.Helper()
	c, err := f.customers.FindByPhone(context.Background(), phone)
	require.NoError(t, err)
	return c.TotalCredit
}

func rule(threshold int, award string) models.RewardRule {
	return models.RewardRule{ThresholdQuantity: threshold, CreditAward: d(award)}
}
