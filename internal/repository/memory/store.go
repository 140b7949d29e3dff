// Package memory keeps every repository in process memory. It backs the
// tests and local runs without Postgres, and honours the same transaction
// contract as the Postgres store.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/loyalty-billing-service/internal/models"
)

// Hooks inject failures into transactional writes.
type Hooks struct {
	// AfterCreateSale runs after the sale row is staged and before the
	// balance update. A non-nil error aborts the transaction.
	AfterCreateSale func() error
}

type Store struct {
	mu        sync.Mutex
	roles     map[uuid.UUID]models.CustomerRole
	products  map[uuid.UUID]models.Product
	customers map[uuid.UUID]models.Customer
	staff     map[uuid.UUID]models.SalesStaff
	sales     map[uuid.UUID]models.Sale
	hooks     Hooks
}

func New() *Store {
	return &Store{
		roles:     make(map[uuid.UUID]models.CustomerRole),
		products:  make(map[uuid.UUID]models.Product),
		customers: make(map[uuid.UUID]models.Customer),
		staff:     make(map[uuid.UUID]models.SalesStaff),
		sales:     make(map[uuid.UUID]models.Sale),
	}
}

func (s *Store) SetHooks(h Hooks) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = h
}

func (s *Store) Roles() *RoleRepo         { return &RoleRepo{s: s} }
func (s *Store) Products() *ProductRepo   { return &ProductRepo{s: s} }
func (s *Store) Customers() *CustomerRepo { return &CustomerRepo{s: s} }
func (s *Store) Staff() *StaffRepo        { return &StaffRepo{s: s} }
func (s *Store) Sales() *SaleRepo         { return &SaleRepo{s: s} }

// WithinTx holds the store lock for the whole of fn, so transactions are
// serialized. Customer and sale state is restored if fn fails.
func (s *Store) WithinTx(ctx context.Context, fn func(tx models.SettlementTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	customers := make(map[uuid.UUID]models.Customer, len(s.customers))
	for k, v := range s.customers {
		customers[k] = v
	}
	sales := make(map[uuid.UUID]models.Sale, len(s.sales))
	for k, v := range s.sales {
		sales[k] = v
	}

	if err := fn(&tx{s: s}); err != nil {
		s.customers = customers
		s.sales = sales
		return err
	}
	return nil
}

type tx struct {
	s *Store
}

func (t *tx) LockCustomerByPhone(_ context.Context, phone string) (*models.Customer, error) {
	c, ok := t.s.customerByPhone(phone)
	if !ok {
		return nil, models.ErrNotFound
	}
	return &c, nil
}

func (t *tx) CreateSale(_ context.Context, sale *models.Sale) error {
	if _, ok := t.s.sales[sale.ID]; ok {
		return models.ErrDuplicate
	}
	t.s.sales[sale.ID] = copySale(*sale)
	if t.s.hooks.AfterCreateSale != nil {
		return t.s.hooks.AfterCreateSale()
	}
	return nil
}

func (t *tx) AdjustCustomerCredit(_ context.Context, id uuid.UUID, delta decimal.Decimal) (*models.Customer, error) {
	return t.s.adjust(id, delta)
}

// adjust requires s.mu to be held.
func (s *Store) adjust(id uuid.UUID, delta decimal.Decimal) (*models.Customer, error) {
	c, ok := s.customers[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	next := c.TotalCredit.Add(delta)
	if next.IsNegative() {
		return nil, models.ErrInsufficientBalance
	}
	c.TotalCredit = next
	s.customers[id] = c
	return &c, nil
}

// customerByPhone requires s.mu to be held.
func (s *Store) customerByPhone(phone string) (models.Customer, bool) {
	for _, c := range s.customers {
		if c.PhoneNumber == phone {
			return c, true
		}
	}
	return models.Customer{}, false
}

func copySale(sale models.Sale) models.Sale {
	items := make([]models.SaleItem, len(sale.Items.Items))
	copy(items, sale.Items.Items)
	sale.Items.Items = items
	return sale
}

type RoleRepo struct{ s *Store }

func (r *RoleRepo) List(_ context.Context) ([]models.CustomerRole, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.CustomerRole, 0, len(r.s.roles))
	for _, v := range r.s.roles {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *RoleRepo) Get(_ context.Context, id uuid.UUID) (*models.CustomerRole, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.roles[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &v, nil
}

func (r *RoleRepo) GetByName(_ context.Context, name string) (*models.CustomerRole, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, v := range r.s.roles {
		if v.RoleName == name {
			return &v, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *RoleRepo) Create(_ context.Context, role *models.CustomerRole) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, v := range r.s.roles {
		if v.RoleName == role.RoleName {
			return models.ErrDuplicate
		}
	}
	r.s.roles[role.ID] = *role
	return nil
}

func (r *RoleRepo) Update(_ context.Context, role *models.CustomerRole) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.roles[role.ID]; !ok {
		return models.ErrNotFound
	}
	for id, v := range r.s.roles {
		if id != role.ID && v.RoleName == role.RoleName {
			return models.ErrDuplicate
		}
	}
	r.s.roles[role.ID] = *role
	return nil
}

func (r *RoleRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	role, ok := r.s.roles[id]
	if !ok {
		return models.ErrNotFound
	}
	if r.heldLocked(role.RoleName) {
		return models.ErrInUse
	}
	delete(r.s.roles, id)
	return nil
}

func (r *RoleRepo) HeldByCustomers(_ context.Context, roleName string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.heldLocked(roleName), nil
}

func (r *RoleRepo) heldLocked(roleName string) bool {
	for _, c := range r.s.customers {
		if c.Role == roleName {
			return true
		}
	}
	return false
}

type ProductRepo struct{ s *Store }

func (r *ProductRepo) List(_ context.Context) ([]models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.Product, 0, len(r.s.products))
	for _, v := range r.s.products {
		v.RewardRules = v.RewardRules.Clone()
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *ProductRepo) Get(_ context.Context, id uuid.UUID) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.products[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	v.RewardRules = v.RewardRules.Clone()
	return &v, nil
}

func (r *ProductRepo) Create(_ context.Context, p *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, v := range r.s.products {
		if v.Name == p.Name {
			return models.ErrDuplicate
		}
	}
	stored := *p
	stored.RewardRules = p.RewardRules.Clone()
	r.s.products[p.ID] = stored
	return nil
}

func (r *ProductRepo) Update(_ context.Context, p *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; !ok {
		return models.ErrNotFound
	}
	for id, v := range r.s.products {
		if id != p.ID && v.Name == p.Name {
			return models.ErrDuplicate
		}
	}
	stored := *p
	stored.RewardRules = p.RewardRules.Clone()
	r.s.products[p.ID] = stored
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

func (r *ProductRepo) RoleInUse(_ context.Context, roleName string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, v := range r.s.products {
		if _, ok := v.RewardRules[roleName]; ok {
			return true, nil
		}
	}
	return false, nil
}

type CustomerRepo struct{ s *Store }

func (r *CustomerRepo) FindByPhone(_ context.Context, phone string) (*models.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customerByPhone(phone)
	if !ok {
		return nil, models.ErrNotFound
	}
	return &c, nil
}

func (r *CustomerRepo) Get(_ context.Context, id uuid.UUID) (*models.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &c, nil
}

func (r *CustomerRepo) Create(_ context.Context, c *models.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customerByPhone(c.PhoneNumber); ok {
		return models.ErrDuplicate
	}
	r.s.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepo) AdjustCredit(_ context.Context, id uuid.UUID, delta decimal.Decimal) (*models.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.adjust(id, delta)
}

type StaffRepo struct{ s *Store }

func (r *StaffRepo) List(_ context.Context) ([]models.SalesStaff, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.SalesStaff, 0, len(r.s.staff))
	for _, v := range r.s.staff {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *StaffRepo) Create(_ context.Context, st *models.SalesStaff) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, v := range r.s.staff {
		if v.PhoneNumber == st.PhoneNumber || v.AadhaarNumber == st.AadhaarNumber {
			return models.ErrDuplicate
		}
	}
	r.s.staff[st.ID] = *st
	return nil
}

func (r *StaffRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.staff[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.s.staff, id)
	return nil
}

type SaleRepo struct{ s *Store }

func (r *SaleRepo) Get(_ context.Context, id uuid.UUID) (*models.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.sales[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	v = copySale(v)
	return &v, nil
}

func (r *SaleRepo) ListByPhone(_ context.Context, phone string) ([]models.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Sale{}
	for _, v := range r.s.sales {
		if v.PhoneNumber == phone {
			out = append(out, copySale(v))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Count returns the number of stored sales.
func (r *SaleRepo) Count() int {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.sales)
}
