package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Cheertaboi/loyalty-billing-service/internal/cache"
	"github.com/Cheertaboi/loyalty-billing-service/internal/models"
)

type ProductRepo interface {
	List(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	RoleInUse(ctx context.Context, roleName string) (bool, error)
}

type RoleRepo interface {
	List(ctx context.Context) ([]models.CustomerRole, error)
	Get(ctx context.Context, id uuid.UUID) (*models.CustomerRole, error)
	GetByName(ctx context.Context, name string) (*models.CustomerRole, error)
	Create(ctx context.Context, r *models.CustomerRole) error
	Update(ctx context.Context, r *models.CustomerRole) error
	Delete(ctx context.Context, id uuid.UUID) error
	HeldByCustomers(ctx context.Context, roleName string) (bool, error)
}

type ProductInput struct {
	Name        string             `json:"name_of_product"`
	Price       decimal.Decimal    `json:"price"`
	RewardRules models.RewardRules `json:"credit_per_role"`
}

type RoleInput struct {
	RoleName    string          `json:"role_name"`
	CreditWorth decimal.Decimal `json:"credit_worth"`
}

// CatalogService manages products and customer roles and serves cached
// lookups to the cart builder.
type CatalogService struct {
	products ProductRepo
	roles    RoleRepo
	log      logrus.FieldLogger

	productCache *cache.TTLCache[uuid.UUID, models.Product]
	roleCache    *cache.TTLCache[string, models.CustomerRole]
}

func NewCatalogService(products ProductRepo, roles RoleRepo, ttl time.Duration, log logrus.FieldLogger) *CatalogService {
	return &CatalogService{
		products:     products,
		roles:        roles,
		log:          log,
		productCache: cache.NewTTLCache[uuid.UUID, models.Product](ttl),
		roleCache:    cache.NewTTLCache[string, models.CustomerRole](ttl),
	}
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (models.Product, error) {
	if p, ok := s.productCache.Get(id); ok {
		return p, nil
	}
	p, err := s.products.Get(ctx, id)
	if err != nil {
		return models.Product{}, lookupErr("product", id.String(), err)
	}
	s.productCache.Set(id, *p)
	return *p, nil
}

func (s *CatalogService) GetRole(ctx context.Context, name string) (models.CustomerRole, error) {
	if r, ok := s.roleCache.Get(name); ok {
		return r, nil
	}
	r, err := s.roles.GetByName(ctx, name)
	if err != nil {
		return models.CustomerRole{}, lookupErr("role", name, err)
	}
	s.roleCache.Set(name, *r)
	return *r, nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	out, err := s.products.List(ctx)
	if err != nil {
		return nil, persistence("list products", err)
	}
	return out, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := s.validateProduct(ctx, &in); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p := &models.Product{
		ID:          uuid.New(),
		Name:        in.Name,
		Price:       in.Price,
		RewardRules: in.RewardRules,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.products.Create(ctx, p); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return nil, invalid("name_of_product", "a product with this name already exists")
		}
		return nil, persistence("create product", err)
	}
	s.log.WithField("product_id", p.ID).Info("product created")
	return p, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, in ProductInput) (*models.Product, error) {
	if err := s.validateProduct(ctx, &in); err != nil {
		return nil, err
	}
	p, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, lookupErr("product", id.String(), err)
	}
	p.Name = in.Name
	p.Price = in.Price
	p.RewardRules = in.RewardRules
	p.UpdatedAt = time.Now().UTC()
	if err := s.products.Update(ctx, p); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return nil, invalid("name_of_product", "a product with this name already exists")
		}
		return nil, lookupErr("product", id.String(), err)
	}
	s.productCache.Delete(id)
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return lookupErr("product", id.String(), err)
	}
	s.productCache.Delete(id)
	return nil
}

func (s *CatalogService) validateProduct(ctx context.Context, in *ProductInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return invalid("name_of_product", "required")
	}
	if in.Price.IsNegative() {
		return invalid("price", "must not be negative")
	}
	in.Price = models.RoundMoney(in.Price)
	if in.RewardRules == nil {
		in.RewardRules = models.RewardRules{}
	}
	if err := in.RewardRules.Validate(); err != nil {
		return invalid("credit_per_role", err.Error())
	}
	for role := range in.RewardRules {
		if _, err := s.GetRole(ctx, role); err != nil {
			var nf *NotFoundError
			if errors.As(err, &nf) {
				return invalid("credit_per_role", "unknown role "+role)
			}
			return err
		}
	}
	return nil
}

func (s *CatalogService) ListRoles(ctx context.Context) ([]models.CustomerRole, error) {
	out, err := s.roles.List(ctx)
	if err != nil {
		return nil, persistence("list roles", err)
	}
	return out, nil
}

func (s *CatalogService) GetRoleByID(ctx context.Context, id uuid.UUID) (*models.CustomerRole, error) {
	r, err := s.roles.Get(ctx, id)
	if err != nil {
		return nil, lookupErr("role", id.String(), err)
	}
	return r, nil
}

func (s *CatalogService) CreateRole(ctx context.Context, in RoleInput) (*models.CustomerRole, error) {
	if err := validateRole(&in); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	r := &models.CustomerRole{
		ID:          uuid.New(),
		RoleName:    in.RoleName,
		CreditWorth: in.CreditWorth,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.roles.Create(ctx, r); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return nil, invalid("role_name", "a role with this name already exists")
		}
		return nil, persistence("create role", err)
	}
	return r, nil
}

// UpdateRole changes the credit worth and, while no product references the
// role, its name.
func (s *CatalogService) UpdateRole(ctx context.Context, id uuid.UUID, in RoleInput) (*models.CustomerRole, error) {
	if err := validateRole(&in); err != nil {
		return nil, err
	}
	r, err := s.roles.Get(ctx, id)
	if err != nil {
		return nil, lookupErr("role", id.String(), err)
	}
	oldName := r.RoleName
	if in.RoleName != oldName {
		used, err := s.products.RoleInUse(ctx, oldName)
		if err != nil {
			return nil, persistence("check role usage", err)
		}
		if used {
			return nil, invalid("role_name", "cannot rename a role that is in use by one or more products")
		}
	}
	r.RoleName = in.RoleName
	r.CreditWorth = in.CreditWorth
	r.UpdatedAt = time.Now().UTC()
	if err := s.roles.Update(ctx, r); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return nil, invalid("role_name", "a role with this name already exists")
		}
		return nil, lookupErr("role", id.String(), err)
	}
	s.roleCache.Delete(oldName)
	s.roleCache.Delete(r.RoleName)
	return r, nil
}

func (s *CatalogService) DeleteRole(ctx context.Context, id uuid.UUID) error {
	r, err := s.roles.Get(ctx, id)
	if err != nil {
		return lookupErr("role", id.String(), err)
	}
	used, err := s.products.RoleInUse(ctx, r.RoleName)
	if err != nil {
		return persistence("check role usage", err)
	}
	if used {
		return invalid("role", "cannot delete role as it is in use by one or more products")
	}
	held, err := s.roles.HeldByCustomers(ctx, r.RoleName)
	if err != nil {
		return persistence("check role holders", err)
	}
	if held {
		return invalid("role", roleHeldReason)
	}
	if err := s.roles.Delete(ctx, id); err != nil {
		// A customer can take the role between the check and the delete.
		if errors.Is(err, models.ErrInUse) {
			return invalid("role", roleHeldReason)
		}
		return lookupErr("role", id.String(), err)
	}
	s.roleCache.Delete(r.RoleName)
	return nil
}

const roleHeldReason = "cannot delete role as it is assigned to one or more customers"

func validateRole(in *RoleInput) error {
	in.RoleName = strings.TrimSpace(in.RoleName)
	if in.RoleName == "" {
		return invalid("role_name", "required")
	}
	in.CreditWorth = in.CreditWorth.Round(models.WorthPlaces)
	if !in.CreditWorth.IsPositive() {
		return invalid("credit_worth", "must be positive")
	}
	return nil
}

// lookupErr maps a repository error on a keyed read or write.
func lookupErr(entity, key string, err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return &NotFoundError{Entity: entity, Key: key}
	}
	return persistence(entity+" "+key, err)
}
