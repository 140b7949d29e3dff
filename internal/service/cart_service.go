package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/loyalty-billing-service/internal/models"
)

// CatalogLookup resolves products and roles. Reads only.
type CatalogLookup interface {
	GetProduct(ctx context.Context, id uuid.UUID) (models.Product, error)
	GetRole(ctx context.Context, name string) (models.CustomerRole, error)
}

type CustomerFinder interface {
	FindByPhone(ctx context.Context, phone string) (*models.Customer, error)
}

type ItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type CartRequest struct {
	PhoneNumber   string          `json:"phone_number"`
	Items         []ItemRequest   `json:"items"`
	ApplyCredit   bool            `json:"apply_credit"`
	CreditToApply decimal.Decimal `json:"credit_to_apply"`
}

// CartService assembles carts from product ids and quantities.
type CartService struct {
	customers CustomerFinder
	catalog   CatalogLookup
}

func NewCartService(customers CustomerFinder, catalog CatalogLookup) *CartService {
	return &CartService{customers: customers, catalog: catalog}
}

// BuildCart resolves the customer, its role and every product, then adds
// the items in request order.
func (s *CartService) BuildCart(ctx context.Context, req CartRequest) (*Cart, error) {
	if req.PhoneNumber == "" {
		return nil, invalid("phone_number", "required")
	}
	if len(req.Items) == 0 {
		return nil, invalidErr("items", ErrEmptyCart)
	}

	customer, err := s.customers.FindByPhone(ctx, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, &NotFoundError{Entity: "customer", Key: req.PhoneNumber}
		}
		return nil, persistence("find customer", err)
	}

	role, err := s.catalog.GetRole(ctx, customer.Role)
	if err != nil {
		return nil, err
	}

	cart, err := NewCart(*customer, role)
	if err != nil {
		return nil, err
	}
	for _, item := range req.Items {
		product, err := s.catalog.GetProduct(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if err := cart.AddItem(product, item.Quantity); err != nil {
			return nil, err
		}
	}
	if err := cart.SetCreditRequest(req.ApplyCredit, req.CreditToApply); err != nil {
		return nil, err
	}
	return cart, nil
}
