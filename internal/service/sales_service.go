package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Cheertaboi/loyalty-billing-service/internal/models"
)

type SaleRepo interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	ListByPhone(ctx context.Context, phone string) ([]models.Sale, error)
}

// SalesService reads committed sales. Sales are only written by
// SettlementService.
type SalesService struct {
	sales     SaleRepo
	customers CustomerRepo
}

func NewSalesService(sales SaleRepo, customers CustomerRepo) *SalesService {
	return &SalesService{sales: sales, customers: customers}
}

func (s *SalesService) Get(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	sale, err := s.sales.Get(ctx, id)
	if err != nil {
		return nil, lookupErr("sale", id.String(), err)
	}
	return sale, nil
}

func (s *SalesService) ListByPhone(ctx context.Context, phone string) ([]models.Sale, error) {
	if phone == "" {
		return nil, invalid("phone", "required")
	}
	out, err := s.sales.ListByPhone(ctx, phone)
	if err != nil {
		return nil, persistence("list sales", err)
	}
	return out, nil
}

// WithCustomer returns the sale and the customer it was made for.
func (s *SalesService) WithCustomer(ctx context.Context, id uuid.UUID) (*models.Sale, *models.Customer, error) {
	sale, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	c, err := s.customers.Get(ctx, sale.CustomerID)
	if err != nil {
		return nil, nil, lookupErr("customer", sale.CustomerID.String(), err)
	}
	return sale, c, nil
}
