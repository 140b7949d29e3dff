package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Cheertaboi/loyalty-billing-service/internal/models"
)

var (
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
	gstPattern   = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z]{1}[1-9A-Z]{1}Z[0-9A-Z]{1}$`)
)

type CustomerRepo interface {
	CustomerFinder
	Get(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	Create(ctx context.Context, c *models.Customer) error
	AdjustCredit(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (*models.Customer, error)
}

type RegisterCustomerInput struct {
	CompanyName    string `json:"company_name"`
	IndividualName string `json:"individual_name"`
	GSTNumber      string `json:"gst_number"`
	PhoneNumber    string `json:"phone_number"`
	Role           string `json:"role"`
}

type CustomerService struct {
	customers   CustomerRepo
	catalog     CatalogLookup
	defaultRole string
	log         logrus.FieldLogger
}

// NewCustomerService registers customers under defaultRole when a
// registration names no role.
func NewCustomerService(customers CustomerRepo, catalog CatalogLookup, defaultRole string, log logrus.FieldLogger) *CustomerService {
	return &CustomerService{customers: customers, catalog: catalog, defaultRole: defaultRole, log: log}
}

func (s *CustomerService) Register(ctx context.Context, in RegisterCustomerInput) (*models.Customer, error) {
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.IndividualName = strings.TrimSpace(in.IndividualName)
	in.GSTNumber = strings.ToUpper(strings.TrimSpace(in.GSTNumber))
	if in.IndividualName == "" {
		return nil, invalid("individual_name", "required")
	}
	if !phonePattern.MatchString(in.PhoneNumber) {
		return nil, invalid("phone_number", "must be exactly 10 digits")
	}
	if in.GSTNumber != "" && !gstPattern.MatchString(in.GSTNumber) {
		return nil, invalid("gst_number", "invalid GST number format")
	}
	if in.Role == "" {
		in.Role = s.defaultRole
	}
	if _, err := s.catalog.GetRole(ctx, in.Role); err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return nil, invalid("role", "unknown role "+in.Role)
		}
		return nil, err
	}

	now := time.Now().UTC()
	c := &models.Customer{
		ID:             uuid.New(),
		CompanyName:    strings.TrimSpace(in.CompanyName),
		IndividualName: in.IndividualName,
		GSTNumber:      in.GSTNumber,
		PhoneNumber:    in.PhoneNumber,
		Role:           in.Role,
		TotalCredit:    decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.customers.Create(ctx, c); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return nil, invalid("phone_number", "a customer with this phone number already exists")
		}
		return nil, persistence("create customer", err)
	}
	s.log.WithFields(logrus.Fields{"customer_id": c.ID, "role": c.Role}).Info("customer registered")
	return c, nil
}

func (s *CustomerService) FindByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	c, err := s.customers.FindByPhone(ctx, phone)
	if err != nil {
		return nil, lookupErr("customer", phone, err)
	}
	return c, nil
}

func (s *CustomerService) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	c, err := s.customers.Get(ctx, id)
	if err != nil {
		return nil, lookupErr("customer", id.String(), err)
	}
	return c, nil
}

// AdjustCredit applies a manual credit change as a single delta update. A
// change that would leave a negative balance is rejected.
func (s *CustomerService) AdjustCredit(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (*models.Customer, error) {
	delta = models.RoundMoney(delta)
	c, err := s.customers.AdjustCredit(ctx, id, delta)
	if err != nil {
		if errors.Is(err, models.ErrInsufficientBalance) {
			available := decimal.Zero
			if cur, gerr := s.customers.Get(ctx, id); gerr == nil {
				available = cur.TotalCredit
			}
			return nil, &InsufficientCreditError{Requested: delta.Neg(), Available: available}
		}
		return nil, lookupErr("customer", id.String(), err)
	}
	s.log.WithFields(logrus.Fields{"customer_id": id, "delta": delta.StringFixed(2)}).Info("customer credit adjusted")
	return c, nil
}
