package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Cheertaboi/loyalty-billing-service/internal/models"
)

type SettlementState string

const (
	StatePending   SettlementState = "pending"
	StateValidated SettlementState = "validated"
	StateCommitted SettlementState = "committed"
	StateRejected  SettlementState = "rejected"
)

// SaleNotifier is told about committed sales. Its errors never undo a sale.
type SaleNotifier interface {
	NotifySale(ctx context.Context, sale models.Sale, customer models.Customer) error
}

type SettlementRequest struct {
	Cart          *Cart
	PaymentMethod models.PaymentMethod
	SalesMadeBy   string
}

// Settlement is the outcome of a committed settlement.
type Settlement struct {
	Sale          models.Sale     `json:"sale"`
	CreditBefore  decimal.Decimal `json:"credit_before"`
	CreditAfter   decimal.Decimal `json:"credit_after"`
	NotifyWarning string          `json:"warning,omitempty"`
}

type SettlementConfig struct {
	MaxRetries  int
	SalesMadeBy string
}

// SettlementService turns a finalized cart into a persisted sale and the
// matching credit balance change, in one transaction.
type SettlementService struct {
	store    models.TxRunner
	notifier SaleNotifier
	cfg      SettlementConfig
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewSettlementService(store models.TxRunner, notifier SaleNotifier, cfg SettlementConfig, log logrus.FieldLogger) *SettlementService {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 1
	}
	if cfg.SalesMadeBy == "" {
		cfg.SalesMadeBy = "admin"
	}
	return &SettlementService{
		store:    store,
		notifier: notifier,
		cfg:      cfg,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Settle validates the request, then inside one transaction locks the
// customer row, re-checks the credit against the stored balance, inserts
// the sale and applies the balance delta. Transaction conflicts are retried
// from a fresh read.
func (s *SettlementService) Settle(ctx context.Context, req SettlementRequest) (*Settlement, error) {
	if err := validateSettlement(req); err != nil {
		s.log.WithError(err).WithField("state", StateRejected).Info("settlement rejected")
		return nil, err
	}

	customer := req.Cart.Customer()
	totals := req.Cart.Totals()
	log := s.log.WithFields(logrus.Fields{
		"phone":           customer.PhoneNumber,
		"payment_method":  req.PaymentMethod,
		"order_total":     totals.OrderTotal.StringFixed(2),
		"credit_to_apply": totals.CreditToApply.StringFixed(2),
		"credit_earned":   totals.TotalCreditEarned.StringFixed(2),
	})
	log.WithField("state", StatePending).Debug("settlement started")

	var (
		result  *Settlement
		updated *models.Customer
		err     error
	)
	for attempt := 1; attempt <= s.cfg.MaxRetries; attempt++ {
		result, updated, err = s.settleOnce(ctx, req, totals, log)
		if err == nil || !errors.Is(err, models.ErrTxConflict) {
			break
		}
		log.WithError(err).WithField("attempt", attempt).Warn("settlement conflict, retrying")
	}
	if err != nil {
		if !isDomainError(err) {
			err = persistence("settle sale", err)
		}
		var pe *PersistenceError
		if errors.As(err, &pe) {
			log.WithError(err).WithField("state", StateRejected).Error("settlement failed")
		} else {
			log.WithError(err).WithField("state", StateRejected).Info("settlement rejected")
		}
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"state":   StateCommitted,
		"sale_id": result.Sale.ID,
		"balance": result.CreditAfter.StringFixed(2),
	}).Info("settlement committed")

	if s.notifier != nil {
		if nerr := s.notifier.NotifySale(context.WithoutCancel(ctx), result.Sale, *updated); nerr != nil {
			log.WithError(nerr).WithField("sale_id", result.Sale.ID).Warn("sale notification failed")
			result.NotifyWarning = "sale saved, but notification could not be delivered"
		}
	}
	return result, nil
}

func (s *SettlementService) settleOnce(ctx context.Context, req SettlementRequest, totals Totals, log logrus.FieldLogger) (*Settlement, *models.Customer, error) {
	phone := req.Cart.Customer().PhoneNumber
	var (
		result  *Settlement
		updated *models.Customer
	)
	err := s.store.WithinTx(ctx, func(tx models.SettlementTx) error {
		customer, err := tx.LockCustomerByPhone(ctx, phone)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return &NotFoundError{Entity: "customer", Key: phone}
			}
			return err
		}
		if totals.CreditToApply.GreaterThan(customer.TotalCredit) {
			return &InsufficientCreditError{Requested: totals.CreditToApply, Available: customer.TotalCredit}
		}
		log.WithField("state", StateValidated).Debug("settlement validated")

		sale := s.buildSale(*customer, req, totals)
		if err := tx.CreateSale(ctx, &sale); err != nil {
			return err
		}

		delta := totals.TotalCreditEarned.Sub(totals.CreditToApply)
		after, err := tx.AdjustCustomerCredit(ctx, customer.ID, delta)
		if err != nil {
			if errors.Is(err, models.ErrInsufficientBalance) {
				return &InsufficientCreditError{Requested: totals.CreditToApply, Available: customer.TotalCredit}
			}
			return err
		}

		result = &Settlement{Sale: sale, CreditBefore: customer.TotalCredit, CreditAfter: after.TotalCredit}
		updated = after
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return result, updated, nil
}

func (s *SettlementService) buildSale(customer models.Customer, req SettlementRequest, totals Totals) models.Sale {
	lines := req.Cart.Lines()
	items := make([]models.SaleItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, models.SaleItem{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			Price:       l.UnitPrice,
			Total:       l.Total,
			Credit:      l.EarnedCredit,
		})
	}
	madeBy := req.SalesMadeBy
	if madeBy == "" {
		madeBy = s.cfg.SalesMadeBy
	}
	return models.Sale{
		ID:             uuid.New(),
		CustomerID:     customer.ID,
		PhoneNumber:    customer.PhoneNumber,
		CompanyName:    customer.CompanyName,
		IndividualName: customer.IndividualName,
		GSTNumber:      customer.GSTNumber,
		Items: models.SaleItems{
			Version:       models.SaleItemsVersion,
			Items:         items,
			CreditsUsed:   totals.CreditToApply,
			CreditsEarned: totals.TotalCreditEarned,
		},
		PaymentMethod:  req.PaymentMethod,
		OriginalAmount: totals.OrderTotal,
		TotalAmount:    totals.FinalTotal,
		CreditUsed:     totals.CreditToApply,
		CreditEarned:   totals.TotalCreditEarned,
		SalesMadeBy:    madeBy,
		CreatedAt:      s.now(),
	}
}

func validateSettlement(req SettlementRequest) error {
	if req.Cart == nil || req.Cart.Empty() {
		return invalidErr("items", ErrEmptyCart)
	}
	if !req.PaymentMethod.Valid() {
		return invalidErr("payment_method", ErrInvalidPaymentMethod)
	}
	return nil
}
