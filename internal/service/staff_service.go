package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Cheertaboi/loyalty-billing-service/internal/models"
)

type StaffRepo interface {
	List(ctx context.Context) ([]models.SalesStaff, error)
	Create(ctx context.Context, s *models.SalesStaff) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type StaffInput struct {
	Name          string `json:"name"`
	PhoneNumber   string `json:"phone_number"`
	AadhaarNumber string `json:"adhaar_card_number"`
	Address       string `json:"address"`
}

type StaffService struct {
	staff StaffRepo
}

func NewStaffService(staff StaffRepo) *StaffService {
	return &StaffService{staff: staff}
}

func (s *StaffService) List(ctx context.Context) ([]models.SalesStaff, error) {
	out, err := s.staff.List(ctx)
	if err != nil {
		return nil, persistence("list sales staff", err)
	}
	return out, nil
}

func (s *StaffService) Create(ctx context.Context, in StaffInput) (*models.SalesStaff, error) {
	st := &models.SalesStaff{
		ID:            uuid.New(),
		Name:          strings.TrimSpace(in.Name),
		PhoneNumber:   strings.TrimSpace(in.PhoneNumber),
		AadhaarNumber: strings.TrimSpace(in.AadhaarNumber),
		Address:       strings.TrimSpace(in.Address),
		CreatedAt:     time.Now().UTC(),
	}
	if st.Name == "" || st.PhoneNumber == "" || st.AadhaarNumber == "" || st.Address == "" {
		return nil, invalid("", "all fields are required")
	}
	if !phonePattern.MatchString(st.PhoneNumber) {
		return nil, invalid("phone_number", "must be exactly 10 digits")
	}
	if err := s.staff.Create(ctx, st); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return nil, invalid("", "a staff member with this phone or Aadhaar number already exists")
		}
		return nil, persistence("create sales staff", err)
	}
	return st, nil
}

func (s *StaffService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.staff.Delete(ctx, id); err != nil {
		return lookupErr("sales staff", id.String(), err)
	}
	return nil
}
