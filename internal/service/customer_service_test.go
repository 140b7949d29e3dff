package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterDefaultsRole(t *testing.T) {
	f := newFixture(t)
	f.role(t, "regular", "1")

	c, err := f.customers.Register(context.Background(), RegisterCustomerInput{
		IndividualName: "Meera",
		PhoneNumber:    " 9876543210 ",
		GSTNumber:      "22aaaaa0000a1z5",
	})
	require.NoError(t, err)
	assert.Equal(t, "regular", c.Role)
	assert.Equal(t, "9876543210", c.PhoneNumber)
	assert.Equal(t, "22AAAAA0000A1Z5", c.GSTNumber)
	assert.True(t, c.TotalCredit.IsZero())
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	f.role(t, "regular", "1")
	ctx := context.Background()

	cases := []struct {
		name  string
		in    RegisterCustomerInput
		field string
	}{
		{"missing name", RegisterCustomerInput{PhoneNumber: "9876543210"}, "individual_name"},
		{"short phone", RegisterCustomerInput{IndividualName: "A", PhoneNumber: "98765"}, "phone_number"},
		{"letters in phone", RegisterCustomerInput{IndividualName: "A", PhoneNumber: "98765abcde"}, "phone_number"},
		{"bad gst", RegisterCustomerInput{IndividualName: "A", PhoneNumber: "9876543210", GSTNumber: "12345"}, "gst_number"},
		{"unknown role", RegisterCustomerInput{IndividualName: "A", PhoneNumber: "9876543210", Role: "vip"}, "role"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.customers.Register(ctx, tc.in)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestRegisterDuplicatePhone(t *testing.T) {
	f := newFixture(t)
	f.role(t, "regular", "1")
	f.customer(t, "9876543210", "regular", "0")

	_, err := f.customers.Register(context.Background(), RegisterCustomerInput{IndividualName: "B", PhoneNumber: "9876543210"})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "phone_number", ve.Field)
}

func TestAdjustCredit(t *testing.T) {
	f := newFixture(t)
	f.role(t, "regular", "1")
	c := f.customer(t, "9876543210", "regular", "25.5")
	ctx := context.Background()

	got, err := f.customers.AdjustCredit(ctx, c.ID, d("-5.25"))
	require.NoError(t, err)
	assert.True(t, d("20.25").Equal(got.TotalCredit))

	_, err = f.customers.AdjustCredit(ctx, c.ID, d("-100"))
	var ie *InsufficientCreditError
	require.True(t, errors.As(err, &ie))
	assert.True(t, d("100").Equal(ie.Requested))
	assert.True(t, d("20.25").Equal(ie.Available))
	assert.True(t, d("20.25").Equal(f.balance(t, "9876543210")))

	_, err = f.customers.AdjustCredit(ctx, uuid.New(), d("1"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindByPhoneNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.customers.FindByPhone(context.Background(), "0000000000")
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "customer", nf.Entity)
}

func TestBuildCartErrors(t *testing.T) {
	f := newFixture(t)
	f.role(t, "regular", "1")
	f.customer(t, "9876543210", "regular", "0")
	ctx := context.Background()

	_, err := f.carts.BuildCart(ctx, CartRequest{PhoneNumber: "9876543210"})
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = f.carts.BuildCart(ctx, CartRequest{Items: []ItemRequest{{ProductID: uuid.New(), Quantity: 1}}})
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))

	_, err = f.carts.BuildCart(ctx, CartRequest{PhoneNumber: "1234567890", Items: []ItemRequest{{ProductID: uuid.New(), Quantity: 1}}})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.carts.BuildCart(ctx, CartRequest{PhoneNumber: "9876543210", Items: []ItemRequest{{ProductID: uuid.New(), Quantity: 1}}})
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "product", nf.Entity)

	p := f.product(t, "gravel", "5", nil)
	_, err = f.carts.BuildCart(ctx, CartRequest{
		PhoneNumber: "9876543210",
		Items:       []ItemRequest{{ProductID: p.ID, Quantity: 1}, {ProductID: p.ID, Quantity: 2}},
	})
	assert.ErrorIs(t, err, ErrDuplicateItem)
}
