package invoice

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/loyalty-billing-service/internal/models"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testSale() models.Sale {
	return models.Sale{
		ID:             uuid.MustParse("0f8e2a6c-1d2b-4c3a-9e8f-7a6b5c4d3e2f"),
		PhoneNumber:    "9876543210",
		IndividualName: "Asha",
		CompanyName:    "Asha Traders",
		Items: models.SaleItems{
			Version: models.SaleItemsVersion,
			Items: []models.SaleItem{
				{ProductName: "Cement", Quantity: 3, Price: d("10"), Total: d("30"), Credit: d("0")},
				{ProductName: "Paint", Quantity: 5, Price: d("20"), Total: d("100"), Credit: d("8")},
			},
		},
		PaymentMethod:  models.PaymentUPI,
		OriginalAmount: d("130"),
		TotalAmount:    d("120"),
		CreditUsed:     d("5"),
		CreditEarned:   d("8"),
		SalesMadeBy:    "admin",
		CreatedAt:      time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestBuild(t *testing.T) {
	customer := &models.Customer{TotalCredit: d("53.5")}
	doc := Build(testSale(), customer)

	assert.Equal(t, "INV-20240301-0F8E2A6C", doc.Number)
	assert.Equal(t, "130.00", doc.OriginalAmount)
	assert.Equal(t, "10.00", doc.Discount)
	assert.Equal(t, "120.00", doc.TotalAmount)
	assert.Equal(t, "53.50", doc.Customer.Balance)
	require.Len(t, doc.Lines, 2)
	assert.Equal(t, "100.00", doc.Lines[1].Total)
	assert.Equal(t, "8.00", doc.Lines[1].Credit)
}

func TestBuildWithoutCustomer(t *testing.T) {
	doc := Build(testSale(), nil)
	assert.Empty(t, doc.Customer.Balance)
	assert.Equal(t, "Asha", doc.Customer.Name)
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Build(testSale(), &models.Customer{TotalCredit: d("53.5")}).WriteText(&buf))

	out := buf.String()
	assert.Contains(t, out, "INVOICE INV-20240301-0F8E2A6C")
	assert.Contains(t, out, "Company: Asha Traders")
	assert.Contains(t, out, "Paint")
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "120.00")
	assert.Contains(t, out, "Credit balance: 53.50")
}
