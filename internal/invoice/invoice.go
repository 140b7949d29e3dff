// Package invoice turns a committed sale into an invoice document.
package invoice

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/loyalty-billing-service/internal/models"
)

type CustomerDetails struct {
	Name        string `json:"name"`
	CompanyName string `json:"company_name,omitempty"`
	GSTNumber   string `json:"gst_number,omitempty"`
	PhoneNumber string `json:"phone_number"`
	Balance     string `json:"credit_balance"`
}

type Line struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Price       string `json:"price"`
	Total       string `json:"total"`
	Credit      string `json:"credit"`
}

// Document holds every figure printed on an invoice, already formatted to
// two decimals.
type Document struct {
	Number         string          `json:"invoice_number"`
	Date           time.Time       `json:"date"`
	Customer       CustomerDetails `json:"customer"`
	Lines          []Line          `json:"items"`
	PaymentMethod  string          `json:"payment_method"`
	OriginalAmount string          `json:"original_amount"`
	Discount       string          `json:"discount"`
	TotalAmount    string          `json:"total_amount"`
	CreditUsed     string          `json:"credit_used"`
	CreditEarned   string          `json:"credit_earned"`
	SalesMadeBy    string          `json:"sales_made_by"`
}

// Build uses the sale's frozen item snapshot, so later catalogue changes do
// not alter an issued invoice. customer may be nil when the customer row is
// not needed; the sale's own copy of the customer fields is used then.
func Build(sale models.Sale, customer *models.Customer) Document {
	details := CustomerDetails{
		Name:        sale.IndividualName,
		CompanyName: sale.CompanyName,
		GSTNumber:   sale.GSTNumber,
		PhoneNumber: sale.PhoneNumber,
	}
	if customer != nil {
		details.Balance = money(customer.TotalCredit)
	}

	lines := make([]Line, 0, len(sale.Items.Items))
	for _, it := range sale.Items.Items {
		lines = append(lines, Line{
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       money(it.Price),
			Total:       money(it.Total),
			Credit:      money(it.Credit),
		})
	}

	return Document{
		Number:         Number(sale),
		Date:           sale.CreatedAt,
		Customer:       details,
		Lines:          lines,
		PaymentMethod:  string(sale.PaymentMethod),
		OriginalAmount: money(sale.OriginalAmount),
		Discount:       money(sale.OriginalAmount.Sub(sale.TotalAmount)),
		TotalAmount:    money(sale.TotalAmount),
		CreditUsed:     money(sale.CreditUsed),
		CreditEarned:   money(sale.CreditEarned),
		SalesMadeBy:    sale.SalesMadeBy,
	}
}

// Number derives a short invoice number from the sale date and id.
func Number(sale models.Sale) string {
	id := strings.ToUpper(strings.ReplaceAll(sale.ID.String(), "-", ""))
	return fmt.Sprintf("INV-%s-%s", sale.CreatedAt.Format("20060102"), id[:8])
}

// WriteText renders d as a plain-text invoice.
func (d Document) WriteText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "INVOICE %s\n", d.Number)
	fmt.Fprintf(&b, "Date: %s\n\n", d.Date.Format("02 Jan 2006"))
	fmt.Fprintf(&b, "Bill to: %s\n", d.Customer.Name)
	if d.Customer.CompanyName != "" {
		fmt.Fprintf(&b, "Company: %s\n", d.Customer.CompanyName)
	}
	if d.Customer.GSTNumber != "" {
		fmt.Fprintf(&b, "GST: %s\n", d.Customer.GSTNumber)
	}
	fmt.Fprintf(&b, "Phone: %s\n\n", d.Customer.PhoneNumber)
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Product\tQty\tPrice\tTotal\tCredit\t")
	for _, l := range d.Lines {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t\n", l.ProductName, l.Quantity, l.Price, l.Total, l.Credit)
	}
	fmt.Fprintf(tw, "\t\tSubtotal\t%s\t%s\t\n", d.OriginalAmount, d.CreditEarned)
	fmt.Fprintf(tw, "\t\tCredit discount\t-%s\t%s\t\n", d.Discount, d.CreditUsed)
	fmt.Fprintf(tw, "\t\tTOTAL\t%s\t\t\n", d.TotalAmount)
	if err := tw.Flush(); err != nil {
		return err
	}

	footer := fmt.Sprintf("\nPaid by: %s\n", d.PaymentMethod)
	if d.Customer.Balance != "" {
		footer += fmt.Sprintf("Credit balance: %s\n", d.Customer.Balance)
	}
	_, err := io.WriteString(w, footer)
	return err
}

func money(d decimal.Decimal) string {
	return models.RoundMoney(d).StringFixed(models.MoneyPlaces)
}
