package service

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/loyalty-billing-service/internal/models"
)

// MaxLineQuantity caps the quantity of a single cart line.
const MaxLineQuantity = 1_000_000

// CartLine is one product in a cart. UnitPrice and the reward rules are
// copied from the product when the line is added.
type CartLine struct {
	ProductID    uuid.UUID         `json:"product_id"`
	ProductName  string            `json:"product_name"`
	Quantity     int               `json:"quantity"`
	UnitPrice    decimal.Decimal   `json:"price"`
	Total        decimal.Decimal   `json:"total"`
	EarnedCredit decimal.Decimal   `json:"credit"`
	Suggestion   *UpsellSuggestion `json:"suggestion,omitempty"`

	product models.Product
}

// Totals are derived from the lines and the credit request. FinalTotal is
// always OrderTotal - Discount with 0 <= Discount <= OrderTotal.
type Totals struct {
	OrderTotal        decimal.Decimal `json:"order_total"`
	TotalCreditEarned decimal.Decimal `json:"total_credit_earned"`
	ApplyCredit       bool            `json:"apply_credit"`
	CreditToApply     decimal.Decimal `json:"credit_to_apply"`
	Discount          decimal.Decimal `json:"discount"`
	FinalTotal        decimal.Decimal `json:"final_total"`
}

// Cart aggregates line items for one customer. It is not safe for
// concurrent use; each request owns its cart.
type Cart struct {
	customer    models.Customer
	role        models.CustomerRole
	lines       []CartLine
	applyCredit bool
	requested   decimal.Decimal
	totals      Totals
}

// NewCart starts an empty cart for customer, whose role must be role.
func NewCart(customer models.Customer, role models.CustomerRole) (*Cart, error) {
	if customer.Role != role.RoleName {
		return nil, invalid("role", "customer role does not match "+role.RoleName)
	}
	if !role.CreditWorth.IsPositive() {
		return nil, invalid("credit_worth", "must be positive")
	}
	c := &Cart{customer: customer, role: role}
	c.recalculate()
	return c, nil
}

func (c *Cart) Customer() models.Customer { return c.customer }

func (c *Cart) Role() models.CustomerRole { return c.role }

func (c *Cart) Empty() bool { return len(c.lines) == 0 }

// Lines returns a copy of the current lines in insertion order.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Totals() Totals { return c.totals }

// AddItem appends a line for product. A product may appear once per cart;
// change the quantity of the existing line instead.
func (c *Cart) AddItem(product models.Product, quantity int) error {
	if err := checkQuantity(quantity); err != nil {
		return err
	}
	if c.indexOf(product.ID) >= 0 {
		return invalidErr("product_id", ErrDuplicateItem)
	}
	snapshot := product
	snapshot.RewardRules = product.RewardRules.Clone()
	c.lines = append(c.lines, CartLine{
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    quantity,
		UnitPrice:   models.RoundMoney(product.Price),
		product:     snapshot,
	})
	c.recalculate()
	return nil
}

func (c *Cart) UpdateQuantity(productID uuid.UUID, quantity int) error {
	if err := checkQuantity(quantity); err != nil {
		return err
	}
	i := c.indexOf(productID)
	if i < 0 {
		return &NotFoundError{Entity: "cart line", Key: productID.String()}
	}
	c.lines[i].Quantity = quantity
	c.recalculate()
	return nil
}

func checkQuantity(quantity int) error {
	if quantity <= 0 {
		return invalidErr("quantity", ErrInvalidQuantity)
	}
	if quantity > MaxLineQuantity {
		return invalidErr("quantity", ErrQuantityTooLarge)
	}
	return nil
}

func (c *Cart) RemoveItem(productID uuid.UUID) error {
	i := c.indexOf(productID)
	if i < 0 {
		return &NotFoundError{Entity: "cart line", Key: productID.String()}
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	c.recalculate()
	return nil
}

// SetCreditRequest asks for up to requested credit to be redeemed. The
// amount actually applied is clamped to the customer's balance.
func (c *Cart) SetCreditRequest(apply bool, requested decimal.Decimal) error {
	if requested.IsNegative() {
		return invalid("credit_to_apply", "must not be negative")
	}
	c.applyCredit = apply
	c.requested = models.RoundMoney(requested)
	c.recalculate()
	return nil
}

func (c *Cart) indexOf(productID uuid.UUID) int {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// recalculate rebuilds every derived value from scratch.
func (c *Cart) recalculate() {
	orderTotal := decimal.Zero
	earned := decimal.Zero
	for i := range c.lines {
		l := &c.lines[i]
		l.Total = models.RoundMoney(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
		l.EarnedCredit = ComputeLineCredit(l.product, l.Quantity, c.customer.Role)
		l.Suggestion = ComputeUpsellSuggestion(l.product, l.Quantity, c.customer.Role)
		orderTotal = orderTotal.Add(l.Total)
		earned = earned.Add(l.EarnedCredit)
	}

	t := Totals{
		OrderTotal:        orderTotal,
		TotalCreditEarned: earned,
		ApplyCredit:       c.applyCredit,
		CreditToApply:     decimal.Zero,
		Discount:          decimal.Zero,
		FinalTotal:        orderTotal,
	}
	if c.applyCredit {
		toApply := decimal.Min(c.requested, c.customer.TotalCredit)
		if toApply.IsNegative() {
			toApply = decimal.Zero
		}
		discount := decimal.Min(models.RoundMoney(toApply.Mul(c.role.CreditWorth)), orderTotal)
		t.CreditToApply = toApply
		t.Discount = discount
		t.FinalTotal = orderTotal.Sub(discount)
	}
	c.totals = t
}
