package service

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/loyalty-billing-service/internal/models"
)

// UpsellWindow is how many units short of the next reward tier a line may be
// before a suggestion is offered.
const UpsellWindow = 2

type UpsellSuggestion struct {
	SuggestedQuantity int             `json:"suggested_quantity"`
	ThresholdQuantity int             `json:"threshold_quantity"`
	CreditAmount      decimal.Decimal `json:"credit_amount"`
}

// ComputeLineCredit returns the credit earned by buying quantity units of
// product as a customer of role. The award is flat per complete threshold
// multiple: threshold 10 and award 5 give 5 credit for 10-19 units.
func ComputeLineCredit(product models.Product, quantity int, role string) decimal.Decimal {
	rule, ok := product.RewardRules.For(role)
	if !ok || rule.ThresholdQuantity <= 0 || quantity <= 0 {
		return decimal.Zero
	}
	sets := quantity / rule.ThresholdQuantity
	return models.RoundMoney(rule.CreditAward.Mul(decimal.NewFromInt(int64(sets))))
}

// ComputeUpsellSuggestion returns a suggestion when quantity is within
// UpsellWindow units of the next complete threshold multiple, nil otherwise.
// It is advisory: applying it means setting the suggested quantity.
func ComputeUpsellSuggestion(product models.Product, quantity int, role string) *UpsellSuggestion {
	rule, ok := product.RewardRules.For(role)
	if !ok || rule.ThresholdQuantity <= 0 || quantity <= 0 {
		return nil
	}
	remainder := quantity % rule.ThresholdQuantity
	if remainder == 0 {
		return nil
	}
	missing := rule.ThresholdQuantity - remainder
	if missing > UpsellWindow || quantity > math.MaxInt-missing {
		return nil
	}
	return &UpsellSuggestion{
		SuggestedQuantity: quantity + missing,
		ThresholdQuantity: rule.ThresholdQuantity,
		CreditAmount:      models.RoundMoney(rule.CreditAward),
	}
}
