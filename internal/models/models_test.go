package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, "10.13", RoundMoney(decimal.RequireFromString("10.125")).StringFixed(2))
	assert.Equal(t, "0.00", RoundMoney(decimal.RequireFromString("0.004")).StringFixed(2))
}

func TestRewardRulesScan(t *testing.T) {
	var r RewardRules
	require.NoError(t, r.Scan([]byte(`{"wholesale":{"quantity":10,"credit":"5"}}`)))
	rule, ok := r.For("wholesale")
	require.True(t, ok)
	assert.Equal(t, 10, rule.ThresholdQuantity)
	assert.True(t, decimal.NewFromInt(5).Equal(rule.CreditAward))

	_, ok = r.For("regular")
	assert.False(t, ok)

	require.NoError(t, r.Scan(nil))
	assert.Empty(t, r)

	assert.Error(t, r.Scan(42))
	assert.Error(t, r.Scan("not json"))
}

func TestRewardRulesValueNil(t *testing.T) {
	var r RewardRules
	v, err := r.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("{}"), v)
}

func TestRewardRulesValidate(t *testing.T) {
	ok := RewardRules{"a": {ThresholdQuantity: 0, CreditAward: decimal.Zero}}
	assert.NoError(t, ok.Validate())

	assert.Error(t, RewardRules{"": {ThresholdQuantity: 1}}.Validate())
	assert.Error(t, RewardRules{"a": {ThresholdQuantity: -1}}.Validate())
	assert.Error(t, RewardRules{"a": {ThresholdQuantity: 1, CreditAward: decimal.NewFromInt(-1)}}.Validate())
}

func TestSaleItemsVersioning(t *testing.T) {
	items := SaleItems{
		Items: []SaleItem{{
			ProductID: uuid.New(),
			Quantity:  3,
			Price:     decimal.RequireFromString("10"),
			Total:     decimal.RequireFromString("30"),
			Credit:    decimal.Zero,
		}},
		CreditsUsed:   decimal.Zero,
		CreditsEarned: decimal.Zero,
	}
	v, err := items.Value()
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(v.([]byte), &doc))
	assert.EqualValues(t, SaleItemsVersion, doc["version"])

	var back SaleItems
	require.NoError(t, back.Scan(v))
	assert.Equal(t, SaleItemsVersion, back.Version)
	require.Len(t, back.Items, 1)
	assert.Equal(t, 3, back.Items[0].Quantity)

	err = back.Scan([]byte(`{"version":2,"items":[]}`))
	assert.Error(t, err)
	err = back.Scan([]byte(`[{"product_id":"x"}]`))
	assert.Error(t, err)
	assert.Error(t, back.Scan(nil))
}

func TestPaymentMethodValid(t *testing.T) {
	for _, m := range []PaymentMethod{PaymentUPI, PaymentCard, PaymentCash, PaymentCredit} {
		assert.True(t, m.Valid(), m)
	}
	assert.False(t, PaymentMethod("cheque").Valid())
	assert.False(t, PaymentMethod("").Valid())
}
