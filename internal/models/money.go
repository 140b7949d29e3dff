package models

import "github.com/shopspring/decimal"

// MoneyPlaces is the number of decimal places kept for money and credit.
const MoneyPlaces = 2

// WorthPlaces is the precision kept for a role's credit worth.
const WorthPlaces = 4

// RoundMoney rounds d half away from zero to MoneyPlaces.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}
