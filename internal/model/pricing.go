package model

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// LineTotal is quantity * unitPrice * (1 - discountPercent/100), unrounded.
func LineTotal(quantity, unitPrice, discountPercent decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice).Mul(decimal.NewFromInt(1).Sub(discountPercent.Div(hundred)))
}

// LineVAT is lineTotal * vatRate/100, unrounded.
func LineVAT(lineTotal, vatRate decimal.Decimal) decimal.Decimal {
	return lineTotal.Mul(vatRate).Div(hundred)
}

// RoundMoney rounds half away from zero to cents. Every persisted monetary
// field goes through it.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
