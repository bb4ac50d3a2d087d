package service

import "github.com/shopspring/decimal"

var (
	marginFactor = decimal.RequireFromString("1.40")
	taxFactor    = decimal.RequireFromString("1.19")
	roundingUnit = decimal.NewFromInt(50)
)

// SellingPrice applies margin and VAT to a cost and rounds to the nearest 50 pesos.
func SellingPrice(cost decimal.Decimal) decimal.Decimal {
	if !cost.IsPositive() {
		return decimal.Zero
	}
	return cost.Mul(marginFactor).Mul(taxFactor).Div(roundingUnit).Round(0).Mul(roundingUnit)
}

// NetAmount strips VAT from a tax-inclusive total.
func NetAmount(total decimal.Decimal) decimal.Decimal {
	return total.DivRound(taxFactor, 2)
}
