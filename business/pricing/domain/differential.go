package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Differential is the relative discrepancy between two venues' quotes for
// the same input amount.
type Differential struct {
	// Cheap returned the lower output; it is the buy leg.
	Cheap Quote
	// Expensive returned the higher output; it is the sell leg.
	Expensive Quote
	// Percent is |q1 - q2| / min(q1, q2) * 100.
	Percent decimal.Decimal
}

// DiffPercent computes |q1 - q2| / min(q1, q2) * 100. It is zero whenever the
// smaller quote is zero, which covers both quotes being zero.
func DiffPercent(q1, q2 decimal.Decimal) decimal.Decimal {
	base := decimal.Min(q1, q2)
	if base.IsZero() {
		return decimal.Zero
	}
	return q1.Sub(q2).Abs().Div(base).Mul(hundred)
}

// CompareQuotes orders two quotes into cheap and expensive legs. On a tie the
// second quote is treated as the cheap one.
func CompareQuotes(q1, q2 Quote) Differential {
	a, b := q1.Converted(), q2.Converted()

	d := Differential{
		Cheap:     q2,
		Expensive: q1,
		Percent:   DiffPercent(a, b),
	}
	if a.LessThan(b) {
		d.Cheap, d.Expensive = q1, q2
	}
	return d
}

// EstimatedProfit is Percent/100 * amount.
func (d Differential) EstimatedProfit(amount decimal.Decimal) decimal.Decimal {
	return d.Percent.Div(hundred).Mul(amount)
}
