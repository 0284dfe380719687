package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Cents is an exact amount of currency in integer cents. All internal
// arithmetic uses Cents; decimal dollars exist only at the API boundary.
type Cents int64

var hundred = decimal.NewFromInt(100)

// FromDecimal converts a decimal dollar amount to cents. Amounts with
// sub-cent precision are rejected rather than rounded.
func FromDecimal(d decimal.Decimal) (Cents, error) {
	c := d.Mul(hundred)
	if !c.IsInteger() {
		return 0, fmt.Errorf("amount %s has sub-cent precision", d.String())
	}
	return Cents(c.IntPart()), nil
}

// Decimal converts cents back to decimal dollars for API responses.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(c)).Div(hundred)
}

func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// Split divides total into n parts: every part gets base, and remainder
// parts (0 <= remainder < n) get one extra cent each.
func Split(total Cents, n int) (base Cents, remainder int) {
	base = total / Cents(n)
	remainder = int(total - base*Cents(n))
	return base, remainder
}
