package kernel

import (
	"fmt"

	"production/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Quantity is a non-negative count of parts carried by a pallet, part or defect record.
// It is decimal-backed so that splits and merges never accumulate float rounding.
type Quantity struct {
	value decimal.Decimal
}

// ZeroQuantity is the empty quantity.
func ZeroQuantity() Quantity {
	return Quantity{value: decimal.Zero}
}

// NewQuantity builds a quantity from a whole number of pieces.
func NewQuantity(pieces int64) (Quantity, error) {
	return QuantityFromDecimal(decimal.NewFromInt(pieces))
}

// QuantityFromDecimal validates d and wraps it. Negative values are rejected.
func QuantityFromDecimal(d decimal.Decimal) (Quantity, error) {
	if d.IsNegative() {
		return Quantity{}, errs.NewValueIsOutOfRangeError("quantity", d.String(), 0, "unbounded")
	}
	return Quantity{value: d}, nil
}

// QuantityFromString parses a plain decimal string such as "12" or "12.5".
func QuantityFromString(s string) (Quantity, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Quantity{}, errs.NewValueIsInvalidErrorWithCause("quantity", err)
	}
	return QuantityFromDecimal(d)
}

// MustQuantity is NewQuantity for literals known to be valid.
func MustQuantity(pieces int64) Quantity {
	q, err := NewQuantity(pieces)
	if err != nil {
		panic(err)
	}
	return q
}

func (q Quantity) Decimal() decimal.Decimal {
	return q.value
}

func (q Quantity) String() string {
	return q.value.String()
}

func (q Quantity) IsZero() bool {
	return q.value.IsZero()
}

func (q Quantity) IsPositive() bool {
	return q.value.IsPositive()
}

// Cmp returns -1, 0 or +1.
func (q Quantity) Cmp(other Quantity) int {
	return q.value.Cmp(other.value)
}

func (q Quantity) GreaterThan(other Quantity) bool {
	return q.value.GreaterThan(other.value)
}

func (q Quantity) Equal(other Quantity) bool {
	return q.value.Equal(other.value)
}

func (q Quantity) Add(other Quantity) Quantity {
	return Quantity{value: q.value.Add(other.value)}
}

// Sub fails instead of producing a negative quantity.
func (q Quantity) Sub(other Quantity) (Quantity, error) {
	if other.value.GreaterThan(q.value) {
		return Quantity{}, errs.NewValueIsOutOfRangeErrorWithCause(
			"quantity", other.String(), 0, q.String(),
			fmt.Errorf("cannot subtract %s from %s", other, q),
		)
	}
	return Quantity{value: q.value.Sub(other.value)}, nil
}

// SumQuantities adds all quantities together.
func SumQuantities(qs ...Quantity) Quantity {
	total := ZeroQuantity()
	for _, q := range qs {
		total = total.Add(q)
	}
	return total
}
