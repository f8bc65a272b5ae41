package service

import (
	"math"

	"github.com/shopspring/decimal"
)

// parseAmount validates a monetary amount and returns its exact decimal
// representation. Amounts must be finite, have at most two decimal places,
// and be positive (or non-negative when allowZero is set).
func parseAmount(field string, amount float64, allowZero bool) (decimal.Decimal, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return decimal.Zero, &ErrValidation{Field: field, Message: "amount must be a finite number"}
	}

	d := decimal.NewFromFloat(amount)
	if d.Sign() < 0 {
		return decimal.Zero, &ErrValidation{Field: field, Message: "amount must not be negative"}
	}
	if !allowZero && d.Sign() == 0 {
		return decimal.Zero, &ErrValidation{Field: field, Message: "amount must be positive"}
	}
	if !d.Equal(d.Round(2)) {
		return decimal.Zero, &ErrValidation{Field: field, Message: "amount must have at most two decimal places"}
	}

	return d, nil
}

// equalShares splits a total into n shares differing by at most one cent.
// Remainder cents are distributed starting from the first share, so the
// shares always sum to the total exactly.
func equalShares(total decimal.Decimal, n int) []float64 {
	cents := total.Mul(decimal.NewFromInt(100)).IntPart()
	base := cents / int64(n)
	remainder := cents % int64(n)

	shares := make([]float64, n)
	for i := range shares {
		share := base
		if int64(i) < remainder {
			share++
		}
		shares[i] = float64(share) / 100
	}
	return shares
}
