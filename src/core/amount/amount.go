// Package amount converts between human decimal strings and the ledger's
// fixed-point integer representation (scale 10^18).
package amount

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Decimals is the ledger's fixed-point scale.
const Decimals = 18

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrPrecisionLoss = errors.New("amount exceeds 18 decimal places")
)

// ToLedgerUnits parses a non-negative base-10 decimal string and returns the
// equivalent fixed-point integer. Inputs with more than 18 fractional digits
// fail with ErrPrecisionLoss rather than truncating.
func ToLedgerUnits(s string) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, s)
	}
	shifted := d.Shift(Decimals)
	if !shifted.IsInteger() {
		return nil, fmt.Errorf("%w: %q", ErrPrecisionLoss, s)
	}
	return shifted.BigInt(), nil
}

// ToDisplayUnits renders a fixed-point integer as a decimal string with
// trailing zeros trimmed.
func ToDisplayUnits(units *big.Int) (string, error) {
	if units == nil || units.Sign() < 0 {
		return "", fmt.Errorf("%w: negative or nil ledger value", ErrInvalidAmount)
	}
	return decimal.NewFromBigInt(units, -Decimals).String(), nil
}

// ParseDisplay validates a decimal string, returning its canonical form.
func ParseDisplay(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d, nil
}
