package common

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// SOLDecimals SOL has 9 decimals (lamports)
	SOLDecimals = 9
	// LamportsPerSOL fixed network conversion factor
	LamportsPerSOL = uint64(1_000_000_000)
)

var lamportsPerSOL = decimal.New(1, SOLDecimals)

// LamportsToSOL converts lamports to whole SOL units without float precision loss
func LamportsToSOL(lamports uint64) decimal.Decimal {
	return decimal.NewFromUint64(lamports).DivRound(lamportsPerSOL, SOLDecimals)
}

// SOLToLamports converts a whole-SOL amount to lamports without float precision loss.
// The amount must be non-negative and must not have more than 9 decimal places.
func SOLToLamports(sol decimal.Decimal) (uint64, error) {
	if sol.IsNegative() {
		return 0, fmt.Errorf("amount must not be negative")
	}
	lamports := sol.Mul(lamportsPerSOL)
	if !lamports.IsInteger() {
		return 0, fmt.Errorf("amount has more than %d decimal places", SOLDecimals)
	}
	if !lamports.BigInt().IsUint64() {
		return 0, fmt.Errorf("amount too large")
	}
	return lamports.BigInt().Uint64(), nil
}

// ParseSOL parses a whole-SOL decimal string ("0.5", "1") and validates it
// converts cleanly to lamports.
func ParseSOL(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if _, err := SOLToLamports(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}
