package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	errAmountEmpty    = errors.New("amount is empty")
	errAmountNegative = errors.New("amount must not be negative")
	errAmountInfinite = errors.New("amount must be finite")
)

// ParseAmount converts the wire or form representation of an amount to a
// decimal. Strings, float64, int, int64, json.Number and decimal.Decimal are
// accepted. The result is never negative.
func ParseAmount(v any) (decimal.Decimal, error) {
	var (
		d   decimal.Decimal
		err error
	)

	switch x := v.(type) {
	case nil:
		return decimal.Zero, errAmountEmpty
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return decimal.Zero, errAmountEmpty
		}
		d, err = decimal.NewFromString(s)
	case json.Number:
		d, err = decimal.NewFromString(x.String())
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero, errAmountInfinite
		}
		d = decimal.NewFromFloat(x)
	case int:
		d = decimal.NewFromInt(int64(x))
	case int64:
		d = decimal.NewFromInt(x)
	case decimal.Decimal:
		d = x
	default:
		return decimal.Zero, fmt.Errorf("unsupported amount type %T", v)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount %v is not a number", v)
	}
	if d.IsNegative() {
		return decimal.Zero, errAmountNegative
	}
	return d, nil
}

// FormatAmount renders an amount with two decimal places.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
