package utils

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// PriceUnavailableLabel is displayed instead of a USD figure when no price could be resolved.
const PriceUnavailableLabel = "Price unavailable"

// IsBaseUnitAmount reports whether s is a non-negative base-10 integer string.
func IsBaseUnitAmount(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseBaseUnits parses a raw base-unit amount and scales it by 10^decimals.
// Example: raw="1000000", decimals=6 => 1
func ParseBaseUnits(raw string, decimals uint8) (decimal.Decimal, error) {
	if !IsBaseUnitAmount(raw) {
		return decimal.Zero, fmt.Errorf("amount %q is not a non-negative integer", raw)
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount %q: %w", raw, err)
	}
	return amount.Shift(-int32(decimals)), nil
}

// ToHumanQuantity converts base units to a human quantity as float64.
func ToHumanQuantity(raw string, decimals uint8) (float64, error) {
	q, err := ParseBaseUnits(raw, decimals)
	if err != nil {
		return 0, err
	}
	f, _ := q.Float64()
	return f, nil
}

// BaseUnitsToQuantity converts an integer base-unit balance (e.g. lamports) to a human quantity.
func BaseUnitsToQuantity(units uint64, decimals uint8) float64 {
	f, _ := decimal.NewFromBigInt(new(big.Int).SetUint64(units), 0).Shift(-int32(decimals)).Float64()
	return f
}

// CalculateValueUSD returns (raw / 10^decimals) * priceUSD.
func CalculateValueUSD(raw string, decimals uint8, priceUSD float64) (float64, error) {
	q, err := ParseBaseUnits(raw, decimals)
	if err != nil {
		return 0, err
	}
	v, _ := q.Mul(decimal.NewFromFloat(priceUSD)).Float64()
	return v, nil
}

// FormatAmount renders a base-unit amount with all significant decimals and no trailing zeros.
// Example: raw="1234500000000000000", decimals=18 => "1.2345"
func FormatAmount(raw string, decimals uint8) (string, error) {
	q, err := ParseBaseUnits(raw, decimals)
	if err != nil {
		return "", err
	}
	return q.String(), nil
}

// FormatTokenAmount renders a human quantity for display with 2 to 6 fraction digits and grouped thousands.
func FormatTokenAmount(raw string, decimals uint8) (string, error) {
	q, err := ParseBaseUnits(raw, decimals)
	if err != nil {
		return "", err
	}
	return formatFixed(q, 2, 6), nil
}

// FormatNativeBalance renders lamports as SOL with exactly two decimals.
func FormatNativeBalance(units uint64, decimals uint8) string {
	q := decimal.NewFromBigInt(new(big.Int).SetUint64(units), 0).Shift(-int32(decimals))
	return formatFixed(q, 2, 2)
}

// FormatUSD renders a USD amount with two decimals and grouped thousands, e.g. "1,234.50".
func FormatUSD(amount float64) string {
	return formatFixed(decimal.NewFromFloat(amount), 2, 2)
}

func formatFixed(d decimal.Decimal, minFrac, maxFrac int32) string {
	s := d.StringFixed(maxFrac)
	intPart, frac, _ := strings.Cut(s, ".")
	for int32(len(frac)) > minFrac && strings.HasSuffix(frac, "0") {
		frac = frac[:len(frac)-1]
	}
	intPart = groupThousands(intPart)
	if frac == "" {
		return intPart
	}
	return intPart + "." + frac
}

func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// TruncateAddress shortens an address to its first startChars and last endChars characters.
func TruncateAddress(address string, startChars, endChars int) string {
	if len(address) <= startChars+endChars {
		return address
	}
	return address[:startChars] + "..." + address[len(address)-endChars:]
}
