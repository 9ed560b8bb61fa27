package utils

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// CleanQuantity strips grouping commas, units and whitespace from a scraped
// quantity cell, e.g. "1,057 PCS" -> "1057". Returns "0" when nothing numeric
// is left.
func CleanQuantity(raw string) string {
	var b strings.Builder
	seenDot := false
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '.' && !seenDot:
			seenDot = true
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}

	cleaned := strings.TrimSuffix(b.String(), ".")
	if _, err := decimal.NewFromString(cleaned); err != nil {
		return "0"
	}
	return cleaned
}

// ParseQuantity turns a stored quantity string into whole units. Commas are
// accepted as thousands separators; anything else unparseable counts as 0.
func ParseQuantity(s string) int64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.IntPart()
}

// SumQuantities adds quantities using ParseQuantity.
func SumQuantities(values []string) int64 {
	var total int64
	for _, v := range values {
		total += ParseQuantity(v)
	}
	return total
}
