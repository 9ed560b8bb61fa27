package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const plNumberDigits = 7

// CartonBarcode builds the textual carton id {po}-{carton}-{YYYYMMDD}.
func CartonBarcode(poNumber string, cartonNumber int, createdAt time.Time) string {
	return fmt.Sprintf("%s-%d-%s", poNumber, cartonNumber, createdAt.Format("20060102"))
}

// NextPLNumber returns the packing-list number after current. An empty
// current starts the sequence at PL0000001.
func NextPLNumber(current string) (string, error) {
	if current == "" {
		return FormatPLNumber(1), nil
	}
	seq, err := ParsePLNumber(current)
	if err != nil {
		return "", err
	}
	return FormatPLNumber(seq + 1), nil
}

func FormatPLNumber(seq int64) string {
	return fmt.Sprintf("PL%0*d", plNumberDigits, seq)
}

// ParsePLNumber extracts the numeric part of a PL number.
func ParsePLNumber(plNumber string) (int64, error) {
	if !strings.HasPrefix(plNumber, "PL") {
		return 0, fmt.Errorf("invalid packing list number %q", plNumber)
	}
	seq, err := strconv.ParseInt(strings.TrimPrefix(plNumber, "PL"), 10, 64)
	if err != nil || seq < 0 {
		return 0, fmt.Errorf("invalid packing list number %q", plNumber)
	}
	return seq, nil
}
