package domain

import (
	"strconv"
	"strings"
)

// ParsePrice parses a form value as whole rupees.
func ParsePrice(raw string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || v < 0 {
		return 0, ErrInvalidPrice
	}
	return v, nil
}

// ParseStock parses a form value as units in stock. Blank means zero.
func ParseStock(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, ErrInvalidStock
	}
	return v, nil
}
