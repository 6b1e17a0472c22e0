package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Price is a fixed-point monetary amount stored as cents.
// On the wire it is a decimal string with two places ("5.25"); storing
// cents avoids float drift in the database and in comparisons.
//
// It implements encoding.TextMarshaler/TextUnmarshaler so JSON codecs and
// OpenAPI schema generation both treat it as a string.
type Price int64

// ParsePrice parses a decimal string like "5", "5.2" or "5.25" into a Price.
// At most two decimal places are allowed and the amount must not be negative.
func ParsePrice(s string) (Price, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("price cannot be empty")
	}
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("price cannot be negative")
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q", s)
	}

	var cents int64
	switch len(frac) {
	case 0:
	case 1:
		d, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid price %q", s)
		}
		cents = d * 10
	case 2:
		d, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid price %q", s)
		}
		cents = d
	default:
		return 0, fmt.Errorf("price %q has more than 2 decimal places", s)
	}

	return Price(units*100 + cents), nil
}

// String formats the price as a decimal with two places.
func (p Price) String() string {
	return fmt.Sprintf("%d.%02d", int64(p)/100, int64(p)%100)
}

// MarshalText serializes the price as a decimal string.
func (p Price) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses a decimal string into the price.
func (p *Price) UnmarshalText(data []byte) error {
	parsed, err := ParsePrice(string(data))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
