// Package money provides an integer-cents currency amount. Accumulating
// line totals in cents avoids the float drift a naive price*quantity sum
// picks up across many small additions.
package money

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Cents is a currency amount in hundredths of the display unit.
type Cents int64

// FromFloat converts a display-unit amount (e.g. 12.345) to cents,
// rounding half away from zero.
func FromFloat(amount float64) Cents {
	return Cents(math.Round(amount * 100))
}

// Parse reads a decimal string such as "12.34", "12.3" or "12".
// At most two fractional digits are accepted.
func Parse(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("parse amount: empty string")
	}

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("parse amount %q: more than two fractional digits", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}

	total := units*100 + cents
	if neg {
		total = -total
	}
	return Cents(total), nil
}

// Mul scales the amount by an integer quantity.
func (c Cents) Mul(quantity int) Cents {
	return c * Cents(quantity)
}

// Percent applies a rate expressed in basis points (1000 = 10%),
// rounding half away from zero to the nearest cent.
func (c Cents) Percent(basisPoints int) Cents {
	scaled := int64(c) * int64(basisPoints)
	if scaled >= 0 {
		return Cents((scaled + 5000) / 10000)
	}
	return Cents((scaled - 5000) / 10000)
}

// Float returns the amount in display units.
func (c Cents) Float() float64 {
	return float64(c) / 100
}

// String renders the amount with two fractional digits, e.g. "12.34".
func (c Cents) String() string {
	v := int64(c)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
