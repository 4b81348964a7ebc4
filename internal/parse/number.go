package parse

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	numberRe = regexp.MustCompile(`[0-9]+([.,][0-9]+)?`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

// ErrEmpty is returned when a form field holds no value at all.
var ErrEmpty = errors.New("empty input")

// Float parses a decimal form input. A comma is accepted as the decimal
// separator, so "12,5" and "12.5" read the same.
func Float(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, ErrEmpty
	}
	s = spaceRe.ReplaceAllString(s, "")
	s = strings.Replace(s, ",", ".", 1)

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", raw, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid number %q: not finite", raw)
	}
	return f, nil
}

// Suhu parses a temperature reading. Temperatures are stored in whole degrees;
// any fractional part is dropped toward zero.
func Suhu(raw string) (int, error) {
	f, err := Float(raw)
	if err != nil {
		return 0, err
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("invalid number %q: out of range", raw)
	}
	return int(math.Trunc(f)), nil
}

// Berat parses a weight reading in kilograms.
func Berat(raw string) (float64, error) {
	return Float(raw)
}

// Shift parses a shift number. Shifts are whole numbers; "2.0" is rejected.
func Shift(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, ErrEmpty
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid shift %q: %w", raw, err)
	}
	return n, nil
}

// ExtractNumber returns the first number found in free text (typically the
// output of a text-recognition call), normalised to use a dot separator.
func ExtractNumber(text string) (string, bool) {
	m := numberRe.FindString(text)
	if m == "" {
		return "", false
	}
	return strings.Replace(m, ",", ".", 1), true
}
