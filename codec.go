package heron

import (
	"fmt"
	"math"
	"strconv"
)

/* Codec for the compact numeric notations of the NORAD two-line element
format. These are pure functions: the fixed-column layout itself lives in
tle.go. */

// Checksum computes the mod-10 line checksum: every decimal digit counts its
// own value, every dash counts one, all other characters are ignored.
func Checksum(line string) int {
	sum := 0
	for _, c := range line {
		switch {
		case c >= '0' && c <= '9':
			sum += int(c - '0')
		case c == '-':
			sum++
		}
	}
	return sum % 10
}

// ParseDecimal parses a field of digits with an implied leading decimal point
// and no sign (the eccentricity column): "0002184" is 0.0002184.
func ParseDecimal(field string) (float64, error) {
	for k := 0; k < len(field); k++ {
		if field[k] < '0' || field[k] > '9' {
			return 0, FormatError{Field: "implicit-decimal", Value: field, Msg: "non-digit character"}
		}
	}
	v, err := strconv.ParseFloat("0."+field, 64)
	if err != nil {
		return 0, FormatError{Field: "implicit-decimal", Value: field, Msg: "not a number"}
	}
	return v, nil
}

// PrintDecimal prints v to seven fractional digits without the "0." prefix.
// The domain is 0 ≤ v < 1; anything else is a caller bug.
func PrintDecimal(v float64) string {
	if v < 0 || v >= 1 {
		panic(fmt.Errorf("implicit-decimal value %g outside [0, 1)", v))
	}
	s := fmt.Sprintf("%.7f", v)
	if s[0] != '0' {
		// Inside [0, 1) but rounds to one at seven digits.
		panic(fmt.Errorf("implicit-decimal value %g rounds to 1 at seven digits", v))
	}
	return s[2:]
}

// ParseExponential parses the [sign]DDDDD[sign]E notation: five mantissa
// digits with an implied leading "0." and a signed one-digit power of ten.
// " 27754-4" is 0.27754e-4. The mantissa sign may be omitted (7 characters)
// or given as a space, both meaning positive.
func ParseExponential(field string) (float64, error) {
	ferr := func(msg string) error {
		return FormatError{Field: "tle-exponential", Value: field, Msg: msg}
	}
	switch len(field) {
	case 7:
		field = " " + field
	case 8:
	default:
		return 0, ferr("must be 7 or 8 characters")
	}
	sign := byte('+')
	switch field[0] {
	case ' ', '+':
	case '-':
		sign = '-'
	default:
		return 0, ferr("invalid mantissa sign")
	}
	for k := 1; k < 6; k++ {
		if field[k] < '0' || field[k] > '9' {
			return 0, ferr("non-digit mantissa character")
		}
	}
	if field[6] != '+' && field[6] != '-' {
		return 0, ferr("invalid exponent sign")
	}
	if field[7] < '0' || field[7] > '9' {
		return 0, ferr("non-digit exponent character")
	}
	v, err := strconv.ParseFloat(string(sign)+"0."+field[1:6]+"e"+field[6:8], 64)
	if err != nil {
		return 0, ferr("not a number")
	}
	return v, nil
}

// PrintExponential prints v ≥ 0 as five mantissa digits and a signed
// one-digit exponent. Zero encodes as "00000-0", and an exponent of zero
// prints as "-0": there is no "+0" form in the TLE convention, and the dash
// participates in the line checksum. The sign column of negative drag terms
// belongs to the line layout, so negative values are a caller bug here.
func PrintExponential(v float64) string {
	if v < 0 {
		panic(fmt.Errorf("tle-exponential value %g is negative; sign column is written by the line layout", v))
	}
	if v == 0 {
		return "00000-0"
	}
	exp := int(math.Floor(math.Log10(v))) + 1
	digits := int(math.Round(v * math.Pow(10, float64(5-exp))))
	if digits >= 100000 {
		// Rounding carried into a sixth digit: renormalize.
		digits /= 10
		exp++
	}
	if exp < -9 || exp > 9 {
		panic(fmt.Errorf("tle-exponential value %g needs exponent %d, outside the single-digit field", v, exp))
	}
	if exp == 0 {
		return fmt.Sprintf("%05d-0", digits)
	}
	return fmt.Sprintf("%05d%+d", digits, exp)
}
