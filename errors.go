package heron

import "fmt"

// FormatError reports malformed fixed-width TLE text: a non-numeric subfield,
// a wrong line length, or a checksum mismatch when verification is requested.
type FormatError struct {
	Line  int    // 1 or 2; zero when the error is not tied to a specific line
	Field string // name of the offending field
	Value string // raw text of the field
	Msg   string
}

func (e FormatError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("tle: field %s %q: %s", e.Field, e.Value, e.Msg)
	}
	return fmt.Sprintf("tle: line %d field %s %q: %s", e.Line, e.Field, e.Value, e.Msg)
}

// DomainError reports an element value outside its physically valid range,
// naming the violated precondition.
type DomainError struct {
	Param      string
	Value      float64
	Constraint string
}

func (e DomainError) Error() string {
	return fmt.Sprintf("orbit: %s=%g violates %s", e.Param, e.Value, e.Constraint)
}

// ConvergenceError reports that the Kepler solver exhausted its iteration
// bound. The last estimate is never returned as if it were exact.
type ConvergenceError struct {
	Iterations int
	LastΔ      float64
}

func (e ConvergenceError) Error() string {
	return fmt.Sprintf("orbit: eccentric anomaly did not converge after %d iterations (last Δ=%g)", e.Iterations, e.LastΔ)
}
