package heron

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/soniakeys/meeus/julian"
)

/* Two-line element set record. Fields carry the exact units printed in the
format (degrees, revolutions per day, element-set conventions), not the
radians/metres the Orbit type uses; the conversions live in Orbit() and
TLEFromCartesianState. */

// TLE represents a single NORAD two-line element set. A value is never
// mutated after construction: deriving a record from a propagated state
// always produces a new instance.
type TLE struct {
	Norad          string  // five-character catalog number, kept as printed
	Classification string  // U, C or S
	IntDesig       string  // international designator, eight characters as printed
	EpochYear      int     // four digits, expanded from the two-digit field
	EpochDay       float64 // day of year with fractional day
	MeanMotionDot  float64 // first derivative of mean motion over two
	MeanMotionDot2 float64 // second derivative of mean motion over six
	Bstar          float64 // drag term
	SetNum         int     // element set number
	Inc            float64 // inclination, degrees
	RAAN           float64 // right ascension of the ascending node, degrees
	Ecc            float64 // eccentricity
	ArgP           float64 // argument of perigee, degrees
	MeanAnomaly    float64 // degrees
	MeanMotion     float64 // revolutions per day
	RevNum         int     // revolution number at epoch
}

const tleLineLen = 69

// ParseTLE parses a record from its two constituent lines. Each line must be
// exactly 69 characters; every numeric subfield must parse. Checksums are not
// verified here — callers wanting verification run VerifyLines first.
func ParseTLE(line1, line2 string) (TLE, error) {
	var t TLE
	if len(line1) != tleLineLen {
		return t, FormatError{Line: 1, Field: "line", Value: line1, Msg: fmt.Sprintf("must be %d characters, got %d", tleLineLen, len(line1))}
	}
	if len(line2) != tleLineLen {
		return t, FormatError{Line: 2, Field: "line", Value: line2, Msg: fmt.Sprintf("must be %d characters, got %d", tleLineLen, len(line2))}
	}
	if line1[0] != '1' {
		return t, FormatError{Line: 1, Field: "line number", Value: line1[:1], Msg: "line 1 must start with '1'"}
	}
	if line2[0] != '2' {
		return t, FormatError{Line: 2, Field: "line number", Value: line2[:1], Msg: "line 2 must start with '2'"}
	}

	t.Norad = line1[2:7]
	t.Classification = line1[7:8]
	t.IntDesig = line1[9:17]

	protoYear, err := parseInt(line1[18:20])
	if err != nil {
		return t, FormatError{Line: 1, Field: "epoch year", Value: line1[18:20], Msg: "not an integer"}
	}
	// Two-digit years pivot at 1957, the year of Sputnik-1.
	if protoYear >= 57 {
		t.EpochYear = 1900 + protoYear
	} else {
		t.EpochYear = 2000 + protoYear
	}
	if t.EpochDay, err = parseFixed(line1[20:32]); err != nil {
		return t, FormatError{Line: 1, Field: "epoch day", Value: line1[20:32], Msg: "not a number"}
	}
	if t.MeanMotionDot, err = parseFixed(line1[33:43]); err != nil {
		return t, FormatError{Line: 1, Field: "mean motion dot", Value: line1[33:43], Msg: "not a number"}
	}
	if t.MeanMotionDot2, err = ParseExponential(line1[44:52]); err != nil {
		return t, FormatError{Line: 1, Field: "mean motion dot dot", Value: line1[44:52], Msg: "invalid tle-exponential"}
	}
	if t.Bstar, err = ParseExponential(line1[53:61]); err != nil {
		return t, FormatError{Line: 1, Field: "bstar", Value: line1[53:61], Msg: "invalid tle-exponential"}
	}
	if t.SetNum, err = parseInt(line1[64:68]); err != nil {
		return t, FormatError{Line: 1, Field: "element set number", Value: line1[64:68], Msg: "not an integer"}
	}

	if t.Inc, err = parseFixed(line2[8:16]); err != nil {
		return t, FormatError{Line: 2, Field: "inclination", Value: line2[8:16], Msg: "not a number"}
	}
	if t.RAAN, err = parseFixed(line2[17:25]); err != nil {
		return t, FormatError{Line: 2, Field: "RAAN", Value: line2[17:25], Msg: "not a number"}
	}
	if t.Ecc, err = ParseDecimal(line2[26:33]); err != nil {
		return t, FormatError{Line: 2, Field: "eccentricity", Value: line2[26:33], Msg: "invalid implicit-decimal"}
	}
	if t.ArgP, err = parseFixed(line2[34:42]); err != nil {
		return t, FormatError{Line: 2, Field: "argument of perigee", Value: line2[34:42], Msg: "not a number"}
	}
	if t.MeanAnomaly, err = parseFixed(line2[43:51]); err != nil {
		return t, FormatError{Line: 2, Field: "mean anomaly", Value: line2[43:51], Msg: "not a number"}
	}
	if t.MeanMotion, err = parseFixed(line2[52:63]); err != nil {
		return t, FormatError{Line: 2, Field: "mean motion", Value: line2[52:63], Msg: "not a number"}
	}
	if t.RevNum, err = parseInt(line2[63:68]); err != nil {
		return t, FormatError{Line: 2, Field: "revolution number", Value: line2[63:68], Msg: "not an integer"}
	}
	return t, nil
}

// VerifyLines checks the checksum digit of both lines. Verification is
// opt-in: real element sets are occasionally hand-edited and ParseTLE stays
// lenient about them.
func VerifyLines(line1, line2 string) error {
	for lineNo, line := range []string{line1, line2} {
		if len(line) != tleLineLen {
			return FormatError{Line: lineNo + 1, Field: "line", Value: line, Msg: fmt.Sprintf("must be %d characters, got %d", tleLineLen, len(line))}
		}
		want := int(line[68] - '0')
		if got := Checksum(line[:68]); got != want {
			return FormatError{Line: lineNo + 1, Field: "checksum", Value: line[68:], Msg: fmt.Sprintf("computed %d", got)}
		}
	}
	return nil
}

func parseInt(field string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(field))
}

func parseFixed(field string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(field), 64)
}

// Lines prints the record back to its two 69-character lines, recomputing
// both checksum digits. Records which came from ParseTLE (or from
// TLEFromCartesianState applied to such a record) reproduce their source
// bytes exactly.
func (t TLE) Lines() (string, string) {
	epochYY := t.EpochYear % 100
	line1 := fmt.Sprintf("1 %5s%1s %-8s %02d%012.8f %s %s %s 0 %4d",
		t.Norad, t.Classification, t.IntDesig, epochYY, t.EpochDay,
		printSignedFixed(t.MeanMotionDot),
		printSignedExp(t.MeanMotionDot2),
		printSignedExp(t.Bstar),
		t.SetNum)
	line2 := fmt.Sprintf("2 %5s %8.4f %8.4f %7s %8.4f %8.4f %11.8f%5d",
		t.Norad, t.Inc, t.RAAN, PrintDecimal(t.Ecc), t.ArgP, t.MeanAnomaly,
		t.MeanMotion, t.RevNum)
	line1 += strconv.Itoa(Checksum(line1))
	line2 += strconv.Itoa(Checksum(line2))
	return line1, line2
}

// printSignedFixed prints the ten-column mean motion derivative field: a sign
// column followed by eight fractional digits with the leading zero dropped.
func printSignedFixed(v float64) string {
	body := fmt.Sprintf("%.8f", math.Abs(v))[1:]
	if v < 0 {
		return "-" + body
	}
	return " " + body
}

// printSignedExp prints an eight-column tle-exponential field including its
// sign column.
func printSignedExp(v float64) string {
	if v < 0 {
		return "-" + PrintExponential(-v)
	}
	return " " + PrintExponential(v)
}

// Epoch returns the epoch as UTC wall-clock time. It is recomputed on every
// call: no cached state hides inside the value.
func (t TLE) Epoch() time.Time {
	yearStart := time.Date(t.EpochYear, 1, 1, 0, 0, 0, 0, time.UTC)
	// Day 1 is January 1st.
	μs := int64(math.Round((t.EpochDay - 1) * 86400e6))
	return yearStart.Add(time.Duration(μs) * time.Microsecond)
}

// EpochJD returns the epoch as a Julian date.
func (t TLE) EpochJD() float64 {
	return julian.TimeToJD(t.Epoch())
}

// Orbit converts the record to its radians/metres Keplerian elements around
// the given body, recovering the semi-major axis from the mean motion via
// Kepler's third law.
func (t TLE) Orbit(c CelestialObject) (Orbit, error) {
	if t.MeanMotion <= 0 {
		return Orbit{}, DomainError{"mean motion", t.MeanMotion, "n > 0"}
	}
	nRad := t.MeanMotion * 2 * math.Pi / 86400 // rad/s
	a := math.Cbrt(c.μ / (nRad * nRad))
	return NewOrbit(a, t.Ecc, Deg2rad(t.Inc), Deg2rad(t.RAAN), Deg2rad(t.ArgP), Deg2rad(t.MeanAnomaly), c)
}

// CartesianState returns the Earth-centered inertial position and velocity of
// the record at its epoch, in metres and metres per second.
func (t TLE) CartesianState() (R, V []float64, err error) {
	o, err := t.Orbit(Earth)
	if err != nil {
		return nil, nil, err
	}
	return o.RV()
}

// TLEFromCartesianState derives a new record from an inertial state (metres,
// metres per second). Identification and drag fields are carried over from
// the template record; only the epoch and element fields are recomputed. Use
// NullTLE as the template when no prior element set exists.
func TLEFromCartesianState(R, V []float64, template TLE, epochYear int, epochDayFrac float64) (TLE, error) {
	o, err := NewOrbitFromRV(R, V, Earth)
	if err != nil {
		return TLE{}, err
	}
	_, e, i, Ω, ω, M := o.Elements()
	return TLE{
		Norad:          template.Norad,
		Classification: template.Classification,
		IntDesig:       template.IntDesig,
		EpochYear:      epochYear,
		EpochDay:       epochDayFrac,
		MeanMotionDot:  template.MeanMotionDot,
		MeanMotionDot2: template.MeanMotionDot2,
		Bstar:          template.Bstar,
		SetNum:         template.SetNum,
		Inc:            Rad2deg(i),
		RAAN:           Rad2deg(Ω),
		Ecc:            e,
		ArgP:           Rad2deg(ω),
		MeanAnomaly:    Rad2deg(M),
		MeanMotion:     o.MeanMotion(),
		RevNum:         template.RevNum,
	}, nil
}

// NullTLE returns a record with placeholder fields, usable as a
// TLEFromCartesianState template when no real element history exists (an
// operator-supplied initial state, say).
func NullTLE() TLE {
	return TLE{
		Norad:          "00000",
		Classification: "U",
		IntDesig:       "        ",
	}
}
