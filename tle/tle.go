// Package tle parses NORAD two-line element sets.
//
// Parsing validates the modulo-10 checksum on both data lines, extracts the
// fixed-column fields, and converts them from TLE conventions (degrees,
// revolutions per day, implicit decimal points) to the internal units used by
// the SGP4/SDP4 propagators (radians, radians per minute).
package tle

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/kroburg/libpredict/julian"
)

// Sentinel errors returned by Parse.
var (
	// ErrInvalidChecksum indicates the mod-10 checksum of a data line does
	// not match its trailing digit.
	ErrInvalidChecksum = errors.New("tle: invalid checksum")

	// ErrInvalidFormat indicates a required field could not be parsed.
	ErrInvalidFormat = errors.New("tle: invalid format")
)

const (
	lineLength = 69

	deg2rad    = math.Pi / 180.0
	twoPi      = 2 * math.Pi
	minPerDay  = 1440.0
	maxNameLen = 128
)

// TLE holds a processed two-line element set.
//
// The Xndt2o/Xndd6o/Bstar/Xincl/Xnodeo/Eo/Omegao/Xmo/Xno group carries the
// propagator inputs in SGP4 internal units. The remaining fields retain the
// human-readable values as printed in the element set.
type TLE struct {
	// Name is the satellite name from the optional leading line, truncated
	// to 128 characters. Empty if no name line was supplied.
	Name string

	// Line1 and Line2 are the original data lines, verbatim.
	Line1, Line2 string

	// Epoch is the element epoch in the prediction time scale.
	Epoch julian.Date

	// EpochYear is the two-digit epoch year as printed; EpochDay is the
	// fractional day of year.
	EpochYear int
	EpochDay  float64

	CatalogNumber int
	Designator    string
	ElementSet    int
	EphemerisType int
	RevNumber     int

	// Propagator inputs, SGP4 internal units.
	Xndt2o float64 // first derivative of mean motion / 2, rad/min²
	Xndd6o float64 // second derivative of mean motion / 6, rad/min³
	Bstar  float64 // B* drag term, 1/earth radii
	Xincl  float64 // inclination, rad
	Xnodeo float64 // right ascension of ascending node, rad
	Eo     float64 // eccentricity
	Omegao float64 // argument of perigee, rad
	Xmo    float64 // mean anomaly, rad
	Xno    float64 // mean motion, rad/min

	// Display values as printed in the element set.
	InclinationDeg float64
	RAANDeg        float64
	Eccentricity   float64
	ArgPerigeeDeg  float64
	MeanAnomalyDeg float64
	MeanMotion     float64 // revolutions per day
	Drag           float64 // first derivative of mean motion / 2, rev/day²
	Nddot6         float64 // second derivative of mean motion / 6, rev/day³
}

// Parse processes a two-line element set. lines holds either the two data
// lines, or a free-form name line followed by the two data lines. Data lines
// longer than 69 characters are trimmed to 69; shorter lines are rejected
// with ErrInvalidFormat, or with ErrInvalidChecksum when their final digit
// does not match.
func Parse(lines []string) (*TLE, error) {
	var name, line1, line2 string
	switch {
	case len(lines) >= 3 && !isDataLine(lines[0]):
		name, line1, line2 = strings.TrimSpace(lines[0]), lines[1], lines[2]
	case len(lines) >= 2:
		line1, line2 = lines[0], lines[1]
	default:
		return nil, errors.Wrap(ErrInvalidFormat, "need two element lines")
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}

	line1 = trimLine(line1)
	line2 = trimLine(line2)

	for i, line := range []string{line1, line2} {
		if err := verifyChecksum(line); err != nil {
			return nil, errors.Wrapf(err, "line %d", i+1)
		}
	}
	if len(line1) < lineLength || len(line2) < lineLength {
		return nil, errors.Wrap(ErrInvalidFormat, "element lines must be 69 characters")
	}
	if line1[0] != '1' || line2[0] != '2' {
		return nil, errors.Wrap(ErrInvalidFormat, "line numbers")
	}

	t := &TLE{Name: name, Line1: line1, Line2: line2}
	if err := t.parseLine1(line1); err != nil {
		return nil, err
	}
	if err := t.parseLine2(line2); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *TLE) parseLine1(line string) error {
	var err error
	if t.CatalogNumber, err = parseInt(line[2:7]); err != nil {
		return errors.Wrap(ErrInvalidFormat, "catalog number")
	}
	t.Designator = strings.TrimSpace(line[9:17])

	if t.EpochYear, err = parseInt(line[18:20]); err != nil {
		return errors.Wrap(ErrInvalidFormat, "epoch year")
	}
	if t.EpochDay, err = parseFloat(line[20:32]); err != nil {
		return errors.Wrap(ErrInvalidFormat, "epoch day")
	}
	t.Epoch = julian.FromTLEEpoch(t.EpochYear, t.EpochDay)

	if t.Drag, err = parseFloat(line[33:43]); err != nil {
		return errors.Wrap(ErrInvalidFormat, "mean motion derivative")
	}
	if t.Nddot6, err = parseImplicitDecimal(line[44:52]); err != nil {
		return errors.Wrap(ErrInvalidFormat, "second derivative")
	}
	if t.Bstar, err = parseImplicitDecimal(line[53:61]); err != nil {
		return errors.Wrap(ErrInvalidFormat, "bstar")
	}
	if t.EphemerisType, err = parseInt(line[62:63]); err != nil {
		t.EphemerisType = 0
	}
	if t.ElementSet, err = parseInt(line[64:68]); err != nil {
		return errors.Wrap(ErrInvalidFormat, "element set number")
	}

	// rev/day² → rad/min², rev/day³ → rad/min³.
	t.Xndt2o = t.Drag * twoPi / (minPerDay * minPerDay)
	t.Xndd6o = t.Nddot6 * twoPi / (minPerDay * minPerDay * minPerDay)
	return nil
}

func (t *TLE) parseLine2(line string) error {
	var err error
	catnum, err := parseInt(line[2:7])
	if err != nil {
		return errors.Wrap(ErrInvalidFormat, "catalog number")
	}
	if catnum != t.CatalogNumber {
		return errors.Wrap(ErrInvalidFormat, "catalog number mismatch between lines")
	}
	if t.InclinationDeg, err = parseFloat(line[8:16]); err != nil {
		return errors.Wrap(ErrInvalidFormat, "inclination")
	}
	if t.RAANDeg, err = parseFloat(line[17:25]); err != nil {
		return errors.Wrap(ErrInvalidFormat, "right ascension")
	}
	if t.Eccentricity, err = parseFloat("." + strings.TrimSpace(line[26:33])); err != nil {
		return errors.Wrap(ErrInvalidFormat, "eccentricity")
	}
	if t.ArgPerigeeDeg, err = parseFloat(line[34:42]); err != nil {
		return errors.Wrap(ErrInvalidFormat, "argument of perigee")
	}
	if t.MeanAnomalyDeg, err = parseFloat(line[43:51]); err != nil {
		return errors.Wrap(ErrInvalidFormat, "mean anomaly")
	}
	if t.MeanMotion, err = parseFloat(line[52:63]); err != nil {
		return errors.Wrap(ErrInvalidFormat, "mean motion")
	}
	if t.RevNumber, err = parseInt(line[63:68]); err != nil {
		return errors.Wrap(ErrInvalidFormat, "revolution number")
	}

	t.Xincl = t.InclinationDeg * deg2rad
	t.Xnodeo = t.RAANDeg * deg2rad
	t.Eo = t.Eccentricity
	t.Omegao = t.ArgPerigeeDeg * deg2rad
	t.Xmo = t.MeanAnomalyDeg * deg2rad
	t.Xno = t.MeanMotion * twoPi / minPerDay
	return nil
}

// Checksum computes the NORAD modulo-10 checksum of a data line: the sum of
// all digits plus one for every '-' character, over everything but the final
// column.
func Checksum(line string) int {
	sum := 0
	end := len(line) - 1
	if end > lineLength-1 {
		end = lineLength - 1
	}
	for _, c := range line[:end] {
		switch {
		case c >= '0' && c <= '9':
			sum += int(c - '0')
		case c == '-':
			sum++
		}
	}
	return sum % 10
}

func verifyChecksum(line string) error {
	if len(line) < 2 {
		return errors.Wrap(ErrInvalidFormat, "line too short")
	}
	last := line[len(line)-1]
	if last < '0' || last > '9' {
		return errors.Wrap(ErrInvalidFormat, "checksum digit")
	}
	if Checksum(line) != int(last-'0') {
		return ErrInvalidChecksum
	}
	return nil
}

func isDataLine(line string) bool {
	line = trimLine(line)
	return len(line) >= 2 && (line[0] == '1' || line[0] == '2') && line[1] == ' '
}

func trimLine(line string) string {
	line = strings.TrimRight(line, "\r\n ")
	if len(line) > lineLength {
		line = line[:lineLength]
	}
	return line
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// parseImplicitDecimal parses TLE exponent notation with an assumed leading
// decimal point, e.g. " 10270-3" → 0.10270e-3 and "-11606-4" → -0.11606e-4.
func parseImplicitDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	sign := 1.0
	switch s[0] {
	case '-':
		sign = -1.0
		s = s[1:]
	case '+':
		s = s[1:]
	}
	// Split off a trailing exponent introduced by '+' or '-'.
	exp := 0
	for i := len(s) - 1; i > 0; i-- {
		if s[i] == '+' || s[i] == '-' {
			e, err := strconv.Atoi(s[i:])
			if err != nil {
				return 0, err
			}
			exp = e
			s = s[:i]
			break
		}
	}
	mantissa, err := strconv.ParseFloat("0."+strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	return sign * mantissa * math.Pow(10, float64(exp)), nil
}
