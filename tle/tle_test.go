package tle

import (
	"math"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	issName  = "ISS (ZARYA)"
	issLine1 = "1 25544U 98067A   24001.00000000  .00016717  00000-0  10270-3 0  9004"
	issLine2 = "2 25544  51.6400 208.9163 0006703 247.1970 112.8444 15.49560830999993"
)

func TestChecksum_ISS(t *testing.T) {
	if got := Checksum(issLine1); got != 4 {
		t.Errorf("line 1 checksum: got %d want 4", got)
	}
	if got := Checksum(issLine2); got != 3 {
		t.Errorf("line 2 checksum: got %d want 3", got)
	}
}

func TestParse_ISS(t *testing.T) {
	el, err := Parse([]string{issName, issLine1, issLine2})
	require.NoError(t, err)

	assert.Equal(t, issName, el.Name)
	assert.Equal(t, issLine1, el.Line1)
	assert.Equal(t, issLine2, el.Line2)

	assert.Equal(t, 25544, el.CatalogNumber)
	assert.Equal(t, "98067A", el.Designator)
	assert.Equal(t, 24, el.EpochYear)
	assert.InDelta(t, 1.0, el.EpochDay, 1e-12)
	assert.Equal(t, 900, el.ElementSet)
	assert.Equal(t, 99999, el.RevNumber)

	assert.InDelta(t, 51.6400, el.InclinationDeg, 1e-12)
	assert.InDelta(t, 208.9163, el.RAANDeg, 1e-12)
	assert.InDelta(t, 0.0006703, el.Eccentricity, 1e-12)
	assert.InDelta(t, 247.1970, el.ArgPerigeeDeg, 1e-12)
	assert.InDelta(t, 112.8444, el.MeanAnomalyDeg, 1e-12)
	assert.InDelta(t, 15.49560830, el.MeanMotion, 1e-12)
	assert.InDelta(t, 0.00016717, el.Drag, 1e-12)
	assert.InDelta(t, 0.10270e-3, el.Bstar, 1e-12)

	// Unit conversion to radians and radians/minute.
	assert.InDelta(t, 51.64*math.Pi/180, el.Xincl, 1e-12)
	assert.InDelta(t, 15.49560830*2*math.Pi/1440, el.Xno, 1e-12)
	assert.InDelta(t, 0.00016717*2*math.Pi/(1440*1440), el.Xndt2o, 1e-15)
}

func TestParse_WithoutName(t *testing.T) {
	el, err := Parse([]string{issLine1, issLine2})
	require.NoError(t, err)
	assert.Empty(t, el.Name)
	assert.Equal(t, 25544, el.CatalogNumber)
}

func TestParse_NameTruncated(t *testing.T) {
	long := strings.Repeat("x", 200)
	el, err := Parse([]string{long, issLine1, issLine2})
	require.NoError(t, err)
	assert.Len(t, el.Name, 128)
}

func TestParse_BadChecksum(t *testing.T) {
	bad := issLine1[:68] + "7"
	_, err := Parse([]string{bad, issLine2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidChecksum))
}

func TestParse_BadFormat(t *testing.T) {
	// Corrupt the inclination field; the checksum is recomputed so that
	// only the format check can fail.
	line2 := issLine2[:8] + "  xx.yyy" + issLine2[16:68]
	line2 += string(rune('0' + Checksum(line2+"0")))
	_, err := Parse([]string{issLine1, line2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidFormat))
}

func TestParse_TooFewLines(t *testing.T) {
	_, err := Parse([]string{issLine1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidFormat))
}

func TestParse_CatalogNumberMismatch(t *testing.T) {
	other := "2 25545" + issLine2[7:68]
	other += string(rune('0' + Checksum(other+"0")))
	_, err := Parse([]string{issLine1, other})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidFormat))
}

func TestParseImplicitDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{" 10270-3", 0.10270e-3},
		{"-11606-4", -0.11606e-4},
		{" 00000-0", 0},
		{" 13844-3", 0.13844e-3},
		{" 66816-4", 0.66816e-4},
		{"", 0},
	}
	for _, tc := range tests {
		got, err := parseImplicitDecimal(tc.in)
		if err != nil {
			t.Errorf("parseImplicitDecimal(%q): %v", tc.in, err)
			continue
		}
		if math.Abs(got-tc.want) > 1e-15 {
			t.Errorf("parseImplicitDecimal(%q) = %g, want %g", tc.in, got, tc.want)
		}
	}
}

func TestParse_Epoch(t *testing.T) {
	el, err := Parse([]string{issLine1, issLine2})
	require.NoError(t, err)
	// 24001.0 → 2024-01-01 00:00 UTC.
	assert.Equal(t, "2024-01-01 00:00:00", el.Epoch.Time().Format("2006-01-02 15:04:05"))
}
