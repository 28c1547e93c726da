package julian

import (
	"math"
	"testing"
	"time"
)

func TestFromTime_Epoch(t *testing.T) {
	epoch := time.Date(1979, 12, 31, 0, 0, 0, 0, time.UTC)
	if d := FromTime(epoch); d != 0 {
		t.Errorf("epoch: got %v want 0", d)
	}
}

func TestFromTime_OneDay(t *testing.T) {
	d := FromTime(time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC))
	if math.Abs(float64(d)-1.0) > 1e-12 {
		t.Errorf("1980-01-01: got %v want 1", d)
	}
}

func TestTime_Roundtrip(t *testing.T) {
	times := []time.Time{
		time.Date(1980, 1, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 15, 23, 59, 59, 0, time.UTC),
		time.Date(1970, 3, 3, 6, 30, 0, 0, time.UTC),
	}
	for _, want := range times {
		got := FromTime(want).Time()
		if diff := got.Sub(want); diff < -time.Millisecond || diff > time.Millisecond {
			t.Errorf("roundtrip %v: got %v (diff %v)", want, got, diff)
		}
	}
}

func TestJD(t *testing.T) {
	// 2000-01-01 12:00 UTC is J2000, JD 2451545.0.
	d := FromTime(time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC))
	if math.Abs(d.JD()-2451545.0) > 1e-9 {
		t.Errorf("J2000: got %v want 2451545.0", d.JD())
	}
	if got := FromJD(d.JD()); math.Abs(float64(got-d)) > 1e-12 {
		t.Errorf("FromJD roundtrip: got %v want %v", got, d)
	}
}

func TestDayOfYearJD(t *testing.T) {
	tests := []struct {
		year int
		want float64
	}{
		{2024, 2460309.5}, // 2023-12-31 00:00
		{2000, 2451543.5}, // 1999-12-31 00:00
		{1980, 2444238.5}, // 1979-12-31 00:00
	}
	for _, tc := range tests {
		if got := DayOfYearJD(tc.year); got != tc.want {
			t.Errorf("DayOfYearJD(%d) = %v, want %v", tc.year, got, tc.want)
		}
	}
}

func TestFromTLEEpoch(t *testing.T) {
	// 24001.0 is 2024-01-01 00:00 UTC.
	d := FromTLEEpoch(24, 1.0)
	want := FromTime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if math.Abs(float64(d-want)) > 1e-9 {
		t.Errorf("24001.0: got %v want %v", d, want)
	}

	// Years >= 57 are in the 1900s.
	d = FromTLEEpoch(80, 275.5)
	want = FromTime(time.Date(1980, 10, 1, 12, 0, 0, 0, time.UTC))
	if math.Abs(float64(d-want)) > 1e-9 {
		t.Errorf("80275.5: got %v want %v", d, want)
	}
}

func TestAddSub(t *testing.T) {
	d := FromTime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	later := d.Add(90 * time.Minute)
	if diff := later.Sub(d); diff != 90*time.Minute {
		t.Errorf("Add/Sub: got %v want 90m", diff)
	}
}
