package weather

import (
	"testing"
)

// TestTempF verifies the Celsius to Fahrenheit derivation.
func TestTempF(t *testing.T) {
	cases := []struct {
		celsius float64
		want    float64
	}{
		{20, 68.0},
		{0, 32.0},
		{-40, -40.0},
		{37.5, 99.5},
	}

	for _, tc := range cases {
		r := Reading{TempC: tc.celsius}
		if got := Round1(r.TempF()); got != tc.want {
			t.Errorf("TempF(%v) = %v, want %v", tc.celsius, got, tc.want)
		}
	}
}

func TestRound1(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{20.04, 20.0},
		{19.96, 20.0},
		{3.14159, 3.1},
		{68, 68.0},
		{-3.26, -3.3},
	}

	for _, tc := range cases {
		if got := Round1(tc.in); got != tc.want {
			t.Errorf("Round1(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
