package media

import (
	"errors"
	"testing"
)

func TestCalcBitrate(t *testing.T) {
	tests := []struct {
		name        string
		durationSec float64
		targetMB    int
		expected    int
	}{
		{"ten minutes at 45MB", 600, 45, 486},
		{"five minutes at 45MB", 300, 45, 1100},
		{"short clip", 30, 45, 12160},
		{"hours long clamps to floor", 36000, 45, MinVideoBitrateKbps},
	}
	for _, test := range tests {
		got, err := CalcBitrate(test.durationSec, test.targetMB)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", test.name, err)
		}
		if got != test.expected {
			t.Errorf("%s: CalcBitrate(%v, %d) = %d, expected %d",
				test.name, test.durationSec, test.targetMB, got, test.expected)
		}
	}
}

func TestCalcBitrateFloor(t *testing.T) {
	// Every positive input must stay at or above the floor.
	durations := []float64{1, 10, 600, 3600, 86400}
	targets := []int{1, 10, 45, 50}
	for _, d := range durations {
		for _, mb := range targets {
			got, err := CalcBitrate(d, mb)
			if err != nil {
				t.Fatalf("CalcBitrate(%v, %d): %v", d, mb, err)
			}
			if got < MinVideoBitrateKbps {
				t.Errorf("CalcBitrate(%v, %d) = %d, below floor %d", d, mb, got, MinVideoBitrateKbps)
			}
		}
	}
}

func TestCalcBitrateInvalidDuration(t *testing.T) {
	for _, d := range []float64{0, -1, -600} {
		if _, err := CalcBitrate(d, 45); !errors.Is(err, ErrInvalidDuration) {
			t.Errorf("CalcBitrate(%v, 45): expected ErrInvalidDuration, got %v", d, err)
		}
	}
}
