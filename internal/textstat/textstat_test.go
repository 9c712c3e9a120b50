package textstat

import "testing"

func TestAlphabeticalRatio(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"empty", "", 0.0},
		{"all letters", "hello", 1.0},
		{"half digits", "ab12", 0.5},
		{"punctuation and space stripped", "a, b! c?", 3.0 / 8.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AlphabeticalRatio(tt.in)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("AlphabeticalRatio(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		f       float64
		ndigits int
		want    float64
	}{
		{0.123456, 3, 0.123},
		{0.1235, 3, 0.124},
		{1.0, 3, 1.0},
		{-0.1235, 3, -0.124},
	}
	for _, tt := range tests {
		got := Round(tt.f, tt.ndigits)
		if got != tt.want {
			t.Errorf("Round(%v, %d) = %v, want %v", tt.f, tt.ndigits, got, tt.want)
		}
	}
}

func TestStripDigits(t *testing.T) {
	got := StripDigits("a1b2c3")
	if got != "abc" {
		t.Errorf("StripDigits = %q, want %q", got, "abc")
	}
}

func TestRuneLen(t *testing.T) {
	if RuneLen("héllo") != 5 {
		t.Errorf("RuneLen(héllo) = %d, want 5", RuneLen("héllo"))
	}
}
