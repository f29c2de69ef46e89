package timestamp_test

import (
	"errors"
	"testing"

	"github.com/aaaronmiller/ripit/internal/timestamp"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{"hours minutes seconds", "1:30:15", 5415},
		{"minutes overflow sixty", "75:15", 4515},
		{"bare seconds", "30", 30},
		{"zero padded minutes", "05:09", 309},
		{"fractional seconds", "02:15.5", 135.5},
		{"zero", "0:00", 0},
		{"surrounding whitespace", "  1:00  ", 60},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := timestamp.Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseMalformed(t *testing.T) {
	t.Parallel()

	inputs := []string{"", ":", "1:2:3:4", "abc", "1:xx", "-1:00", "1:-30", "1::30"}
	for _, in := range inputs {
		if _, err := timestamp.Parse(in); !errors.Is(err, timestamp.ErrMalformed) {
			t.Errorf("Parse(%q) error = %v, want ErrMalformed", in, err)
		}
	}
}

func TestFFmpeg(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    float64
		expected string
	}{
		{0, "0.000"},
		{135.5, "135.500"},
		{5.2, "5.200"},
		{3600, "3600.000"},
	}
	for _, tt := range tests {
		if got := timestamp.FFmpeg(tt.input); got != tt.expected {
			t.Errorf("FFmpeg(%v) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestClock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    float64
		expected string
	}{
		{0, "0:00"},
		{90, "1:30"},
		{135.5, "2:15"},
		{3600, "1:00:00"},
		{5415, "1:30:15"},
	}
	for _, tt := range tests {
		if got := timestamp.Clock(tt.input); got != tt.expected {
			t.Errorf("Clock(%v) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
