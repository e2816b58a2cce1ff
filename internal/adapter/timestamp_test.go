package adapter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseISOMillis(t *testing.T) {
	tests := []struct {
		in       string
		expected int64
		ok       bool
	}{
		{"2024-01-15T10:30:00.000Z", 1705314600000, true},
		{"2024-01-15T10:30:00Z", 1705314600000, true},
		{"2024-01-15T10:30:00.123Z", 1705314600123, true},
		{"2024-01-15T12:30:00+02:00", 1705314600000, true},
		{"2024-01-15T10:30:00", 1705314600000, true},
		{"2024-01-15", 1705276800000, true},
		{" 2024-01-15T10:30:00Z ", 1705314600000, true},
		{"", 0, false},
		{"yesterday", 0, false},
		{"2024-13-45T99:00:00Z", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseISOMillis(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSecondsToMillis(t *testing.T) {
	tests := []struct {
		name     string
		in       float64
		expected int64
		ok       bool
	}{
		{"whole seconds", 1705314600, 1705314600000, true},
		{"fractional seconds", 1705314600.5, 1705314600500, true},
		{"zero drops", 0, 0, false},
		{"negative drops", -5, 0, false},
		{"nan drops", math.NaN(), 0, false},
		{"infinity drops", math.Inf(1), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SecondsToMillis(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}
