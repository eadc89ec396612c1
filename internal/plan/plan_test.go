package plan

import (
	"testing"
	"time"
)

func TestFrequencyValid(t *testing.T) {
	tests := []struct {
		name      string
		frequency Frequency
		expected  bool
	}{
		{"Weekly", FrequencyWeekly, true},
		{"Monthly", FrequencyMonthly, true},
		{"Quarterly", FrequencyQuarterly, true},
		{"Daily unsupported", Frequency("DAILY"), false},
		{"Empty", Frequency(""), false},
		{"Lowercase not normalized", Frequency("monthly"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.frequency.Valid(); result != tt.expected {
				t.Errorf("Valid(%s) = %v, expected %v", tt.frequency, result, tt.expected)
			}
		})
	}
}

func TestFrequencyPeriodsPerYear(t *testing.T) {
	tests := []struct {
		frequency Frequency
		expected  int
	}{
		{FrequencyWeekly, 52},
		{FrequencyMonthly, 12},
		{FrequencyQuarterly, 4},
		{Frequency("DAILY"), 0},
	}

	for _, tt := range tests {
		if result := tt.frequency.PeriodsPerYear(); result != tt.expected {
			t.Errorf("PeriodsPerYear(%s) = %d, expected %d", tt.frequency, result, tt.expected)
		}
	}
}

func TestFrequencyAdvance(t *testing.T) {
	start := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		frequency Frequency
		periods   int
		expected  time.Time
	}{
		{"One week", FrequencyWeekly, 1, time.Date(2026, 1, 22, 0, 0, 0, 0, time.UTC)},
		{"Three weeks", FrequencyWeekly, 3, time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC)},
		{"One month", FrequencyMonthly, 1, time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)},
		{"Twelve months", FrequencyMonthly, 12, time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"One quarter", FrequencyQuarterly, 1, time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)},
		{"Four quarters", FrequencyQuarterly, 4, time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.frequency.Advance(start, tt.periods)
			if !result.Equal(tt.expected) {
				t.Errorf("Advance(%s, %d) = %v, expected %v", tt.frequency, tt.periods, result, tt.expected)
			}
		})
	}
}
