package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculateMonthlyInstallment(t *testing.T) {
	tests := []struct {
		name       string
		total      decimal.Decimal
		advance    decimal.Decimal
		planMonths int
		expected   decimal.Decimal
	}{
		{
			name:       "standard 24 month plan",
			total:      decimal.NewFromInt(480000),
			advance:    decimal.NewFromInt(120000),
			planMonths: 24,
			expected:   decimal.NewFromInt(15000), // (480,000 - 120,000) / 24
		},
		{
			name:       "rounds up to cover full loan",
			total:      decimal.NewFromInt(100000),
			advance:    decimal.NewFromInt(0),
			planMonths: 12,
			expected:   decimal.NewFromInt(8334), // 100,000 / 12 = 8,333.33 -> 8,334
		},
		{
			name:       "zero advance",
			total:      decimal.NewFromInt(40000),
			advance:    decimal.Zero,
			planMonths: 2,
			expected:   decimal.NewFromInt(20000),
		},
		{
			name:       "fully paid by advance",
			total:      decimal.NewFromInt(50000),
			advance:    decimal.NewFromInt(50000),
			planMonths: 12,
			expected:   decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateMonthlyInstallment(tt.total, tt.advance, tt.planMonths)
			assert.True(t, result.Equal(tt.expected),
				"Expected %v, but got %v", tt.expected, result)
		})
	}
}

func TestParsePlanMonths(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		expected int
		wantErr  bool
	}{
		{name: "twelve month plan", label: "12 Months", expected: 12},
		{name: "twenty four month plan", label: "24 Months", expected: 24},
		{name: "lowercase label", label: "6 months", expected: 6},
		{name: "bare number", label: "18", expected: 18},
		{name: "padded label", label: "  36 Months ", expected: 36},
		{name: "empty label", label: "", wantErr: true},
		{name: "no leading number", label: "Months 12", wantErr: true},
		{name: "zero months", label: "0 Months", wantErr: true},
		{name: "negative months", label: "-3 Months", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			months, err := ParsePlanMonths(tt.label)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, months)
		})
	}
}

func TestDaysBetween(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		from     time.Time
		to       time.Time
		expected int
	}{
		{
			name:     "same day",
			from:     base,
			to:       base,
			expected: 0,
		},
		{
			name:     "forty days later",
			from:     base,
			to:       base.AddDate(0, 0, 40),
			expected: 40,
		},
		{
			name:     "time of day is ignored",
			from:     base.Add(23 * time.Hour),
			to:       base.AddDate(0, 0, 1).Add(1 * time.Minute),
			expected: 1,
		},
		{
			name:     "due date in the future",
			from:     base.AddDate(0, 0, 10),
			to:       base,
			expected: -10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DaysBetween(tt.from, tt.to))
		})
	}
}

func TestAddMonths(t *testing.T) {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), AddMonths(start, 1))
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), AddMonths(start, 12))
}
