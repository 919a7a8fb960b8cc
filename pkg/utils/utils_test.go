package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		months   int
		expected time.Time
	}{
		{
			name:     "plain month advance",
			start:    time.Date(2025, 4, 25, 0, 0, 0, 0, time.UTC),
			months:   1,
			expected: time.Date(2025, 5, 25, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "jan 31 clamps to feb 28",
			start:    time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
			months:   1,
			expected: time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "jan 31 clamps to feb 29 in leap year",
			start:    time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			months:   1,
			expected: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "jan 31 two months ahead keeps day 31",
			start:    time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
			months:   2,
			expected: time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "year rollover",
			start:    time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC),
			months:   3,
			expected: time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "negative months",
			start:    time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
			months:   -1,
			expected: time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "zero months",
			start:    time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
			months:   0,
			expected: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AddMonths(tt.start, tt.months))
		})
	}
}

func TestFormatPHP(t *testing.T) {
	tests := []struct {
		amount   decimal.Decimal
		expected string
	}{
		{decimal.NewFromInt(1000), "PHP 1,000.00"},
		{decimal.NewFromFloat(1234567.89), "PHP 1,234,567.89"},
		{decimal.NewFromFloat(999.5), "PHP 999.50"},
		{decimal.NewFromInt(0), "PHP 0.00"},
		{decimal.NewFromFloat(-2500.75), "PHP -2,500.75"},
		{decimal.NewFromInt(100), "PHP 100.00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatPHP(tt.amount))
	}
}

func TestFormatLongDate(t *testing.T) {
	assert.Equal(t, "April 25, 2025", FormatLongDate(time.Date(2025, 4, 25, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "January 2, 2026", FormatLongDate(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)))
}
