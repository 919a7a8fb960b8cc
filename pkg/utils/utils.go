package utils

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AddMonths advances a date by whole calendar months, preserving the
// day-of-month where the target month supports it and clamping to the
// last valid day otherwise (Jan 31 + 1 month = Feb 28/29).
// time.AddDate normalizes overflow instead of clamping, so it cannot be
// used for due dates.
func AddMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()

	total := int(month) - 1 + months
	year += total / 12
	monthIndex := total % 12
	if monthIndex < 0 {
		monthIndex += 12
		year--
	}
	targetMonth := time.Month(monthIndex + 1)

	// Day 0 of the following month is the last day of the target month.
	lastDay := time.Date(year, targetMonth+1, 0, 0, 0, 0, 0, t.Location()).Day()
	if day > lastDay {
		day = lastDay
	}

	h, m, s := t.Clock()
	return time.Date(year, targetMonth, day, h, m, s, t.Nanosecond(), t.Location())
}

// FormatPHP renders an amount as PHP-denominated text with two decimal
// places and thousands separators, e.g. "PHP 1,234,567.89".
func FormatPHP(amount decimal.Decimal) string {
	s := amount.StringFixed(2)

	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	intPart := s[:len(s)-3]
	fracPart := s[len(s)-3:]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := "PHP " + b.String() + fracPart
	if negative {
		out = "PHP -" + b.String() + fracPart
	}
	return out
}

// FormatLongDate renders a date as long-form month/day/year, e.g. "April 25, 2025".
func FormatLongDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

// IsDateOverdue checks if a date is overdue (past current date)
func IsDateOverdue(dueDate time.Time) bool {
	return time.Now().After(dueDate)
}

// DecimalFromFloat converts float64 to decimal.Decimal
func DecimalFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// DecimalFromString converts string to decimal.Decimal
func DecimalFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
