package amortization

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customError "github.com/lendana/loan-engine/pkg/errors"
)

func TestMonthlyPayment(t *testing.T) {
	tests := []struct {
		name       string
		amount     decimal.Decimal
		annualRate decimal.Decimal
		termMonths int
		expected   decimal.Decimal
	}{
		{
			name:       "standard annuity loan",
			amount:     decimal.NewFromInt(100000),
			annualRate: decimal.NewFromInt(4),
			termMonths: 48,
			expected:   decimal.NewFromFloat(2257.91),
		},
		{
			name:       "zero interest rate degenerates to amount/term",
			amount:     decimal.NewFromInt(12000),
			annualRate: decimal.Zero,
			termMonths: 12,
			expected:   decimal.NewFromInt(1000),
		},
		{
			name:       "two year loan at 6 percent",
			amount:     decimal.NewFromInt(250000),
			annualRate: decimal.NewFromInt(6),
			termMonths: 24,
			expected:   decimal.NewFromFloat(11080.15),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payment, err := MonthlyPayment(tt.amount, tt.annualRate, tt.termMonths)
			require.NoError(t, err)
			assert.True(t, payment.Round(2).Equal(tt.expected),
				"expected %s, got %s", tt.expected, payment.Round(2))
		})
	}
}

func TestMonthlyPayment_InvalidParameters(t *testing.T) {
	tests := []struct {
		name       string
		amount     decimal.Decimal
		annualRate decimal.Decimal
		termMonths int
	}{
		{"zero amount", decimal.Zero, decimal.NewFromInt(4), 12},
		{"negative amount", decimal.NewFromInt(-100), decimal.NewFromInt(4), 12},
		{"zero term", decimal.NewFromInt(100000), decimal.NewFromInt(4), 0},
		{"negative term", decimal.NewFromInt(100000), decimal.NewFromInt(4), -1},
		{"negative rate", decimal.NewFromInt(100000), decimal.NewFromInt(-1), 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MonthlyPayment(tt.amount, tt.annualRate, tt.termMonths)
			assert.ErrorIs(t, err, customError.ErrInvalidLoanParameters)
		})
	}
}

func TestSchedule_StandardLoan(t *testing.T) {
	terms := Terms{
		Amount:     decimal.NewFromInt(100000),
		AnnualRate: decimal.NewFromInt(4),
		TermMonths: 48,
		StartDate:  time.Date(2025, 4, 25, 0, 0, 0, 0, time.UTC),
	}

	items, err := Schedule(terms)
	require.NoError(t, err)
	require.Len(t, items, 48)

	// Numbers strictly increasing 1..term
	for i, item := range items {
		assert.Equal(t, i+1, item.Number)
	}

	first := items[0]
	assert.True(t, first.PaymentAmount.Equal(decimal.NewFromFloat(2257.91)), "payment %s", first.PaymentAmount)
	assert.True(t, first.Interest.Equal(decimal.NewFromFloat(333.33)), "interest %s", first.Interest)
	assert.True(t, first.Principal.Equal(decimal.NewFromFloat(1924.57)), "principal %s", first.Principal)
	assert.True(t, first.RemainingBalance.Equal(decimal.NewFromFloat(98075.43)), "balance %s", first.RemainingBalance)
	assert.Equal(t, terms.StartDate, first.DueDate)

	// Final balance lands within a minor currency unit of zero
	last := items[len(items)-1]
	assert.True(t, last.RemainingBalance.Abs().LessThanOrEqual(decimal.NewFromFloat(0.01)),
		"final balance %s", last.RemainingBalance)

	// Principal portions sum back to the amount, within per-row rounding drift
	totalPrincipal := decimal.Zero
	for _, item := range items {
		totalPrincipal = totalPrincipal.Add(item.Principal)
	}
	drift := totalPrincipal.Sub(terms.Amount).Abs()
	assert.True(t, drift.LessThanOrEqual(decimal.NewFromFloat(0.5)), "principal drift %s", drift)
}

func TestSchedule_ZeroRate(t *testing.T) {
	terms := Terms{
		Amount:     decimal.NewFromInt(12000),
		AnnualRate: decimal.Zero,
		TermMonths: 12,
		StartDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	items, err := Schedule(terms)
	require.NoError(t, err)
	require.Len(t, items, 12)

	for _, item := range items {
		assert.True(t, item.Interest.IsZero(), "row %d interest %s", item.Number, item.Interest)
		assert.True(t, item.PaymentAmount.Equal(decimal.NewFromInt(1000)))
		assert.True(t, item.Principal.Equal(decimal.NewFromInt(1000)))
	}
	assert.True(t, items[11].RemainingBalance.IsZero())
}

func TestSchedule_DueDateClamping(t *testing.T) {
	terms := Terms{
		Amount:     decimal.NewFromInt(300000),
		AnnualRate: decimal.NewFromInt(4),
		TermMonths: 3,
		StartDate:  time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
	}

	items, err := Schedule(terms)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), items[0].DueDate)
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), items[1].DueDate)
	assert.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), items[2].DueDate)
}

func TestSchedule_Statuses(t *testing.T) {
	terms := Terms{
		Amount:       decimal.NewFromInt(120000),
		AnnualRate:   decimal.NewFromInt(4),
		TermMonths:   12,
		StartDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		PaymentsMade: 3,
	}

	items, err := Schedule(terms)
	require.NoError(t, err)
	require.Len(t, items, 12)

	for _, item := range items {
		switch {
		case item.Number <= 3:
			assert.Equal(t, StatusPaid, item.Status, "row %d", item.Number)
		case item.Number == 4:
			assert.Equal(t, StatusPending, item.Status)
		default:
			assert.Equal(t, StatusOverdue, item.Status, "row %d", item.Number)
		}
	}
}

func TestSchedule_Idempotent(t *testing.T) {
	terms := Terms{
		Amount:       decimal.NewFromInt(500000),
		AnnualRate:   decimal.NewFromFloat(5.5),
		TermMonths:   36,
		StartDate:    time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		PaymentsMade: 10,
	}

	first, err := Schedule(terms)
	require.NoError(t, err)
	second, err := Schedule(terms)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestStatus(t *testing.T) {
	assert.Equal(t, StatusPaid, Status(1, 3))
	assert.Equal(t, StatusPaid, Status(3, 3))
	assert.Equal(t, StatusPending, Status(4, 3))
	assert.Equal(t, StatusOverdue, Status(5, 3))
	assert.Equal(t, StatusPending, Status(1, 0))
}
