package amortization

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	customError "github.com/lendana/loan-engine/pkg/errors"
	"github.com/lendana/loan-engine/pkg/utils"
)

// Installment statuses
const (
	StatusPaid    = "paid"
	StatusPending = "pending"
	StatusOverdue = "overdue"
)

// Terms are the inputs to the schedule calculation. AnnualRate is a
// percentage (4 means 4%/year), TermMonths the number of monthly periods.
type Terms struct {
	Amount       decimal.Decimal
	AnnualRate   decimal.Decimal
	TermMonths   int
	StartDate    time.Time
	PaymentsMade int
}

// ScheduleItem is one row of the derived repayment schedule. It is never
// persisted; the schedule is recomputed from the loan on every read.
type ScheduleItem struct {
	Number           int             `json:"number"`
	DueDate          time.Time       `json:"due_date"`
	PaymentAmount    decimal.Decimal `json:"payment_amount"`
	Principal        decimal.Decimal `json:"principal"`
	Interest         decimal.Decimal `json:"interest"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	Status           string          `json:"status"`
}

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
	one     = decimal.NewFromInt(1)
)

// MonthlyRate converts an annual percentage rate to a periodic monthly rate.
func MonthlyRate(annualRate decimal.Decimal) decimal.Decimal {
	return annualRate.Div(hundred).Div(twelve)
}

// MonthlyPayment computes the level payment for the given terms using the
// standard annuity formula. The closed form is undefined at rate zero, so
// zero-rate loans degenerate to amount/term with no interest.
func MonthlyPayment(amount decimal.Decimal, annualRate decimal.Decimal, termMonths int) (decimal.Decimal, error) {
	if err := validate(amount, annualRate, termMonths); err != nil {
		return decimal.Zero, err
	}

	term := decimal.NewFromInt(int64(termMonths))

	rate := MonthlyRate(annualRate)
	if rate.IsZero() {
		return amount.Div(term), nil
	}

	// payment = amount * rate * (1+rate)^term / ((1+rate)^term - 1)
	factor := one.Add(rate).Pow(term)
	return amount.Mul(rate).Mul(factor).Div(factor.Sub(one)), nil
}

// Schedule produces one ScheduleItem per period, index 1..term. The running
// balance is accumulated at full precision; emitted currency fields are
// rounded to 2 decimal places for display. The final row's remaining
// balance lands within a minor currency unit of zero.
func Schedule(terms Terms) ([]*ScheduleItem, error) {
	payment, err := MonthlyPayment(terms.Amount, terms.AnnualRate, terms.TermMonths)
	if err != nil {
		return nil, err
	}

	rate := MonthlyRate(terms.AnnualRate)
	balance := terms.Amount

	items := make([]*ScheduleItem, 0, terms.TermMonths)
	for number := 1; number <= terms.TermMonths; number++ {
		interest := balance.Mul(rate)
		principal := payment.Sub(interest)
		balance = balance.Sub(principal)

		items = append(items, &ScheduleItem{
			Number:           number,
			DueDate:          utils.AddMonths(terms.StartDate, number-1),
			PaymentAmount:    payment.Round(2),
			Principal:        principal.Round(2),
			Interest:         interest.Round(2),
			RemainingBalance: balance.Round(2),
			Status:           Status(number, terms.PaymentsMade),
		})
	}

	return items, nil
}

// Status derives the display status for an installment: periods up to
// paymentsMade are paid, the next due period is pending, everything after
// it is overdue. The blanket overdue label for future periods mirrors the
// dashboard's historical behavior and is kept for compatibility.
func Status(number, paymentsMade int) string {
	switch {
	case number <= paymentsMade:
		return StatusPaid
	case number == paymentsMade+1:
		return StatusPending
	default:
		return StatusOverdue
	}
}

func validate(amount decimal.Decimal, annualRate decimal.Decimal, termMonths int) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return customError.WrapInvalidLoanParameters(fmt.Sprintf("amount must be positive, got %s", amount))
	}
	if termMonths <= 0 {
		return customError.WrapInvalidLoanParameters(fmt.Sprintf("term must be positive, got %d", termMonths))
	}
	if annualRate.IsNegative() {
		return customError.WrapInvalidLoanParameters(fmt.Sprintf("interest rate must not be negative, got %s", annualRate))
	}
	return nil
}
