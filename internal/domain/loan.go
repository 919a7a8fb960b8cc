package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lendana/loan-engine/pkg/amortization"
)

// Loan statuses
const (
	LoanStatusPending     = "pending"
	LoanStatusUnderReview = "under_review"
	LoanStatusApproved    = "approved"
	LoanStatusRejected    = "rejected"
	LoanStatusOTPRequired = "otp_required"
	LoanStatusOverdue     = "overdue"
	LoanStatusCancelled   = "cancelled"
	LoanStatusPaid        = "paid"
)

// StatusTransitions lists the allowed loan status transitions. Any
// transition absent from this table is rejected.
var StatusTransitions = map[string][]string{
	LoanStatusPending:     {LoanStatusUnderReview, LoanStatusCancelled},
	LoanStatusUnderReview: {LoanStatusApproved, LoanStatusRejected, LoanStatusOTPRequired, LoanStatusCancelled},
	LoanStatusOTPRequired: {LoanStatusApproved, LoanStatusRejected, LoanStatusCancelled},
	LoanStatusApproved:    {LoanStatusOverdue, LoanStatusPaid, LoanStatusCancelled},
	LoanStatusOverdue:     {LoanStatusApproved, LoanStatusPaid},
}

// CanTransition reports whether a loan may move from one status to another.
func CanTransition(from, to string) bool {
	for _, allowed := range StatusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Loan represents one borrower's credit extension. The record is logically
// immutable after approval except for PaymentsMade, which only increases.
type Loan struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	UserID            uuid.UUID       `json:"user_id" db:"user_id"`
	ApplicationNumber string          `json:"application_number" db:"application_number"`
	NationalID        string          `json:"national_id" db:"national_id"`
	Address           string          `json:"address" db:"address"`
	Amount            decimal.Decimal `json:"amount" db:"amount"`
	InterestRate      decimal.Decimal `json:"interest_rate" db:"interest_rate"`
	TermMonths        int             `json:"term_months" db:"term_months"`
	Purpose           string          `json:"purpose" db:"purpose"`
	EmploymentStatus  string          `json:"employment_status" db:"employment_status"`
	Employer          string          `json:"employer" db:"employer"`
	MonthlyIncome     decimal.Decimal `json:"monthly_income" db:"monthly_income"`
	BankName          string          `json:"bank_name" db:"bank_name"`
	AccountName       string          `json:"account_name" db:"account_name"`
	AccountNumber     string          `json:"account_number" db:"account_number"`
	Status            string          `json:"status" db:"status"`
	StartDate         time.Time       `json:"start_date" db:"start_date"`
	PaymentsMade      int             `json:"payments_made" db:"payments_made"`
	ApprovalDate      *time.Time      `json:"approval_date,omitempty" db:"approval_date"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}

// Terms returns the amortization inputs derived from the loan.
func (l *Loan) Terms() amortization.Terms {
	return amortization.Terms{
		Amount:       l.Amount,
		AnnualRate:   l.InterestRate,
		TermMonths:   l.TermMonths,
		StartDate:    l.StartDate,
		PaymentsMade: l.PaymentsMade,
	}
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	NationalID       string          `json:"national_id" validate:"required"`
	Address          string          `json:"address" validate:"required"`
	Amount           decimal.Decimal `json:"amount" validate:"required"`
	InterestRate     decimal.Decimal `json:"interest_rate"`
	TermMonths       int             `json:"term_months" validate:"required,gt=0"`
	Purpose          string          `json:"purpose"`
	EmploymentStatus string          `json:"employment_status" validate:"required"`
	Employer         string          `json:"employer"`
	MonthlyIncome    decimal.Decimal `json:"monthly_income"`
	BankName         string          `json:"bank_name" validate:"required"`
	AccountName      string          `json:"account_name" validate:"required"`
	AccountNumber    string          `json:"account_number" validate:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes"`
}

type ScheduleResponse struct {
	LoanID   uuid.UUID                    `json:"loan_id"`
	Schedule []*amortization.ScheduleItem `json:"schedule"`
}

// LoanSummary aggregates repayment progress for the dashboard.
type LoanSummary struct {
	LoanID             uuid.UUID       `json:"loan_id"`
	TotalPaid          decimal.Decimal `json:"total_paid"`
	TotalRemaining     decimal.Decimal `json:"total_remaining"`
	TotalPrincipalPaid decimal.Decimal `json:"total_principal_paid"`
	TotalInterestPaid  decimal.Decimal `json:"total_interest_paid"`
	ProgressPercent    decimal.Decimal `json:"progress_percent"`
	NextPaymentDate    *time.Time      `json:"next_payment_date,omitempty"`
}

// StatusReport is the admin console's loans-per-status breakdown.
type StatusReport struct {
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}
