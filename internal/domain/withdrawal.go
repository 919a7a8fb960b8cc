package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Withdrawal statuses
const (
	WithdrawalStatusProcessing = "processing"
	WithdrawalStatusCompleted  = "completed"
	WithdrawalStatusRejected   = "rejected"
	WithdrawalStatusFailed     = "failed"
)

// Withdrawal is a disbursement request against an approved loan. It
// requires a valid OTP issued by an admin.
type Withdrawal struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	UserID        uuid.UUID       `json:"user_id" db:"user_id"`
	LoanID        uuid.UUID       `json:"loan_id" db:"loan_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	Status        string          `json:"status" db:"status"`
	TransactionID string          `json:"transaction_id" db:"transaction_id"`
	ProcessedDate *time.Time      `json:"processed_date,omitempty" db:"processed_date"`
	Notes         string          `json:"notes" db:"notes"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

type WithdrawalRequest struct {
	LoanID string          `json:"loan_id" validate:"required,uuid"`
	Amount decimal.Decimal `json:"amount" validate:"required"`
	OTP    string          `json:"otp" validate:"required"`
}
