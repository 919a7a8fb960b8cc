package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment records one settled installment. The installment number it
// settles is always paymentsMade+1 at the time of confirmation.
type Payment struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	LoanID        uuid.UUID       `json:"loan_id" db:"loan_id"`
	Number        int             `json:"number" db:"number"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	PaymentDate   time.Time       `json:"payment_date" db:"payment_date"`
	TransactionID string          `json:"transaction_id" db:"transaction_id"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

type MakePaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}
