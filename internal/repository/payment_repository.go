package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lendana/loan-engine/internal/domain"
)

// ErrNoRowsUpdated is returned by guarded updates that matched nothing.
var ErrNoRowsUpdated = errors.New("no rows updated")

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, loan_id, number, amount, payment_date, transaction_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.LoanID,
		payment.Number,
		payment.Amount,
		payment.PaymentDate,
		payment.TransactionID,
		payment.CreatedAt,
	)

	return err
}

func (r *paymentRepository) GetByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.Payment, error) {
	query := `
		SELECT id, loan_id, number, amount, payment_date, transaction_id, created_at
		FROM payments
		WHERE loan_id = $1
		ORDER BY number
	`

	var payments []*domain.Payment
	if err := r.db.SelectContext(ctx, &payments, query, loanID); err != nil {
		return nil, err
	}

	return payments, nil
}
