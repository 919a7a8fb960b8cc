package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lendana/loan-engine/internal/domain"
)

type withdrawalRepository struct {
	db *sqlx.DB
}

func NewWithdrawalRepository(db *sqlx.DB) WithdrawalRepository {
	return &withdrawalRepository{db: db}
}

func (r *withdrawalRepository) Create(ctx context.Context, withdrawal *domain.Withdrawal) error {
	query := `
		INSERT INTO withdrawals (id, user_id, loan_id, amount, status, transaction_id, processed_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		withdrawal.ID,
		withdrawal.UserID,
		withdrawal.LoanID,
		withdrawal.Amount,
		withdrawal.Status,
		withdrawal.TransactionID,
		withdrawal.ProcessedDate,
		withdrawal.Notes,
		withdrawal.CreatedAt,
		withdrawal.UpdatedAt,
	)

	return err
}

func (r *withdrawalRepository) GetByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.Withdrawal, error) {
	query := `
		SELECT id, user_id, loan_id, amount, status, transaction_id, processed_date, notes, created_at, updated_at
		FROM withdrawals
		WHERE loan_id = $1
		ORDER BY created_at
	`

	var withdrawals []*domain.Withdrawal
	if err := r.db.SelectContext(ctx, &withdrawals, query, loanID); err != nil {
		return nil, err
	}

	return withdrawals, nil
}

func (r *withdrawalRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE withdrawals
		SET status = $2, processed_date = $3, updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, status, time.Now())
	return err
}
