package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lendana/loan-engine/internal/domain"
)

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (id, user_id, application_number, national_id, address, amount, interest_rate,
			term_months, purpose, employment_status, employer, monthly_income, bank_name, account_name,
			account_number, status, start_date, payments_made, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.ID,
		loan.UserID,
		loan.ApplicationNumber,
		loan.NationalID,
		loan.Address,
		loan.Amount,
		loan.InterestRate,
		loan.TermMonths,
		loan.Purpose,
		loan.EmploymentStatus,
		loan.Employer,
		loan.MonthlyIncome,
		loan.BankName,
		loan.AccountName,
		loan.AccountNumber,
		loan.Status,
		loan.StartDate,
		loan.PaymentsMade,
		loan.CreatedAt,
		loan.UpdatedAt,
	)

	return err
}

func (r *loanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	query := `
		SELECT id, user_id, application_number, national_id, address, amount, interest_rate,
			term_months, purpose, employment_status, employer, monthly_income, bank_name, account_name,
			account_number, status, start_date, payments_made, approval_date, created_at, updated_at
		FROM loans
		WHERE id = $1
	`

	var loan domain.Loan
	if err := r.db.GetContext(ctx, &loan, query, id); err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) GetPendingByUserID(ctx context.Context, userID uuid.UUID) (*domain.Loan, error) {
	query := `
		SELECT id, user_id, application_number, national_id, address, amount, interest_rate,
			term_months, purpose, employment_status, employer, monthly_income, bank_name, account_name,
			account_number, status, start_date, payments_made, approval_date, created_at, updated_at
		FROM loans
		WHERE user_id = $1 AND status = $2
	`

	var loan domain.Loan
	if err := r.db.GetContext(ctx, &loan, query, userID, domain.LoanStatusPending); err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) ListByUserID(ctx context.Context, userID uuid.UUID, status string, limit, offset int) ([]*domain.Loan, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM loans WHERE user_id = $1 AND ($2 = '' OR status = $2)`
	if err := r.db.GetContext(ctx, &total, countQuery, userID, status); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, user_id, application_number, national_id, address, amount, interest_rate,
			term_months, purpose, employment_status, employer, monthly_income, bank_name, account_name,
			account_number, status, start_date, payments_made, approval_date, created_at, updated_at
		FROM loans
		WHERE user_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	var loans []*domain.Loan
	if err := r.db.SelectContext(ctx, &loans, query, userID, status, limit, offset); err != nil {
		return nil, 0, err
	}

	return loans, total, nil
}

func (r *loanRepository) ListByStatus(ctx context.Context, status string) ([]*domain.Loan, error) {
	query := `
		SELECT id, user_id, application_number, national_id, address, amount, interest_rate,
			term_months, purpose, employment_status, employer, monthly_income, bank_name, account_name,
			account_number, status, start_date, payments_made, approval_date, created_at, updated_at
		FROM loans
		WHERE status = $1
		ORDER BY created_at
	`

	var loans []*domain.Loan
	if err := r.db.SelectContext(ctx, &loans, query, status); err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE loans
		SET status = $2,
		    approval_date = CASE WHEN $2 = 'approved' AND approval_date IS NULL THEN $3 ELSE approval_date END,
		    updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, status, time.Now())
	return err
}

func (r *loanRepository) IncrementPaymentsMade(ctx context.Context, id uuid.UUID) error {
	// payments_made never decreases and never exceeds the term
	query := `
		UPDATE loans
		SET payments_made = payments_made + 1, updated_at = $2
		WHERE id = $1 AND payments_made < term_months
	`

	result, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNoRowsUpdated
	}

	return nil
}

func (r *loanRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	query := `SELECT status, COUNT(*) AS count FROM loans GROUP BY status`

	rows := []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}
