package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/lendana/loan-engine/internal/domain"
)

// LoanRepository defines the interface for loan data operations
type LoanRepository interface {
	// Create creates a new loan application
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByID retrieves a loan by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// GetPendingByUserID retrieves the user's pending application, if any
	GetPendingByUserID(ctx context.Context, userID uuid.UUID) (*domain.Loan, error)

	// ListByUserID retrieves a page of the user's loans, optionally filtered by status
	ListByUserID(ctx context.Context, userID uuid.UUID, status string, limit, offset int) ([]*domain.Loan, int, error)

	// ListByStatus retrieves all loans with the given status
	ListByStatus(ctx context.Context, status string) ([]*domain.Loan, error)

	// UpdateStatus updates a loan's status
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error

	// IncrementPaymentsMade bumps payments_made by one, guarded against
	// exceeding the term
	IncrementPaymentsMade(ctx context.Context, id uuid.UUID) error

	// CountByStatus returns the number of loans per status
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	// Create creates a new payment record
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByLoanID retrieves all payments for a loan, ordered by number
	GetByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.Payment, error)
}

// WithdrawalRepository defines the interface for withdrawal data operations
type WithdrawalRepository interface {
	// Create creates a new withdrawal record
	Create(ctx context.Context, withdrawal *domain.Withdrawal) error

	// GetByLoanID retrieves all withdrawals for a loan
	GetByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.Withdrawal, error)

	// UpdateStatus updates a withdrawal's status
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}
