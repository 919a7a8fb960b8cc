package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/lendana/loan-engine/internal/domain"
	"github.com/lendana/loan-engine/internal/repository"
	customError "github.com/lendana/loan-engine/pkg/errors"
)

type WithdrawalService struct {
	withdrawalRepo repository.WithdrawalRepository
	loanRepo       repository.LoanRepository
	otp            *OTPService
	log            *logrus.Logger
}

func NewWithdrawalService(
	withdrawalRepo repository.WithdrawalRepository,
	loanRepo repository.LoanRepository,
	otp *OTPService,
	log *logrus.Logger,
) *WithdrawalService {
	return &WithdrawalService{
		withdrawalRepo: withdrawalRepo,
		loanRepo:       loanRepo,
		otp:            otp,
		log:            log,
	}
}

// Request disburses loan proceeds to the borrower's bank account. The loan
// must be approved, the amount within the principal, and the OTP valid.
func (s *WithdrawalService) Request(ctx context.Context, userID uuid.UUID, request *domain.WithdrawalRequest) (*domain.Withdrawal, error) {
	loanID, err := uuid.Parse(request.LoanID)
	if err != nil {
		return nil, customError.WrapLoanNotFound(request.LoanID)
	}

	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapLoanNotFound(request.LoanID)
	}
	if loan.UserID != userID {
		return nil, customError.WrapLoanNotFound(request.LoanID)
	}
	if loan.Status != domain.LoanStatusApproved {
		return nil, customError.WrapLoanNotApproved(request.LoanID)
	}

	if request.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, customError.WrapInvalidWithdrawalAmount("withdrawal amount must be greater than zero")
	}
	if request.Amount.GreaterThan(loan.Amount) {
		return nil, customError.WrapInvalidWithdrawalAmount("withdrawal amount exceeds the loan principal")
	}

	if err := s.otp.Verify(ctx, userID, request.OTP); err != nil {
		return nil, err
	}

	now := time.Now()
	withdrawal := &domain.Withdrawal{
		ID:            uuid.New(),
		UserID:        userID,
		LoanID:        loanID,
		Amount:        request.Amount,
		Status:        domain.WithdrawalStatusProcessing,
		TransactionID: uuid.NewString(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.withdrawalRepo.Create(ctx, withdrawal); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.log.WithFields(logrus.Fields{
		"withdrawal_id": withdrawal.ID,
		"loan_id":       loanID,
		"amount":        withdrawal.Amount,
	}).Info("withdrawal requested")

	return withdrawal, nil
}

// ListByLoan returns the loan's withdrawal history.
func (s *WithdrawalService) ListByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.Withdrawal, error) {
	withdrawals, err := s.withdrawalRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return withdrawals, nil
}

// UpdateStatus applies an admin decision to a withdrawal.
func (s *WithdrawalService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	switch status {
	case domain.WithdrawalStatusCompleted, domain.WithdrawalStatusRejected, domain.WithdrawalStatusFailed:
	default:
		return customError.WrapInvalidStatusTransition(domain.WithdrawalStatusProcessing, status)
	}

	if err := s.withdrawalRepo.UpdateStatus(ctx, id, status); err != nil {
		return customError.WrapDatabaseError(err)
	}
	return nil
}
