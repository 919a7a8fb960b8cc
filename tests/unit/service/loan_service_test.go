package service

import (
	"context"
	"database/sql"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lendana/loan-engine/internal/config"
	"github.com/lendana/loan-engine/internal/domain"
	"github.com/lendana/loan-engine/internal/repository"
	loanService "github.com/lendana/loan-engine/internal/service"
	customError "github.com/lendana/loan-engine/pkg/errors"
	"github.com/lendana/loan-engine/pkg/metrics"
	"github.com/lendana/loan-engine/tests/mocks"
)

func newTestConfig() *config.Config {
	return &config.Config{
		Business: config.BusinessConfig{
			MinLoanAmount:       "100000",
			MaxLoanAmount:       "3000000",
			DefaultInterestRate: "4.0",
			OTPTTL:              5 * time.Minute,
			SummaryCacheTTL:     time.Minute,
		},
	}
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestService(loanRepo *mocks.MockLoanRepository, paymentRepo *mocks.MockPaymentRepository) *loanService.LoanService {
	return loanService.NewLoanService(loanRepo, paymentRepo, nil, newTestConfig(), newTestLogger(), metrics.NopCollector{})
}

func approvedLoan(userID uuid.UUID) *domain.Loan {
	return &domain.Loan{
		ID:                uuid.New(),
		UserID:            userID,
		ApplicationNumber: "APP-TEST000001",
		Amount:            decimal.NewFromInt(100000),
		InterestRate:      decimal.NewFromInt(4),
		TermMonths:        48,
		Status:            domain.LoanStatusApproved,
		StartDate:         time.Date(2025, 4, 25, 0, 0, 0, 0, time.UTC),
		PaymentsMade:      5,
	}
}

func TestCreateApplication(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		request        *domain.CreateLoanRequest
		setupMocks     func(*mocks.MockLoanRepository)
		expectedErr    error
		validateResult func(*testing.T, *domain.Loan)
	}{
		{
			name: "Success - New application with default rate",
			request: &domain.CreateLoanRequest{
				NationalID:       "1234-5678-9012",
				Address:          "Quezon City",
				Amount:           decimal.NewFromInt(500000),
				TermMonths:       24,
				EmploymentStatus: "employed",
				BankName:         "BDO",
				AccountName:      "Juan Dela Cruz",
				AccountNumber:    "001234567890",
			},
			setupMocks: func(loanRepo *mocks.MockLoanRepository) {
				loanRepo.On("GetPendingByUserID", mock.Anything, userID).Return(nil, sql.ErrNoRows)
				loanRepo.On("Create", mock.Anything, mock.MatchedBy(func(loan *domain.Loan) bool {
					return loan.UserID == userID && loan.Status == domain.LoanStatusPending
				})).Return(nil)
			},
			validateResult: func(t *testing.T, loan *domain.Loan) {
				assert.Equal(t, domain.LoanStatusPending, loan.Status)
				assert.True(t, loan.InterestRate.Equal(decimal.NewFromFloat(4.0)))
				assert.True(t, strings.HasPrefix(loan.ApplicationNumber, "APP-"))
				assert.Equal(t, 0, loan.PaymentsMade)
			},
		},
		{
			name: "Failure - Pending application already exists",
			request: &domain.CreateLoanRequest{
				NationalID:       "1234-5678-9012",
				Address:          "Quezon City",
				Amount:           decimal.NewFromInt(500000),
				TermMonths:       24,
				EmploymentStatus: "employed",
				BankName:         "BDO",
				AccountName:      "Juan Dela Cruz",
				AccountNumber:    "001234567890",
			},
			setupMocks: func(loanRepo *mocks.MockLoanRepository) {
				existing := &domain.Loan{ID: uuid.New(), UserID: userID, ApplicationNumber: "APP-EXISTING01", Status: domain.LoanStatusPending}
				loanRepo.On("GetPendingByUserID", mock.Anything, userID).Return(existing, nil)
			},
			expectedErr: customError.ErrPendingApplicationExists,
		},
		{
			name: "Failure - Amount below minimum",
			request: &domain.CreateLoanRequest{
				Amount:     decimal.NewFromInt(50000),
				TermMonths: 24,
			},
			setupMocks:  func(loanRepo *mocks.MockLoanRepository) {},
			expectedErr: customError.ErrInvalidLoanAmount,
		},
		{
			name: "Failure - Amount above maximum",
			request: &domain.CreateLoanRequest{
				Amount:     decimal.NewFromInt(5000000),
				TermMonths: 24,
			},
			setupMocks:  func(loanRepo *mocks.MockLoanRepository) {},
			expectedErr: customError.ErrInvalidLoanAmount,
		},
		{
			name: "Failure - Zero term",
			request: &domain.CreateLoanRequest{
				Amount:     decimal.NewFromInt(500000),
				TermMonths: 0,
			},
			setupMocks:  func(loanRepo *mocks.MockLoanRepository) {},
			expectedErr: customError.ErrInvalidLoanParameters,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loanRepo := new(mocks.MockLoanRepository)
			paymentRepo := new(mocks.MockPaymentRepository)
			tt.setupMocks(loanRepo)

			svc := newTestService(loanRepo, paymentRepo)
			loan, err := svc.CreateApplication(context.Background(), userID, tt.request)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, loan)
			} else {
				require.NoError(t, err)
				require.NotNil(t, loan)
				tt.validateResult(t, loan)
			}
			loanRepo.AssertExpectations(t)
		})
	}
}

func TestRecordPayment(t *testing.T) {
	userID := uuid.New()
	installment := decimal.NewFromFloat(2257.91)

	tests := []struct {
		name           string
		amount         decimal.Decimal
		setupMocks     func(*mocks.MockLoanRepository, *mocks.MockPaymentRepository, *domain.Loan)
		mutateLoan     func(*domain.Loan)
		expectedErr    error
		validateResult func(*testing.T, *domain.Payment)
	}{
		{
			name:   "Success - Mid-loan installment",
			amount: installment,
			setupMocks: func(loanRepo *mocks.MockLoanRepository, paymentRepo *mocks.MockPaymentRepository, loan *domain.Loan) {
				loanRepo.On("GetByID", mock.Anything, loan.ID).Return(loan, nil)
				loanRepo.On("IncrementPaymentsMade", mock.Anything, loan.ID).Return(nil)
				paymentRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Payment) bool {
					return p.LoanID == loan.ID && p.Number == 6
				})).Return(nil)
			},
			validateResult: func(t *testing.T, payment *domain.Payment) {
				assert.Equal(t, 6, payment.Number)
				assert.True(t, payment.Amount.Equal(installment))
				assert.NotEmpty(t, payment.TransactionID)
			},
		},
		{
			name:   "Success - Final installment marks loan paid",
			amount: installment,
			mutateLoan: func(loan *domain.Loan) {
				loan.PaymentsMade = 47
			},
			setupMocks: func(loanRepo *mocks.MockLoanRepository, paymentRepo *mocks.MockPaymentRepository, loan *domain.Loan) {
				loanRepo.On("GetByID", mock.Anything, loan.ID).Return(loan, nil)
				loanRepo.On("IncrementPaymentsMade", mock.Anything, loan.ID).Return(nil)
				paymentRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Payment) bool {
					return p.Number == 48
				})).Return(nil)
				loanRepo.On("UpdateStatus", mock.Anything, loan.ID, domain.LoanStatusPaid).Return(nil)
			},
			validateResult: func(t *testing.T, payment *domain.Payment) {
				assert.Equal(t, 48, payment.Number)
			},
		},
		{
			name:   "Failure - Amount mismatch",
			amount: decimal.NewFromInt(2000),
			setupMocks: func(loanRepo *mocks.MockLoanRepository, paymentRepo *mocks.MockPaymentRepository, loan *domain.Loan) {
				loanRepo.On("GetByID", mock.Anything, loan.ID).Return(loan, nil)
			},
			expectedErr: customError.ErrPaymentAmountMismatch,
		},
		{
			name:   "Failure - Loan not approved",
			amount: installment,
			mutateLoan: func(loan *domain.Loan) {
				loan.Status = domain.LoanStatusPending
			},
			setupMocks: func(loanRepo *mocks.MockLoanRepository, paymentRepo *mocks.MockPaymentRepository, loan *domain.Loan) {
				loanRepo.On("GetByID", mock.Anything, loan.ID).Return(loan, nil)
			},
			expectedErr: customError.ErrLoanNotApproved,
		},
		{
			name:   "Failure - Loan already fully paid",
			amount: installment,
			mutateLoan: func(loan *domain.Loan) {
				loan.PaymentsMade = 48
			},
			setupMocks: func(loanRepo *mocks.MockLoanRepository, paymentRepo *mocks.MockPaymentRepository, loan *domain.Loan) {
				loanRepo.On("GetByID", mock.Anything, loan.ID).Return(loan, nil)
			},
			expectedErr: customError.ErrLoanFullyPaid,
		},
		{
			name:   "Failure - Lost increment race treated as fully paid",
			amount: installment,
			mutateLoan: func(loan *domain.Loan) {
				loan.PaymentsMade = 47
			},
			setupMocks: func(loanRepo *mocks.MockLoanRepository, paymentRepo *mocks.MockPaymentRepository, loan *domain.Loan) {
				loanRepo.On("GetByID", mock.Anything, loan.ID).Return(loan, nil)
				loanRepo.On("IncrementPaymentsMade", mock.Anything, loan.ID).Return(repository.ErrNoRowsUpdated)
			},
			expectedErr: customError.ErrLoanFullyPaid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan := approvedLoan(userID)
			if tt.mutateLoan != nil {
				tt.mutateLoan(loan)
			}

			loanRepo := new(mocks.MockLoanRepository)
			paymentRepo := new(mocks.MockPaymentRepository)
			tt.setupMocks(loanRepo, paymentRepo, loan)

			svc := newTestService(loanRepo, paymentRepo)
			payment, err := svc.RecordPayment(context.Background(), loan.ID, tt.amount)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, payment)
			} else {
				require.NoError(t, err)
				require.NotNil(t, payment)
				tt.validateResult(t, payment)
			}
			loanRepo.AssertExpectations(t)
			paymentRepo.AssertExpectations(t)
		})
	}
}

func TestUpdateLoanStatus(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		fromStatus string
		toStatus   string
		allowed    bool
	}{
		{"pending to under_review", domain.LoanStatusPending, domain.LoanStatusUnderReview, true},
		{"under_review to approved", domain.LoanStatusUnderReview, domain.LoanStatusApproved, true},
		{"overdue back to approved", domain.LoanStatusOverdue, domain.LoanStatusApproved, true},
		{"pending straight to approved", domain.LoanStatusPending, domain.LoanStatusApproved, false},
		{"rejected is terminal", domain.LoanStatusRejected, domain.LoanStatusApproved, false},
		{"paid is terminal", domain.LoanStatusPaid, domain.LoanStatusApproved, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan := approvedLoan(userID)
			loan.Status = tt.fromStatus

			loanRepo := new(mocks.MockLoanRepository)
			paymentRepo := new(mocks.MockPaymentRepository)
			loanRepo.On("GetByID", mock.Anything, loan.ID).Return(loan, nil)
			if tt.allowed {
				loanRepo.On("UpdateStatus", mock.Anything, loan.ID, tt.toStatus).Return(nil)
			}

			svc := newTestService(loanRepo, paymentRepo)
			updated, err := svc.UpdateLoanStatus(context.Background(), loan.ID, tt.toStatus)

			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.toStatus, updated.Status)
			} else {
				assert.ErrorIs(t, err, customError.ErrInvalidStatusTransition)
				assert.Nil(t, updated)
			}
			loanRepo.AssertExpectations(t)
		})
	}
}

func TestSummary(t *testing.T) {
	userID := uuid.New()
	loan := &domain.Loan{
		ID:           uuid.New(),
		UserID:       userID,
		Amount:       decimal.NewFromInt(120000),
		InterestRate: decimal.Zero,
		TermMonths:   12,
		Status:       domain.LoanStatusApproved,
		StartDate:    time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		PaymentsMade: 3,
	}

	loanRepo := new(mocks.MockLoanRepository)
	paymentRepo := new(mocks.MockPaymentRepository)
	loanRepo.On("GetByID", mock.Anything, loan.ID).Return(loan, nil)

	svc := newTestService(loanRepo, paymentRepo)
	summary, err := svc.Summary(context.Background(), loan.ID)
	require.NoError(t, err)

	assert.True(t, summary.TotalPaid.Equal(decimal.NewFromInt(30000)), "paid %s", summary.TotalPaid)
	assert.True(t, summary.TotalRemaining.Equal(decimal.NewFromInt(90000)), "remaining %s", summary.TotalRemaining)
	assert.True(t, summary.TotalPrincipalPaid.Equal(decimal.NewFromInt(30000)))
	assert.True(t, summary.TotalInterestPaid.IsZero())
	assert.True(t, summary.ProgressPercent.Equal(decimal.NewFromInt(25)), "progress %s", summary.ProgressPercent)
	require.NotNil(t, summary.NextPaymentDate)
	assert.Equal(t, time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC), *summary.NextPaymentDate)
}

func TestMarkOverdueLoans(t *testing.T) {
	userID := uuid.New()

	overdue := approvedLoan(userID)
	overdue.PaymentsMade = 0
	overdue.StartDate = time.Now().AddDate(0, -3, 0)

	current := approvedLoan(userID)
	current.PaymentsMade = 0
	current.StartDate = time.Now().AddDate(0, 1, 0)

	loanRepo := new(mocks.MockLoanRepository)
	paymentRepo := new(mocks.MockPaymentRepository)
	loanRepo.On("ListByStatus", mock.Anything, domain.LoanStatusApproved).
		Return([]*domain.Loan{overdue, current}, nil)
	loanRepo.On("UpdateStatus", mock.Anything, overdue.ID, domain.LoanStatusOverdue).Return(nil)

	svc := newTestService(loanRepo, paymentRepo)
	marked, err := svc.MarkOverdueLoans(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, marked)
	loanRepo.AssertExpectations(t)
	loanRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, current.ID, domain.LoanStatusOverdue)
}

func TestListLoans_PagingDefaults(t *testing.T) {
	userID := uuid.New()

	loanRepo := new(mocks.MockLoanRepository)
	paymentRepo := new(mocks.MockPaymentRepository)
	loanRepo.On("ListByUserID", mock.Anything, userID, "", 10, 0).
		Return([]*domain.Loan{}, 0, nil)

	svc := newTestService(loanRepo, paymentRepo)
	loans, total, err := svc.ListLoans(context.Background(), userID, "", 0, -5)
	require.NoError(t, err)
	assert.Empty(t, loans)
	assert.Equal(t, 0, total)
	loanRepo.AssertExpectations(t)
}
