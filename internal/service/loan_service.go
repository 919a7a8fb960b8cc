package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/lendana/loan-engine/internal/config"
	"github.com/lendana/loan-engine/internal/domain"
	"github.com/lendana/loan-engine/internal/repository"
	"github.com/lendana/loan-engine/pkg/amortization"
	customError "github.com/lendana/loan-engine/pkg/errors"
	"github.com/lendana/loan-engine/pkg/metrics"
)

type LoanService struct {
	loanRepo    repository.LoanRepository
	paymentRepo repository.PaymentRepository
	redis       *redis.Client
	config      *config.Config
	log         *logrus.Logger
	collector   metrics.Collector
}

func NewLoanService(
	loanRepo repository.LoanRepository,
	paymentRepo repository.PaymentRepository,
	redisClient *redis.Client,
	cfg *config.Config,
	log *logrus.Logger,
	collector metrics.Collector,
) *LoanService {
	return &LoanService{
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
		redis:       redisClient,
		config:      cfg,
		log:         log,
		collector:   collector,
	}
}

// CreateApplication submits a new loan application for a borrower. A
// borrower may hold at most one pending application at a time.
func (s *LoanService) CreateApplication(ctx context.Context, userID uuid.UUID, request *domain.CreateLoanRequest) (*domain.Loan, error) {
	defer s.collector.Timer("loan.create_application")()

	rate := request.InterestRate
	if rate.IsZero() {
		rate = s.config.GetDefaultInterestRate()
	}

	if request.Amount.LessThan(s.config.GetMinLoanAmount()) || request.Amount.GreaterThan(s.config.GetMaxLoanAmount()) {
		return nil, customError.WrapInvalidLoanAmount(fmt.Sprintf(
			"loan amount must be between PHP %s and PHP %s",
			s.config.GetMinLoanAmount(), s.config.GetMaxLoanAmount()))
	}

	// Rejects non-positive amount/term and negative rate up front, before
	// anything is persisted.
	if _, err := amortization.MonthlyPayment(request.Amount, rate, request.TermMonths); err != nil {
		return nil, err
	}

	existing, err := s.loanRepo.GetPendingByUserID(ctx, userID)
	if err == nil && existing != nil {
		return nil, customError.WrapPendingApplicationExists(existing.ApplicationNumber)
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapDatabaseError(err)
	}

	now := time.Now()
	loan := &domain.Loan{
		ID:                uuid.New(),
		UserID:            userID,
		ApplicationNumber: generateApplicationNumber(),
		NationalID:        request.NationalID,
		Address:           request.Address,
		Amount:            request.Amount,
		InterestRate:      rate,
		TermMonths:        request.TermMonths,
		Purpose:           request.Purpose,
		EmploymentStatus:  request.EmploymentStatus,
		Employer:          request.Employer,
		MonthlyIncome:     request.MonthlyIncome,
		BankName:          request.BankName,
		AccountName:       request.AccountName,
		AccountNumber:     request.AccountNumber,
		Status:            domain.LoanStatusPending,
		StartDate:         now.Truncate(24 * time.Hour),
		PaymentsMade:      0,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.log.WithFields(logrus.Fields{
		"loan_id":            loan.ID,
		"application_number": loan.ApplicationNumber,
		"amount":             loan.Amount,
	}).Info("loan application created")

	return loan, nil
}

// GetLoan retrieves a single loan.
func (s *LoanService) GetLoan(ctx context.Context, loanID uuid.UUID) (*domain.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound(loanID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return loan, nil
}

// ListLoans returns a page of the borrower's loans, optionally filtered by status.
func (s *LoanService) ListLoans(ctx context.Context, userID uuid.UUID, status string, page, perPage int) ([]*domain.Loan, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 10
	}

	loans, total, err := s.loanRepo.ListByUserID(ctx, userID, status, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, customError.WrapDatabaseError(err)
	}
	return loans, total, nil
}

// Schedule recomputes the repayment schedule from the loan. The schedule is
// pure derived data: it is regenerated on every read because it depends on
// the always-current payments_made counter.
func (s *LoanService) Schedule(ctx context.Context, loanID uuid.UUID) (*domain.ScheduleResponse, error) {
	defer s.collector.Timer("loan.schedule")()

	loan, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	items, err := amortization.Schedule(loan.Terms())
	if err != nil {
		return nil, err
	}

	return &domain.ScheduleResponse{LoanID: loan.ID, Schedule: items}, nil
}

// Summary aggregates repayment progress for the dashboard. The result is
// cached briefly in Redis and invalidated whenever a payment lands.
func (s *LoanService) Summary(ctx context.Context, loanID uuid.UUID) (*domain.LoanSummary, error) {
	defer s.collector.Timer("loan.summary")()

	cacheKey := summaryCacheKey(loanID)
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var summary domain.LoanSummary
			if err := json.Unmarshal([]byte(cached), &summary); err == nil {
				return &summary, nil
			}
		}
	}

	loan, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	items, err := amortization.Schedule(loan.Terms())
	if err != nil {
		return nil, err
	}

	summary := &domain.LoanSummary{
		LoanID:             loan.ID,
		TotalPaid:          decimal.Zero,
		TotalRemaining:     decimal.Zero,
		TotalPrincipalPaid: decimal.Zero,
		TotalInterestPaid:  decimal.Zero,
	}
	for _, item := range items {
		if item.Number <= loan.PaymentsMade {
			summary.TotalPaid = summary.TotalPaid.Add(item.PaymentAmount)
			summary.TotalPrincipalPaid = summary.TotalPrincipalPaid.Add(item.Principal)
			summary.TotalInterestPaid = summary.TotalInterestPaid.Add(item.Interest)
		} else {
			summary.TotalRemaining = summary.TotalRemaining.Add(item.PaymentAmount)
			if item.Number == loan.PaymentsMade+1 {
				due := item.DueDate
				summary.NextPaymentDate = &due
			}
		}
	}
	summary.ProgressPercent = decimal.NewFromInt(int64(loan.PaymentsMade)).
		Div(decimal.NewFromInt(int64(loan.TermMonths))).
		Mul(decimal.NewFromInt(100)).
		Round(2)

	if s.redis != nil {
		if encoded, err := json.Marshal(summary); err == nil {
			if err := s.redis.Set(ctx, cacheKey, encoded, s.config.Business.SummaryCacheTTL).Err(); err != nil {
				s.log.WithError(err).Warn("caching loan summary")
			}
		}
	}

	return summary, nil
}

// RecordPayment confirms the next installment. payments_made advances by
// exactly one per confirmation and never decreases.
func (s *LoanService) RecordPayment(ctx context.Context, loanID uuid.UUID, amount decimal.Decimal) (*domain.Payment, error) {
	defer s.collector.Timer("loan.record_payment")()

	loan, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if loan.Status != domain.LoanStatusApproved && loan.Status != domain.LoanStatusOverdue {
		return nil, customError.WrapLoanNotApproved(loanID.String())
	}
	if loan.PaymentsMade >= loan.TermMonths {
		return nil, customError.WrapLoanFullyPaid(loanID.String())
	}

	expected, err := amortization.MonthlyPayment(loan.Amount, loan.InterestRate, loan.TermMonths)
	if err != nil {
		return nil, err
	}
	expected = expected.Round(2)
	if !amount.Round(2).Equal(expected) {
		return nil, customError.WrapPaymentAmountMismatch(expected.String(), amount.String())
	}

	if err := s.loanRepo.IncrementPaymentsMade(ctx, loanID); err != nil {
		if errors.Is(err, repository.ErrNoRowsUpdated) {
			return nil, customError.WrapLoanFullyPaid(loanID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	now := time.Now()
	payment := &domain.Payment{
		ID:            uuid.New(),
		LoanID:        loanID,
		Number:        loan.PaymentsMade + 1,
		Amount:        expected,
		PaymentDate:   now,
		TransactionID: uuid.NewString(),
		CreatedAt:     now,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if payment.Number == loan.TermMonths && domain.CanTransition(loan.Status, domain.LoanStatusPaid) {
		if err := s.loanRepo.UpdateStatus(ctx, loanID, domain.LoanStatusPaid); err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
	}

	if s.redis != nil {
		if err := s.redis.Del(ctx, summaryCacheKey(loanID)).Err(); err != nil {
			s.log.WithError(err).Warn("invalidating loan summary cache")
		}
	}

	s.log.WithFields(logrus.Fields{
		"loan_id": loanID,
		"number":  payment.Number,
		"amount":  payment.Amount,
	}).Info("payment recorded")

	return payment, nil
}

// UpdateLoanStatus applies an admin status change, guarded by the
// transition table.
func (s *LoanService) UpdateLoanStatus(ctx context.Context, loanID uuid.UUID, status string) (*domain.Loan, error) {
	loan, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(loan.Status, status) {
		return nil, customError.WrapInvalidStatusTransition(loan.Status, status)
	}

	if err := s.loanRepo.UpdateStatus(ctx, loanID, status); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.log.WithFields(logrus.Fields{
		"loan_id": loanID,
		"from":    loan.Status,
		"to":      status,
	}).Info("loan status updated")

	loan.Status = status
	return loan, nil
}

// StatusReport returns the loans-per-status breakdown for the admin console.
func (s *LoanService) StatusReport(ctx context.Context) (*domain.StatusReport, error) {
	counts, err := s.loanRepo.CountByStatus(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	return &domain.StatusReport{Counts: counts, Total: total}, nil
}

// MarkOverdueLoans sweeps approved loans and flags the ones whose next
// installment's due date has passed. Run daily by the scheduler.
func (s *LoanService) MarkOverdueLoans(ctx context.Context) (int, error) {
	defer s.collector.Timer("loan.mark_overdue")()

	loans, err := s.loanRepo.ListByStatus(ctx, domain.LoanStatusApproved)
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	marked := 0
	now := time.Now()
	for _, loan := range loans {
		due, ok := nextDueDate(loan)
		if !ok || !due.Before(now) {
			continue
		}
		if err := s.loanRepo.UpdateStatus(ctx, loan.ID, domain.LoanStatusOverdue); err != nil {
			s.log.WithError(err).WithField("loan_id", loan.ID).Error("marking loan overdue")
			continue
		}
		marked++
	}

	return marked, nil
}

// LoansDueWithin returns approved loans whose next installment falls due
// inside the window. Feeds the reminder job.
func (s *LoanService) LoansDueWithin(ctx context.Context, window time.Duration) ([]*domain.Loan, error) {
	loans, err := s.loanRepo.ListByStatus(ctx, domain.LoanStatusApproved)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	now := time.Now()
	var due []*domain.Loan
	for _, loan := range loans {
		d, ok := nextDueDate(loan)
		if ok && d.After(now) && d.Before(now.Add(window)) {
			due = append(due, loan)
		}
	}
	return due, nil
}

func nextDueDate(loan *domain.Loan) (time.Time, bool) {
	if loan.PaymentsMade >= loan.TermMonths {
		return time.Time{}, false
	}
	items, err := amortization.Schedule(loan.Terms())
	if err != nil {
		return time.Time{}, false
	}
	return items[loan.PaymentsMade].DueDate, true
}

func summaryCacheKey(loanID uuid.UUID) string {
	return fmt.Sprintf("loan:summary:%s", loanID)
}

func generateApplicationNumber() string {
	return "APP-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}
