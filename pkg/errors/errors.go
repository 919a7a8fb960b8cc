package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrLoanNotFound             = errors.New("loan not found")
	ErrPendingApplicationExists = errors.New("borrower already has a pending application")
	ErrInvalidLoanParameters    = errors.New("invalid loan parameters")
	ErrInvalidLoanAmount        = errors.New("loan amount outside allowed limits")
	ErrInvalidStatusTransition  = errors.New("loan status transition not allowed")
	ErrLoanNotApproved          = errors.New("loan is not approved")
	ErrLoanFullyPaid            = errors.New("loan is already fully paid")
	ErrInvalidOTP               = errors.New("invalid or expired OTP")
	ErrPaymentAmountMismatch    = errors.New("payment amount must match the scheduled payment exactly")
	ErrInvalidWithdrawalAmount  = errors.New("invalid withdrawal amount")
	ErrUserNotFound             = errors.New("user not found")
	ErrUserAlreadyExists        = errors.New("user already exists")
	ErrInvalidCredentials       = errors.New("invalid credentials")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeLoanNotFound             = "LOAN_NOT_FOUND"
	ErrCodePendingApplicationExists = "PENDING_APPLICATION_EXISTS"
	ErrCodeInvalidLoanParameters    = "INVALID_LOAN_PARAMETERS"
	ErrCodeInvalidLoanAmount        = "INVALID_LOAN_AMOUNT"
	ErrCodeInvalidStatusTransition  = "INVALID_STATUS_TRANSITION"
	ErrCodeLoanNotApproved          = "LOAN_NOT_APPROVED"
	ErrCodeLoanFullyPaid            = "LOAN_FULLY_PAID"
	ErrCodeInvalidOTP               = "INVALID_OTP"
	ErrCodePaymentAmountMismatch    = "PAYMENT_AMOUNT_MISMATCH"
	ErrCodeInvalidWithdrawalAmount  = "INVALID_WITHDRAWAL_AMOUNT"
	ErrCodeUserNotFound             = "USER_NOT_FOUND"
	ErrCodeUserAlreadyExists        = "USER_ALREADY_EXISTS"
	ErrCodeInvalidCredentials       = "INVALID_CREDENTIALS"
	ErrCodeDatabaseError            = "DATABASE_ERROR"
	ErrCodeCacheError               = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("Loan with ID %s not found", loanID),
		ErrLoanNotFound,
	)
}

func WrapPendingApplicationExists(applicationNumber string) *BusinessError {
	return NewBusinessError(
		ErrCodePendingApplicationExists,
		fmt.Sprintf("A pending application %s already exists for this borrower", applicationNumber),
		ErrPendingApplicationExists,
	)
}

func WrapInvalidLoanParameters(detail string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidLoanParameters,
		detail,
		ErrInvalidLoanParameters,
	)
}

func WrapInvalidLoanAmount(detail string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidLoanAmount,
		detail,
		ErrInvalidLoanAmount,
	)
}

func WrapInvalidStatusTransition(from, to string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidStatusTransition,
		fmt.Sprintf("Cannot transition loan from %s to %s", from, to),
		ErrInvalidStatusTransition,
	)
}

func WrapLoanNotApproved(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotApproved,
		fmt.Sprintf("Loan with ID %s is not approved", loanID),
		ErrLoanNotApproved,
	)
}

func WrapLoanFullyPaid(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanFullyPaid,
		fmt.Sprintf("Loan with ID %s is already fully paid", loanID),
		ErrLoanFullyPaid,
	)
}

func WrapInvalidOTP() *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidOTP,
		"OTP code is invalid or has expired",
		ErrInvalidOTP,
	)
}

func WrapPaymentAmountMismatch(expected, actual string) *BusinessError {
	return NewBusinessError(
		ErrCodePaymentAmountMismatch,
		fmt.Sprintf("Payment amount %s does not match the scheduled payment %s", actual, expected),
		ErrPaymentAmountMismatch,
	)
}

func WrapInvalidWithdrawalAmount(detail string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidWithdrawalAmount,
		detail,
		ErrInvalidWithdrawalAmount,
	)
}

func WrapUserNotFound(userID string) *BusinessError {
	return NewBusinessError(
		ErrCodeUserNotFound,
		fmt.Sprintf("User %s not found", userID),
		ErrUserNotFound,
	)
}

func WrapUserAlreadyExists(email string) *BusinessError {
	return NewBusinessError(
		ErrCodeUserAlreadyExists,
		fmt.Sprintf("User with email %s already exists", email),
		ErrUserAlreadyExists,
	)
}

func WrapInvalidCredentials() *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidCredentials,
		"Email or password is incorrect",
		ErrInvalidCredentials,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}
