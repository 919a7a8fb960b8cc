package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/lendana/loan-engine/internal/domain"
	"github.com/lendana/loan-engine/internal/service"
	customError "github.com/lendana/loan-engine/pkg/errors"
	"github.com/lendana/loan-engine/pkg/response"
)

type LoanHandler struct {
	service   *service.LoanService
	validator *validator.Validate
}

func NewLoanHandler(service *service.LoanService) *LoanHandler {
	return &LoanHandler{
		service:   service,
		validator: validator.New(),
	}
}

// CreateLoan handles POST /api/v1/loans
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	var request domain.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	loan, err := h.service.CreateApplication(r.Context(), userID, &request)
	if err != nil {
		writeLoanError(w, err)
		return
	}

	response.Created(w, loan)
}

// ListLoans handles GET /api/v1/loans
func (h *LoanHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	status := r.URL.Query().Get("status")

	loans, total, err := h.service.ListLoans(r.Context(), userID, status, page, perPage)
	if err != nil {
		writeLoanError(w, err)
		return
	}

	response.Success(w, response.NewPage(loans, total, page, perPage))
}

// GetLoan handles GET /api/v1/loans/{loanId}
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loan, ok := h.authorizedLoan(w, r)
	if !ok {
		return
	}
	response.Success(w, loan)
}

// GetSchedule handles GET /api/v1/loans/{loanId}/schedule
func (h *LoanHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	loan, ok := h.authorizedLoan(w, r)
	if !ok {
		return
	}

	schedule, err := h.service.Schedule(r.Context(), loan.ID)
	if err != nil {
		writeLoanError(w, err)
		return
	}

	response.Success(w, schedule)
}

// GetSummary handles GET /api/v1/loans/{loanId}/summary
func (h *LoanHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	loan, ok := h.authorizedLoan(w, r)
	if !ok {
		return
	}

	summary, err := h.service.Summary(r.Context(), loan.ID)
	if err != nil {
		writeLoanError(w, err)
		return
	}

	response.Success(w, summary)
}

// MakePayment handles POST /api/v1/loans/{loanId}/payments
func (h *LoanHandler) MakePayment(w http.ResponseWriter, r *http.Request) {
	loan, ok := h.authorizedLoan(w, r)
	if !ok {
		return
	}

	var request domain.MakePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	payment, err := h.service.RecordPayment(r.Context(), loan.ID, request.Amount)
	if err != nil {
		writeLoanError(w, err)
		return
	}

	response.Created(w, payment)
}

// authorizedLoan loads the loan from the path and enforces that the caller
// owns it or is an admin.
func (h *LoanHandler) authorizedLoan(w http.ResponseWriter, r *http.Request) (*domain.Loan, bool) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return nil, false
	}

	loanID, err := uuid.Parse(mux.Vars(r)["loanId"])
	if err != nil {
		response.BadRequest(w, "Invalid loan ID", err)
		return nil, false
	}

	loan, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		writeLoanError(w, err)
		return nil, false
	}

	if loan.UserID != userID && RoleFromContext(r.Context()) != domain.RoleAdmin {
		response.NotFound(w, "Loan not found")
		return nil, false
	}

	return loan, true
}

func writeLoanError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, customError.ErrLoanNotFound):
		response.NotFound(w, "Loan not found")
	case errors.Is(err, customError.ErrPendingApplicationExists):
		response.Conflict(w, "A pending application already exists", err)
	case errors.Is(err, customError.ErrInvalidLoanParameters),
		errors.Is(err, customError.ErrInvalidLoanAmount),
		errors.Is(err, customError.ErrPaymentAmountMismatch),
		errors.Is(err, customError.ErrLoanNotApproved),
		errors.Is(err, customError.ErrLoanFullyPaid),
		errors.Is(err, customError.ErrInvalidStatusTransition):
		response.BadRequest(w, "Request rejected", err)
	default:
		response.InternalServerError(w, "Internal server error", err)
	}
}
