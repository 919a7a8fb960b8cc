package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/lendana/loan-engine/internal/domain"
	"github.com/lendana/loan-engine/internal/service"
	"github.com/lendana/loan-engine/pkg/response"
)

// AdminHandler backs the admin console: loan review, OTP issuance and
// reporting.
type AdminHandler struct {
	loans     *service.LoanService
	otp       *service.OTPService
	validator *validator.Validate
}

func NewAdminHandler(loans *service.LoanService, otp *service.OTPService) *AdminHandler {
	return &AdminHandler{
		loans:     loans,
		otp:       otp,
		validator: validator.New(),
	}
}

// UpdateLoanStatus handles PUT /api/v1/admin/loans/{loanId}/status
func (h *AdminHandler) UpdateLoanStatus(w http.ResponseWriter, r *http.Request) {
	loanID, err := uuid.Parse(mux.Vars(r)["loanId"])
	if err != nil {
		response.BadRequest(w, "Invalid loan ID", err)
		return
	}

	var request domain.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	loan, err := h.loans.UpdateLoanStatus(r.Context(), loanID, request.Status)
	if err != nil {
		writeLoanError(w, err)
		return
	}

	response.Success(w, loan)
}

// GenerateOTP handles POST /api/v1/admin/otp
func (h *AdminHandler) GenerateOTP(w http.ResponseWriter, r *http.Request) {
	var request domain.GenerateOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	userID, err := uuid.Parse(request.UserID)
	if err != nil {
		response.BadRequest(w, "Invalid user ID", err)
		return
	}

	code, err := h.otp.Generate(r.Context(), userID, request.Length)
	if err != nil {
		response.BadRequest(w, "OTP generation failed", err)
		return
	}

	response.Created(w, domain.GenerateOTPResponse{UserID: request.UserID, Code: code})
}

// StatusReport handles GET /api/v1/admin/reports/status
func (h *AdminHandler) StatusReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.loans.StatusReport(r.Context())
	if err != nil {
		writeLoanError(w, err)
		return
	}

	response.Success(w, report)
}
