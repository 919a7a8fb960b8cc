package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/lendana/loan-engine/internal/domain"
	"github.com/lendana/loan-engine/internal/service"
	customError "github.com/lendana/loan-engine/pkg/errors"
	"github.com/lendana/loan-engine/pkg/response"
)

type WithdrawalHandler struct {
	service   *service.WithdrawalService
	validator *validator.Validate
}

func NewWithdrawalHandler(service *service.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{
		service:   service,
		validator: validator.New(),
	}
}

// RequestWithdrawal handles POST /api/v1/withdrawals
func (h *WithdrawalHandler) RequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	var request domain.WithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	withdrawal, err := h.service.Request(r.Context(), userID, &request)
	if err != nil {
		switch {
		case errors.Is(err, customError.ErrInvalidOTP):
			response.Unauthorized(w, "OTP code is invalid or has expired")
		case errors.Is(err, customError.ErrInvalidWithdrawalAmount),
			errors.Is(err, customError.ErrLoanNotApproved):
			response.BadRequest(w, "Request rejected", err)
		case errors.Is(err, customError.ErrLoanNotFound):
			response.NotFound(w, "Loan not found")
		default:
			response.InternalServerError(w, "Internal server error", err)
		}
		return
	}

	response.Created(w, withdrawal)
}
