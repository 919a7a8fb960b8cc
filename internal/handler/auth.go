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

type AuthHandler struct {
	service   *service.AuthService
	validator *validator.Validate
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{
		service:   service,
		validator: validator.New(),
	}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var request domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	result, err := h.service.Register(r.Context(), &request)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	response.Created(w, result)
}

// RegisterAdmin handles POST /api/v1/admin/register
func (h *AuthHandler) RegisterAdmin(w http.ResponseWriter, r *http.Request) {
	var request domain.AdminRegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	result, err := h.service.RegisterAdmin(r.Context(), &request)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	response.Created(w, result)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var request domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	result, err := h.service.Login(r.Context(), &request)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	response.Success(w, result)
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	response.Success(w, user)
}

func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, customError.ErrInvalidCredentials):
		response.Unauthorized(w, "Email or password is incorrect")
	case errors.Is(err, customError.ErrUserAlreadyExists):
		response.Conflict(w, "User already exists", err)
	case errors.Is(err, customError.ErrUserNotFound):
		response.NotFound(w, "User not found")
	default:
		response.InternalServerError(w, "Internal server error", err)
	}
}
