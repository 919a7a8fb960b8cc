package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/lendana/loan-engine/internal/config"
	"github.com/lendana/loan-engine/internal/domain"
	"github.com/lendana/loan-engine/internal/repository"
	customError "github.com/lendana/loan-engine/pkg/errors"
)

// Claims is the JWT payload issued on login.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	userRepo repository.UserRepository
	config   *config.Config
	log      *logrus.Logger
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config, log *logrus.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, config: cfg, log: log}
}

// Register creates a borrower account with a bcrypt password hash.
func (s *AuthService) Register(ctx context.Context, request *domain.RegisterRequest) (*domain.AuthResponse, error) {
	return s.register(ctx, request.FullName, request.Email, request.PhoneNumber, request.Password, domain.RoleUser)
}

// RegisterAdmin creates an admin account. The caller must present the
// shared admin registration secret.
func (s *AuthService) RegisterAdmin(ctx context.Context, request *domain.AdminRegisterRequest) (*domain.AuthResponse, error) {
	if s.config.Auth.AdminSecret == "" || request.AdminSecret != s.config.Auth.AdminSecret {
		return nil, customError.WrapInvalidCredentials()
	}
	return s.register(ctx, request.FullName, request.Email, "", request.Password, domain.RoleAdmin)
}

func (s *AuthService) register(ctx context.Context, fullName, email, phone, password, role string) (*domain.AuthResponse, error) {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, customError.WrapUserAlreadyExists(email)
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapDatabaseError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		FullName:     fullName,
		Email:        email,
		PhoneNumber:  phone,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("user registered")

	return &domain.AuthResponse{User: user, Token: token}, nil
}

// Login authenticates a user and issues a JWT.
func (s *AuthService) Login(ctx context.Context, request *domain.LoginRequest) (*domain.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, request.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapInvalidCredentials()
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)); err != nil {
		return nil, customError.WrapInvalidCredentials()
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.log.WithField("user_id", user.ID).Info("user logged in")

	return &domain.AuthResponse{User: user, Token: token}, nil
}

// GetUser fetches a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapUserNotFound(id.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return user, nil
}

// ParseToken validates a JWT and returns its claims.
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.config.Auth.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func (s *AuthService) issueToken(user *domain.User) (string, error) {
	claims := &Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.config.Auth.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Auth.JWTSecret))
}
