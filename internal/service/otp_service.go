package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/lendana/loan-engine/internal/config"
	"github.com/lendana/loan-engine/internal/domain"
	customError "github.com/lendana/loan-engine/pkg/errors"
)

// OTPService issues and verifies one-time codes for sensitive operations.
// Codes live in Redis with a TTL and are consumed on first successful
// verification.
type OTPService struct {
	redis  *redis.Client
	config *config.Config
	log    *logrus.Logger
}

func NewOTPService(redisClient *redis.Client, cfg *config.Config, log *logrus.Logger) *OTPService {
	return &OTPService{redis: redisClient, config: cfg, log: log}
}

// Generate creates a numeric OTP of the given length (6, 8 or 10 digits)
// for a user, replacing any previous code.
func (s *OTPService) Generate(ctx context.Context, userID uuid.UUID, length int) (string, error) {
	if !domain.ValidOTPLengths[length] {
		return "", customError.WrapInvalidOTP()
	}

	code, err := GenerateCode(length)
	if err != nil {
		return "", err
	}

	if err := s.redis.Set(ctx, otpKey(userID), code, s.config.Business.OTPTTL).Err(); err != nil {
		return "", customError.WrapCacheError(err)
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "length": length}).Info("OTP generated")

	return code, nil
}

// Verify checks a code against the stored one and consumes it on success.
func (s *OTPService) Verify(ctx context.Context, userID uuid.UUID, code string) error {
	if err := domain.ValidateOTPCode(code); err != nil {
		return customError.WrapInvalidOTP()
	}

	stored, err := s.redis.Get(ctx, otpKey(userID)).Result()
	if err != nil {
		return customError.WrapInvalidOTP()
	}
	if stored != code {
		return customError.WrapInvalidOTP()
	}

	if err := s.redis.Del(ctx, otpKey(userID)).Err(); err != nil {
		s.log.WithError(err).Warn("deleting consumed OTP")
	}

	return nil
}

// GenerateCode produces a random numeric code of the given length.
// Leading zeros are allowed.
func GenerateCode(length int) (string, error) {
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}

func otpKey(userID uuid.UUID) string {
	return fmt.Sprintf("otp:%s", userID)
}
