package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendana/loan-engine/internal/domain"
)

func TestGenerateCode(t *testing.T) {
	for _, length := range []int{6, 8, 10} {
		code, err := GenerateCode(length)
		require.NoError(t, err)
		assert.Len(t, code, length)
		assert.NoError(t, domain.ValidateOTPCode(code))
	}
}

func TestValidateOTPCode(t *testing.T) {
	tests := []struct {
		name  string
		code  string
		valid bool
	}{
		{"six digits", "123456", true},
		{"eight digits", "12345678", true},
		{"ten digits", "1234567890", true},
		{"leading zeros", "000042", true},
		{"too short", "12345", false},
		{"unsupported length", "1234567", false},
		{"too long", "12345678901", false},
		{"letters", "12a456", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ValidateOTPCode(tt.code)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
