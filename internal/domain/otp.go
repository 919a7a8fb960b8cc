package domain

import "fmt"

// OTP codes are numeric and exactly 6, 8 or 10 digits long.
var ValidOTPLengths = map[int]bool{6: true, 8: true, 10: true}

// ValidateOTPCode checks the code's shape, not its correctness.
func ValidateOTPCode(code string) error {
	if !ValidOTPLengths[len(code)] {
		return fmt.Errorf("OTP must be 6, 8, or 10 digits, got %d", len(code))
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return fmt.Errorf("OTP must contain only digits")
		}
	}
	return nil
}

type GenerateOTPRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Length int    `json:"length" validate:"required,oneof=6 8 10"`
}

type GenerateOTPResponse struct {
	UserID string `json:"user_id"`
	Code   string `json:"code"`
}
