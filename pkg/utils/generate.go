package utils

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ==================== CONFIRMATION CODE ====================

const (
	DefaultConfirmationCodeLength = 64
	// MaxConfirmationCodeLength is the width of users.confirmation_code.
	MaxConfirmationCodeLength = 64
)

// ClampConfirmationCodeLength maps a configured length onto 1..MaxConfirmationCodeLength.
func ClampConfirmationCodeLength(length int) int {
	switch {
	case length <= 0:
		return DefaultConfirmationCodeLength
	case length > MaxConfirmationCodeLength:
		return MaxConfirmationCodeLength
	}
	return length
}

// GenerateConfirmationCode returns a crypto-random URL-safe code. It is called
// once per user record at creation time.
func GenerateConfirmationCode(length int) (string, error) {
	length = ClampConfirmationCodeLength(length)

	code, err := gonanoid.New(length)
	if err != nil {
		return "", fmt.Errorf("generate confirmation code: %w", err)
	}
	return code, nil
}
