package middleware

import (
	"errors"
	"unicode/utf8"
)

// ValidateChatMessage validates a chat message body.
func ValidateChatMessage(message string) error {
	if len(message) == 0 {
		return errors.New("message cannot be empty")
	}
	if len(message) > 8192 {
		return errors.New("message exceeds maximum length")
	}
	if !utf8.ValidString(message) {
		return errors.New("message must be valid UTF-8")
	}
	return nil
}

// ValidateUserID validates a loan-chat user ID path parameter.
func ValidateUserID(id string) error {
	if len(id) == 0 {
		return errors.New("user ID cannot be empty")
	}
	if len(id) > 64 {
		return errors.New("user ID exceeds maximum length")
	}
	return nil
}
