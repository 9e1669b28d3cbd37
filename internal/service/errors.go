package service

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/apperr"
)

var (
	ErrInvalidCredentials = errors.New("unable to log in with provided credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// isUniqueViolation reports whether err comes from a unique index. Drivers
// that do not translate errors are matched on their message.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "SQLSTATE 23505")
}

func isOutOfRange(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "out of range") ||
		strings.Contains(msg, "SQLSTATE 22003")
}

func isCheckViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "CHECK constraint failed") ||
		strings.Contains(msg, "violates check constraint") ||
		strings.Contains(msg, "SQLSTATE 23514")
}

// classify turns an error raised inside a persistence transaction into the
// error a caller reports. Application errors pass through unchanged.
func classify(err error, op, conflictCode, conflictMsg string) error {
	if err == nil {
		return nil
	}
	if _, ok := apperr.As(err); ok {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("Not found.")
	}
	if isUniqueViolation(err) {
		return apperr.Conflict(conflictCode, conflictMsg, err)
	}
	if isCheckViolation(err) || isOutOfRange(err) {
		return &apperr.Error{Status: http.StatusBadRequest, Code: apperr.CodeValidation, Message: "A value is out of the allowed range.", Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}
