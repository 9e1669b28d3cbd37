// Package apperr carries the error taxonomy shared by services and handlers.
// Every error a handler renders is an *Error; anything else is reported as 500.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Error codes rendered alongside the HTTP status.
const (
	CodeValidation       = "validation_error"
	CodeNotFound         = "not_found"
	CodeConflict         = "conflict"
	CodeForbidden        = "forbidden"
	CodeUnauthorized     = "unauthorized"
	CodeAlreadyExists    = "already_exists"
	CodeRelationNotFound = "not_found_relation"
	CodeSelfSubscription = "self_subscription"
)

// Error is an application error with an HTTP status.
// Fields holds per-field messages for validation failures.
type Error struct {
	Status  int
	Code    string
	Message string
	Fields  map[string][]string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], ", ")))
		}
		return strings.Join(parts, "; ")
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.Err }

// Add records a message for field and returns e for chaining.
func (e *Error) Add(field, msg string) *Error {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
	return e
}

// Has reports whether field already carries a message.
func (e *Error) Has(field string) bool {
	return len(e.Fields[field]) > 0
}

// Empty reports whether no field messages were recorded.
func (e *Error) Empty() bool {
	return e.Message == "" && len(e.Fields) == 0
}

// NewValidation returns an empty validation error to collect field messages into.
func NewValidation() *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeValidation}
}

// Validation returns a validation error for a single field.
func Validation(field, msg string) *Error {
	return NewValidation().Add(field, msg)
}

// Invalid returns a validation error that is not tied to a field.
func Invalid(code, msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: code, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Code: CodeNotFound, Message: msg}
}

// Conflict reports a constraint violation detected by the store at commit time.
func Conflict(code, msg string, err error) *Error {
	if code == "" {
		code = CodeConflict
	}
	return &Error{Status: http.StatusConflict, Code: code, Message: msg, Err: err}
}

func Forbidden(msg string) *Error {
	return &Error{Status: http.StatusForbidden, Code: CodeForbidden, Message: msg}
}

func Unauthorized(msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, Code: CodeUnauthorized, Message: msg}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// HasStatus reports whether err is an *Error with the given status.
func HasStatus(err error, status int) bool {
	ae, ok := As(err)
	return ok && ae.Status == status
}

// HasCode reports whether err is an *Error with the given code.
func HasCode(err error, code string) bool {
	ae, ok := As(err)
	return ok && ae.Code == code
}

// StatusOf maps err to the HTTP status a handler should send.
func StatusOf(err error) int {
	if ae, ok := As(err); ok && ae.Status != 0 {
		return ae.Status
	}
	return http.StatusInternalServerError
}
