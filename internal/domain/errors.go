package domain

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeValidation        ErrorCode = "VALIDATION_ERROR"
	CodeInsufficientFunds ErrorCode = "INSUFFICIENT_FUNDS"
	CodeStateConflict     ErrorCode = "STATE_CONFLICT"
	CodeNotFound          ErrorCode = "NOT_FOUND"
	CodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	CodeExternalService   ErrorCode = "EXTERNAL_SERVICE_ERROR"

	// CodeDeadlineAdvisory never rejects a request. It annotates snapshots
	// fetched past the deadline relevant to the order's current status.
	CodeDeadlineAdvisory ErrorCode = "DEADLINE_ADVISORY"
)

// Error is the engine-wide error type. Every rejected operation carries a
// machine-readable code; state conflicts additionally carry the expected
// and observed statuses so callers can re-fetch and decide.
type Error struct {
	Code     ErrorCode
	Message  string
	Expected string
	Actual   string
	Err      error
}

func (e *Error) Error() string {
	if e.Code == CodeStateConflict && e.Expected != "" {
		return fmt.Sprintf("%s: expected status %s, got %s", e.Code, e.Expected, e.Actual)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func NewValidationError(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func NewInsufficientFunds(ownerID, assetID string, amount int64) *Error {
	return &Error{
		Code:    CodeInsufficientFunds,
		Message: fmt.Sprintf("ledger refused lock of %d %s for %s", amount, assetID, ownerID),
	}
}

func NewStateConflict(entity, expected, actual string) *Error {
	return &Error{
		Code:     CodeStateConflict,
		Message:  fmt.Sprintf("%s status already changed", entity),
		Expected: expected,
		Actual:   actual,
	}
}

func NewNotFound(entity, id string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

func NewUnauthorized(format string, args ...any) *Error {
	return &Error{Code: CodeUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func NewExternalServiceError(service string, err error) *Error {
	return &Error{Code: CodeExternalService, Message: service + " unreachable", Err: err}
}

// CodeOf extracts the taxonomy code from any error chain. Unclassified
// errors are treated as external: retry-safe, never silently dropped.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeExternalService
}

func IsStateConflict(err error) bool { return CodeOf(err) == CodeStateConflict }

func IsNotFound(err error) bool { return CodeOf(err) == CodeNotFound }
