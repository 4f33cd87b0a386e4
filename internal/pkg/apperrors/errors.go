package apperrors

import (
	"errors"
	"fmt"
)

// Kind sentinels. Every error leaving a service wraps exactly one of them.
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrPermissionDenied = errors.New("permission denied")
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")
	ErrInternal         = errors.New("internal error")
)

// Kind names the error category surfaced at the boundary
type Kind string

const (
	KindValidation Kind = "validation"
	KindAuth       Kind = "auth"
	KindPermission Kind = "permission"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindInternal   Kind = "internal"
)

// Machine-readable reasons carried in CustomError.Code
const (
	ReasonInvalidInput       = "invalid_input"
	ReasonInvalidCredentials = "invalid_credentials"
	ReasonInvalidOrExpired   = "invalid_or_expired"
	ReasonAccountDisabled    = "account_disabled"
	ReasonRoleRequired       = "role_required"

	ReasonSlotTaken         = "slot_taken"
	ReasonAlreadyPaid       = "already_paid"
	ReasonAlreadyFinalized  = "already_finalized"
	ReasonQuotaExceeded     = "quota_exceeded"
	ReasonExamNotActive     = "exam_not_active"
	ReasonHasPayments       = "has_payments"
	ReasonPriorityCollision = "priority_collision"
	ReasonDuplicate         = "duplicate"

	ReasonAspirationNotFound = "aspiration_not_found"
	ReasonPaymentNotFound    = "payment_not_found"
	ReasonCandidateNotFound  = "candidate_not_found"
	ReasonExamNotFound       = "exam_not_found"
	ReasonNoActiveExam       = "no_active_exam"
	ReasonUniversityNotFound = "university_not_found"
	ReasonMajorNotFound      = "major_not_found"
	ReasonUserNotFound       = "user_not_found"

	ReasonStorageFailure = "storage_failure"
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Field   string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithField names the offending input field
func (e *CustomError) WithField(field string) *CustomError {
	e.Field = field
	return e
}

func newError(kind error, reason, message string) *CustomError {
	return &CustomError{Err: kind, Code: reason, Message: message}
}

// NewValidationError reports a missing or malformed input
func NewValidationError(field, message string) *CustomError {
	return newError(ErrValidationFailed, ReasonInvalidInput, message).WithField(field)
}

// NewAuthError reports a missing, invalid or expired credential
func NewAuthError(reason, message string) *CustomError {
	return newError(ErrUnauthorized, reason, message)
}

// NewForbiddenError reports a role that does not satisfy the operation
func NewForbiddenError(message string) *CustomError {
	return newError(ErrPermissionDenied, ReasonRoleRequired, message)
}

// NewNotFoundError reports an absent entity or one not owned by the caller
func NewNotFoundError(reason, message string) *CustomError {
	return newError(ErrResourceNotFound, reason, message)
}

// NewConflictError reports a state conflict the caller can recover from
func NewConflictError(reason, message string) *CustomError {
	return newError(ErrConflict, reason, message)
}

// NewInternalError wraps an unexpected failure. The cause stays reachable via errors.Is/As.
func NewInternalError(message string, cause error) *CustomError {
	return &CustomError{
		Err:     fmt.Errorf("%w: %w", ErrInternal, cause),
		Code:    ReasonStorageFailure,
		Message: message,
	}
}

// KindOf classifies err. Unclassified errors are internal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidationFailed):
		return KindValidation
	case errors.Is(err, ErrUnauthorized):
		return KindAuth
	case errors.Is(err, ErrPermissionDenied):
		return KindPermission
	case errors.Is(err, ErrResourceNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	default:
		return KindInternal
	}
}

// ReasonOf returns the machine reason attached to err, if any
func ReasonOf(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// Is reports whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
