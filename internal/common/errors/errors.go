// Package errors provides standardized error handling for the wizard engine
// and the draft/submission services behind it.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Local validation: a field validator rejected the active step.
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Server validation: the remote submission rejected with field errors.
	ErrCodeServerValidationFailed ErrorCode = "SERVER_VALIDATION_FAILED"

	// Transport: the request never reached the server, or the connection died.
	ErrCodeNetworkError ErrorCode = "NETWORK_ERROR"

	ErrCodeDraftNotFound    ErrorCode = "DRAFT_NOT_FOUND"
	ErrCodeDraftFetchFailed ErrorCode = "DRAFT_FETCH_FAILED"
	ErrCodeDraftStoreFailed ErrorCode = "DRAFT_STORE_FAILED"

	ErrCodeSubmissionFailed    ErrorCode = "SUBMISSION_FAILED"
	ErrCodeSubmissionConflict  ErrorCode = "SUBMISSION_CONFLICT"
	ErrCodeStepLocked          ErrorCode = "STEP_LOCKED"
	ErrCodeStepAlreadyInFlight ErrorCode = "STEP_ALREADY_IN_FLIGHT"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeDuplicateSubmission      ErrorCode = "DUPLICATE_SUBMISSION"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeUnexpected ErrorCode = "UNEXPECTED_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	// FieldErrors carries server-rejected field names (already translated to
	// UI names by the draft bridge) for SERVER_VALIDATION_FAILED errors.
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationFailedError creates a non-retryable local validation error.
func NewValidationFailedError(step string, fieldCount int) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Step validation failed",
		Details:   fmt.Sprintf("step: %s, invalid fields: %d", step, fieldCount),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewServerValidationError creates a non-retryable server-side validation
// error carrying the translated field errors.
func NewServerValidationError(step string, fieldErrors map[string]string) *StandardError {
	return &StandardError{
		Code:        ErrCodeServerValidationFailed,
		Message:     "Server rejected step submission",
		Details:     fmt.Sprintf("step: %s", step),
		Retryable:   false,
		Timestamp:   time.Now().UTC(),
		FieldErrors: fieldErrors,
	}
}

// NewNetworkError creates a retryable transport error.
func NewNetworkError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNetworkError,
		Message:   "Network error",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDraftNotFoundError creates a non-retryable missing-draft error.
func NewDraftNotFoundError(wizardID, applicantID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDraftNotFound,
		Message:   "No cached draft found",
		Details:   fmt.Sprintf("wizard: %s, applicant: %s", wizardID, applicantID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDraftFetchFailedError creates a retryable draft fetch error.
func NewDraftFetchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDraftFetchFailed,
		Message:   "Failed to fetch cached draft",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDraftStoreFailedError creates a retryable draft persistence error.
func NewDraftStoreFailedError(step string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDraftStoreFailed,
		Message:   "Failed to persist step draft",
		Details:   fmt.Sprintf("step: %s, error: %s", step, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSubmissionFailedError creates a retryable step submission error.
func NewSubmissionFailedError(step string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSubmissionFailed,
		Message:   "Step submission failed",
		Details:   fmt.Sprintf("step: %s, error: %s", step, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStepLockedError creates a non-retryable navigation error for a step the
// monotonic-unlock rule has not yet reached.
func NewStepLockedError(step string) *StandardError {
	return &StandardError{
		Code:      ErrCodeStepLocked,
		Message:   "Step is not yet unlocked",
		Details:   fmt.Sprintf("step: %s", step),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStepInFlightError signals a submission for the step is already running.
func NewStepInFlightError(step string) *StandardError {
	return &StandardError{
		Code:      ErrCodeStepAlreadyInFlight,
		Message:   "A submission for this step is already in flight",
		Details:   fmt.Sprintf("step: %s", step),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseInsertFailed,
		Message:   "Database insert operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateSubmissionError creates a non-retryable duplicate record error.
func NewDuplicateSubmissionError(referenceNo string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateSubmission,
		Message:   "Submission already exists",
		Details:   fmt.Sprintf("referenceNo: %s", referenceNo),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnexpectedError wraps anything that does not match a known shape.
func NewUnexpectedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnexpected,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// IsNetworkError reports whether err is a transport-level failure.
func IsNetworkError(err error) bool {
	stdErr, ok := err.(*StandardError)
	return ok && stdErr.Code == ErrCodeNetworkError
}

// IsServerValidation reports whether err carries server field errors.
func IsServerValidation(err error) bool {
	stdErr, ok := err.(*StandardError)
	return ok && stdErr.Code == ErrCodeServerValidationFailed
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "NETWORK"):
		return "NETWORK"
	case strings.Contains(codeStr, "DRAFT"):
		return "DRAFT"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "SUBMISSION"):
		return "PERSISTENCE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	default:
		return "OTHER"
	}
}
