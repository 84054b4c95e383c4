package usecase

import "fmt"

type ErrorCode string

const (
	ErrorConfiguration ErrorCode = "CONFIGURATION_ERROR"
	ErrorInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrorUpstream      ErrorCode = "UPSTREAM_ERROR"
	ErrorInternal      ErrorCode = "INTERNAL_ERROR"
)

// Error is the only error type returned by ChatService. Message is safe to show
// to the caller; Reason is a stable tag for logs and metrics.
type Error struct {
	Code    ErrorCode
	Reason  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("usecase: %s (%s): %s", e.Code, e.Reason, e.Message)
	}
	return fmt.Sprintf("usecase: %s (%s): %s: %v", e.Code, e.Reason, e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(code ErrorCode, reason, message string, err error) *Error {
	return &Error{Code: code, Reason: reason, Message: message, Err: err}
}

// unexpectedMessage is the caller-facing text for failures with no vendor detail.
func unexpectedMessage(err error) string {
	return "Error: " + err.Error()
}
