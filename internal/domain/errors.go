package domain

import (
	"errors"
	"fmt"
)

// ValidationError is a bad-input rejection raised before any network or store
// call. Never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ErrPredictorUnavailable means the ML service could not be reached at all
// (connection refused or name resolution failure). Safe for the caller to
// retry shortly.
var ErrPredictorUnavailable = errors.New("prediction service is starting up, try again shortly")

// PredictorRejectedError means the predictor was reached but the call failed:
// an application-level error, a malformed response, or a timeout mid-request.
type PredictorRejectedError struct {
	Detail string
	Err    error
}

func (e *PredictorRejectedError) Error() string {
	if e.Detail != "" {
		return "prediction failed: " + e.Detail
	}
	return "prediction failed"
}

func (e *PredictorRejectedError) Unwrap() error { return e.Err }

// ErrNotFound is returned by the store for missing farmers, scans and districts
var ErrNotFound = errors.New("not found")

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
