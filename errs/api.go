package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Common error sentinel values
var (
	ErrNotFound       = errors.New("not found")
	ErrRequestFailed  = errors.New("request failed")
	ErrBadRequest     = errors.New("malformed request")
	ErrSubmitInFlight = errors.New("submission already in progress")
	ErrModeFixed      = errors.New("form mode cannot change after mount")
	ErrConfigInvalid  = errors.New("configuration invalid")
)

type ApiErr struct {
	StatusCode int
	StatusText string // Reason phrase reported by the remote API, if any
	err        error
	Details    string // Additional details about the error
	Field      string // Field that caused the error (for validation errors)
	Cause      error  // The underlying cause of the error
}

func NewApiErr(statusCode int, message string) *ApiErr {
	return &ApiErr{
		StatusCode: statusCode,
		err:        errors.New(message),
	}
}

// implements error interface. this allows us to pass an instance of ApiErr as an argument of type `error`
func (e *ApiErr) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.err.Error(), e.Details)
	}
	return e.err.Error()
}

// GetFullError returns a recursive error message including all causes
func (e *ApiErr) GetFullError() string {
	msg := e.Error()
	if e.Cause != nil {
		var apiErr *ApiErr
		if errors.As(e.Cause, &apiErr) {
			msg = fmt.Sprintf("%s -> %s", msg, apiErr.GetFullError())
		} else {
			msg = fmt.Sprintf("%s -> %s", msg, e.Cause.Error())
		}
	}
	return msg
}

// this function allows us to do the following:
// err := &ApiErr{StatusCode: ..., err: someSentinelError}
// errors.Is(err, someSentinelError) ==> evaluates to true
func (e *ApiErr) Unwrap() error {
	return e.err
}

// NewNotFound reports that the API answered without a record for the entity.
func NewNotFound(entity, id string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s with id %s %w", entity, id, ErrNotFound),
	}
}

// NewRequestFailed reports a non-2xx answer from the project API.
func NewRequestFailed(statusCode int, statusText string) *ApiErr {
	if statusText == "" {
		statusText = http.StatusText(statusCode)
	}
	return &ApiErr{
		StatusCode: statusCode,
		StatusText: statusText,
		err:        ErrRequestFailed,
		Details:    fmt.Sprintf("HTTP error! status: %d - %s", statusCode, statusText),
	}
}

// NewTransportError reports a request that never produced an HTTP status.
func NewTransportError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: 0,
		err:        ErrRequestFailed,
		Details:    fmt.Sprintf("failed to %s", operation),
		Cause:      cause,
	}
}

// NewDecodeError reports a 2xx answer whose body could not be decoded.
func NewDecodeError(entity string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrRequestFailed,
		Details:    fmt.Sprintf("malformed %s payload", entity),
		Cause:      cause,
	}
}

func NewBadRequestError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusBadRequest, err: fmt.Errorf("%s: %w", message, ErrBadRequest)}
}

func NewBadRequestErrorWithField(message, field, details string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        fmt.Errorf("%s: %w", message, ErrBadRequest),
		Field:      field,
		Details:    details,
	}
}

func NewSubmitInFlightError() *ApiErr {
	return &ApiErr{StatusCode: http.StatusConflict, err: ErrSubmitInFlight}
}

func NewModeFixedError(details string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusConflict, err: ErrModeFixed, Details: details}
}

func NewConfigError(field, details string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigInvalid,
		Field:      field,
		Details:    details,
	}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsRequestFailed(err error) bool {
	return errors.Is(err, ErrRequestFailed)
}

func IsBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}

func IsSubmitInFlight(err error) bool {
	return errors.Is(err, ErrSubmitInFlight)
}

func IsModeFixed(err error) bool {
	return errors.Is(err, ErrModeFixed)
}

func IsConfigInvalid(err error) bool {
	return errors.Is(err, ErrConfigInvalid)
}

// StatusOf returns the HTTP status carried by err, or 0 when it carries none.
func StatusOf(err error) int {
	var apiErr *ApiErr
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
