package errors

import "errors"

// Error codes shared between the domain services and the HTTP layer. The HTTP
// layer owns the mapping from code to status; everything below it only tags
// failures with one of these.
const (
	CodeMissingCredential   = "missing_credential"
	CodeUpstreamAuth        = "upstream_auth"
	CodeUpstreamNotFound    = "upstream_not_found"
	CodeUpstreamUnavailable = "upstream_unavailable"
	CodeParseFailure        = "parse_failure"
	CodeCacheUnavailable    = "cache_unavailable"
	CodeGenerationFailure   = "generation_failure"
	CodeRouteNotFound       = "route_not_found"
)

// AppError encodes domain specific error details.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Wrap produces a new AppError instance.
func Wrap(code, message string, err error) error {
	if err == nil {
		return &AppError{Code: code, Message: message}
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// IsCode helps handlers differentiate failures.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// CodeOf returns the code carried by err, or an empty string for plain errors.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// MessageOf returns the human readable message without the wrapped cause.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
