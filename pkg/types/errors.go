package types

import "fmt"

// ConfigurationError indicates required configuration is missing. It is
// fatal: retrying without supplying the value cannot succeed.
type ConfigurationError struct {
	Key     string // The missing configuration key (e.g., "project")
	Message string // Human-readable guidance on how to supply it
}

// Error implements the error interface
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// ErrorCode categorizes provider errors
type ErrorCode string

const (
	ErrCodeUnknown        ErrorCode = "unknown"
	ErrCodeAuthentication ErrorCode = "authentication"
	ErrCodeRateLimit      ErrorCode = "rate_limit"
	ErrCodeInvalidRequest ErrorCode = "invalid_request"
	ErrCodeNotFound       ErrorCode = "not_found"
	ErrCodeServerError    ErrorCode = "server_error"
	ErrCodeTimeout        ErrorCode = "timeout"
	ErrCodeNetwork        ErrorCode = "network"
)

// ProviderError represents a standardized error from the Vertex AI wire
// layer. Errors from the genai SDK propagate unmodified; this type covers
// the raw-predict path used by the Claude family.
type ProviderError struct {
	Code        ErrorCode // Categorized error code
	Message     string    // Human-readable message
	StatusCode  int       // HTTP status code (0 if not applicable)
	Model       string    // Vertex model name the request targeted
	OriginalErr error     // Wrapped original error
	RequestID   string    // Provider request ID if available
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("vertex: %s (model=%s, status=%d, code=%s)", e.Message, e.Model, e.StatusCode, e.Code)
	}
	return fmt.Sprintf("vertex: %s (model=%s, code=%s)", e.Message, e.Model, e.Code)
}

// Unwrap returns the original error for errors.Is/As
func (e *ProviderError) Unwrap() error {
	return e.OriginalErr
}

// IsRetryable returns true if the error is potentially recoverable with retry
func (e *ProviderError) IsRetryable() bool {
	switch e.Code {
	case ErrCodeRateLimit, ErrCodeServerError, ErrCodeTimeout, ErrCodeNetwork:
		return true
	}
	return false
}

// ErrorCodeFromStatus maps an HTTP status code to an ErrorCode.
func ErrorCodeFromStatus(status int) ErrorCode {
	switch {
	case status == 401 || status == 403:
		return ErrCodeAuthentication
	case status == 404:
		return ErrCodeNotFound
	case status == 429:
		return ErrCodeRateLimit
	case status == 408:
		return ErrCodeTimeout
	case status >= 500:
		return ErrCodeServerError
	case status >= 400:
		return ErrCodeInvalidRequest
	default:
		return ErrCodeUnknown
	}
}
