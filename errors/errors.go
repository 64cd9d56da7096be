package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorCode identifies an application error class
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 200

	ErrorCode_INTERNAL          ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT  ErrorCode = 1001
	ErrorCode_NOT_FOUND         ErrorCode = 1002
	ErrorCode_UNAUTHENTICATED   ErrorCode = 1003
	ErrorCode_PERMISSION_DENIED ErrorCode = 1004
	ErrorCode_INVALID_PAYLOAD   ErrorCode = 1005

	ErrorCode_CONFIGURATION   ErrorCode = 2000
	ErrorCode_INVALID_QUARTER ErrorCode = 2001

	ErrorCode_AUTH_INVALID_TOKEN ErrorCode = 3000
	ErrorCode_AUTH_TOKEN_EXPIRED ErrorCode = 3001

	ErrorCode_TRANSCRIPT_NOT_FOUND ErrorCode = 4000
	ErrorCode_INGESTION_FAILED     ErrorCode = 4001

	ErrorCode_INTEGRATION_STORAGE_FAILED      ErrorCode = 5000
	ErrorCode_INTEGRATION_CACHE_FAILED        ErrorCode = 5001
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED ErrorCode = 5002

	ErrorCode_DB_CONNECTION_FAILED ErrorCode = 6000
	ErrorCode_DB_QUERY_FAILED      ErrorCode = 6001
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                         "HTTP_OK",
	ErrorCode_INTERNAL:                        "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:                "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                       "NOT_FOUND",
	ErrorCode_UNAUTHENTICATED:                 "UNAUTHENTICATED",
	ErrorCode_PERMISSION_DENIED:               "PERMISSION_DENIED",
	ErrorCode_INVALID_PAYLOAD:                 "INVALID_PAYLOAD",
	ErrorCode_CONFIGURATION:                   "CONFIGURATION",
	ErrorCode_INVALID_QUARTER:                 "INVALID_QUARTER",
	ErrorCode_AUTH_INVALID_TOKEN:              "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:              "AUTH_TOKEN_EXPIRED",
	ErrorCode_TRANSCRIPT_NOT_FOUND:            "TRANSCRIPT_NOT_FOUND",
	ErrorCode_INGESTION_FAILED:                "INGESTION_FAILED",
	ErrorCode_INTEGRATION_STORAGE_FAILED:      "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:        "INTEGRATION_CACHE_FAILED",
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED: "INTEGRATION_EXTERNAL_API_FAILED",
	ErrorCode_DB_CONNECTION_FAILED:            "DB_CONNECTION_FAILED",
	ErrorCode_DB_QUERY_FAILED:                 "DB_QUERY_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ErrorCode(%d)", int(c))
}

// AppError is the application error type
type AppError struct {
	Raw       error
	HTTPCode  int
	Code      ErrorCode
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the underlying error to errors.Is / errors.As
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	details := make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	e.Details = details
	return e
}

// General Errors
func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Message:  "Internal server error",
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_ARGUMENT,
		Message:  message,
	}
}

func ErrNotFound(resource string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_NOT_FOUND,
		Message:  fmt.Sprintf("%s not found", resource),
	}
}

func ErrUnauthenticated() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_UNAUTHENTICATED,
		Message:  "Authentication required",
	}
}

func ErrPermissionDenied(scope string) AppError {
	return AppError{
		HTTPCode: http.StatusForbidden,
		Code:     ErrorCode_PERMISSION_DENIED,
		Message:  "Permission denied",
	}.WithDetail("scope", scope)
}

func ErrInvalidPayload() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_PAYLOAD,
		Message:  "Invalid payload",
	}
}

// Configuration and validation errors are the only fatal ones in an ingestion run
func ErrConfiguration(parameter string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_CONFIGURATION,
		Message:  "Missing or unreadable configuration",
	}.WithDetail("parameter", parameter)
}

func ErrInvalidQuarter(value string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_QUARTER,
		Message:  "Invalid fiscal quarter, expected YYYYQX",
	}.WithDetail("quarter", value)
}

// Authentication Errors
func ErrInvalidToken() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_AUTH_INVALID_TOKEN,
		Message:  "Invalid authentication token",
	}
}

func ErrTokenExpired() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_AUTH_TOKEN_EXPIRED,
		Message:  "Authentication token has expired",
	}
}

// Transcript Errors
func ErrTranscriptNotFound(symbol, quarter string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_TRANSCRIPT_NOT_FOUND,
		Message:  "Transcript not found",
	}.WithDetail("symbol", symbol).
		WithDetail("quarter", quarter)
}

func ErrIngestionFailed(symbol string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INGESTION_FAILED,
		Message:  "Ingestion run failed",
	}.WithDetail("symbol", symbol)
}

// Integration Errors
func ErrStorageFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTEGRATION_STORAGE_FAILED,
		Message:  fmt.Sprintf("Storage operation failed: %s", operation),
	}
}

func ErrCacheFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTEGRATION_CACHE_FAILED,
		Message:  fmt.Sprintf("Cache operation failed: %s", operation),
	}
}

func ErrExternalAPIFailed(service string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_INTEGRATION_EXTERNAL_API_FAILED,
		Message:  fmt.Sprintf("External API call failed: %s", service),
	}
}

// Database Errors
func ErrDBConnectionFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_DB_CONNECTION_FAILED,
		Message:  "Database connection failed",
	}
}

func ErrDBQueryFailed(query string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_DB_QUERY_FAILED,
		Message:  "Database query failed",
	}.WithDetail("query", query)
}
