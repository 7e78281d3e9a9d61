package dto

import "net/http"

// Error codes returned in ErrorInfo.Code. Every code starts with ERR_.
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"

	// request shape
	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodeInvalidJSON     = "ERR_INVALID_JSON"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
	ErrCodeValidation      = "ERR_VALIDATION"

	// ErrCodeNotFound means no courier returned a rate, or a route does not exist
	ErrCodeNotFound = "ERR_NOT_FOUND"

	ErrCodeRateLimited = "ERR_RATE_LIMITED"

	// ErrCodeServiceUnavailable means an optional backend such as quote history is not configured
	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps each error code to the status it is sent with
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:            http.StatusInternalServerError,
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeInvalidJSON:        http.StatusBadRequest,
	ErrCodeRequestTooLarge:    http.StatusRequestEntityTooLarge,
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeRateLimited:        http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the status for code, 500 for codes it does not know
func GetHTTPStatus(code string) int {
	status, ok := ErrorCodeHTTPStatus[code]
	if !ok {
		return http.StatusInternalServerError
	}
	return status
}
