package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation and input error codes
const (
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	// ErrCodeInvalidFormat is used for an unknown ?format= value
	ErrCodeInvalidFormat = "ERR_INVALID_FORMAT"
	// ErrCodeTooLarge is used when the request body exceeds the limit
	ErrCodeTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	ErrCodeTokenRevoked = "ERR_TOKEN_REVOKED"
)

// Receipt error codes
const (
	// ErrCodeUnknownRoutine is used when the service routine is not recognised
	ErrCodeUnknownRoutine = "ERR_UNKNOWN_ROUTINE"
	// ErrCodeEmptyTemplate is used when a tire receipt has no axles to print
	ErrCodeEmptyTemplate = "ERR_EMPTY_TEMPLATE"
	// ErrCodeNoCharges is used for a bulk receipt without charges
	ErrCodeNoCharges = "ERR_NO_CHARGES"
	// ErrCodeRendererUnavailable is used for PDF requests without a renderer
	ErrCodeRendererUnavailable = "ERR_RENDERER_UNAVAILABLE"
	// ErrCodeRenderTimeout is used when PDF rendering exceeds its deadline
	ErrCodeRenderTimeout = "ERR_RENDER_TIMEOUT"
	// ErrCodeRenderFailed is used for any other renderer failure
	ErrCodeRenderFailed = "ERR_RENDER_FAILED"
	ErrCodeNotFound     = "ERR_NOT_FOUND"
	// ErrCodeInvalidSettingKey is used for an empty or oversized setting key
	ErrCodeInvalidSettingKey = "ERR_INVALID_SETTING_KEY"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:    http.StatusBadRequest,
	ErrCodeBadRequest:    http.StatusBadRequest,
	ErrCodeInvalidInput:  http.StatusBadRequest,
	ErrCodeInvalidJSON:   http.StatusBadRequest,
	ErrCodeInvalidFormat: http.StatusBadRequest,
	ErrCodeTooLarge:      http.StatusRequestEntityTooLarge,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeTokenRevoked: http.StatusUnauthorized,

	// Receipt errors -> 422 when the job cannot be printed as submitted
	ErrCodeUnknownRoutine:      http.StatusUnprocessableEntity,
	ErrCodeEmptyTemplate:       http.StatusUnprocessableEntity,
	ErrCodeNoCharges:           http.StatusUnprocessableEntity,
	ErrCodeRendererUnavailable: http.StatusServiceUnavailable,
	ErrCodeRenderTimeout:       http.StatusGatewayTimeout,
	ErrCodeRenderFailed:        http.StatusBadGateway,
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeInvalidSettingKey:   http.StatusBadRequest,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps domain and renderer error codes to API codes
var LegacyErrorCodeMapping = map[string]string{
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_FORMAT":       ErrCodeInvalidFormat,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"UNKNOWN_ROUTINE":      ErrCodeUnknownRoutine,
	"EMPTY_TEMPLATE":       ErrCodeEmptyTemplate,
	"NO_CHARGES":           ErrCodeNoCharges,
	"RENDERER_UNAVAILABLE": ErrCodeRendererUnavailable,
	"RENDER_TIMEOUT":       ErrCodeRenderTimeout,
	"RENDER_FAILED":        ErrCodeRenderFailed,
	"RENDERER_INIT_FAILED": ErrCodeRenderFailed,
	"INVALID_HTML":         ErrCodeRenderFailed,
	"INVALID_GEOMETRY":     ErrCodeRenderFailed,
	"PAGE_STATE":           ErrCodeInternal,
	"STORAGE_FAILED":       ErrCodeInternal,
	"NOT_FOUND":            ErrCodeNotFound,
	"INVALID_SETTING_KEY":  ErrCodeInvalidSettingKey,
	"INTERNAL_ERROR":       ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the API format
// If the code is already in the API format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
