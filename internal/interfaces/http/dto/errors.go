package dto

import "net/http"

// Error codes returned in ErrorInfo.Code. Format: ERR_<DESCRIPTION>
const (
	ErrCodeInternal   = "ERR_INTERNAL"
	ErrCodeValidation = "ERR_VALIDATION"
	ErrCodeBadRequest = "ERR_BAD_REQUEST"

	// 401 tells the client to log in again, 403 that the user lacks a permission.
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	ErrCodeForbidden    = "ERR_FORBIDDEN"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"

	ErrCodeInvalidInput      = "ERR_INVALID_INPUT"
	ErrCodeInvalidState      = "ERR_INVALID_STATE"
	ErrCodeBusinessRule      = "ERR_BUSINESS_RULE"
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	ErrCodeWIPLimitExceeded  = "ERR_WIP_LIMIT_EXCEEDED"
	ErrCodeInvalidTransition = "ERR_INVALID_TRANSITION"

	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodeAccountLocked      = "ERR_ACCOUNT_LOCKED"
	ErrCodeAccountInactive    = "ERR_ACCOUNT_INACTIVE"

	ErrCodeIntegrationDisabled = "ERR_INTEGRATION_DISABLED"
	ErrCodeIntegrationFailed   = "ERR_INTEGRATION_FAILED"
	ErrCodeProviderError       = "ERR_PROVIDER_ERROR"
	ErrCodeProviderUnavailable = "ERR_PROVIDER_UNAVAILABLE"

	ErrCodeRateLimited = "ERR_RATE_LIMITED"

	// Rejected import files
	ErrCodeInvalidFile       = "ERR_INVALID_FILE"
	ErrCodeMissingColumns    = "ERR_MISSING_COLUMNS"
	ErrCodeTooManyRows       = "ERR_TOO_MANY_ROWS"
	ErrCodeInvalidImportMode = "ERR_INVALID_IMPORT_MODE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeValidation: http.StatusBadRequest,
	ErrCodeBadRequest: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidInput:      http.StatusBadRequest,
	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,
	ErrCodeWIPLimitExceeded:  http.StatusUnprocessableEntity,
	ErrCodeInvalidTransition: http.StatusUnprocessableEntity,

	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeAccountLocked:      http.StatusForbidden,
	ErrCodeAccountInactive:    http.StatusForbidden,

	ErrCodeIntegrationDisabled: http.StatusUnprocessableEntity,
	ErrCodeIntegrationFailed:   http.StatusBadGateway,
	ErrCodeProviderError:       http.StatusBadGateway,
	ErrCodeProviderUnavailable: http.StatusBadGateway,

	ErrCodeRateLimited: http.StatusTooManyRequests,

	ErrCodeInvalidFile:       http.StatusBadRequest,
	ErrCodeMissingColumns:    http.StatusBadRequest,
	ErrCodeTooManyRows:       http.StatusBadRequest,
	ErrCodeInvalidImportMode: http.StatusBadRequest,
}

// GetHTTPStatus returns the status for code. Unknown codes are business rule
// violations raised by the domain and map to 422.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}

// domainCodeMapping translates domain error codes into API error codes
var domainCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"INSUFFICIENT_STOCK":   ErrCodeInsufficientStock,
	"WIP_LIMIT_EXCEEDED":   ErrCodeWIPLimitExceeded,
	"INVALID_TRANSITION":   ErrCodeInvalidTransition,
	"INVALID_CREDENTIALS":  ErrCodeInvalidCredentials,
	"ACCOUNT_LOCKED":       ErrCodeAccountLocked,
	"ACCOUNT_INACTIVE":     ErrCodeAccountInactive,
	"INTEGRATION_DISABLED": ErrCodeIntegrationDisabled,
	"INTEGRATION_FAILED":   ErrCodeIntegrationFailed,
	"PROVIDER_ERROR":       ErrCodeProviderError,
	"PROVIDER_UNAVAILABLE": ErrCodeProviderUnavailable,
	"INTERNAL_ERROR":       ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to its API form.
// Codes without a mapping get the ERR_ prefix.
func NormalizeErrorCode(code string) string {
	if mapped, ok := domainCodeMapping[code]; ok {
		return mapped
	}
	if len(code) >= 4 && code[:4] == "ERR_" {
		return code
	}
	return "ERR_" + code
}
