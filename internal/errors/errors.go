package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrPartNotFound is returned when a part is not found.
	ErrPartNotFound = errors.New("part not found")
	// ErrConsignerNotFound is returned when a consigner is not found.
	ErrConsignerNotFound = errors.New("consigner not found")
	// ErrInvalidField is returned when an update names a field that is not updatable.
	ErrInvalidField = errors.New("invalid field")
	// ErrInvalidValue is returned when a value cannot be coerced to the field's type.
	ErrInvalidValue = errors.New("invalid value for field")
	// ErrCommissionRange is returned when a commission percentage is outside [0, 100].
	ErrCommissionRange = errors.New("commission must be between 0 and 100")
	// ErrInvalidDateFormat is returned when a date field is not YYYY-MM-DD.
	ErrInvalidDateFormat = errors.New("invalid date format, use YYYY-MM-DD")
	// ErrDuplicateEmail is returned when an email is already taken by another user.
	ErrDuplicateEmail = errors.New("this email is already in use")
	// ErrDuplicateCode is returned when a consigner code is already taken.
	ErrDuplicateCode = errors.New("this code is already in use")
	// ErrFeeModeConflict is returned when both commission percentage and fixed fee would be set.
	ErrFeeModeConflict = errors.New("provide only one of commission percentage or fixed fee")
	// ErrNoPartsFound is returned when invoice generation resolves no parts.
	ErrNoPartsFound = errors.New("no parts found")
	// ErrBillingInfoMissing is returned when no billing entity is configured.
	ErrBillingInfoMissing = errors.New("invoice billing info is not configured")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrPartNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "PART_NOT_FOUND")
	case errors.Is(err, ErrConsignerNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "CONSIGNER_NOT_FOUND")
	case errors.Is(err, ErrInvalidField):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_FIELD")
	case errors.Is(err, ErrInvalidValue):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_VALUE")
	case errors.Is(err, ErrCommissionRange):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "COMMISSION_OUT_OF_RANGE")
	case errors.Is(err, ErrInvalidDateFormat):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_DATE_FORMAT")
	case errors.Is(err, ErrDuplicateEmail):
		return NewHTTPError(http.StatusConflict, err.Error(), "DUPLICATE_EMAIL")
	case errors.Is(err, ErrDuplicateCode):
		return NewHTTPError(http.StatusConflict, err.Error(), "DUPLICATE_CODE")
	case errors.Is(err, ErrFeeModeConflict):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "FEE_MODE_CONFLICT")
	case errors.Is(err, ErrNoPartsFound):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "NO_PARTS_FOUND")
	case errors.Is(err, ErrBillingInfoMissing):
		return NewHTTPError(http.StatusConflict, err.Error(), "BILLING_INFO_MISSING")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
