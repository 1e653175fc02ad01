package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInstanceNotFound is returned when an instance id is unknown.
	ErrInstanceNotFound = errors.New("instance not found")
	// ErrLLMConfigNotFound is returned when an AI-model config id is unknown.
	ErrLLMConfigNotFound = errors.New("config not found")
	// ErrUserNotFound is returned when a user id is unknown.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserAlreadyExists is returned when registering a taken username.
	ErrUserAlreadyExists = errors.New("username already exists")
	// ErrInvalidCredentials is returned for any failed login, whether or not the username exists.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidRole is returned when a role outside administrator/operator is requested.
	ErrInvalidRole = errors.New("invalid role")
	// ErrValidation is returned when required fields are missing.
	ErrValidation = errors.New("missing fields")
	// ErrGatewayFailure is returned when a required gateway call fails.
	ErrGatewayFailure = errors.New("failed to create instance in Evolution API")
	// ErrQRCodeUnavailable is returned when the gateway yields no pairing QR code.
	ErrQRCodeUnavailable = errors.New("failed to get QR code")
	// ErrInvalidToken is returned when a bearer token is revoked or malformed.
	ErrInvalidToken = errors.New("invalid token")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
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

// MapErrorToHTTP maps domain errors, including wrapped ones, to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrInstanceNotFound):
		return NewHTTPError(http.StatusNotFound, ErrInstanceNotFound.Error(), "INSTANCE_NOT_FOUND")
	case errors.Is(err, ErrLLMConfigNotFound):
		return NewHTTPError(http.StatusNotFound, ErrLLMConfigNotFound.Error(), "CONFIG_NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrUserAlreadyExists):
		return NewHTTPError(http.StatusBadRequest, ErrUserAlreadyExists.Error(), "USER_ALREADY_EXISTS")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidToken.Error(), "UNAUTHORIZED")
	case errors.Is(err, ErrInvalidRole):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidRole.Error(), "INVALID_ROLE")
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, ErrValidation.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrQRCodeUnavailable):
		return NewHTTPError(http.StatusBadRequest, ErrQRCodeUnavailable.Error(), "QRCODE_UNAVAILABLE")
	case errors.Is(err, ErrGatewayFailure):
		return NewHTTPError(http.StatusInternalServerError, ErrGatewayFailure.Error(), "GATEWAY_ERROR")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
