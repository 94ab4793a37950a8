package serrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ServiceError carries the HTTP status and machine-readable code alongside a
// user-facing message. Services return these; controllers translate them into
// the response envelope without inspecting error strings.
type ServiceError struct {
	Status  int
	Code    string
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *ServiceError) Unwrap() error { return e.Cause }

func New(status int, code, message string, cause error) *ServiceError {
	return &ServiceError{Status: status, Code: code, Message: message, Cause: cause}
}

func Authentication(message string) *ServiceError {
	return New(http.StatusUnauthorized, "UNAUTHENTICATED", message, nil)
}

func Authorization(message string) *ServiceError {
	return New(http.StatusForbidden, "FORBIDDEN", message, nil)
}

func Validation(message string) *ServiceError {
	return New(http.StatusBadRequest, "INVALID_BODY", message, nil)
}

func NotFound(message string) *ServiceError {
	return New(http.StatusNotFound, "NOT_FOUND", message, nil)
}

func BucketMismatch(message string) *ServiceError {
	return New(http.StatusBadRequest, "BUCKET_MISMATCH", message, nil)
}

func NotReorderable(message string) *ServiceError {
	return New(http.StatusBadRequest, "NOT_REORDERABLE", message, nil)
}

func InvalidIndex(message string) *ServiceError {
	return New(http.StatusBadRequest, "INVALID_INDEX", message, nil)
}

func Conflict(message string) *ServiceError {
	return New(http.StatusConflict, "CONFLICT", message, nil)
}

func Persistence(message string, cause error) *ServiceError {
	return New(http.StatusInternalServerError, "PERSISTENCE", message, cause)
}

// AsServiceError unwraps err into a *ServiceError, or wraps it as a generic
// persistence failure so no internal detail leaks to the client.
func AsServiceError(err error) *ServiceError {
	var se *ServiceError
	if errors.As(err, &se) {
		return se
	}
	return Persistence("internal error", err)
}
