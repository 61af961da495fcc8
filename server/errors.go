package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RequestError is a client error carrying the HTTP status to respond with.
type RequestError struct {
	Status  int
	Message string
	Cause   error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

func (e *RequestError) Unwrap() error { return e.Cause }

// newValidationError turns validator field errors into a 400 RequestError.
func newValidationError(err error) *RequestError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &RequestError{Status: http.StatusBadRequest, Message: err.Error(), Cause: err}
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return &RequestError{
		Status:  http.StatusBadRequest,
		Message: "invalid request: " + strings.Join(fields, ", "),
		Cause:   err,
	}
}
