package httpapi

import (
	"errors"
	"net/http"

	"github.com/ironsheep/heart-area-tools/internal/analysis"
)

// Client-facing validation messages.
const (
	msgFilesRequired = "Image and JSON files are required."
	msgBadImageExt   = "Invalid image format. Supported formats are PNG, JPG, and JPEG."
	msgBadJSONExt    = "Invalid JSON file format. Must be a JSON file."
)

// ValidationError reports a request rejected before any processing.
type ValidationError struct {
	Status  int
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func badRequest(msg string) *ValidationError {
	return &ValidationError{Status: http.StatusBadRequest, Message: msg}
}

// statusFor maps a pipeline error to the HTTP status sent to the client.
func statusFor(err error) int {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Status
	case errors.Is(err, analysis.ErrBudgetExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
