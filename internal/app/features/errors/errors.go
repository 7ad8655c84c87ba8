// internal/app/features/errors/errors.go
package errors

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/safetyapp/internal/app/system/apiclient"
	"github.com/dalemusser/safetyapp/internal/app/system/auth"
	"github.com/dalemusser/safetyapp/internal/app/system/inputval"
	"github.com/dalemusser/safetyapp/internal/app/system/respond"
	"go.uber.org/zap"
)

// validationResponse is the 400 body for input that failed validation.
type validationResponse struct {
	Error  string                `json:"error"`
	Errors []inputval.FieldError `json:"errors"`
}

// ErrorLogger writes JSON error responses and logs the ones that are
// the server's fault.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	if u, ok := auth.CurrentUser(r); ok {
		fields = append(fields, zap.String("user_id", u.ID))
	}
	return fields
}

// LogServerError logs err and answers 500 with userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.Log.Error(logMsg, e.fields(r, err)...)
	respond.Error(w, http.StatusInternalServerError, userMsg)
}

// LogBadRequest logs at debug and answers 400 with userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.Log.Debug(logMsg, e.fields(r, err)...)
	respond.Error(w, http.StatusBadRequest, userMsg)
}

// Write maps err to a response: validation failures become 400 with
// field errors, backend errors keep their status and message, a
// canceled request gets 499, and anything else is a logged 500.
// Callers map their own sentinel errors before falling back to Write.
func (e *ErrorLogger) Write(w http.ResponseWriter, r *http.Request, logMsg string, err error) {
	if res, ok := inputval.AsResult(err); ok {
		respond.JSON(w, http.StatusBadRequest, validationResponse{Error: res.First(), Errors: res.Errors})
		return
	}
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		e.Log.Warn(logMsg, append(e.fields(r, err), zap.Int("backend_status", apiErr.Status))...)
		respond.Error(w, apiErr.Status, apiErr.Message)
		return
	}
	if errors.Is(err, apiclient.ErrNoToken) {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if errors.Is(err, context.Canceled) {
		e.Log.Debug(logMsg, e.fields(r, err)...)
		respond.Error(w, StatusClientClosedRequest, "request canceled")
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		e.Log.Warn(logMsg, e.fields(r, err)...)
		respond.Error(w, http.StatusGatewayTimeout, "upstream timed out")
		return
	}
	e.LogServerError(w, r, logMsg, err, "internal server error")
}

// StatusClientClosedRequest is the de facto status for requests the
// client abandoned.
const StatusClientClosedRequest = 499

// Handler serves the router's fallback JSON errors.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// NotFound answers unknown routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	respond.Error(w, http.StatusNotFound, "not found")
}

// MethodNotAllowed answers known routes called with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
}
