// internal/app/features/errors/errors.go

// Package errors centralizes how handlers report failures. Server-side
// detail goes to the log; the caller only ever sees the envelope with an
// opaque message, so internals never leak through a 500.
package errors

import (
	"net/http"

	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/httpjson"
	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// ErrorLogger logs handler failures and writes the matching JSON envelope.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger around the given zap logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogServerError records an unexpected failure with full detail and sends
// the caller an opaque 500. op names the operation for the log line.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, op string, err error) {
	e.log.Error(op,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("ip", ratelimit.ClientIP(r)))
	httpjson.Error(w, http.StatusInternalServerError, "something went wrong")
}

// LogBadRequest records a malformed request and sends a 400 with the
// given user-facing message.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, op string, err error, userMsg string) {
	e.log.Warn(op,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path))
	httpjson.Error(w, http.StatusBadRequest, userMsg)
}

// LogNotFound sends a 404 envelope. Quiet by default; lookups that miss
// are normal traffic, not incidents.
func (e *ErrorLogger) LogNotFound(w http.ResponseWriter, userMsg string) {
	httpjson.Error(w, http.StatusNotFound, userMsg)
}
