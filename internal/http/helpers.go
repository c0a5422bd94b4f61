package http

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ledger/internal/core"
	"ledger/internal/ledger"
	"ledger/internal/log"
)

// sanitizeInput drops control characters (except tab and newlines) and
// trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// requestID reuses a well-formed client supplied X-Request-ID.
func requestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-ID"); id != "" && len(id) <= 64 && sanitizeInput(id) == id {
		return id
	}
	return generateRequestID()
}

// errorResponse maps store errors onto HTTP statuses: validation 422,
// missing 404, anything else 500 with a generic message.
func errorResponse(r *http.Request, op string, err error) *JSONResponseBuilder {
	var ve *core.ValidationError
	logger := log.FromContext(r.Context())
	switch {
	case errors.As(err, &ve):
		logger.DebugContext(r.Context(), "Request rejected",
			log.NewFields().WithError(err, log.ErrorTypeValidation).WithOperation(op).ToSlice()...)
		return UnprocessableEntityError(ve.Error()).Field(ve.Field)
	case errors.Is(err, ledger.ErrNotFound):
		logger.DebugContext(r.Context(), "Transaction not found",
			log.NewFields().WithError(err, log.ErrorTypeNotFound).WithOperation(op).ToSlice()...)
		return NotFoundError("transaction not found")
	default:
		log.LogError(r.Context(), logger, "Request failed", err, log.ErrorTypeInternal, op)
		return InternalServerError("internal error")
	}
}
