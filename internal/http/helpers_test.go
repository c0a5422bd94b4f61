package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ledger/internal/core"
	"ledger/internal/ledger"
	"ledger/internal/log"
)

func TestErrorResponseStatusAndLogging(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		errorType string
	}{
		{"validation", &core.ValidationError{Field: "amount", Err: core.ErrInvalidAmount}, http.StatusUnprocessableEntity, log.ErrorTypeValidation},
		{"not found", fmt.Errorf("update: %w", ledger.ErrNotFound), http.StatusNotFound, log.ErrorTypeNotFound},
		{"internal", errors.New("disk full"), http.StatusInternalServerError, log.ErrorTypeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := log.New(log.Config{Level: slog.LevelDebug, Component: log.ComponentHTTP, Output: &buf})
			req := httptest.NewRequest(http.MethodPost, "/api/transactions", nil)
			req = req.WithContext(log.WithContext(req.Context(), logger))

			rr := httptest.NewRecorder()
			errorResponse(req, log.OpCreate, tt.err).Write(rr)
			if rr.Code != tt.status {
				t.Fatalf("status = %d, want %d", rr.Code, tt.status)
			}
			if !strings.Contains(buf.String(), "error_type="+tt.errorType) {
				t.Errorf("log %q missing error_type=%s", buf.String(), tt.errorType)
			}
		})
	}
}
