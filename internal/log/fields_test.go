package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLogErrorTagsTypeAndOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Component: ComponentAMQP, Output: &buf})

	LogError(context.Background(), logger, "Publish failed", errors.New("broken pipe"), ErrorTypeNetwork, OpPublish)

	out := buf.String()
	for _, want := range []string{"component=amqp", "error_type=network_error", "operation=publish", `error="broken pipe"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestWithErrorIgnoresNil(t *testing.T) {
	f := NewFields().WithError(nil, ErrorTypeInternal)
	if len(f) != 0 {
		t.Fatalf("fields = %v, want empty", f)
	}
}
