package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestWithContextAddsRunID(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	ctx := ContextWithRunID(context.Background(), "run-123")
	log.WithContext(ctx).Info("hello")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if record["run_id"] != "run-123" {
		t.Fatalf("expected run_id in record, got %v", record)
	}
}

func TestUploadStageLogsErrorAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	log.UploadStage("issue_path", "image.png", 500, errors.New("rejected"))

	out := buf.String()
	if !strings.Contains(out, `"level":"ERROR"`) {
		t.Fatalf("expected error level, got %q", out)
	}
	if !strings.Contains(out, `"stage":"issue_path"`) || !strings.Contains(out, `"code":500`) {
		t.Fatalf("expected stage and code fields, got %q", out)
	}
}

func TestDevelopmentUsesTextHandler(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("development", &buf)

	log.Debug("visible")

	if !strings.Contains(buf.String(), "msg=visible") {
		t.Fatalf("expected debug text record, got %q", buf.String())
	}
}

func TestRunIDFromContextEmpty(t *testing.T) {
	if got := RunIDFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty run id, got %q", got)
	}
}
