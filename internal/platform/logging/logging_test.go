package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"visitlog/internal/platform/logging"
)

func TestNewJSONIncludesFields(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	logger := logging.New(logging.Options{Level: "debug", JSON: true, Output: buf})
	logger.Named("presence").Error("open session missing", "visitor_id", "v-1")

	line := strings.TrimSpace(buf.String())
	payload := map[string]any{}
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		t.Fatalf("decode log line %q: %v", line, err)
	}
	if payload["visitor_id"] != "v-1" {
		t.Fatalf("expected visitor_id field, got %v", payload)
	}
	if payload["@level"] != "error" {
		t.Fatalf("expected error level, got %v", payload["@level"])
	}
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	logger := logging.New(logging.Options{Level: "chatty", Output: buf})
	logger.Debug("hidden")
	logger.Info("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}
