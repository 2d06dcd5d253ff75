package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Format: "json", Output: &buf})

	if log.GetLevel() != logrus.DebugLevel {
		t.Fatalf("Expected debug level, got %s", log.GetLevel())
	}

	log.WithField("task_id", 7).Info("task created")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "task created" {
		t.Fatalf("Expected msg field, got %v", entry)
	}
	if entry["task_id"] != float64(7) {
		t.Fatalf("Expected task_id field, got %v", entry)
	}
}

func TestNewTextLoggerFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "loud", Format: "TEXT", Output: &buf})

	if log.GetLevel() != logrus.InfoLevel {
		t.Fatalf("Expected info level, got %s", log.GetLevel())
	}

	log.Debug("hidden")
	log.Info("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("Debug entry should be filtered, got %q", out)
	}
	if !strings.Contains(out, "msg=visible") {
		t.Fatalf("Expected text formatted entry, got %q", out)
	}
}
