package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestJSONOutputKeys(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.WithModule("resolver").WithError(errors.New("boom")).Error("backend call failed")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}

	for _, key := range []string{"timestamp", "level", "message", "module", "error"} {
		if _, ok := record[key]; !ok {
			t.Errorf("missing key %q in log record: %v", key, record)
		}
	}
	if record["level"] != "error" {
		t.Errorf("level = %v, want error", record["level"])
	}
	if record["message"] != "backend call failed" {
		t.Errorf("message = %v", record["message"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("warn", &buf)

	log.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info record emitted at warn level: %s", buf.String())
	}

	log.Warn("shown")
	if buf.Len() == 0 {
		t.Error("warn record not emitted at warn level")
	}
}

func TestWarnLevelRenamed(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("debug", &buf)
	log.Warnf("slow response from %s", "backend")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["level"] != "warning" {
		t.Errorf("level = %v, want warning", record["level"])
	}
}
