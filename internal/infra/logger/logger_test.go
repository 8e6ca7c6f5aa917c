package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetup_WritesJSONToWorkspaceLog(t *testing.T) {
	root := t.TempDir()

	cleanup, err := Setup(Config{Root: root})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	want := filepath.Join(root, ".wallclock", "logs", "wallclock.log")
	if Path() != want {
		t.Fatalf("expected path %s, got %s", want, Path())
	}
	L().Info("converted", "zone", "Asia/Kolkata")
	L().Debug("hidden")

	if err := cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if Path() != "" {
		t.Fatalf("expected path reset after cleanup")
	}

	b, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines (debug filtered), got %d:\n%s", len(lines), b)
	}

	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if rec["msg"] != "converted" || rec["zone"] != "Asia/Kolkata" {
		t.Fatalf("unexpected record %v", rec)
	}
	if ts, _ := rec["time"].(string); !strings.HasSuffix(ts, "Z") {
		t.Fatalf("expected UTC timestamp, got %v", rec["time"])
	}
}

func TestSetup_DebugWithWriter(t *testing.T) {
	var buf bytes.Buffer

	cleanup, err := Setup(Config{Debug: true, Writer: &buf})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer cleanup()

	L().Debug("probe", "iterations", 3)
	if !strings.Contains(buf.String(), `"msg":"probe"`) {
		t.Fatalf("expected debug record, got:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), `"source"`) {
		t.Fatalf("expected source attribute in debug mode, got:\n%s", buf.String())
	}
	if Path() != "" {
		t.Fatalf("expected no file path with a custom writer")
	}
}
