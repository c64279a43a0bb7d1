package debuglog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LevelOff, "OFF"},
	}

	for _, test := range tests {
		if got := test.level.String(); got != test.expected {
			t.Errorf("LogLevel.String() = %q, want %q", got, test.expected)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"DEBUG", LevelDebug},
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"info", LevelInfo},
		{"WARN", LevelWarn},
		{"warn", LevelWarn},
		{"WARNING", LevelWarn},
		{"ERROR", LevelError},
		{"error", LevelError},
		{"OFF", LevelOff},
		{"off", LevelOff},
		{"INVALID", LevelInfo}, // Default to INFO
		{"", LevelInfo},        // Default to INFO
		{"none", LevelOff},
	}

	for _, test := range tests {
		if got := ParseLogLevel(test.input); got != test.expected {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", test.input, got, test.expected)
		}
	}
}

func TestSetupWithLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "reel.log")

	if err := Setup(LevelInfo, logPath); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if GetLevel() != LevelInfo {
		t.Errorf("GetLevel() = %v, want %v", GetLevel(), LevelInfo)
	}

	Debugf("fetch started for %q", "batman")
	Infof("fetched %d movies", 20)
	Warnf("loading trending searches: %s", "store closed")
	Errorf("recording search %q failed", "dune")

	if err := Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}

	logContent := string(content)
	if strings.Contains(logContent, "fetch started") {
		t.Error("DEBUG message should not appear with INFO level")
	}
	for _, want := range []string{"fetched 20 movies", "store closed", "recording search"} {
		if !strings.Contains(logContent, want) {
			t.Errorf("log should contain %q, got: %s", want, logContent)
		}
	}
}

func TestSetupWithLevelOff(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "off.log")

	if err := Setup(LevelOff, logPath); err != nil {
		t.Fatalf("Setup with LevelOff failed: %v", err)
	}
	if GetLevel() != LevelOff {
		t.Errorf("GetLevel() = %v, want %v", GetLevel(), LevelOff)
	}

	Errorf("never written")

	if _, err := os.Stat(logPath); !os.IsNotExist(err) {
		t.Errorf("no log file should be created when logging is off")
	}
}

func TestDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if got, want := DefaultPath(), filepath.Join(home, ".reel", "reel.log"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}

func TestFieldLogger(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "field_test.log")

	if err := Setup(LevelDebug, logPath); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	defer Close()

	WithFields(map[string]interface{}{
		"request_id": "cq1v2k8",
		"query":      "batman",
		"movie_id":   268,
	}).Infof("recorded search")

	if err := Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}

	logContent := string(content)
	for _, want := range []string{"recorded search", `"request_id":"cq1v2k8"`, `"query":"batman"`, `"movie_id":268`} {
		if !strings.Contains(logContent, want) {
			t.Errorf("log should contain %s, got: %s", want, logContent)
		}
	}
}

func TestLinesAreJSON(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	if err := Setup(LevelWarn, logPath); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	Warnf("fetch failed for %q", "batman")
	if err := Close(); err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["level"] != "warn" {
		t.Errorf("level = %v, want warn", entry["level"])
	}
	if entry["message"] != `fetch failed for "batman"` {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["app"] != "reel" {
		t.Errorf("app = %v, want reel", entry["app"])
	}
}

func TestLNopWhenOff(t *testing.T) {
	if err := Setup(LevelOff); err != nil {
		t.Fatal(err)
	}
	l := L()
	if l.GetLevel() != zerolog.Disabled {
		t.Errorf("L() level = %v, want disabled", l.GetLevel())
	}
}

func TestSetLevel(t *testing.T) {
	// Test changing log level dynamically
	SetLevel(LevelDebug)
	if GetLevel() != LevelDebug {
		t.Errorf("SetLevel(LevelDebug) failed, got %v", GetLevel())
	}

	SetLevel(LevelError)
	if GetLevel() != LevelError {
		t.Errorf("SetLevel(LevelError) failed, got %v", GetLevel())
	}
}