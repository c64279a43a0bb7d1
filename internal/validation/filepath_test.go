package validation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFilePathValidator_ValidateAndSanitize(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	tempDir := t.TempDir()

	tests := []struct {
		name        string
		validator   *FilePathValidator
		input       string
		want        string
		shouldError bool
		errorMsg    string
	}{
		{name: "temp file", validator: NewFilePathValidator(), input: filepath.Join(tempDir, "reel.db"), want: filepath.Join(tempDir, "reel.db")},
		{name: "home expansion", validator: NewFilePathValidator(), input: "~/.reel/reel.db", want: filepath.Join(home, ".reel", "reel.db")},
		{name: "empty", validator: NewFilePathValidator(), input: "", shouldError: true, errorMsg: "empty"},
		{name: "null byte", validator: NewFilePathValidator(), input: "/tmp/reel\x00.db", shouldError: true, errorMsg: "null"},
		{name: "control character", validator: NewFilePathValidator(), input: "/tmp/reel\n.db", shouldError: true, errorMsg: "control"},
		{name: "traversal", validator: NewFilePathValidator(), input: "~/.reel/../.ssh/id_rsa", shouldError: true, errorMsg: "traversal"},
		{name: "other user's home", validator: NewFilePathValidator(), input: "~root/.reel", shouldError: true, errorMsg: "tilde"},
		{name: "relative rejected", validator: NewFilePathValidator(), input: "reel.db", shouldError: true, errorMsg: "absolute"},
		{name: "outside allowed dirs", validator: NewFilePathValidator(), input: "/etc/reel.db", shouldError: true, errorMsg: "not within"},
		{name: "permissive anywhere", validator: NewPermissiveFilePathValidator(), input: "/etc/reel.db", want: "/etc/reel.db"},
		{name: "permissive cleans", validator: NewPermissiveFilePathValidator(), input: "/var//lib/./reel.db", want: "/var/lib/reel.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.validator.ValidateAndSanitize(tt.input)
			if tt.shouldError {
				if err == nil {
					t.Fatalf("expected error for %q, got %q", tt.input, got)
				}
				if !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("error %q does not mention %q", err, tt.errorMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFilePathValidator_SiblingPrefixNotAllowed(t *testing.T) {
	base := t.TempDir()
	v := &FilePathValidator{AllowedBaseDirs: []string{filepath.Join(base, "reel")}, MaxPathLength: 4096}

	if _, err := v.ValidateAndSanitize(filepath.Join(base, "reel", "reel.db")); err != nil {
		t.Errorf("path inside base rejected: %v", err)
	}
	if _, err := v.ValidateAndSanitize(filepath.Join(base, "reel-other", "reel.db")); err == nil {
		t.Error("sibling directory with shared prefix accepted")
	}
}

func TestFilePathValidator_ValidateDirectory(t *testing.T) {
	v := NewPermissiveFilePathValidator()
	dir := filepath.Join(t.TempDir(), "index.bleve")

	got, err := v.ValidateDirectory(dir, false)
	if err != nil {
		t.Fatalf("missing directory without create: %v", err)
	}
	if _, err := os.Stat(got); !os.IsNotExist(err) {
		t.Error("directory created without create flag")
	}

	if _, err := v.ValidateDirectory(dir, true); err != nil {
		t.Fatalf("create: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("directory not created: %v", err)
	}

	file := filepath.Join(t.TempDir(), "plain")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := v.ValidateDirectory(file, false); err == nil {
		t.Error("regular file accepted as directory")
	}
}

func TestFilePathValidator_ValidateFile(t *testing.T) {
	v := NewPermissiveFilePathValidator()
	dir := t.TempDir()

	if _, err := v.ValidateFile(filepath.Join(dir, "reel.db")); err != nil {
		t.Errorf("new file rejected: %v", err)
	}
	if _, err := v.ValidateFile(dir); err == nil {
		t.Error("directory accepted as file")
	}
}
