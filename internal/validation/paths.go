package validation

import (
	"os"
	"path/filepath"
)

// PathHandler resolves reel's default locations and validates overrides.
type PathHandler struct {
	validator *FilePathValidator
	home      func() (string, error)
}

func NewSecurePathHandler() *PathHandler {
	return &PathHandler{validator: NewFilePathValidator(), home: os.UserHomeDir}
}

func NewPermissivePathHandler() *PathHandler {
	return &PathHandler{validator: NewPermissiveFilePathValidator(), home: os.UserHomeDir}
}

// DBPath validates the bbolt file location.
func (ph *PathHandler) DBPath(userPath string) (string, error) {
	if userPath == "" {
		home, err := ph.home()
		if err != nil {
			return "", err
		}
		userPath = filepath.Join(home, ".reel", "reel.db")
	}
	return ph.validator.ValidateFile(userPath)
}

// ConfigPath validates the config file location.
func (ph *PathHandler) ConfigPath(userPath string) (string, error) {
	if userPath == "" {
		home, err := ph.home()
		if err != nil {
			return "", err
		}
		userPath = filepath.Join(home, ".config", "reel", "config.toml")
	}
	return ph.validator.ValidateFile(userPath)
}

// IndexPath validates the bleve suggestion index directory. An empty path
// or ":memory:" selects the in-memory index and is returned unchanged.
func (ph *PathHandler) IndexPath(userPath string) (string, error) {
	if userPath == "" || userPath == ":memory:" {
		return userPath, nil
	}
	return ph.validator.ValidateDirectory(userPath, false)
}

// EnsureDirectory validates path and creates it.
func (ph *PathHandler) EnsureDirectory(path string) (string, error) {
	return ph.validator.ValidateDirectory(path, true)
}
