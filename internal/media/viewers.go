package media

import (
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/pelletier/go-toml/v2"
)

//go:embed viewers.toml
var viewersTOML []byte

// ViewerDefinition describes how to invoke one viewer executable.
type ViewerDefinition struct {
	Description string      `toml:"description"`
	Platforms   []string    `toml:"platforms"`
	Image       *Invocation `toml:"image,omitempty"`
	Browser     *Invocation `toml:"browser,omitempty"`
}

// Invocation holds the arguments placed before the target URL. Command
// replaces the executable name when set (Windows "start" is a cmd builtin).
type Invocation struct {
	Command string   `toml:"command,omitempty"`
	Args    []string `toml:"args"`
}

type viewersFile struct {
	Viewers map[string]ViewerDefinition `toml:"viewers"`
}

// ViewerRegistry maps viewer names to their definitions.
type ViewerRegistry struct {
	viewers map[string]ViewerDefinition
	goos    string
}

// NewViewerRegistry parses the built-in definitions and merges the user's
// file from configDir, if present.
func NewViewerRegistry(configDir string) (*ViewerRegistry, error) {
	builtin, err := parseViewers(viewersTOML)
	if err != nil {
		return nil, fmt.Errorf("parsing viewers.toml: %w", err)
	}
	r := &ViewerRegistry{viewers: builtin, goos: runtime.GOOS}

	if configDir != "" {
		if data, readErr := os.ReadFile(filepath.Join(configDir, "viewers.toml")); readErr == nil {
			user, parseErr := parseViewers(data)
			if parseErr != nil {
				return nil, fmt.Errorf("parsing user viewers.toml: %w", parseErr)
			}
			for name, def := range user {
				r.viewers[name] = def
			}
		}
	}
	return r, nil
}

func parseViewers(data []byte) (map[string]ViewerDefinition, error) {
	var f viewersFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if f.Viewers == nil {
		f.Viewers = make(map[string]ViewerDefinition)
	}
	return f.Viewers, nil
}

// Definition returns the definition registered under name.
func (r *ViewerRegistry) Definition(name string) (ViewerDefinition, bool) {
	def, ok := r.viewers[name]
	return def, ok
}

// Command builds the command that opens target with viewer name. Unknown
// viewers are run with the target as their only argument.
func (r *ViewerRegistry) Command(name string, kind Kind, target string) (*exec.Cmd, error) {
	def, ok := r.viewers[name]
	if !ok {
		return exec.Command(name, target), nil
	}
	if !slices.Contains(def.Platforms, r.goos) {
		return nil, fmt.Errorf("%s not supported on %s", name, r.goos)
	}

	var inv *Invocation
	switch kind {
	case KindImage:
		inv = def.Image
	case KindBrowser:
		inv = def.Browser
	}
	if inv == nil {
		return nil, fmt.Errorf("%s cannot open a %s", name, kind)
	}

	command := name
	if inv.Command != "" {
		command = inv.Command
	}
	args := append(slices.Clone(inv.Args), target)
	return exec.Command(command, args...), nil
}
