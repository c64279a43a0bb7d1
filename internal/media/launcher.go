// Package media opens posters and movie pages outside the terminal.
package media

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/pders01/reel/internal/config"
)

// Kind is what is being opened.
type Kind int

const (
	KindImage Kind = iota
	KindBrowser
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindBrowser:
		return "web page"
	default:
		return "unknown"
	}
}

// ErrNothingToOpen is returned for an empty target, e.g. a movie with no
// poster.
var ErrNothingToOpen = errors.New("nothing to open")

type Launcher struct {
	imageViewer   string
	browser       string
	defaultOpener string
	registry      *ViewerRegistry
	// start launches cmd without waiting for it.
	start func(cmd *exec.Cmd) error
}

func NewLauncher(cfg *config.Config) *Launcher {
	registry, err := NewViewerRegistry(config.DefaultConfigDir())
	if err != nil {
		registry = &ViewerRegistry{viewers: make(map[string]ViewerDefinition), goos: runtime.GOOS}
	}

	l := &Launcher{
		defaultOpener: cfg.Media.DefaultOpener,
		registry:      registry,
		start:         startDetached,
	}

	var viewers config.ViewerList
	switch runtime.GOOS {
	case "darwin":
		viewers = cfg.Media.Darwin
	case "linux":
		viewers = cfg.Media.Linux
	case "windows":
		viewers = cfg.Media.Windows
	default:
		viewers = cfg.Media.Darwin
	}

	l.imageViewer = findCommand(viewers.Image...)
	l.browser = findCommand(viewers.Browser...)
	if l.imageViewer == "" {
		l.imageViewer = l.defaultOpener
	}
	if l.browser == "" {
		l.browser = l.defaultOpener
	}
	return l
}

// Viewer is the executable chosen for kind.
func (l *Launcher) Viewer(kind Kind) string {
	if kind == KindImage {
		return l.imageViewer
	}
	return l.browser
}

// OpenPoster shows a poster image URL.
func (l *Launcher) OpenPoster(url string) error {
	return l.open(KindImage, url)
}

// OpenPage opens a web page in the browser.
func (l *Launcher) OpenPage(url string) error {
	return l.open(KindBrowser, url)
}

func (l *Launcher) open(kind Kind, target string) error {
	if target == "" {
		return ErrNothingToOpen
	}
	name := l.Viewer(kind)
	if name == "" {
		return fmt.Errorf("no application found to open %s", kind)
	}

	cmd, err := l.registry.Command(name, kind, target)
	if err != nil {
		cmd = exec.Command(name, target)
	}
	if err := l.start(cmd); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}
	return nil
}

// startDetached starts GUI applications without blocking the UI.
func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

func findCommand(commands ...string) string {
	for _, cmd := range commands {
		if _, err := exec.LookPath(cmd); err == nil {
			return cmd
		}
	}
	return ""
}
