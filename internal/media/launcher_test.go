package media

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/pders01/reel/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewViewerRegistry_Builtin(t *testing.T) {
	r, err := NewViewerRegistry("")
	require.NoError(t, err)

	for _, name := range []string{"feh", "sxiv", "qlmanage", "open", "xdg-open", "firefox", "start"} {
		_, ok := r.Definition(name)
		assert.True(t, ok, "missing built-in viewer %s", name)
	}

	feh, _ := r.Definition("feh")
	require.NotNil(t, feh.Image)
	assert.Nil(t, feh.Browser)
	assert.Equal(t, []string{"linux"}, feh.Platforms)
}

func TestNewViewerRegistry_UserOverride(t *testing.T) {
	dir := t.TempDir()
	user := `
[viewers.feh]
description = "custom feh"
platforms = ["linux", "darwin"]
image = { args = ["-F"] }

[viewers.imv]
platforms = ["linux"]
image = { args = [] }
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "viewers.toml"), []byte(user), 0o644))

	r, err := NewViewerRegistry(dir)
	require.NoError(t, err)

	feh, _ := r.Definition("feh")
	assert.Equal(t, "custom feh", feh.Description)
	assert.Equal(t, []string{"-F"}, feh.Image.Args)

	_, ok := r.Definition("imv")
	assert.True(t, ok)
	_, ok = r.Definition("sxiv")
	assert.True(t, ok, "built-ins not overridden are kept")
}

func TestNewViewerRegistry_BadUserFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "viewers.toml"), []byte("[viewers.feh\n"), 0o644))

	_, err := NewViewerRegistry(dir)
	assert.Error(t, err)
}

func testRegistry(goos string) *ViewerRegistry {
	return &ViewerRegistry{
		goos: goos,
		viewers: map[string]ViewerDefinition{
			"feh": {
				Platforms: []string{"linux"},
				Image:     &Invocation{Args: []string{"--scale-down"}},
			},
			"firefox": {
				Platforms: []string{"linux", "darwin"},
				Browser:   &Invocation{Args: []string{"--new-tab"}},
			},
			"start": {
				Platforms: []string{"windows"},
				Browser:   &Invocation{Command: "cmd", Args: []string{"/c", "start", ""}},
			},
		},
	}
}

func TestViewerRegistry_Command(t *testing.T) {
	const poster = "https://image.tmdb.org/t/p/w500/x.jpg"

	tests := []struct {
		name     string
		goos     string
		viewer   string
		kind     Kind
		wantArgs []string
		wantErr  bool
	}{
		{name: "image viewer", goos: "linux", viewer: "feh", kind: KindImage, wantArgs: []string{"feh", "--scale-down", poster}},
		{name: "browser", goos: "darwin", viewer: "firefox", kind: KindBrowser, wantArgs: []string{"firefox", "--new-tab", poster}},
		{name: "command override", goos: "windows", viewer: "start", kind: KindBrowser, wantArgs: []string{"cmd", "/c", "start", "", poster}},
		{name: "unknown viewer runs plainly", goos: "linux", viewer: "imv", kind: KindImage, wantArgs: []string{"imv", poster}},
		{name: "wrong platform", goos: "darwin", viewer: "feh", kind: KindImage, wantErr: true},
		{name: "unsupported kind", goos: "linux", viewer: "feh", kind: KindBrowser, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := testRegistry(tt.goos).Command(tt.viewer, tt.kind, poster)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantArgs, cmd.Args)
		})
	}
}

func TestViewerRegistry_CommandDoesNotMutateDefinition(t *testing.T) {
	r := testRegistry("linux")
	_, _ = r.Command("feh", KindImage, "a")
	_, _ = r.Command("feh", KindImage, "b")

	def, _ := r.Definition("feh")
	assert.Equal(t, []string{"--scale-down"}, def.Image.Args)
}

func newTestLauncher(started *[]*exec.Cmd, startErr error) *Launcher {
	return &Launcher{
		imageViewer:   "feh",
		browser:       "firefox",
		defaultOpener: "xdg-open",
		registry:      testRegistry("linux"),
		start: func(cmd *exec.Cmd) error {
			*started = append(*started, cmd)
			return startErr
		},
	}
}

func TestLauncher_Open(t *testing.T) {
	var started []*exec.Cmd
	l := newTestLauncher(&started, nil)

	require.NoError(t, l.OpenPoster("https://img/x.jpg"))
	require.NoError(t, l.OpenPage("https://www.themoviedb.org/movie/268"))

	require.Len(t, started, 2)
	assert.Equal(t, []string{"feh", "--scale-down", "https://img/x.jpg"}, started[0].Args)
	assert.Equal(t, []string{"firefox", "--new-tab", "https://www.themoviedb.org/movie/268"}, started[1].Args)
}

func TestLauncher_OpenEmptyTarget(t *testing.T) {
	var started []*exec.Cmd
	l := newTestLauncher(&started, nil)

	assert.ErrorIs(t, l.OpenPoster(""), ErrNothingToOpen)
	assert.Empty(t, started)
}

func TestLauncher_StartFailure(t *testing.T) {
	var started []*exec.Cmd
	l := newTestLauncher(&started, errors.New("exec: not found"))

	err := l.OpenPoster("https://img/x.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feh")
}

func TestLauncher_FallsBackToPlainCommand(t *testing.T) {
	var started []*exec.Cmd
	l := newTestLauncher(&started, nil)
	l.registry = testRegistry("windows")

	require.NoError(t, l.OpenPoster("https://img/x.jpg"))
	assert.Equal(t, []string{"feh", "https://img/x.jpg"}, started[0].Args)
}

func TestNewLauncher_DefaultOpenerWhenNothingInstalled(t *testing.T) {
	cfg := config.TestConfig()
	none := config.ViewerList{Image: []string{"reel-no-such-viewer"}, Browser: []string{"reel-no-such-browser"}}
	cfg.Media.Darwin, cfg.Media.Linux, cfg.Media.Windows = none, none, none
	cfg.Media.DefaultOpener = "reel-default-opener"

	l := NewLauncher(cfg)
	assert.Equal(t, "reel-default-opener", l.Viewer(KindImage))
	assert.Equal(t, "reel-default-opener", l.Viewer(KindBrowser))
}

func TestFindCommand(t *testing.T) {
	assert.Equal(t, "", findCommand())
	assert.Equal(t, "", findCommand("reel-no-such-command"))
	if _, err := exec.LookPath("sh"); err == nil {
		assert.Equal(t, "sh", findCommand("reel-no-such-command", "sh"))
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "image", KindImage.String())
	assert.Equal(t, "web page", KindBrowser.String())
}
