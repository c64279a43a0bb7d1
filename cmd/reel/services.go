package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pders01/reel/internal/config"
	"github.com/pders01/reel/internal/debuglog"
	"github.com/pders01/reel/internal/storage"
	"github.com/pders01/reel/internal/suggest"
	"github.com/pders01/reel/internal/tmdb"
	"github.com/pders01/reel/internal/validation"
	"github.com/spf13/cobra"
)

// services holds everything a command needs. counter and suggester are
// nil when their stores could not be opened; searching works without them.
type services struct {
	cfg       *config.Config
	client    *tmdb.Client
	counter   storage.Counter
	suggester suggest.Suggester
}

func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

// loadConfig reads the config and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	paths := validation.NewPermissivePathHandler()
	if cfg.Trending.Backend == config.BackendBolt || cfg.Trending.Backend == "" {
		p, err := paths.DBPath(cfg.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("database path: %w", err)
		}
		if _, err := paths.EnsureDirectory(filepath.Dir(p)); err != nil {
			return nil, fmt.Errorf("database directory: %w", err)
		}
		cfg.Database.Path = p
	}
	idx, err := paths.IndexPath(cfg.Database.SuggestIndex)
	if err != nil {
		return nil, fmt.Errorf("suggestion index path: %w", err)
	}
	cfg.Database.SuggestIndex = idx

	return cfg, nil
}

func openServices(ctx context.Context) (*services, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Log.Level), cfg.Log.File); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	svc := &services{cfg: cfg, client: tmdb.FromConfig(cfg.TMDB)}
	if !svc.client.HasAPIKey() {
		debuglog.Warnf("no TMDb API key configured; requests will be rejected")
	}

	counter, err := storage.Open(ctx, cfg)
	if err != nil {
		// Trending and counting are optional; search still works.
		debuglog.Errorf("opening %s search-count store: %v", cfg.Trending.Backend, err)
		fmt.Fprintf(os.Stderr, "Warning: search counts unavailable: %v\n", err)
	} else {
		svc.counter = counter
	}

	var src suggest.Source
	if s, ok := svc.counter.(suggest.Source); ok {
		src = s
	}
	suggester, err := suggest.NewBleveIndex(cfg.Database.SuggestIndex, src)
	if err != nil {
		debuglog.Warnf("opening suggestion index %q, falling back to memory: %v", cfg.Database.SuggestIndex, err)
		suggester = suggest.NewMemoryIndex(src)
	}
	svc.suggester = suggester

	return svc, nil
}

func (s *services) Close() {
	if s.suggester != nil {
		if err := s.suggester.Close(); err != nil {
			debuglog.Warnf("closing suggestion index: %v", err)
		}
	}
	if s.counter != nil {
		if err := s.counter.Close(); err != nil {
			debuglog.Warnf("closing search-count store: %v", err)
		}
	}
	_ = debuglog.Close()
}
