package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pders01/reel/internal/validation"
	"github.com/spf13/viper"
)

const (
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p"
	DefaultMovieURL     = "https://www.themoviedb.org/movie"
)

// Trending backends accepted by Trending.Backend.
const (
	BackendBolt     = "bolt"
	BackendValkey   = "valkey"
	BackendPostgres = "postgres"
)

type Config struct {
	TMDB     TMDBConfig     `mapstructure:"tmdb"`
	Search   SearchConfig   `mapstructure:"search"`
	Trending TrendingConfig `mapstructure:"trending"`
	Database DatabaseConfig `mapstructure:"database"`
	UI       UIConfig       `mapstructure:"ui"`
	Media    MediaConfig    `mapstructure:"media"`
	Keys     KeyConfig      `mapstructure:"keys"`
	Log      LogConfig      `mapstructure:"log"`
}

type TMDBConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	ImageBaseURL string        `mapstructure:"image_base_url"`
	MovieURL     string        `mapstructure:"movie_url"`
	Language     string        `mapstructure:"language"`
	HTTPTimeout  time.Duration `mapstructure:"http_timeout"`
	UserAgent    string        `mapstructure:"user_agent"`
}

type SearchConfig struct {
	Debounce        time.Duration `mapstructure:"debounce"`
	MaxQueryLength  int           `mapstructure:"max_query_length"`
	SuggestionLimit int           `mapstructure:"suggestion_limit"`
}

type TrendingConfig struct {
	Backend        string `mapstructure:"backend"`
	Limit          int    `mapstructure:"limit"`
	ValkeyAddr     string `mapstructure:"valkey_addr"`
	ValkeyPassword string `mapstructure:"valkey_password"`
	PostgresURL    string `mapstructure:"postgres_url"`
}

type DatabaseConfig struct {
	Path         string        `mapstructure:"path"`
	Timeout      time.Duration `mapstructure:"timeout"`
	SuggestIndex string        `mapstructure:"suggest_index"`
}

type UIConfig struct {
	Colors UIColors     `mapstructure:"colors"`
	Detail DetailConfig `mapstructure:"detail"`
}

type UIColors struct {
	Primary    string `mapstructure:"primary"`
	Secondary  string `mapstructure:"secondary"`
	Accent     string `mapstructure:"accent"`
	Background string `mapstructure:"background"`
	Surface    string `mapstructure:"surface"`
	Text       string `mapstructure:"text"`
	Muted      string `mapstructure:"muted"`
	Error      string `mapstructure:"error"`
	Success    string `mapstructure:"success"`
}

type DetailConfig struct {
	MaxOverviewLength int `mapstructure:"max_overview_length"`
	WordWrapMaxWidth  int `mapstructure:"word_wrap_max_width"`
	WordWrapMinWidth  int `mapstructure:"word_wrap_min_width"`
}

type MediaConfig struct {
	Darwin        ViewerList `mapstructure:"darwin"`
	Linux         ViewerList `mapstructure:"linux"`
	Windows       ViewerList `mapstructure:"windows"`
	DefaultOpener string     `mapstructure:"default_opener"`
}

type ViewerList struct {
	Image   []string `mapstructure:"image"`
	Browser []string `mapstructure:"browser"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit          string `mapstructure:"quit"`
	Focus         string `mapstructure:"focus"`
	Refresh       string `mapstructure:"refresh"`
	OpenPoster    string `mapstructure:"open_poster"`
	OpenPage      string `mapstructure:"open_page"`
	ClearSearch   string `mapstructure:"clear_search"`
	AcceptSuggest string `mapstructure:"accept_suggest"`
	Back          string `mapstructure:"back"`
	Help          string `mapstructure:"help"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".reel", "reel.db")
	suggestPath := filepath.Join(homeDir, ".reel", "suggest.bleve")

	return &Config{
		TMDB: TMDBConfig{
			BaseURL:      DefaultBaseURL,
			ImageBaseURL: DefaultImageBaseURL,
			MovieURL:     DefaultMovieURL,
			Language:     "en-US",
			HTTPTimeout:  15 * time.Second,
			UserAgent:    "reel/1.0 (https://github.com/pders01/reel)",
		},
		Search: SearchConfig{
			Debounce:        700 * time.Millisecond,
			MaxQueryLength:  256,
			SuggestionLimit: 5,
		},
		Trending: TrendingConfig{
			Backend:    BackendBolt,
			Limit:      5,
			ValkeyAddr: "localhost:6379",
		},
		Database: DatabaseConfig{
			Path:         dbPath,
			Timeout:      1 * time.Second,
			SuggestIndex: suggestPath,
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:    "#AB8BFF",
				Secondary:  "#D6C7FF",
				Accent:     "#FFD166",
				Background: "#030014",
				Surface:    "#0F0D23",
				Text:       "#EAEAEA",
				Muted:      "#A8B5DB",
				Error:      "#F87171",
				Success:    "#4ADE80",
			},
			Detail: DetailConfig{
				MaxOverviewLength: 600,
				WordWrapMaxWidth:  100,
				WordWrapMinWidth:  40,
			},
		},
		Media: MediaConfig{
			Darwin: ViewerList{
				Image:   []string{"qlmanage", "open"},
				Browser: []string{"open"},
			},
			Linux: ViewerList{
				Image:   []string{"sxiv", "feh", "eog", "xdg-open"},
				Browser: []string{"xdg-open", "firefox", "chromium"},
			},
			Windows: ViewerList{
				Image:   []string{"start"},
				Browser: []string{"start"},
			},
			DefaultOpener: getDefaultOpener(),
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:          "q",
				Focus:         "/",
				Refresh:       "r",
				OpenPoster:    "o",
				OpenPage:      "w",
				ClearSearch:   "u",
				AcceptSuggest: "tab",
				Back:          "esc",
				Help:          "?",
			},
		},
		Log: LogConfig{
			Level: "off",
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

// Load builds the configuration from defaults, the TOML config file,
// a .env file in the working directory and REEL_* environment variables,
// in increasing order of precedence.
func Load(configPath string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v, defaultConfig())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(DefaultConfigDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("REEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Unprefixed names used by other TMDb tooling.
	_ = v.BindEnv("tmdb.api_key", "REEL_TMDB_API_KEY", "TMDB_API_KEY", "VITE_TMDB_API_KEY")
	_ = v.BindEnv("trending.postgres_url", "REEL_TRENDING_POSTGRES_URL", "DATABASE_URL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults registers every leaf key so that partial sections in the
// config file keep the remaining defaults and env overrides resolve.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("tmdb.api_key", cfg.TMDB.APIKey)
	v.SetDefault("tmdb.base_url", cfg.TMDB.BaseURL)
	v.SetDefault("tmdb.image_base_url", cfg.TMDB.ImageBaseURL)
	v.SetDefault("tmdb.movie_url", cfg.TMDB.MovieURL)
	v.SetDefault("tmdb.language", cfg.TMDB.Language)
	v.SetDefault("tmdb.http_timeout", cfg.TMDB.HTTPTimeout)
	v.SetDefault("tmdb.user_agent", cfg.TMDB.UserAgent)

	v.SetDefault("search.debounce", cfg.Search.Debounce)
	v.SetDefault("search.max_query_length", cfg.Search.MaxQueryLength)
	v.SetDefault("search.suggestion_limit", cfg.Search.SuggestionLimit)

	v.SetDefault("trending.backend", cfg.Trending.Backend)
	v.SetDefault("trending.limit", cfg.Trending.Limit)
	v.SetDefault("trending.valkey_addr", cfg.Trending.ValkeyAddr)
	v.SetDefault("trending.valkey_password", cfg.Trending.ValkeyPassword)
	v.SetDefault("trending.postgres_url", cfg.Trending.PostgresURL)

	v.SetDefault("database.path", cfg.Database.Path)
	v.SetDefault("database.timeout", cfg.Database.Timeout)
	v.SetDefault("database.suggest_index", cfg.Database.SuggestIndex)

	colors := cfg.UI.Colors
	v.SetDefault("ui.colors.primary", colors.Primary)
	v.SetDefault("ui.colors.secondary", colors.Secondary)
	v.SetDefault("ui.colors.accent", colors.Accent)
	v.SetDefault("ui.colors.background", colors.Background)
	v.SetDefault("ui.colors.surface", colors.Surface)
	v.SetDefault("ui.colors.text", colors.Text)
	v.SetDefault("ui.colors.muted", colors.Muted)
	v.SetDefault("ui.colors.error", colors.Error)
	v.SetDefault("ui.colors.success", colors.Success)
	v.SetDefault("ui.detail.max_overview_length", cfg.UI.Detail.MaxOverviewLength)
	v.SetDefault("ui.detail.word_wrap_max_width", cfg.UI.Detail.WordWrapMaxWidth)
	v.SetDefault("ui.detail.word_wrap_min_width", cfg.UI.Detail.WordWrapMinWidth)

	for goos, viewers := range map[string]ViewerList{
		"darwin":  cfg.Media.Darwin,
		"linux":   cfg.Media.Linux,
		"windows": cfg.Media.Windows,
	} {
		v.SetDefault("media."+goos+".image", viewers.Image)
		v.SetDefault("media."+goos+".browser", viewers.Browser)
	}
	v.SetDefault("media.default_opener", cfg.Media.DefaultOpener)

	b := cfg.Keys.Bindings
	v.SetDefault("keys.modifier", cfg.Keys.Modifier)
	v.SetDefault("keys.bindings.quit", b.Quit)
	v.SetDefault("keys.bindings.focus", b.Focus)
	v.SetDefault("keys.bindings.refresh", b.Refresh)
	v.SetDefault("keys.bindings.open_poster", b.OpenPoster)
	v.SetDefault("keys.bindings.open_page", b.OpenPage)
	v.SetDefault("keys.bindings.clear_search", b.ClearSearch)
	v.SetDefault("keys.bindings.accept_suggest", b.AcceptSuggest)
	v.SetDefault("keys.bindings.back", b.Back)
	v.SetDefault("keys.bindings.help", b.Help)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
}

// DefaultConfigDir is where Load looks for config.toml when no path is given.
func DefaultConfigDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "reel")
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	switch c.Trending.Backend {
	case BackendBolt, BackendValkey, BackendPostgres:
	default:
		return fmt.Errorf("unknown trending backend %q", c.Trending.Backend)
	}
	if c.Search.Debounce < 0 {
		return fmt.Errorf("search.debounce must not be negative: %s", c.Search.Debounce)
	}
	if c.Trending.Limit <= 0 {
		return fmt.Errorf("trending.limit must be positive: %d", c.Trending.Limit)
	}
	if c.Trending.Backend == BackendPostgres && c.Trending.PostgresURL == "" {
		return errors.New("trending.postgres_url is required for the postgres backend")
	}
	if c.Search.MaxQueryLength <= 0 {
		c.Search.MaxQueryLength = validation.DefaultMaxQueryLength
	}

	// User-configured endpoints may point at a local proxy.
	endpoints := validation.NewPermissiveEndpointValidator()
	for key, field := range map[string]*string{
		"tmdb.base_url":       &c.TMDB.BaseURL,
		"tmdb.image_base_url": &c.TMDB.ImageBaseURL,
		"tmdb.movie_url":      &c.TMDB.MovieURL,
	} {
		normalized, err := endpoints.ValidateBaseURL(*field)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*field = normalized
	}
	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Database.SuggestIndex = expandPath(cfg.Database.SuggestIndex)
	cfg.Log.File = expandPath(cfg.Log.File)
}

// Save writes cfg as TOML. The API key is never written out.
func Save(config *Config, path string) error {
	v := viper.New()

	// Durations as strings for TOML readability
	tmdbCfg := map[string]interface{}{
		"base_url":       config.TMDB.BaseURL,
		"image_base_url": config.TMDB.ImageBaseURL,
		"movie_url":      config.TMDB.MovieURL,
		"language":       config.TMDB.Language,
		"http_timeout":   config.TMDB.HTTPTimeout.String(),
		"user_agent":     config.TMDB.UserAgent,
	}

	searchCfg := map[string]interface{}{
		"debounce":         config.Search.Debounce.String(),
		"max_query_length": config.Search.MaxQueryLength,
		"suggestion_limit": config.Search.SuggestionLimit,
	}

	trendingCfg := map[string]interface{}{
		"backend":     config.Trending.Backend,
		"limit":       config.Trending.Limit,
		"valkey_addr": config.Trending.ValkeyAddr,
	}

	dbCfg := map[string]interface{}{
		"path":          config.Database.Path,
		"timeout":       config.Database.Timeout.String(),
		"suggest_index": config.Database.SuggestIndex,
	}

	v.Set("tmdb", tmdbCfg)
	v.Set("search", searchCfg)
	v.Set("trending", trendingCfg)
	v.Set("database", dbCfg)
	v.Set("ui", map[string]interface{}{
		"colors": map[string]interface{}{
			"primary":    config.UI.Colors.Primary,
			"secondary":  config.UI.Colors.Secondary,
			"accent":     config.UI.Colors.Accent,
			"background": config.UI.Colors.Background,
			"surface":    config.UI.Colors.Surface,
			"text":       config.UI.Colors.Text,
			"muted":      config.UI.Colors.Muted,
			"error":      config.UI.Colors.Error,
			"success":    config.UI.Colors.Success,
		},
		"detail": map[string]interface{}{
			"max_overview_length": config.UI.Detail.MaxOverviewLength,
			"word_wrap_max_width": config.UI.Detail.WordWrapMaxWidth,
			"word_wrap_min_width": config.UI.Detail.WordWrapMinWidth,
		},
	})
	v.Set("media", map[string]interface{}{
		"darwin":         viewerMap(config.Media.Darwin),
		"linux":          viewerMap(config.Media.Linux),
		"windows":        viewerMap(config.Media.Windows),
		"default_opener": config.Media.DefaultOpener,
	})
	b := config.Keys.Bindings
	v.Set("keys", map[string]interface{}{
		"modifier": config.Keys.Modifier,
		"bindings": map[string]interface{}{
			"quit":           b.Quit,
			"focus":          b.Focus,
			"refresh":        b.Refresh,
			"open_poster":    b.OpenPoster,
			"open_page":      b.OpenPage,
			"clear_search":   b.ClearSearch,
			"accept_suggest": b.AcceptSuggest,
			"back":           b.Back,
			"help":           b.Help,
		},
	})
	v.Set("log", map[string]interface{}{"level": config.Log.Level, "file": config.Log.File})

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func viewerMap(l ViewerList) map[string]interface{} {
	return map[string]interface{}{"image": l.Image, "browser": l.Browser}
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
