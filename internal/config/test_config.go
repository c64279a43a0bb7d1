package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	cfg := defaultConfig()
	cfg.TMDB.APIKey = "test-key"
	cfg.TMDB.HTTPTimeout = 2 * time.Second
	cfg.TMDB.UserAgent = "reel-test/1.0"
	cfg.Search.Debounce = 10 * time.Millisecond
	cfg.Database = DatabaseConfig{
		Path:    ":memory:",
		Timeout: 1 * time.Second,
	}
	cfg.Log.Level = "off"
	return cfg
}
