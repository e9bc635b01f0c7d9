package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. NOWPLAYING_TMDB_API_KEY
const EnvPrefix = "NOWPLAYING"

// Load reads configuration from configPath, or from the standard locations
// when configPath is empty. Without a config file the defaults and the
// environment are used as is.
func Load(configPath string) (*Config, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".nowplaying"))
		}
		v.AddConfigPath("/etc/nowplaying/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("tmdb.url", "https://api.themoviedb.org/3/movie/now_playing")
	// Registered so the environment can supply it.
	v.SetDefault("tmdb.api_key", "")
	v.SetDefault("tmdb.image_url", "https://image.tmdb.org/t/p/w500")
	v.SetDefault("tmdb.credential_placement", PlacementDecorator)

	v.SetDefault("http.timeout", 30*time.Second)
	v.SetDefault("http.user_agent", "nowplaying")

	v.SetDefault("breaker.enabled", true)
	v.SetDefault("breaker.max_failures", 3)
	v.SetDefault("breaker.open_timeout", 30*time.Second)

	v.SetDefault("server.addr", ":8080")

	v.SetDefault("posters.concurrency", 4)
	v.SetDefault("posters.dir", "posters")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if err := validateURL("tmdb.url", cfg.TMDB.URL); err != nil {
		return err
	}
	if err := validateURL("tmdb.image_url", cfg.TMDB.ImageURL); err != nil {
		return err
	}

	if cfg.TMDB.APIKey == "" || cfg.TMDB.APIKey == "your-api-key-here" {
		return fmt.Errorf("tmdb.api_key must be set to a valid API key")
	}

	switch cfg.TMDB.CredentialPlacement {
	case PlacementDecorator, PlacementLoader:
	default:
		return fmt.Errorf("invalid tmdb.credential_placement: %s (must be '%s' or '%s')",
			cfg.TMDB.CredentialPlacement, PlacementDecorator, PlacementLoader)
	}

	if cfg.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive")
	}

	if cfg.Breaker.Enabled && cfg.Breaker.MaxFailures == 0 {
		return fmt.Errorf("breaker.max_failures must be at least 1")
	}

	if cfg.Posters.Concurrency < 1 {
		return fmt.Errorf("posters.concurrency must be at least 1")
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}

func validateURL(key, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", key)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid %s: %s (must be an absolute URL)", key, raw)
	}
	return nil
}
