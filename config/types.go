package config

import "time"

// Credential placements
const (
	PlacementDecorator = "decorator"
	PlacementLoader    = "loader"
)

// Config represents the complete configuration structure
type Config struct {
	TMDB    TMDBConfig    `mapstructure:"tmdb"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Breaker BreakerConfig `mapstructure:"breaker"`
	Server  ServerConfig  `mapstructure:"server"`
	Posters PostersConfig `mapstructure:"posters"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TMDBConfig holds the remote endpoints and the API key
type TMDBConfig struct {
	URL      string `mapstructure:"url"`
	APIKey   string `mapstructure:"api_key"`
	ImageURL string `mapstructure:"image_url"`
	// CredentialPlacement selects whether the key is added by the
	// authenticated client decorator or by the feed loader itself
	CredentialPlacement string `mapstructure:"credential_placement"`
}

// HTTPConfig tunes the network client
type HTTPConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// BreakerConfig configures the circuit breaker around the network client
type BreakerConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxFailures uint32        `mapstructure:"max_failures"`
	OpenTimeout time.Duration `mapstructure:"open_timeout"`
}

// ServerConfig configures the serve command
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// PostersConfig configures the posters command
type PostersConfig struct {
	Concurrency int    `mapstructure:"concurrency"`
	Dir         string `mapstructure:"dir"`
}

// FilterConfig contains named filter expressions
type FilterConfig struct {
	Presets map[string]string `mapstructure:"presets"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
