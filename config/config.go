package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// knownSources are the source identifiers the server can wire.
var knownSources = map[string]bool{
	"walmart": true,
	"safeway": true,
}

// Config holds all configuration for the application.
type Config struct {
	Server      Server                `mapstructure:"server"`
	Sources     Sources               `mapstructure:"sources"`
	Matching    Matching              `mapstructure:"matching"`
	History     History               `mapstructure:"history"`
	Log         Log                   `mapstructure:"log"`
	Credentials map[string]Credential `mapstructure:"credentials"`
}

// Server holds HTTP server configuration.
type Server struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Sources holds retrieval source configuration. Order is both the set of
// enabled sources and the sequence they are queried in.
type Sources struct {
	Order    []string `mapstructure:"order"`
	PacingMs int      `mapstructure:"pacing_ms"`
	Headless bool     `mapstructure:"headless"`
}

// PacingDuration returns the politeness delay between source queries.
func (s Sources) PacingDuration() time.Duration {
	return time.Duration(s.PacingMs) * time.Millisecond
}

// Matching holds the relevance scoring constants. The defaults are design
// constants; they are surfaced here so they are named rather than buried,
// not because tuning per deployment is expected.
type Matching struct {
	RelevanceThreshold float64 `mapstructure:"relevance_threshold"`
	NameWeight         float64 `mapstructure:"name_weight"`
	BrandWeight        float64 `mapstructure:"brand_weight"`
}

// History holds price history export configuration.
type History struct {
	ExportPath string `mapstructure:"export_path"`
}

// Log holds logging configuration.
type Log struct {
	Level string `mapstructure:"level"`
}

// Credential is a login pair for one source.
type Credential struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// Load loads configuration from environment variables and config files.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/cartscout/")

	v.SetEnvPrefix("CARTSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults.
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("sources.order", []string{"walmart", "safeway"})
	v.SetDefault("sources.pacing_ms", 2000)
	v.SetDefault("sources.headless", true)

	v.SetDefault("matching.relevance_threshold", 60.0)
	v.SetDefault("matching.name_weight", 0.7)
	v.SetDefault("matching.brand_weight", 0.3)

	v.SetDefault("history.export_path", "./output/price_history.json")

	v.SetDefault("log.level", "info")
}

// validate validates the configuration.
func validate(config *Config) error {
	if config.Matching.RelevanceThreshold < 0 || config.Matching.RelevanceThreshold > 100 {
		return fmt.Errorf("matching.relevance_threshold must be in [0, 100], got %v",
			config.Matching.RelevanceThreshold)
	}

	if config.Matching.NameWeight <= 0 || config.Matching.BrandWeight <= 0 {
		return fmt.Errorf("matching weights must be positive, got name=%v brand=%v",
			config.Matching.NameWeight, config.Matching.BrandWeight)
	}
	if math.Abs(config.Matching.NameWeight+config.Matching.BrandWeight-1.0) > 1e-9 {
		return fmt.Errorf("matching weights must sum to 1, got name=%v brand=%v",
			config.Matching.NameWeight, config.Matching.BrandWeight)
	}

	if len(config.Sources.Order) == 0 {
		return fmt.Errorf("sources.order must name at least one source")
	}
	for _, name := range config.Sources.Order {
		if !knownSources[name] {
			return fmt.Errorf("unknown source %q in sources.order", name)
		}
	}

	if config.Sources.PacingMs < 0 {
		return fmt.Errorf("sources.pacing_ms must be non-negative, got %d", config.Sources.PacingMs)
	}

	for id := range config.Credentials {
		if !knownSources[id] {
			return fmt.Errorf("credentials configured for unknown source %q", id)
		}
	}

	return nil
}
