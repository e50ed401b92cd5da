// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Foursquare FoursquareConfig `yaml:"foursquare" mapstructure:"foursquare"`
	Textgen    TextgenConfig    `yaml:"textgen" mapstructure:"textgen"`
	Mistral    MistralConfig    `yaml:"mistral" mapstructure:"mistral"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Market     MarketConfig     `yaml:"market" mapstructure:"market"`
	Valuation  ValuationConfig  `yaml:"valuation" mapstructure:"valuation"`
	Scoring    ScoringConfig    `yaml:"scoring" mapstructure:"scoring"`
	Ideas      IdeasConfig      `yaml:"ideas" mapstructure:"ideas"`
	Lookup     LookupConfig     `yaml:"lookup" mapstructure:"lookup"`
	Retry      RetryConfig      `yaml:"retry" mapstructure:"retry"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the registry backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // memory, sqlite, postgres
	Path        string `yaml:"path" mapstructure:"path"`     // sqlite file path
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// FoursquareConfig holds Foursquare Places API settings.
type FoursquareConfig struct {
	Key       string  `yaml:"key" mapstructure:"key"`
	BaseURL   string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"` // requests per second
}

// TextgenConfig selects the text completion backend.
type TextgenConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"` // mistral, anthropic
}

// MistralConfig holds Mistral API settings.
type MistralConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// MarketConfig configures market analysis. Base rent intentionally differs
// between the registration flow and the ad-hoc overview flow; both knobs are
// explicit so the divergence stays visible.
type MarketConfig struct {
	RegistrationBaseRent float64 `yaml:"registration_base_rent" mapstructure:"registration_base_rent"`
	OverviewBaseRent     float64 `yaml:"overview_base_rent" mapstructure:"overview_base_rent"`
	AnalysisRadiusM      int     `yaml:"analysis_radius_m" mapstructure:"analysis_radius_m"`
}

// ValuationConfig configures the property valuation estimator.
type ValuationConfig struct {
	RentCapitalizationYears int     `yaml:"rent_capitalization_years" mapstructure:"rent_capitalization_years"`
	BasePricePerSqft        float64 `yaml:"base_price_per_sqft" mapstructure:"base_price_per_sqft"`
}

// ScoringConfig configures compatibility scoring floors. The registration
// flow is strict, the aggregate overview deliberately permissive.
type ScoringConfig struct {
	AffordabilityFloor float64 `yaml:"affordability_floor" mapstructure:"affordability_floor"`
	OverviewFloor      float64 `yaml:"overview_floor" mapstructure:"overview_floor"`

	// TopMatches caps every report's match lists after scoring.
	TopMatches int `yaml:"top_matches" mapstructure:"top_matches"`
}

// IdeasConfig configures business-idea generation.
type IdeasConfig struct {
	MaxIdeas       int     `yaml:"max_ideas" mapstructure:"max_ideas"`
	BudgetHeadroom float64 `yaml:"budget_headroom" mapstructure:"budget_headroom"`
}

// LookupConfig configures the multi-strategy nearby-business cascade.
type LookupConfig struct {
	MinUnique     int `yaml:"min_unique" mapstructure:"min_unique"`
	SmallRadiusM  int `yaml:"small_radius_m" mapstructure:"small_radius_m"`
	MediumRadiusM int `yaml:"medium_radius_m" mapstructure:"medium_radius_m"`
	LargeRadiusM  int `yaml:"large_radius_m" mapstructure:"large_radius_m"`
	Limit         int `yaml:"limit" mapstructure:"limit"`
}

// RetryConfig configures provider-call retries.
type RetryConfig struct {
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts"`
	BackoffMs   int `yaml:"backoff_ms" mapstructure:"backoff_ms"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("MATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.path", "match.db")
	// Secrets default to empty so env-only values survive Unmarshal.
	v.SetDefault("store.database_url", "")
	v.SetDefault("foursquare.key", "")
	v.SetDefault("mistral.key", "")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("foursquare.base_url", "https://api.foursquare.com/v3")
	v.SetDefault("foursquare.rate_limit", 10)
	v.SetDefault("textgen.provider", "mistral")
	v.SetDefault("mistral.base_url", "https://api.mistral.ai")
	v.SetDefault("mistral.model", "mistral-small-latest")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 4096)
	v.SetDefault("market.registration_base_rent", 25000)
	v.SetDefault("market.overview_base_rent", 50000)
	v.SetDefault("market.analysis_radius_m", 1000)
	v.SetDefault("valuation.rent_capitalization_years", 20)
	v.SetDefault("valuation.base_price_per_sqft", 10000)
	v.SetDefault("scoring.affordability_floor", 0.30)
	v.SetDefault("scoring.overview_floor", 0.15)
	v.SetDefault("scoring.top_matches", 5)
	v.SetDefault("ideas.max_ideas", 4)
	v.SetDefault("ideas.budget_headroom", 1.2)
	v.SetDefault("lookup.min_unique", 5)
	v.SetDefault("lookup.small_radius_m", 5000)
	v.SetDefault("lookup.medium_radius_m", 10000)
	v.SetDefault("lookup.large_radius_m", 15000)
	v.SetDefault("lookup.limit", 50)
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.backoff_ms", 1000)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
