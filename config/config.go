package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Catalog  CatalogConfig
	POS      POSConfig `mapstructure:"pos"`
	Matching MatchingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig holds the menu index store configuration
type CatalogConfig struct {
	DatabasePath string `mapstructure:"database_path"`
}

// POSConfig holds POS order API configuration
type POSConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	PartnerID     string        `mapstructure:"partner_id"`
	PartnerSecret string        `mapstructure:"partner_secret"`
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
	CodStore      string        `mapstructure:"cod_store"`
	DryRun        bool          `mapstructure:"dry_run"`
}

// MatchingConfig holds interpreter matching thresholds
type MatchingConfig struct {
	ProductFuzzyThreshold  float64 `mapstructure:"product_fuzzy_threshold"`
	AdditionFuzzyThreshold float64 `mapstructure:"addition_fuzzy_threshold"`
	SuggestionThreshold    float64 `mapstructure:"suggestion_threshold"`
	EnableDebugLogging     bool    `mapstructure:"enable_debug_logging"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/lia/")

	v.SetEnvPrefix("LIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
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

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("catalog.database_path", "lia_catalog.db")

	v.SetDefault("pos.base_url", "https://order-api.saipos.com")
	v.SetDefault("pos.token_ttl", "3500s")
	v.SetDefault("pos.dry_run", false)

	// Credential keys have no meaningful default, but Unmarshal only sees
	// keys viper already knows about; registering them empty makes the
	// LIA_POS_* env vars take effect.
	v.SetDefault("pos.partner_id", "")
	v.SetDefault("pos.partner_secret", "")
	v.SetDefault("pos.cod_store", "")

	v.SetDefault("matching.product_fuzzy_threshold", 75.0)
	v.SetDefault("matching.addition_fuzzy_threshold", 70.0)
	v.SetDefault("matching.suggestion_threshold", 50.0)
	v.SetDefault("matching.enable_debug_logging", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Catalog.DatabasePath == "" {
		return fmt.Errorf("catalog database path is required (set LIA_CATALOG_DATABASE_PATH)")
	}

	if !config.POS.DryRun && (config.POS.PartnerID == "" || config.POS.PartnerSecret == "") {
		return fmt.Errorf("POS partner credentials are required unless dry run is enabled (set LIA_POS_PARTNER_ID and LIA_POS_PARTNER_SECRET)")
	}

	for name, threshold := range map[string]float64{
		"matching.product_fuzzy_threshold":  config.Matching.ProductFuzzyThreshold,
		"matching.addition_fuzzy_threshold": config.Matching.AdditionFuzzyThreshold,
		"matching.suggestion_threshold":     config.Matching.SuggestionThreshold,
	} {
		if threshold < 0 || threshold > 100 {
			return fmt.Errorf("%s must be between 0 and 100, got: %v", name, threshold)
		}
	}

	return nil
}
