package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	MenuAPI   MenuAPIConfig
	Cache     CacheConfig
	Validator ValidatorConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MenuAPIConfig holds upstream food-menu API configuration
type MenuAPIConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// CacheConfig holds validation-cache configuration
type CacheConfig struct {
	TTL     time.Duration `mapstructure:"ttl"`
	DataDir string        `mapstructure:"data_dir"`
}

// ValidatorConfig holds the per-device-class image validation profiles
type ValidatorConfig struct {
	Desktop ProfileConfig `mapstructure:"desktop"`
	Mobile  ProfileConfig `mapstructure:"mobile"`
}

// ProfileConfig sizes one validation profile
type ProfileConfig struct {
	Window       int           `mapstructure:"window"`
	BatchSize    int           `mapstructure:"batch_size"`
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/forkflame/")

	// Environment variable settings
	v.SetEnvPrefix("FORKFLAME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})

	// Menu API defaults
	v.SetDefault("menuapi.base_url", "https://free-food-menus-api-two.vercel.app")
	v.SetDefault("menuapi.request_timeout", "10s")

	// Cache defaults
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.data_dir", ".forkflame")

	// Validator defaults: desktop probes a wider window with a longer timeout,
	// mobile a narrower one with a shorter timeout
	v.SetDefault("validator.desktop.window", 80)
	v.SetDefault("validator.desktop.batch_size", 50)
	v.SetDefault("validator.desktop.probe_timeout", "5s")
	v.SetDefault("validator.mobile.window", 40)
	v.SetDefault("validator.mobile.batch_size", 20)
	v.SetDefault("validator.mobile.probe_timeout", "3s")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.MenuAPI.BaseURL == "" {
		return fmt.Errorf("menu API base URL is required (set FORKFLAME_MENUAPI_BASE_URL)")
	}

	if config.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive, got: %s", config.Cache.TTL)
	}

	for name, p := range map[string]ProfileConfig{
		"desktop": config.Validator.Desktop,
		"mobile":  config.Validator.Mobile,
	} {
		if p.Window <= 0 {
			return fmt.Errorf("validator %s window must be positive, got: %d", name, p.Window)
		}
		if p.BatchSize <= 0 {
			return fmt.Errorf("validator %s batch size must be positive, got: %d", name, p.BatchSize)
		}
		if p.ProbeTimeout <= 0 {
			return fmt.Errorf("validator %s probe timeout must be positive, got: %s", name, p.ProbeTimeout)
		}
	}

	return nil
}
