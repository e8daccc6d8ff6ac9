package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix                = "CATGALLERY"
	defaultHTTPAddress       = "0.0.0.0:8080"
	defaultDatabasePath      = "catgallery.db"
	defaultLogLevel          = "info"
	defaultTokenTTLMinutes   = 1440
	defaultImageBaseURL      = "https://cataas.com/cat"
	defaultImagePlaceholder  = "/img/placeholder.jpg"
	defaultStaticDir         = "web/static"
	defaultImageFetchTimeout = 10 * time.Second
)

// AppConfig captures runtime configuration for the API server.
type AppConfig struct {
	HTTPAddress      string
	DatabasePath     string
	SigningSecret    string
	TokenTTL         time.Duration
	ImageBaseURL     string
	ImagePlaceholder string
	ImageTimeout     time.Duration
	StaticDir        string
	LogLevel         string
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("http.address", defaultHTTPAddress)
	configViper.SetDefault("database.path", defaultDatabasePath)
	configViper.SetDefault("auth.token_ttl_minutes", defaultTokenTTLMinutes)
	configViper.SetDefault("images.base_url", defaultImageBaseURL)
	configViper.SetDefault("images.placeholder", defaultImagePlaceholder)
	configViper.SetDefault("images.fetch_timeout_seconds", int(defaultImageFetchTimeout.Seconds()))
	configViper.SetDefault("static.dir", defaultStaticDir)
	configViper.SetDefault("log.level", defaultLogLevel)
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress:      configViper.GetString("http.address"),
		DatabasePath:     configViper.GetString("database.path"),
		SigningSecret:    configViper.GetString("auth.signing_secret"),
		TokenTTL:         time.Duration(configViper.GetInt("auth.token_ttl_minutes")) * time.Minute,
		ImageBaseURL:     configViper.GetString("images.base_url"),
		ImagePlaceholder: configViper.GetString("images.placeholder"),
		ImageTimeout:     time.Duration(configViper.GetInt("images.fetch_timeout_seconds")) * time.Second,
		StaticDir:        configViper.GetString("static.dir"),
		LogLevel:         configViper.GetString("log.level"),
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

func (c AppConfig) validate() error {
	if strings.TrimSpace(c.SigningSecret) == "" {
		return fmt.Errorf("auth.signing_secret is required")
	}
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("database.path is required")
	}
	if strings.TrimSpace(c.ImagePlaceholder) == "" {
		return fmt.Errorf("images.placeholder is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl_minutes must be positive")
	}
	return nil
}
