// Package config loads runtime configuration from the environment and an optional .env file.
package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnvFile          = ".env"
	defaultPort             = "8080"
	defaultEnvironment      = "dev"
	defaultReadTimeout      = 15 * time.Second
	defaultWriteTimeout     = 30 * time.Second
	defaultIdleTimeout      = 120 * time.Second
	defaultAPIBaseURL       = "https://api.autohub.ng/api/v1"
	defaultAPITimeout       = 10 * time.Second
	defaultCarouselPoll     = 60 * time.Second
	defaultCarouselAutoplay = 5 * time.Second
	defaultSettingsTTL      = 5 * time.Minute
	defaultPerPage          = 12
	maxPerPage              = 48
	defaultLogLevel         = "info"
	defaultPublicURL        = "https://autohub.ng"
	minSigningKeyLength     = 32
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server    ServerConfig
	API       APIConfig
	Redis     RedisConfig
	Carousel  CarouselConfig
	Catalog   CatalogConfig
	Settings  SettingsConfig
	Paths     PathsConfig
	Session   SessionConfig
	Log       LogConfig
	Analytics AnalyticsConfig
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port         string
	Environment  string
	Dev          bool
	PublicURL    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Production reports whether the server runs in production.
func (s ServerConfig) Production() bool {
	return s.Environment == "prod" || s.Environment == "production"
}

// APIConfig points at the marketplace API.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// RedisConfig enables shared caches and request fencing. An empty Addr keeps both in memory.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a Redis address is configured.
func (r RedisConfig) Enabled() bool { return strings.TrimSpace(r.Addr) != "" }

// CarouselConfig controls slide polling and autoplay.
type CarouselConfig struct {
	PollInterval time.Duration
	Autoplay     time.Duration
}

// CatalogConfig controls listing pages.
type CatalogConfig struct {
	PerPage int
}

// SettingsConfig controls the site settings cache.
type SettingsConfig struct {
	TTL time.Duration
}

// PathsConfig locates templates and static files.
type PathsConfig struct {
	Templates string
	Public    string
	Content   string
	Locales   string
}

// SessionConfig holds the cookie signing key.
type SessionConfig struct {
	SigningKey string
}

// AnalyticsConfig holds client instrumentation identifiers surfaced to templates.
type AnalyticsConfig struct {
	GA4MeasurementID string
	GTMContainerID   string
	Debug            bool
}

// LogConfig sets the logger level.
type LogConfig struct {
	Level string
}

// ValidationError is returned when configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path. An empty path disables .env loading.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects explicit values; they take precedence over the system environment.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the configuration. Precedence: explicit map, process environment, .env file,
// defaults.
func Load(_ context.Context, opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if value, ok := dotEnvValues[key]; ok {
			return value, true
		}
		return "", false
	}

	env := strings.ToLower(stringWithDefault(lookup, "AUTOHUB_WEB_ENV", defaultEnvironment))
	cfg := Config{
		Server: ServerConfig{
			Port:         stringWithDefault(lookup, "AUTOHUB_WEB_PORT", stringWithDefault(lookup, "PORT", defaultPort)),
			Environment:  env,
			Dev:          boolWithDefault(lookup, "AUTOHUB_WEB_DEV", env == defaultEnvironment),
			PublicURL:    strings.TrimRight(stringWithDefault(lookup, "AUTOHUB_WEB_PUBLIC_URL", defaultPublicURL), "/"),
			ReadTimeout:  durationWithDefault(lookup, "AUTOHUB_WEB_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: durationWithDefault(lookup, "AUTOHUB_WEB_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  durationWithDefault(lookup, "AUTOHUB_WEB_IDLE_TIMEOUT", defaultIdleTimeout),
		},
		API: APIConfig{
			BaseURL: strings.TrimRight(stringWithDefault(lookup, "AUTOHUB_API_BASE_URL", defaultAPIBaseURL), "/"),
			Timeout: durationWithDefault(lookup, "AUTOHUB_API_TIMEOUT", defaultAPITimeout),
		},
		Redis: RedisConfig{
			Addr:     stringWithDefault(lookup, "AUTOHUB_REDIS_ADDR", ""),
			Password: stringWithDefault(lookup, "AUTOHUB_REDIS_PASSWORD", ""),
			DB:       intWithDefault(lookup, "AUTOHUB_REDIS_DB", 0),
		},
		Carousel: CarouselConfig{
			PollInterval: durationWithDefault(lookup, "AUTOHUB_CAROUSEL_POLL_INTERVAL", defaultCarouselPoll),
			Autoplay:     durationWithDefault(lookup, "AUTOHUB_CAROUSEL_AUTOPLAY", defaultCarouselAutoplay),
		},
		Catalog: CatalogConfig{
			PerPage: intWithDefault(lookup, "AUTOHUB_PER_PAGE", defaultPerPage),
		},
		Settings: SettingsConfig{
			TTL: durationWithDefault(lookup, "AUTOHUB_SETTINGS_TTL", defaultSettingsTTL),
		},
		Paths: PathsConfig{
			Templates: stringWithDefault(lookup, "AUTOHUB_TEMPLATES_DIR", "templates"),
			Public:    stringWithDefault(lookup, "AUTOHUB_PUBLIC_DIR", "public"),
			Content:   stringWithDefault(lookup, "AUTOHUB_CONTENT_DIR", "content"),
			Locales:   stringWithDefault(lookup, "AUTOHUB_LOCALES_DIR", "locales"),
		},
		Session: SessionConfig{
			SigningKey: stringWithDefault(lookup, "AUTOHUB_SESSION_SIGNING_KEY", ""),
		},
		Log: LogConfig{
			Level: stringWithDefault(lookup, "LOG_LEVEL", defaultLogLevel),
		},
		Analytics: AnalyticsConfig{
			GA4MeasurementID: stringWithDefault(lookup, "AUTOHUB_WEB_GA_MEASUREMENT_ID", ""),
			GTMContainerID:   stringWithDefault(lookup, "AUTOHUB_WEB_GTM_CONTAINER_ID", ""),
			Debug:            boolWithDefault(lookup, "AUTOHUB_WEB_ANALYTICS_DEBUG", false),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	var invalid []string

	if port, err := strconv.Atoi(cfg.Server.Port); err != nil || port <= 0 || port > 65535 {
		invalid = append(invalid, "Server.Port")
	}
	if u, err := url.Parse(cfg.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		invalid = append(invalid, "API.BaseURL")
	}
	if cfg.API.Timeout <= 0 {
		invalid = append(invalid, "API.Timeout")
	}
	if cfg.Carousel.PollInterval <= 0 {
		invalid = append(invalid, "Carousel.PollInterval")
	}
	if cfg.Carousel.Autoplay <= 0 {
		invalid = append(invalid, "Carousel.Autoplay")
	}
	if cfg.Catalog.PerPage < 1 || cfg.Catalog.PerPage > maxPerPage {
		invalid = append(invalid, "Catalog.PerPage")
	}
	if cfg.Settings.TTL <= 0 {
		invalid = append(invalid, "Settings.TTL")
	}
	if cfg.Redis.DB < 0 {
		invalid = append(invalid, "Redis.DB")
	}
	if cfg.Server.Production() && len(cfg.Session.SigningKey) < minSigningKeyLength {
		invalid = append(invalid, "Session.SigningKey")
	}

	if len(invalid) > 0 {
		return &ValidationError{fields: invalid}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	values, err := godotenv.Read(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}
