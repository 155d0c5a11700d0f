package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnvFile         = ".env"
	defaultPort            = "8080"
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultRequestTimeout  = 30 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultLogLevel        = "info"

	defaultItemsCollection   = "heritage_items"
	defaultRegionsCollection = "regions"

	defaultWikipediaBaseURL   = "https://en.wikipedia.org"
	defaultWikipediaUserAgent = "IndiaAura/1.0 (educational project)"
	defaultWikipediaTimeout   = 10 * time.Second
)

// Catalog sources understood by the loader.
const (
	CatalogSourceEmbedded  = "embedded"
	CatalogSourceFirestore = "firestore"
)

// Config is the fully resolved runtime configuration.
type Config struct {
	Server     ServerConfig
	Logging    LoggingConfig
	Catalog    CatalogConfig
	Firestore  FirestoreConfig
	Enrichment EnrichmentConfig
	Bookmarks  BookmarkConfig
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// Addr returns the listen address for the configured port.
func (s ServerConfig) Addr() string {
	return ":" + s.Port
}

// LoggingConfig controls the root logger.
type LoggingConfig struct {
	Level string
}

// CatalogConfig selects where the catalog is loaded from.
type CatalogConfig struct {
	Source          string
	SimulateLatency bool
}

// FirestoreConfig configures the optional Firestore catalog source.
type FirestoreConfig struct {
	ProjectID         string
	EmulatorHost      string
	ItemsCollection   string
	RegionsCollection string
}

// EnrichmentConfig configures the Wikipedia enrichment client.
type EnrichmentConfig struct {
	Enabled          bool
	WikipediaBaseURL string
	UserAgent        string
	Timeout          time.Duration
}

// BookmarkConfig configures the bookmark cookie.
type BookmarkConfig struct {
	SecureCookie bool
}

// ValidationError is returned when required configuration fields are missing or invalid.
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

// Option customises how Load resolves values.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path. An empty path disables dotenv loading.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map. Values in the map take precedence over
// system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the configuration from defaults, the .env file, the process environment
// and any explicit overrides, in increasing order of precedence.
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
		if value, ok := options.envMap[key]; ok {
			return value, true
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

	port := stringWithDefault(lookup, "HERITAGE_SERVER_PORT", "")
	if port == "" {
		port = stringWithDefault(lookup, "PORT", defaultPort)
	}
	level := stringWithDefault(lookup, "HERITAGE_LOG_LEVEL", "")
	if level == "" {
		level = stringWithDefault(lookup, "LOG_LEVEL", defaultLogLevel)
	}

	cfg := Config{
		Server: ServerConfig{
			Port:            strings.TrimPrefix(strings.TrimSpace(port), ":"),
			ReadTimeout:     durationWithDefault(lookup, "HERITAGE_SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:    durationWithDefault(lookup, "HERITAGE_SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:     durationWithDefault(lookup, "HERITAGE_SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
			RequestTimeout:  durationWithDefault(lookup, "HERITAGE_SERVER_REQUEST_TIMEOUT", defaultRequestTimeout),
			ShutdownTimeout: durationWithDefault(lookup, "HERITAGE_SERVER_SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		},
		Logging: LoggingConfig{
			Level: strings.ToLower(level),
		},
		Catalog: CatalogConfig{
			Source:          strings.ToLower(stringWithDefault(lookup, "HERITAGE_CATALOG_SOURCE", CatalogSourceEmbedded)),
			SimulateLatency: boolWithDefault(lookup, "HERITAGE_SIMULATE_LATENCY", false),
		},
		Firestore: FirestoreConfig{
			ProjectID:         stringWithDefault(lookup, "HERITAGE_FIRESTORE_PROJECT_ID", ""),
			EmulatorHost:      stringWithDefault(lookup, "HERITAGE_FIRESTORE_EMULATOR_HOST", ""),
			ItemsCollection:   stringWithDefault(lookup, "HERITAGE_FIRESTORE_ITEMS_COLLECTION", defaultItemsCollection),
			RegionsCollection: stringWithDefault(lookup, "HERITAGE_FIRESTORE_REGIONS_COLLECTION", defaultRegionsCollection),
		},
		Enrichment: EnrichmentConfig{
			Enabled:          boolWithDefault(lookup, "HERITAGE_ENRICHMENT_ENABLED", true),
			WikipediaBaseURL: strings.TrimRight(stringWithDefault(lookup, "HERITAGE_WIKIPEDIA_BASE_URL", defaultWikipediaBaseURL), "/"),
			UserAgent:        stringWithDefault(lookup, "HERITAGE_WIKIPEDIA_USER_AGENT", defaultWikipediaUserAgent),
			Timeout:          durationWithDefault(lookup, "HERITAGE_WIKIPEDIA_TIMEOUT", defaultWikipediaTimeout),
		},
		Bookmarks: BookmarkConfig{
			SecureCookie: boolWithDefault(lookup, "HERITAGE_COOKIE_SECURE", false),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	var invalid []string

	if cfg.Server.Port == "" {
		invalid = append(invalid, "Server.Port")
	} else if _, err := strconv.Atoi(cfg.Server.Port); err != nil {
		invalid = append(invalid, "Server.Port")
	}
	for name, d := range map[string]time.Duration{
		"Server.ReadTimeout":     cfg.Server.ReadTimeout,
		"Server.WriteTimeout":    cfg.Server.WriteTimeout,
		"Server.IdleTimeout":     cfg.Server.IdleTimeout,
		"Server.RequestTimeout":  cfg.Server.RequestTimeout,
		"Server.ShutdownTimeout": cfg.Server.ShutdownTimeout,
	} {
		if d <= 0 {
			invalid = append(invalid, name)
		}
	}

	switch cfg.Catalog.Source {
	case CatalogSourceEmbedded:
	case CatalogSourceFirestore:
		if cfg.Firestore.ProjectID == "" {
			invalid = append(invalid, "Firestore.ProjectID")
		}
		if cfg.Firestore.ItemsCollection == "" {
			invalid = append(invalid, "Firestore.ItemsCollection")
		}
		if cfg.Firestore.RegionsCollection == "" {
			invalid = append(invalid, "Firestore.RegionsCollection")
		}
	default:
		invalid = append(invalid, "Catalog.Source")
	}

	if cfg.Enrichment.Enabled {
		u, err := url.Parse(cfg.Enrichment.WikipediaBaseURL)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			invalid = append(invalid, "Enrichment.WikipediaBaseURL")
		}
		if cfg.Enrichment.Timeout <= 0 {
			invalid = append(invalid, "Enrichment.Timeout")
		}
	}

	if len(invalid) > 0 {
		slices.Sort(invalid)
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
	if errors.Is(err, fs.ErrNotExist) {
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
