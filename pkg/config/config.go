// Package config reads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/spencer-p/lowtide/pkg/noaa"
	"github.com/spencer-p/lowtide/pkg/zipcode"
)

// Prefix is prepended to every variable name, as in LOWTIDE_PORT.
const Prefix = "lowtide"

// Config holds every knob of the server and the CLI.
type Config struct {
	Port   string `default:"8080" validate:"required,numeric"`
	Prefix string `default:"/" validate:"startswith=/"`

	PredictionsURL string `envconfig:"PREDICTIONS_URL" validate:"omitempty,url"`
	StationsURL    string `envconfig:"STATIONS_URL" validate:"omitempty,url"`
	GazetteerURL   string `envconfig:"GAZETTEER_URL" validate:"omitempty,url"`
	CacheDir       string `envconfig:"CACHE_DIR" default:".cache" validate:"required"`

	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s" validate:"gt=0"`
	DefaultZip  int           `envconfig:"DEFAULT_ZIP" default:"98516" validate:"gte=0,lte=99999"`
	TimeZone    string        `envconfig:"TIME_ZONE" default:"America/Los_Angeles" validate:"required,timezone"`

	SessionKey    string `envconfig:"SESSION_KEY" default:"deadbeef" validate:"required"`
	EncryptionKey string `envconfig:"ENCRYPTION_KEY" default:"deadbeef" validate:"required"`

	CacheTTL time.Duration `envconfig:"CACHE_TTL" default:"23h" validate:"gte=0"`

	// DatabaseDSN enables the lookup log when set.
	DatabaseDSN string `envconfig:"DATABASE_DSN"`
}

// Load reads .env files, if any exist, then the environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
	}

	var c Config
	if err := envconfig.Process(Prefix, &c); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Location is the zone used to read clock times for the daylight filter.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.TimeZone)
}

// NOAAClient builds a NOAA client with the configured endpoints.
func (c *Config) NOAAClient() *noaa.Client {
	client := noaa.NewClient(c.HTTPTimeout)
	if c.PredictionsURL != "" {
		client.PredictionsURL = c.PredictionsURL
	}
	if c.StationsURL != "" {
		client.StationsURL = c.StationsURL
	}
	return client
}

// GazetteerLoader builds a loader caching under CacheDir.
func (c *Config) GazetteerLoader() *zipcode.Loader {
	return &zipcode.Loader{
		URL:      c.GazetteerURL,
		CacheDir: c.CacheDir,
		Client:   &http.Client{Timeout: c.HTTPTimeout},
	}
}
