package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App         ApplicationConfig `yaml:"app"`
	Catalog     CatalogConfig     `yaml:"catalog"`
	SQLite      SQLiteConfig      `yaml:"sqlite"`
	Credentials CredentialsConfig `yaml:"credentials"`
	Events      EventsConfig      `yaml:"events"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Catalog.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Credentials.Validate(); err != nil {
		return err
	}
	return c.Events.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// CatalogConfig holds the recipe catalog location and watch behavior.
//
// When Watch is true the server reloads the catalog whenever the JSON
// file changes on disk; a reload that fails to parse keeps the
// previously loaded catalog.
type CatalogConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// Validate validates the catalog configuration.
func (c *CatalogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SQLiteConfig holds SQLite recipe index configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// CredentialsConfig holds the path of the flat credential file.
type CredentialsConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the credentials configuration.
func (c *CredentialsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// EventsConfig holds SSE broker tuning.
type EventsConfig struct {
	AggregateThrottle time.Duration `yaml:"aggregate_throttle"`
}

// Validate validates the events configuration.
func (c *EventsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.AggregateThrottle, validation.Min(time.Duration(0))),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Catalog: CatalogConfig{
			Path:  "./recipes.json",
			Watch: true,
		},
		SQLite: SQLiteConfig{
			Path: "./pantry.db",
		},
		Credentials: CredentialsConfig{
			Path: "./credentials.json",
		},
		Events: EventsConfig{
			AggregateThrottle: 2 * time.Second,
		},
	}
}
