// Package config loads server configuration from HCL.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// Config is the top-level server configuration.
type Config struct {
	// BaseURL is the public base URL used when building share links.
	BaseURL string `hcl:"base_url,optional"`

	// ListenAddr is the address the HTTP server binds to.
	ListenAddr string `hcl:"listen_addr,optional"`

	// LogLevel sets the minimum log level ("trace" through "error").
	LogLevel string `hcl:"log_level,optional"`

	Auth      *Auth      `hcl:"auth,block"`
	Database  *Database  `hcl:"database,block"`
	Resources *Resources `hcl:"resources,block"`
	Mail      *Mail      `hcl:"mail,block"`
}

// Auth configures bearer-token verification.
type Auth struct {
	// JWTSecret is the HMAC key used to verify bearer tokens.
	JWTSecret string `hcl:"jwt_secret"`
}

// Database configures the item store backend.
type Database struct {
	// Driver selects the backend: "postgres" or "sqlite".
	Driver string `hcl:"driver"`

	// PostgreSQL settings.
	Host     string `hcl:"host,optional"`
	Port     int    `hcl:"port,optional"`
	User     string `hcl:"user,optional"`
	Password string `hcl:"password,optional"`
	DBName   string `hcl:"dbname,optional"`

	// SQLite settings.
	Path string `hcl:"path,optional"`
}

// Resources configures the uploaded-resource store.
type Resources struct {
	// Path is the directory resource files are stored under.
	Path string `hcl:"path"`
}

// Mail configures SMTP delivery of share notifications. When absent,
// notifications go to the application log instead.
type Mail struct {
	SMTPAddr string `hcl:"smtp_addr"`
	From     string `hcl:"from"`
}

// NewConfig parses an HCL configuration file and applies defaults.
func NewConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", filename)
	}

	var cfg Config
	if err := hclsimple.DecodeFile(filename, nil, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a zero-configuration setup suitable for local development:
// a SQLite store and a local resources directory.
func Default() *Config {
	cfg := &Config{
		Auth:     &Auth{JWTSecret: "dev-secret"},
		Database: &Database{Driver: "sqlite", Path: ".scribe/scribe.db"},
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = "127.0.0.1:8000"
	}
	if c.BaseURL == "" {
		c.BaseURL = "http://" + c.ListenAddr
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Resources == nil {
		c.Resources = &Resources{Path: ".scribe/resources"}
	}
	if c.Database != nil && c.Database.Driver == "postgres" && c.Database.Port == 0 {
		c.Database.Port = 5432
	}
}

// Validate checks required settings.
func (c *Config) Validate() error {
	if c.Auth == nil || c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth block with jwt_secret is required")
	}
	if c.Database == nil {
		return fmt.Errorf("database block is required")
	}
	switch c.Database.Driver {
	case "postgres":
		if c.Database.Host == "" || c.Database.DBName == "" {
			return fmt.Errorf("postgres driver requires host and dbname")
		}
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("sqlite driver requires path")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	return nil
}
