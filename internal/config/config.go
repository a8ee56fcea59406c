// Package config resolves runtime settings from flags, the environment and
// the OS keyring.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/julianstephens/nowaste/internal/constants"
	"github.com/julianstephens/nowaste/internal/keyring"
	"github.com/julianstephens/nowaste/internal/utils"
)

// Config is the resolved runtime configuration.
type Config struct {
	ConfigPath string        `env:"NOWASTE_CONFIG"`
	APIURL     string        `env:"NOWASTE_API_URL" envDefault:"http://localhost:5000"`
	Timeout    time.Duration `env:"NOWASTE_TIMEOUT" envDefault:"60s"`
	Debug      bool          `env:"NOWASTE_DEBUG"`
	Timezone   string        `env:"NOWASTE_TZ" envDefault:"Local"`

	// FromKeyring is set when ConfigPath came from the OS keyring.
	FromKeyring bool `env:"-"`
}

// Flags are command-line values. Zero values mean "not given".
type Flags struct {
	Config   string
	APIURL   string
	Timeout  time.Duration
	Debug    bool
	Timezone string
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

var keyringLookup = keyring.GetConnectionString

// Load builds the configuration: flags win over the environment, which wins
// over defaults. With no store given anywhere, a connection string saved in
// the keyring is used before the default SQLite path.
func Load(flags Flags) (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	if flags.Config != "" {
		cfg.ConfigPath = flags.Config
	}
	if flags.APIURL != "" {
		cfg.APIURL = flags.APIURL
	}
	if flags.Timeout > 0 {
		cfg.Timeout = flags.Timeout
	}
	if flags.Debug {
		cfg.Debug = true
	}
	if flags.Timezone != "" {
		cfg.Timezone = flags.Timezone
	}

	if cfg.ConfigPath == "" {
		if connStr, err := keyringLookup(); err == nil && connStr != "" {
			cfg.ConfigPath = connStr
			cfg.FromKeyring = true
		} else {
			cfg.ConfigPath = constants.DefaultConfigPath
		}
	}

	if cfg.Kind() != KindPostgres {
		p, err := ExpandPath(cfg.ConfigPath)
		if err != nil {
			return Config{}, err
		}
		cfg.ConfigPath = p
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that cannot be caught by parsing alone.
func (c Config) Validate() error {
	var errs []error
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("invalid api url %q: must be an absolute http(s) URL", c.APIURL))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("invalid timeout %s: must be positive", c.Timeout))
	}
	if !utils.ValidateTimezone(c.Timezone) {
		errs = append(errs, fmt.Errorf("invalid timezone %q", c.Timezone))
	}
	if strings.TrimSpace(c.ConfigPath) == "" {
		errs = append(errs, errors.New("config path cannot be empty"))
	}
	return errors.Join(errs...)
}

// Location is the timezone used to decide what "today" is.
func (c Config) Location() (*time.Location, error) {
	return utils.LoadLocation(c.Timezone)
}

// Dir is where logs, backups and the process lock live. PostgreSQL stores
// fall back to the default config directory.
func (c Config) Dir() string {
	if c.Kind() == KindPostgres {
		p, err := ExpandPath(constants.DefaultConfigPath)
		if err != nil {
			return "."
		}
		return filepath.Dir(p)
	}
	return filepath.Dir(c.ConfigPath)
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
