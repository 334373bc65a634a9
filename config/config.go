package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port             string        `yaml:"port"`
	GinMode          string        `yaml:"gin_mode"`
	DBDriver         string        `yaml:"db_driver"`
	DatabaseURL      string        `yaml:"database_url"`
	SessionSecret    string        `yaml:"session_secret"`
	SessionMaxAge    int           `yaml:"session_max_age"`
	JWTSecret        string        `yaml:"jwt_secret"`
	RestaurantSource string        `yaml:"restaurant_source"`
	RestaurantFile   string        `yaml:"restaurant_file"`
	Timezone         string        `yaml:"timezone"`
	AMQPURL          string        `yaml:"amqp_url"`
	LogLevel         string        `yaml:"log_level"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	PublicDir        string        `yaml:"public_dir"`
	CORSOrigin       string        `yaml:"cors_origin"`
}

const (
	SourceDB   = "db"
	SourceFile = "file"
)

// Development secrets. Validate refuses them in release mode.
const (
	DevSessionSecret = "pedidoshn-dev-session-secret-32b"
	DevJWTSecret     = "pedidoshn-dev-secret"
)

func Default() Config {
	return Config{
		Port:             "8080",
		GinMode:          "debug",
		DBDriver:         "sqlite",
		DatabaseURL:      "pedidoshn.db",
		SessionSecret:    DevSessionSecret,
		SessionMaxAge:    3600,
		JWTSecret:        DevJWTSecret,
		RestaurantSource: SourceDB,
		RestaurantFile:   "data/restaurantes.json",
		Timezone:         "America/Tegucigalpa",
		LogLevel:         "info",
		ReadTimeout:      10 * time.Second,
		WriteTimeout:     15 * time.Second,
		PublicDir:        "public",
		CORSOrigin:       "http://localhost:8080",
	}
}

// Load builds the configuration: defaults, then the optional YAML file, then .env and
// the process environment. A missing YAML file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	// .env is optional; real environment variables keep precedence over it.
	_ = godotenv.Load()

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	str := map[string]*string{
		"PORT":              &cfg.Port,
		"GIN_MODE":          &cfg.GinMode,
		"DB_DRIVER":         &cfg.DBDriver,
		"DATABASE_URL":      &cfg.DatabaseURL,
		"SESSION_SECRET":    &cfg.SessionSecret,
		"JWT_SECRET":        &cfg.JWTSecret,
		"RESTAURANT_SOURCE": &cfg.RestaurantSource,
		"RESTAURANT_FILE":   &cfg.RestaurantFile,
		"TIMEZONE":          &cfg.Timezone,
		"AMQP_URL":          &cfg.AMQPURL,
		"LOG_LEVEL":         &cfg.LogLevel,
		"PUBLIC_DIR":        &cfg.PublicDir,
		"CORS_ORIGIN":       &cfg.CORSOrigin,
	}
	for key, dst := range str {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("SESSION_MAX_AGE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SESSION_MAX_AGE: %w", err)
		}
		cfg.SessionMaxAge = n
	}

	durations := map[string]*time.Duration{
		"READ_TIMEOUT":  &cfg.ReadTimeout,
		"WRITE_TIMEOUT": &cfg.WriteTimeout,
	}
	for key, dst := range durations {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
	}
	return nil
}

func (c Config) Validate() error {
	switch strings.ToLower(c.DBDriver) {
	case "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported db_driver %q", c.DBDriver)
	}
	switch c.RestaurantSource {
	case SourceDB, SourceFile:
	default:
		return fmt.Errorf("unsupported restaurant_source %q", c.RestaurantSource)
	}
	if c.SessionMaxAge <= 0 {
		return errors.New("session_max_age must be positive")
	}
	if len(c.SessionSecret) < 16 {
		return errors.New("session_secret must be at least 16 bytes")
	}
	if len(c.JWTSecret) < 16 {
		return errors.New("jwt_secret must be at least 16 bytes")
	}
	if c.GinMode == "release" {
		if c.SessionSecret == DevSessionSecret {
			return errors.New("session_secret must be set in release mode")
		}
		if c.JWTSecret == DevJWTSecret {
			return errors.New("jwt_secret must be set in release mode")
		}
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Location is the time zone "today" is computed in for schedule validation.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Clock returns the current time in the configured zone.
func (c Config) Clock() func() time.Time {
	loc := c.Location()
	return func() time.Time { return time.Now().In(loc) }
}
