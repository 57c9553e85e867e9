package config

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Profile string

const (
	ProfileDevelopment Profile = "development"
	ProfileProduction  Profile = "production"
)

type (
	Config struct {
		Profile Profile
		HTTP
		Global
		Database
		Security
		RateLimit
		Log
		UI
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		URL string // postgres:// selects PostgreSQL, anything else is a SQLite path
	}
	Security struct {
		SecretKey       string
		SessionLifetime time.Duration
		SecureCookies   bool
		CSRFEnabled     bool
	}
	RateLimit struct {
		RequestsPerSecond float64 // 0 disables limiting
		Burst             int
	}
	Log struct {
		Level string
		File  string // optional rotating log file
	}
	UI struct {
		TemplatesPath string // empty uses the embedded templates
	}
)

// IsProduction reports whether the production profile is active.
func (c *Config) IsProduction() bool {
	return c.Profile == ProfileProduction
}

// Validate rejects configurations that must not reach a running server.
func (c *Config) Validate() error {
	if c.Profile != ProfileDevelopment && c.Profile != ProfileProduction {
		return errors.New("APP_ENV must be 'development' or 'production', got '" + string(c.Profile) + "'")
	}
	if c.IsProduction() && c.Security.SecretKey == DefaultSecretKey {
		return errors.New("SECRET_KEY must be set in production")
	}
	if c.Database.URL == "" {
		return errors.New("DATABASE_URL is empty")
	}
	return nil
}

// loadEnvFile reads the local override file into the process environment.
// Variables that are already set keep their values.
func loadEnvFile() {
	path := os.Getenv("BOOKTRACKER_ENV_FILE")
	if path == "" {
		path = DefaultEnvFile
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	_ = godotenv.Load(path)
}

func NewConfig() *Config {
	loadEnvFile()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("app_env", string(ProfileDevelopment))
	v.SetDefault("port", 5000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("database_url", DefaultDatabaseURL)
	v.SetDefault("secret_key", DefaultSecretKey)
	v.SetDefault("session_lifetime", "24h")
	v.SetDefault("csrf_enabled", true)
	v.SetDefault("rate_limit_rps", 10)
	v.SetDefault("rate_limit_burst", 20)
	v.SetDefault("log_file", "")
	v.SetDefault("templates_path", "")

	profile := Profile(v.GetString("APP_ENV"))

	// Profile-dependent defaults
	if profile == ProfileProduction {
		v.SetDefault("secure_cookies", true)
		v.SetDefault("log_level", "info")
	} else {
		v.SetDefault("secure_cookies", false)
		v.SetDefault("log_level", "debug")
	}

	return &Config{
		Profile: profile,
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			URL: v.GetString("DATABASE_URL"),
		},
		Security: Security{
			SecretKey:       v.GetString("SECRET_KEY"),
			SessionLifetime: v.GetDuration("SESSION_LIFETIME"),
			SecureCookies:   v.GetBool("SECURE_COOKIES"),
			CSRFEnabled:     v.GetBool("CSRF_ENABLED"),
		},
		RateLimit: RateLimit{
			RequestsPerSecond: v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             v.GetInt("RATE_LIMIT_BURST"),
		},
		Log: Log{
			Level: v.GetString("LOG_LEVEL"),
			File:  v.GetString("LOG_FILE"),
		},
		UI: UI{
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
		},
	}
}
