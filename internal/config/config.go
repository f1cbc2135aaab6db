// Package config loads the service configuration from the environment.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config describes the service settings.
type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"prod"`
	Addr     string `envconfig:"ADDR" default:":8080"`
	WebDir   string `envconfig:"WEB_DIR" default:"web"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// DatabaseURL selects the Postgres store; empty means in-memory.
	DatabaseURL string `envconfig:"DATABASE_URL"`
	RedisAddr   string `envconfig:"REDIS_ADDR"`

	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`

	// ForwardAuthEnabled trusts the Remote-User header set by a reverse proxy.
	ForwardAuthEnabled bool `envconfig:"FORWARD_AUTH_ENABLED" default:"false"`

	// CronSecret guards the reminder cron endpoint.
	CronSecret string `envconfig:"CRON_SECRET"`

	// Nested blocks read OIDC_* and REMINDER_* variables.
	OIDC     OIDC     `envconfig:"OIDC"`
	Reminder Reminder `envconfig:"REMINDER"`
}

// OIDC configures SSO login.
type OIDC struct {
	Issuer       string `envconfig:"ISSUER"`
	ClientID     string `envconfig:"CLIENT_ID"`
	ClientSecret string `envconfig:"CLIENT_SECRET"`
	RedirectURL  string `envconfig:"REDIRECT_URL"`
}

// Reminder configures the external reminder function.
type Reminder struct {
	FunctionURL string        `envconfig:"FUNCTION_URL"`
	APIKey      string        `envconfig:"FUNCTION_KEY"`
	Timeout     time.Duration `envconfig:"TIMEOUT" default:"30s"`
}

// OIDCEnabled reports whether SSO login is configured.
func (c Config) OIDCEnabled() bool {
	return c.OIDC.Issuer != "" && c.OIDC.ClientID != ""
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
