// Package config loads the site configuration from defaults, an optional
// config file and CONSENTERRA_* environment variables.
package config

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/consenterra/website/pkg/core"
	"github.com/consenterra/website/pkg/limits"
	"github.com/consenterra/website/pkg/logging"
	"github.com/consenterra/website/pkg/transport"
)

// EnvPrefix prefixes every environment override, e.g. CONSENTERRA_SERVER_ADDR.
const EnvPrefix = "CONSENTERRA"

// Config overall data structure.
type Config struct {
	Dev    bool         `mapstructure:"dev" yaml:"dev"` // development mode: relaxed timeouts, any websocket origin
	Server ServerConfig `mapstructure:"server" yaml:"server"`
	Live   LiveConfig   `mapstructure:"live" yaml:"live"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
	Site   SiteConfig   `mapstructure:"site" yaml:"site"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr" validate:"required"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" validate:"gt=0"`
	Compress        bool          `mapstructure:"compress" yaml:"compress"`
}

// LiveConfig holds the live navbar endpoint settings.
type LiveConfig struct {
	Path            string        `mapstructure:"path" yaml:"path" validate:"required,startswith=/"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins" yaml:"allowed_origins" validate:"dive,url|eq=*"`
	InsecureDevMode bool          `mapstructure:"insecure_dev_mode" yaml:"insecure_dev_mode"`
	PingInterval    time.Duration `mapstructure:"ping_interval" yaml:"ping_interval" validate:"gt=0"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout" validate:"gtfield=PingInterval"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout" validate:"gt=0"`
	MaxMessageSize  int64         `mapstructure:"max_message_size" yaml:"max_message_size" validate:"gte=1024"`
	MaxConnections  int           `mapstructure:"max_connections" yaml:"max_connections" validate:"gte=0"` // 0 = unlimited
	EventsPerSecond float64       `mapstructure:"events_per_second" yaml:"events_per_second" validate:"gte=0"` // 0 = unlimited
	EventBurst      int           `mapstructure:"event_burst" yaml:"event_burst" validate:"gte=1"`
}

// LogConfig holds the logger settings.
type LogConfig struct {
	Level      string `mapstructure:"level" yaml:"level" validate:"oneof=trace debug info warn error"`
	JSON       bool   `mapstructure:"json" yaml:"json"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups" validate:"gte=0"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// SiteConfig holds branding and canonical URL settings.
type SiteConfig struct {
	Brand   string `mapstructure:"brand" yaml:"brand" validate:"required"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url" validate:"omitempty,url"`
}

var validate = validator.New()

// NewViper returns a viper instance carrying the defaults and the
// environment binding. Command line flags are bound on top of it.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("dev", false)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("server.compress", true)

	v.SetDefault("live.path", "/_live/websocket")
	v.SetDefault("live.allowed_origins", []string{})
	v.SetDefault("live.insecure_dev_mode", false)
	v.SetDefault("live.ping_interval", 30*time.Second)
	v.SetDefault("live.read_timeout", 60*time.Second)
	v.SetDefault("live.idle_timeout", 30*time.Minute)
	v.SetDefault("live.max_message_size", 64*1024)
	v.SetDefault("live.max_connections", 0)
	v.SetDefault("live.events_per_second", 10.0)
	v.SetDefault("live.event_burst", 20)

	// Empty until a file, env var or Set names a level; Load picks one.
	v.SetDefault("log.level", "")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.compress", true)

	v.SetDefault("site.brand", "ConsenTerra")
	v.SetDefault("site.base_url", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the optional config file at path into v and returns the
// validated configuration.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode config")
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
		if c.Dev {
			c.Log.Level = "debug"
		}
	}
	if c.Dev {
		c.Live.InsecureDevMode = true
	}

	return c, Validate(c)
}

// Validate checks c against its field rules.
func Validate(c Config) error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return errors.Wrap(ErrInvalidConfig, strings.Join(fields, ", "))
		}
		return errors.Wrap(err, ErrInvalidConfig.Error())
	}
	return nil
}

// DumpConfig renders c as YAML.
func DumpConfig(c Config) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(c); err != nil {
		return "", errors.Wrap(err, "failed to encode config")
	}
	if err := enc.Close(); err != nil {
		return "", errors.Wrap(err, "failed to encode config")
	}
	return buf.String(), nil
}

// LoggingOptions converts the log section for logging.New.
func (c LogConfig) LoggingOptions() logging.Options {
	opts := logging.Options{
		Level: c.Level,
		JSON:  c.JSON,
	}
	if c.File != "" {
		opts.File = &logging.FileOptions{
			Path:       c.File,
			MaxSizeMB:  c.MaxSizeMB,
			MaxAgeDays: c.MaxAgeDays,
			MaxBackups: c.MaxBackups,
			Compress:   c.Compress,
		}
	}
	return opts
}

// TransportConfig converts the live section for the websocket transport.
func (c LiveConfig) TransportConfig() *transport.Config {
	tc := transport.DefaultConfig()
	tc.PingInterval = c.PingInterval
	tc.ReadTimeout = c.ReadTimeout
	tc.MaxMessageSize = c.MaxMessageSize
	return tc
}

// EventLimiter returns the per socket event limiter, or nil when events are
// not limited.
func (c LiveConfig) EventLimiter() *limits.TokenBucket {
	if c.EventsPerSecond <= 0 {
		return nil
	}
	return limits.NewTokenBucket(c.EventsPerSecond, c.EventBurst)
}

// WebSocketConfig converts the live section's origin policy.
func (c LiveConfig) WebSocketConfig() *transport.WebSocketConfig {
	return &transport.WebSocketConfig{
		AllowedOrigins:  c.AllowedOrigins,
		InsecureDevMode: c.InsecureDevMode,
	}
}

// Timeouts returns the component timeouts, relaxed in development.
func (c Config) Timeouts() core.TimeoutConfig {
	t := core.DefaultTimeoutConfig()
	if c.Dev {
		t = core.RelaxedTimeoutConfig()
	}
	t.IdleTimeout = c.Live.IdleTimeout
	return t
}
