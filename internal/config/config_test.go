package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "consenterra.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	c, err := Load(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, 15*time.Second, c.Server.ShutdownTimeout)
	assert.True(t, c.Server.Compress)
	assert.Equal(t, "/_live/websocket", c.Live.Path)
	assert.False(t, c.Live.InsecureDevMode)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "ConsenTerra", c.Site.Brand)
	assert.Empty(t, c.Site.BaseURL)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: 127.0.0.1:9000
live:
  allowed_origins:
    - https://preview.consenterra.com
  max_connections: 500
log:
  level: warn
  json: true
site:
  base_url: https://consenterra.com
`)

	c, err := Load(NewViper(), path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", c.Server.Addr)
	assert.Equal(t, []string{"https://preview.consenterra.com"}, c.Live.AllowedOrigins)
	assert.Equal(t, 500, c.Live.MaxConnections)
	assert.Equal(t, "warn", c.Log.Level)
	assert.True(t, c.Log.JSON)
	assert.Equal(t, "https://consenterra.com", c.Site.BaseURL)
	// untouched keys keep their defaults
	assert.Equal(t, 30*time.Second, c.Live.PingInterval)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(NewViper(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CONSENTERRA_SERVER_ADDR", ":9999")
	t.Setenv("CONSENTERRA_LOG_LEVEL", "error")
	t.Setenv("CONSENTERRA_SITE_BRAND", "CT")

	c, err := Load(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, ":9999", c.Server.Addr)
	assert.Equal(t, "error", c.Log.Level)
	assert.Equal(t, "CT", c.Site.Brand)
}

func TestLoad_DevMode(t *testing.T) {
	v := NewViper()
	v.Set("dev", true)

	c, err := Load(v, "")
	require.NoError(t, err)

	assert.True(t, c.Live.InsecureDevMode)
	assert.Equal(t, "debug", c.Log.Level)

	timeouts := c.Timeouts()
	assert.Equal(t, 30*time.Second, timeouts.ComponentMount)
	assert.Equal(t, c.Live.IdleTimeout, timeouts.IdleTimeout)
}

func TestLoad_DevModeKeepsExplicitLevel(t *testing.T) {
	v := NewViper()
	v.Set("dev", true)
	v.Set("log.level", "warn")

	c, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, "warn", c.Log.Level)
}

func TestLoad_DevModeKeepsExplicitInfo(t *testing.T) {
	path := writeConfig(t, "dev: true\nlog:\n  level: info\n")

	c, err := Load(NewViper(), path)
	require.NoError(t, err)
	assert.True(t, c.Dev)
	assert.Equal(t, "info", c.Log.Level)
}

func TestLoad_DevModeKeepsExplicitInfoFromEnv(t *testing.T) {
	t.Setenv("CONSENTERRA_LOG_LEVEL", "info")
	v := NewViper()
	v.Set("dev", true)

	c, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, "info", c.Log.Level)
}

func TestValidate(t *testing.T) {
	valid, err := Load(NewViper(), "")
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"unknown log level", func(c *Config) { c.Log.Level = "loud" }, "Level"},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, "Addr"},
		{"relative live path", func(c *Config) { c.Live.Path = "_live" }, "Path"},
		{"bad origin", func(c *Config) { c.Live.AllowedOrigins = []string{"not a url"} }, "AllowedOrigins"},
		{"read timeout below ping", func(c *Config) { c.Live.ReadTimeout = time.Second }, "ReadTimeout"},
		{"bad base url", func(c *Config) { c.Site.BaseURL = "consenterra" }, "BaseURL"},
		{"empty brand", func(c *Config) { c.Site.Brand = "" }, "Brand"},
		{"negative event rate", func(c *Config) { c.Live.EventsPerSecond = -1 }, "EventsPerSecond"},
		{"zero event burst", func(c *Config) { c.Live.EventBurst = 0 }, "EventBurst"},
		{"zero shutdown timeout", func(c *Config) { c.Server.ShutdownTimeout = 0 }, "ShutdownTimeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			c.Live.AllowedOrigins = append([]string(nil), valid.Live.AllowedOrigins...)
			tt.mutate(&c)

			err := Validate(c)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidate_WildcardOrigin(t *testing.T) {
	c, err := Load(NewViper(), "")
	require.NoError(t, err)

	c.Live.AllowedOrigins = []string{"*"}
	assert.NoError(t, Validate(c))
}

func TestDumpConfig(t *testing.T) {
	c, err := Load(NewViper(), "")
	require.NoError(t, err)

	out, err := DumpConfig(c)
	require.NoError(t, err)
	assert.Contains(t, out, "level: info")
	assert.Contains(t, out, "brand: ConsenTerra")

	var back Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &back))
	if diff := cmp.Diff(c, back, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("dumped config mismatch (-want +got):\n%s", diff)
	}
}

func TestLogConfig_LoggingOptions(t *testing.T) {
	opts := LogConfig{Level: "debug", JSON: true}.LoggingOptions()
	assert.Equal(t, "debug", opts.Level)
	assert.True(t, opts.JSON)
	assert.Nil(t, opts.File)

	opts = LogConfig{Level: "info", File: "/var/log/consenterra.log", MaxSizeMB: 10, MaxBackups: 2, Compress: true}.LoggingOptions()
	require.NotNil(t, opts.File)
	assert.Equal(t, "/var/log/consenterra.log", opts.File.Path)
	assert.Equal(t, 10, opts.File.MaxSizeMB)
	assert.Equal(t, 2, opts.File.MaxBackups)
	assert.True(t, opts.File.Compress)
}

func TestLiveConfig_Conversions(t *testing.T) {
	live := LiveConfig{
		AllowedOrigins:  []string{"https://preview.consenterra.com"},
		InsecureDevMode: true,
		PingInterval:    5 * time.Second,
		ReadTimeout:     20 * time.Second,
		MaxMessageSize:  4096,
	}

	tc := live.TransportConfig()
	assert.Equal(t, 5*time.Second, tc.PingInterval)
	assert.Equal(t, 20*time.Second, tc.ReadTimeout)
	assert.Equal(t, int64(4096), tc.MaxMessageSize)
	assert.Positive(t, tc.SendBufferSize)

	assert.Nil(t, live.EventLimiter())
	live.EventsPerSecond, live.EventBurst = 5, 1
	events := live.EventLimiter()
	require.NotNil(t, events)
	assert.True(t, events.Allow("socket"))
	assert.False(t, events.Allow("socket"))

	ws := live.WebSocketConfig()
	assert.Equal(t, live.AllowedOrigins, ws.AllowedOrigins)
	assert.True(t, ws.InsecureDevMode)
}
