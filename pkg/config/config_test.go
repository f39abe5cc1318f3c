package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/frame"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, "127.0.0.1:8888", c.TCPAddr)
	assert.Empty(t, c.Algorithm)
	assert.Equal(t, "info", c.Logging.Level)
	assert.NoError(t, c.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	c, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoad_FromYAMLFile(t *testing.T) {
	want := Default()
	want.TCPAddr = "0.0.0.0:9999"
	want.Algorithm = "hamming"
	want.IdleTimeout = 5 * time.Second
	want.Logging.Level = "debug"

	data, err := yaml.Marshal(map[string]any{
		"tcp_addr":     want.TCPAddr,
		"algorithm":    want.Algorithm,
		"idle_timeout": "5s",
		"logging":      map[string]any{"level": "debug"},
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "receptor.yaml")
	require.NoError(t, os.WriteFile(path, data, 0600))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	c, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, want, c)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("RECEPTOR_TCP_ADDR", "127.0.0.1:7000")
	t.Setenv("RECEPTOR_ALGORITHM", "crc32")

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	c, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", c.TCPAddr)
	assert.Equal(t, "crc32", c.Algorithm)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"bad tcp addr", func(c *Config) { c.TCPAddr = "8888" }},
		{"bad http addr", func(c *Config) { c.HTTPAddr = "localhost" }},
		{"unknown algorithm", func(c *Config) { c.Algorithm = "parity" }},
		{"negative max bits", func(c *Config) { c.MaxFrameBits = -1 }},
		{"negative timeout", func(c *Config) { c.IdleTimeout = -time.Second }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.modify(&c)
			assert.ErrorIs(t, c.Validate(), frame.ErrConfiguration)
		})
	}

	c := Default()
	c.HTTPAddr = ""
	assert.NoError(t, c.Validate(), "http_addr vacío deshabilita la API")
}
