package config

import (
	"fmt"
	"net"
	"time"

	"github.com/spf13/viper"

	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/frame"
	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/transport"
)

// EnvPrefix de las variables de entorno (RECEPTOR_TCP_ADDR, ...).
const EnvPrefix = "receptor"

// Config del receptor. Las claves coinciden con las del archivo receptor.yaml.
type Config struct {
	TCPAddr   string `mapstructure:"tcp_addr" yaml:"tcp_addr"`
	HTTPAddr  string `mapstructure:"http_addr" yaml:"http_addr"` // API, WebSocket y métricas; vacío = deshabilitado
	Algorithm string `mapstructure:"algorithm" yaml:"algorithm"` // vacío = preguntar al usuario

	MaxFrameBits int           `mapstructure:"max_frame_bits" yaml:"max_frame_bits"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`

	Logging Logging `mapstructure:"logging" yaml:"logging"`
}

type Logging struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// Default devuelve la configuración por defecto: el receptor escucha en el
// puerto 8888 de loopback.
func Default() Config {
	return Config{
		TCPAddr:      "127.0.0.1:8888",
		HTTPAddr:     "127.0.0.1:8080",
		MaxFrameBits: transport.DefaultMaxBits,
		IdleTimeout:  30 * time.Second,
		Logging:      Logging{Level: "info"},
	}
}

// SetDefaults registra los valores de Default en v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("tcp_addr", d.TCPAddr)
	v.SetDefault("http_addr", d.HTTPAddr)
	v.SetDefault("algorithm", d.Algorithm)
	v.SetDefault("max_frame_bits", d.MaxFrameBits)
	v.SetDefault("idle_timeout", d.IdleTimeout)
	v.SetDefault("logging.level", d.Logging.Level)
}

// Load lee la configuración de v (flags, entorno y archivo ya enlazados)
// y la valida.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("leyendo configuración: %v: %w", err, frame.ErrConfiguration)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.TCPAddr); err != nil {
		return fmt.Errorf("tcp_addr %q inválida: %v: %w", c.TCPAddr, err, frame.ErrConfiguration)
	}
	if c.HTTPAddr != "" {
		if _, _, err := net.SplitHostPort(c.HTTPAddr); err != nil {
			return fmt.Errorf("http_addr %q inválida: %v: %w", c.HTTPAddr, err, frame.ErrConfiguration)
		}
	}
	if c.Algorithm != "" {
		if _, err := frame.NewRegistry(frame.NewCRC32Table()).Lookup(c.Algorithm); err != nil {
			return err
		}
	}
	if c.MaxFrameBits < 0 {
		return fmt.Errorf("max_frame_bits no puede ser negativo (%d): %w", c.MaxFrameBits, frame.ErrConfiguration)
	}
	if c.IdleTimeout < 0 {
		return fmt.Errorf("idle_timeout no puede ser negativo (%s): %w", c.IdleTimeout, frame.ErrConfiguration)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("nivel de log desconocido %q: %w", c.Logging.Level, frame.ErrConfiguration)
	}
	return nil
}
