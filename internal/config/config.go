// Package config loads service settings from configs/config.yml and
// LED_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"controlling_led/internal/models"

	"github.com/spf13/viper"
)

// LED drivers.
const (
	DriverMemory = "memory"
	DriverGPIO   = "gpio"
)

const envPrefix = "LED"

type Config struct {
	Port     int    `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`
	HostName string `mapstructure:"host_name"`

	MDNS    MDNSConfig    `mapstructure:"mdns"`
	LED     LEDConfig     `mapstructure:"led"`
	DB      DBConfig      `mapstructure:"db"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	WS      WSConfig      `mapstructure:"ws"`
	Network NetworkConfig `mapstructure:"network"`
}

type MDNSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Instance string `mapstructure:"instance"`
	Service  string `mapstructure:"service"`
}

type LEDConfig struct {
	Driver    string       `mapstructure:"driver"`
	Pin       int          `mapstructure:"pin"`
	Initial   models.OnOff `mapstructure:"initial"`
	ActiveLow bool         `mapstructure:"active_low"`
}

type DBConfig struct {
	// Path of the event log database; empty keeps it in memory.
	Path string `mapstructure:"path"`
}

type HTTPConfig struct {
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
}

type WSConfig struct {
	WriteWait       time.Duration `mapstructure:"write_wait"`
	PongWait        time.Duration `mapstructure:"pong_wait"`
	MaxMessageBytes int64         `mapstructure:"max_message_bytes"`
}

type NetworkConfig struct {
	Wait          bool          `mapstructure:"wait"`
	MaxRetries    int           `mapstructure:"max_retries"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("host_name", "ledcontrol")

	v.SetDefault("mdns.enabled", true)
	v.SetDefault("mdns.instance", "LED control")
	v.SetDefault("mdns.service", "_http._tcp")

	v.SetDefault("led.driver", DriverMemory)
	v.SetDefault("led.pin", 2)
	v.SetDefault("led.initial", string(models.Off))
	v.SetDefault("led.active_low", false)

	v.SetDefault("db.path", "")

	v.SetDefault("http.max_body_bytes", 1<<12)
	v.SetDefault("http.read_timeout", 10*time.Second)

	v.SetDefault("ws.write_wait", 10*time.Second)
	v.SetDefault("ws.pong_wait", 60*time.Second)
	v.SetDefault("ws.max_message_bytes", 1<<12)

	v.SetDefault("network.wait", false)
	v.SetDefault("network.max_retries", 5)
	v.SetDefault("network.retry_interval", 2*time.Second)
}

// Load reads path, or configs/config.yml when path is empty. A missing
// default file is not an error; a missing explicit file is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("configs") // configs/config.yml
		v.SetConfigName("config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	switch c.LED.Driver {
	case DriverMemory, DriverGPIO:
	default:
		return fmt.Errorf("unknown led.driver %q (want %s or %s)", c.LED.Driver, DriverMemory, DriverGPIO)
	}
	if !c.LED.Initial.Valid() {
		return fmt.Errorf("invalid led.initial %q (want on or off)", c.LED.Initial)
	}
	if c.LED.Pin < 0 {
		return fmt.Errorf("invalid led.pin %d", c.LED.Pin)
	}
	if c.HTTP.MaxBodyBytes <= 0 || c.WS.MaxMessageBytes <= 0 {
		return errors.New("http.max_body_bytes and ws.max_message_bytes must be positive")
	}
	if c.Network.MaxRetries < 0 {
		return fmt.Errorf("invalid network.max_retries %d", c.Network.MaxRetries)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
