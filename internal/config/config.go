// Package config loads process settings from configs/config.yml and the
// environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	envPrefix = "TASKER"

	// DefaultSessionSecret is the development fallback; main warns when it is in use.
	DefaultSessionSecret = "dev_secret_key"
)

type Config struct {
	Port    string        `mapstructure:"port" validate:"required"`
	DB      DBConfig      `mapstructure:"db"`
	Log     LogConfig     `mapstructure:"log"`
	Session SessionConfig `mapstructure:"session"`
	Server  ServerConfig  `mapstructure:"server"`
}

type DBConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

type SessionConfig struct {
	Secret string        `mapstructure:"secret" validate:"required"`
	TTL    time.Duration `mapstructure:"ttl" validate:"gt=0"`
	Secure bool          `mapstructure:"secure"`
}

type ServerConfig struct {
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// UsesDefaultSecret reports whether sessions are signed with the development key.
func (c *Config) UsesDefaultSecret() bool {
	return c.Session.Secret == DefaultSessionSecret
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("db.path", "tasker.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("session.secret", DefaultSessionSecret)
	v.SetDefault("session.ttl", 14*24*time.Hour)
	v.SetDefault("session.secure", false)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
}

// Load reads configuration. dir is searched for config.yml; a missing file
// is not an error.
func Load(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir != "" {
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// SECRET_KEY is the conventional name; TASKER_SESSION_SECRET also works.
	if err := v.BindEnv("session.secret", "SECRET_KEY", envPrefix+"_SESSION_SECRET"); err != nil {
		return nil, fmt.Errorf("bind SECRET_KEY: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}
