// Package config loads settings from an optional JSON config file and
// the environment. Environment variables win over the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DBPath      string `mapstructure:"db_path"`
	LocalTZ     string `mapstructure:"local_tz"`
	PollSeconds int    `mapstructure:"scheduler_poll_seconds"`
	OpenAIKey   string `mapstructure:"openai_api_key"`
	AgentModel  string `mapstructure:"agent_model"`
	LogLevel    string `mapstructure:"log_level"`
	WebEnabled  bool   `mapstructure:"web_enabled"`
	WebAddr     string `mapstructure:"web_addr"`
}

func Default() Config {
	return Config{
		DBPath:      "todo.db",
		PollSeconds: 15,
		AgentModel:  "gpt-4o-mini",
		LogLevel:    "info",
		WebAddr:     ":8080",
	}
}

func DefaultConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "todoagent"), nil
}

// Load reads config.json from dir (missing file is fine) and overlays
// the TODO_DB_PATH, LOCAL_TZ, SCHEDULER_POLL_SECONDS, OPENAI_API_KEY,
// AGENT_MODEL and LOG_LEVEL environment variables.
func Load(dir string) (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	if dir != "" {
		v.AddConfigPath(dir)
	}

	defaults := Default()
	v.SetDefault("db_path", defaults.DBPath)
	v.SetDefault("scheduler_poll_seconds", defaults.PollSeconds)
	v.SetDefault("agent_model", defaults.AgentModel)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("web_addr", defaults.WebAddr)

	bind := func(key, env string) {
		_ = v.BindEnv(key, env)
	}
	bind("db_path", "TODO_DB_PATH")
	bind("local_tz", "LOCAL_TZ")
	bind("scheduler_poll_seconds", "SCHEDULER_POLL_SECONDS")
	bind("openai_api_key", "OPENAI_API_KEY")
	bind("agent_model", "AGENT_MODEL")
	bind("log_level", "LOG_LEVEL")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// PollInterval clamps the configured poll period to at least 5 seconds
// so a bad value cannot spin the scheduler.
func (c Config) PollInterval() time.Duration {
	secs := c.PollSeconds
	if secs < 5 {
		secs = 5
	}
	return time.Duration(secs) * time.Second
}

// Location resolves LocalTZ, falling back to the system local zone.
func (c Config) Location() (*time.Location, error) {
	if c.LocalTZ == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.LocalTZ)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.LocalTZ, err)
	}
	return loc, nil
}
