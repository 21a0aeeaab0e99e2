package config

import (
	"fmt"
	"os"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"gopkg.in/yaml.v3"
)

// Config holds everything read from the YAML file at startup.
type Config struct {
	Bot      BotConfig      `yaml:"bot"`
	Postgres PostgresConfig `yaml:"postgres"`
	Osu      OsuConfig      `yaml:"osu"`
	Server   ServerConfig   `yaml:"server"`
	Sentry   SentryConfig   `yaml:"sentry"`
	Updater  UpdaterConfig  `yaml:"updater"`
}

type BotConfig struct {
	Token    string       `yaml:"token"`
	OwnerID  snowflake.ID `yaml:"owner_id"`
	Prefix   string       `yaml:"prefix"`
	Presence string       `yaml:"presence"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type OsuConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURI  string `yaml:"redirect_uri"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type SentryConfig struct {
	DSN         string `yaml:"dsn"`
	Environment string `yaml:"environment"`
}

type UpdaterConfig struct {
	MemberDelay time.Duration `yaml:"member_delay"`
}

// Load reads the configuration file once at process start. Secrets may be
// overridden through the environment so the file can be committed without
// them.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if v := os.Getenv("BOT_TOKEN"); v != "" {
		cfg.Bot.Token = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("OSU_CLIENT_ID"); v != "" {
		cfg.Osu.ClientID = v
	}
	if v := os.Getenv("OSU_CLIENT_SECRET"); v != "" {
		cfg.Osu.ClientSecret = v
	}
	if v := os.Getenv("SENTRY_DSN"); v != "" {
		cfg.Sentry.DSN = v
	}

	if cfg.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}
	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	if cfg.Bot.Prefix == "" {
		cfg.Bot.Prefix = "!"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Updater.MemberDelay <= 0 {
		cfg.Updater.MemberDelay = 2 * time.Second
	}
	return &cfg, nil
}
