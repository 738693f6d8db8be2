package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrMissingToken = errors.New("discord token is required")

type Config struct {
	Env   string      `yaml:"env"`
	HTTP  HTTPConfig  `yaml:"http"`
	Log   LogConfig   `yaml:"log"`
	Bot   BotConfig   `yaml:"bot"`
	Guild GuildConfig `yaml:"guild"`
	Links LinksConfig `yaml:"links"`
}

type HTTPConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// BotConfig configures the gateway client. CommandGuildID scopes command
// registration to one guild for testing; empty registers globally so users can
// register before joining.
type BotConfig struct {
	Token           string `yaml:"token"`
	RegisterCommand string `yaml:"register_command"`
	CommandGuildID  string `yaml:"command_guild_id"`
}

// GuildConfig holds the platform identifiers the bot acts on. An empty ID
// means joins from every guild are handled.
type GuildConfig struct {
	ID               string `yaml:"id"`
	RoleID           string `yaml:"role_id"`
	RoleLabel        string `yaml:"role_label"`
	LogChannelID     string `yaml:"log_channel_id"`
	WelcomeChannelID string `yaml:"welcome_channel_id"`
}

type LinksConfig struct {
	Invite       string `yaml:"invite"`
	WelcomeVideo string `yaml:"welcome_video"`
}

func Default() Config {
	return Config{
		Env: "dev",
		HTTP: HTTPConfig{
			Addr:         ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
		Log: LogConfig{Level: "info"},
		Bot: BotConfig{
			RegisterCommand: "wmi_register",
		},
		Guild: GuildConfig{
			RoleLabel: "MS1 Year 1 Student",
		},
	}
}

func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromYAML(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}

	if strings.TrimSpace(cfg.Guild.WelcomeChannelID) == "" {
		cfg.Guild.WelcomeChannelID = cfg.Guild.LogChannelID
	}

	if strings.TrimSpace(cfg.Bot.Token) == "" {
		return Config{}, ErrMissingToken
	}

	return cfg, nil
}

func loadFromYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("unmarshal config yaml: %w", err)
	}

	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Env = v
	}

	// PORT is what hosting platforms inject; HTTP_ADDR wins when both are set.
	if err := overridePort("PORT", &cfg.HTTP.Addr); err != nil {
		return err
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if err := overrideDuration("HTTP_READ_TIMEOUT", &cfg.HTTP.ReadTimeout); err != nil {
		return err
	}
	if err := overrideDuration("HTTP_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout); err != nil {
		return err
	}
	if err := overrideDuration("HTTP_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout); err != nil {
		return err
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	overrideString("DISCORD_TOKEN", &cfg.Bot.Token)
	overrideString("REGISTER_COMMAND", &cfg.Bot.RegisterCommand)
	overrideString("COMMAND_GUILD_ID", &cfg.Bot.CommandGuildID)

	overrideString("GUILD_ID", &cfg.Guild.ID)
	overrideString("ROLE_ID", &cfg.Guild.RoleID)
	overrideString("ROLE_LABEL", &cfg.Guild.RoleLabel)
	overrideString("LOG_CHANNEL_ID", &cfg.Guild.LogChannelID)
	overrideString("WELCOME_CHANNEL_ID", &cfg.Guild.WelcomeChannelID)

	overrideString("INVITE_LINK", &cfg.Links.Invite)
	overrideString("WELCOME_VIDEO_URL", &cfg.Links.WelcomeVideo)

	return nil
}

func overrideString(key string, target *string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*target = v
	}
}

func overridePort(key string, target *string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	port, err := strconv.Atoi(v)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("parse %s port: invalid value %q", key, v)
	}
	*target = ":" + strconv.Itoa(port)
	return nil
}

func overrideDuration(key string, target *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("parse %s duration: %w", key, err)
	}
	*target = d
	return nil
}
