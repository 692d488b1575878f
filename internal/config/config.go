package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dkeye/rtcroom/internal/logging"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const EnvPrefix = "RTCROOM"

type Config struct {
	Room    RoomConfig     `mapstructure:"room"`
	Service ServiceConfig  `mapstructure:"service"`
	Console ConsoleConfig  `mapstructure:"console"`
	ChatLog ChatLogConfig  `mapstructure:"chat_log"`
	Log     logging.Config `mapstructure:"log"`
	Status  StatusConfig   `mapstructure:"status"`
	Redis   RedisConfig    `mapstructure:"redis"`
}

type RoomConfig struct {
	Name     string `mapstructure:"name" validate:"required,max=64"`
	Nick     string `mapstructure:"nick" validate:"max=32"`
	Account  string `mapstructure:"account"`
	Password string `mapstructure:"password"`
}

type ServiceConfig struct {
	Endpoint         string        `mapstructure:"endpoint" validate:"required,url"`
	Origin           string        `mapstructure:"origin" validate:"required,url"`
	APIBase          string        `mapstructure:"api_base" validate:"required,url"`
	FallbackVersion  string        `mapstructure:"fallback_version" validate:"required"`
	UserAgentPrefix  string        `mapstructure:"user_agent_prefix"`
	HandshakeTimeout time.Duration `mapstructure:"handshake_timeout"`
	HTTPTimeout      time.Duration `mapstructure:"http_timeout"`
	ReadLimit        int64         `mapstructure:"read_limit" validate:"gte=0"`
	WriteTimeout     time.Duration `mapstructure:"write_timeout"`
	// PingTimeout of 0 never drops a quiet connection.
	PingTimeout    time.Duration `mapstructure:"ping_timeout" validate:"gte=0"`
	Throttle       time.Duration `mapstructure:"throttle"`
	ProfileTimeout time.Duration `mapstructure:"profile_timeout"`
}

type ConsoleConfig struct {
	Use24Hour bool `mapstructure:"use_24hour"`
	Colors    bool `mapstructure:"colors"`
	Debug     bool `mapstructure:"debug"`
}

type ChatLogConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir" validate:"required_if=Enabled true"`
}

type StatusConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Mode    string `mapstructure:"mode" validate:"oneof=debug release test"`
	Port    int    `mapstructure:"port" validate:"min=0,max=65535"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Address  string        `mapstructure:"address" validate:"required_if=Enabled true"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

var validate = validator.New()

// Load reads config/config.<CONFIG_ENV>.yaml (dev by default), then RTCROOM_*
// environment overrides.
func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config %s: %w", fileName, err)
		}
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	log.Info().Str("module", "config").
		Str("room", cfg.Room.Name).
		Str("endpoint", cfg.Service.Endpoint).
		Bool("chat_log", cfg.ChatLog.Enabled).
		Bool("status", cfg.Status.Enabled).
		Msg("config ready")
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("room.name", "")
	v.SetDefault("room.nick", "")
	v.SetDefault("room.account", "")
	v.SetDefault("room.password", "")

	v.SetDefault("service.endpoint", "wss://wss.tinychat.com")
	v.SetDefault("service.origin", "https://tinychat.com")
	v.SetDefault("service.api_base", "https://tinychat.com")
	v.SetDefault("service.fallback_version", "2.0.10-296")
	v.SetDefault("service.user_agent_prefix", "tinychat-client-webrtc-undefined_win32-")
	v.SetDefault("service.handshake_timeout", "10s")
	v.SetDefault("service.http_timeout", "10s")
	v.SetDefault("service.read_limit", 1<<20)
	v.SetDefault("service.write_timeout", "10s")
	v.SetDefault("service.ping_timeout", "0s")
	v.SetDefault("service.throttle", "1s")
	v.SetDefault("service.profile_timeout", "5s")

	v.SetDefault("console.use_24hour", true)
	v.SetDefault("console.colors", true)
	v.SetDefault("console.debug", false)

	v.SetDefault("chat_log.enabled", false)
	v.SetDefault("chat_log.dir", "rooms")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", true)

	v.SetDefault("status.enabled", false)
	v.SetDefault("status.mode", "release")
	v.SetDefault("status.port", 8081)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "rtcroom:profile")
	v.SetDefault("redis.ttl", "1h")
}
