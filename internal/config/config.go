// Package config loads the process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
)

// Config holds every value read once at process start.
type Config struct {
	// Addr is the HTTP listen address for the webhook transport.
	Addr string `mapstructure:"addr"`

	// SendURL is where outbound replies are POSTed. Empty means log-only
	// dispatch (useful in development).
	SendURL string `mapstructure:"send_url"`

	// DataDir holds menu.yaml and zones.yaml.
	DataDir string `mapstructure:"data_dir"`

	// ReceiptsDir is where PIX receipts are stored.
	ReceiptsDir string `mapstructure:"receipts_dir"`

	BotName        string `mapstructure:"bot_name"`
	TriggerPhrase  string `mapstructure:"trigger_phrase"`
	PixKey         string `mapstructure:"pix_key"`
	SupportContact string `mapstructure:"support_wa"`

	// IdleTimeout is how long a conversation may stay silent before its
	// session is reset.
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`

	// RedisAddr enables the Redis session store when non-empty; otherwise
	// sessions live in memory.
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`

	Debug bool `mapstructure:"debug"`
}

// envKeys maps mapstructure field names to environment variable names.
var envKeys = map[string]string{
	"addr":           "ADDR",
	"send_url":       "SEND_URL",
	"data_dir":       "DATA_DIR",
	"receipts_dir":   "RECEIPTS_DIR",
	"bot_name":       "BOT_NAME",
	"trigger_phrase": "TRIGGER_PHRASE",
	"pix_key":        "PIX_KEY",
	"support_wa":     "SUPPORT_WA",
	"idle_timeout":   "IDLE_TIMEOUT",
	"redis_addr":     "REDIS_ADDR",
	"redis_password": "REDIS_PASSWORD",
	"redis_db":       "REDIS_DB",
	"session_ttl":    "SESSION_TTL",
	"debug":          "DEBUG",
}

func defaults() map[string]string {
	return map[string]string{
		"addr":           ":8080",
		"data_dir":       "data",
		"receipts_dir":   "comprovantes",
		"bot_name":       "LumiFlux Bot",
		"trigger_phrase": "Olá, quero ver o LumiFlux Bot em ação!",
		"pix_key":        "pix@exemplo.com",
		"support_wa":     "5541998119767",
		"idle_timeout":   "10m",
		"redis_db":       "0",
		"session_ttl":    "0",
		"debug":          "false",
	}
}

// Load reads .env (best effort), overlays the environment on the defaults and
// decodes the result.
func Load() (*Config, error) {
	_ = godotenv.Load() // a missing .env file is fine

	values := defaults()
	for field, key := range envKeys {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			values[field] = v
		}
	}

	return decode(values)
}

func decode(values map[string]string) (*Config, error) {
	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build config decoder: %w", err)
	}
	if err := dec.Decode(values); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.TriggerPhrase == "" {
		return nil, fmt.Errorf("TRIGGER_PHRASE cannot be empty")
	}
	if cfg.IdleTimeout <= 0 {
		return nil, fmt.Errorf("IDLE_TIMEOUT must be positive, got %s", cfg.IdleTimeout)
	}

	return &cfg, nil
}
