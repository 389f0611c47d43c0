package config

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8000"`
	UploadDir       string        `envconfig:"UPLOAD_DIR" default:"uploads"`
	ChartDir        string        `envconfig:"CHART_DIR" default:"charts"`
	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173,http://localhost:8080"`
	MaxUploadMB     int64         `envconfig:"MAX_UPLOAD_MB" default:"32"`
	ChartFontPath   string        `envconfig:"CHART_FONT_PATH"`
	ChartHTML       bool          `envconfig:"CHART_HTML" default:"true"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty       bool          `envconfig:"LOG_PRETTY" default:"false"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	FileTTL         time.Duration `envconfig:"FILE_TTL" default:"0s"`
	TgToken         string        `envconfig:"TG_TOKEN"`
}

var (
	config *Config
	once   sync.Once
	errCfg error
)

// GetConfig returns the process-wide configuration, loading it on first use.
func GetConfig() (*Config, error) {
	once.Do(func() {
		config, errCfg = Load(".env")
	})
	return config, errCfg
}

// Load reads the optional env files and then the process environment.
// Variables already present in the environment win over the files.
func Load(envFiles ...string) (*Config, error) {
	var existing []string
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return nil, fmt.Errorf("load env files: %w", err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.UploadDir == "" || c.ChartDir == "" {
		return errors.New("UPLOAD_DIR and CHART_DIR must not be empty")
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	}
	if c.FileTTL < 0 {
		return fmt.Errorf("FILE_TTL must not be negative, got %s", c.FileTTL)
	}
	return nil
}

func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// TelegramEnabled reports whether the chat front-end should start.
func (c *Config) TelegramEnabled() bool {
	return c.TgToken != ""
}
