package config

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	// WebServer Configuration
	WebServerPort int `mapstructure:"WEBSERVER_PORT" validate:"gt=0,lte=65535"`

	// Managed download directory. Created at startup and threaded explicitly
	// into the orchestrator and the sweeper.
	DownloadDir string `mapstructure:"DOWNLOAD_DIR" validate:"required"`

	// Extraction tool configuration
	YtdlpPath          string `mapstructure:"YTDLP_PATH"`
	YtdlpExtractorArgs string `mapstructure:"YTDLP_EXTRACTOR_ARGS"`

	// Retention Configuration
	RetentionHours        int `mapstructure:"RETENTION_HOURS" validate:"gt=0"`
	RetentionSweepMinutes int `mapstructure:"RETENTION_SWEEP_MINUTES" validate:"gte=0"`
}

// RetentionMaxAge returns the sweep age threshold.
func (c *Config) RetentionMaxAge() time.Duration {
	return time.Duration(c.RetentionHours) * time.Hour
}

// SweepInterval returns the periodic sweep cadence; 0 means startup-only.
func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.RetentionSweepMinutes) * time.Minute
}

// use reflect to bind environment variables based on mapstructure tags
func bindEnv(c Config) {
	val := reflect.ValueOf(c)
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag != "" {
			viper.BindEnv(tag)
		}
	}
}

func LoadConfig(ctx context.Context) (*Config, error) {
	bindEnv(Config{})
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("WEBSERVER_PORT", 8090)
	viper.SetDefault("DOWNLOAD_DIR", "downloads")
	viper.SetDefault("YTDLP_PATH", "yt-dlp")
	viper.SetDefault("YTDLP_EXTRACTOR_ARGS", "x:skip_hls_ts")
	viper.SetDefault("RETENTION_HOURS", 24)
	viper.SetDefault("RETENTION_SWEEP_MINUTES", 0)

	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	slog.Info("Loaded configuration", "config", cfg)

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
