// Package config loads runtime configuration from an optional YAML file
// and VOICESHIELD_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full runtime configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig configures zerolog output.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
}

// AuthConfig configures token issuance.
type AuthConfig struct {
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

// StorageConfig configures persistence.
type StorageConfig struct {
	DatabasePath string `mapstructure:"database_path"`
}

// UploadConfig configures the upload layer.
type UploadConfig struct {
	Dir               string   `mapstructure:"dir"`
	MaxBytes          int64    `mapstructure:"max_bytes"`
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
	// AutoAnalyze queues a background analysis for every new upload.
	AutoAnalyze bool `mapstructure:"auto_analyze"`
	// Workers and QueueSize bound the background analysis pool.
	Workers   int `mapstructure:"workers"`
	QueueSize int `mapstructure:"queue_size"`
}

// AnalysisConfig configures the detection engine. Thresholds here are
// heuristics; they are configuration precisely so they can be
// recalibrated without touching the extraction code.
type AnalysisConfig struct {
	SampleRate         int     `mapstructure:"sample_rate"`
	NFFT               int     `mapstructure:"n_fft"`
	HopLength          int     `mapstructure:"hop_length"`
	DetectionThreshold float64 `mapstructure:"detection_threshold"`
	PatternBonus       float64 `mapstructure:"pattern_bonus"`
}

// Load reads configuration. A config file is optional; defaults mirror
// the development profile.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("auth.secret", "dev-secret-change-in-production")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("storage.database_path", "database/voiceshield.db")
	v.SetDefault("upload.dir", "uploads")
	v.SetDefault("upload.max_bytes", int64(50*1024*1024))
	v.SetDefault("upload.allowed_extensions", []string{"mp3", "wav", "m4a", "ogg", "flac"})
	v.SetDefault("upload.auto_analyze", true)
	v.SetDefault("upload.workers", 2)
	v.SetDefault("upload.queue_size", 100)
	v.SetDefault("analysis.sample_rate", 22050)
	v.SetDefault("analysis.n_fft", 2048)
	v.SetDefault("analysis.hop_length", 512)
	v.SetDefault("analysis.detection_threshold", 0.6)
	v.SetDefault("analysis.pattern_bonus", 0.1)

	v.SetEnvPrefix("VOICESHIELD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}
