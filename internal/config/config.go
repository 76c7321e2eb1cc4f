package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database      DatabaseConfig
	Media         MediaConfig
	Server        ServerConfig
	Transcription TranscriptionConfig
	UI            UIConfig
	Log           LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// MediaConfig holds blob store and signed URL settings.
type MediaConfig struct {
	Path    string
	BaseURL string        `mapstructure:"base_url"`
	URLTTL  time.Duration `mapstructure:"url_ttl"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr           string
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
}

// TranscriptionConfig holds speech-to-text provider settings.
type TranscriptionConfig struct {
	Provider  string
	Model     string
	APIKeyEnv string `mapstructure:"api_key_env"`
	APIKey    string `mapstructure:"api_key"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat    string        `mapstructure:"date_format"`
	SyncHideDelay time.Duration `mapstructure:"sync_hide_delay"`
	SyncTimeout   time.Duration `mapstructure:"sync_timeout"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level       string
	Development bool
	File        string
}

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "fitcoach")
}

// Load reads configuration from file and env. Env var overrides use prefix FITCOACH_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(dataDir(), "fitcoach.db"))
	v.SetDefault("media.path", filepath.Join(dataDir(), "media.db"))
	v.SetDefault("media.base_url", "")
	v.SetDefault("media.url_ttl", 15*time.Minute)
	v.SetDefault("server.addr", "127.0.0.1:8787")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 90*time.Second)
	v.SetDefault("server.max_upload_bytes", int64(25<<20))
	v.SetDefault("transcription.provider", "gemini")
	v.SetDefault("transcription.model", "gemini-2.5-flash")
	v.SetDefault("transcription.api_key_env", "GEMINI_API_KEY")
	v.SetDefault("transcription.api_key", "")
	v.SetDefault("ui.date_format", "Mon 02 Jan")
	v.SetDefault("ui.sync_hide_delay", 600*time.Millisecond)
	v.SetDefault("ui.sync_timeout", 15*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("log.file", filepath.Join(dataDir(), "fitcoach.log"))

	v.SetConfigType("toml")

	cfgPath := os.Getenv("FITCOACH_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "fitcoach"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("FITCOACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// a missing file is fine; a broken one is not
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
// The transcription API key is written in plain text; prefer the env var or keyring.
func Save(cfg Config) error {
	path := os.Getenv("FITCOACH_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "fitcoach", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("media.path", cfg.Media.Path)
	v.Set("media.base_url", cfg.Media.BaseURL)
	v.Set("media.url_ttl", cfg.Media.URLTTL.String())
	v.Set("server.addr", cfg.Server.Addr)
	v.Set("server.read_timeout", cfg.Server.ReadTimeout.String())
	v.Set("server.write_timeout", cfg.Server.WriteTimeout.String())
	v.Set("server.max_upload_bytes", cfg.Server.MaxUploadBytes)
	v.Set("transcription.provider", cfg.Transcription.Provider)
	v.Set("transcription.model", cfg.Transcription.Model)
	v.Set("transcription.api_key_env", cfg.Transcription.APIKeyEnv)
	v.Set("transcription.api_key", cfg.Transcription.APIKey)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.sync_hide_delay", cfg.UI.SyncHideDelay.String())
	v.Set("ui.sync_timeout", cfg.UI.SyncTimeout.String())
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.development", cfg.Log.Development)
	v.Set("log.file", cfg.Log.File)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
