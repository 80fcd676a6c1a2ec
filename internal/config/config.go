package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultMaxFileSizeMB          = 50
	DefaultMaxConcurrentDownloads = 3
	DefaultDownloadTimeout        = 10 * time.Minute
	DefaultProbeTimeout           = 30 * time.Second
	DefaultListenAddr             = ":5000"
	DefaultTempPath               = "temp"
)

type Config struct {
	BotToken   string
	PublicURL  string
	TempPath   string
	Lang       string
	LogLevel   string
	ListenAddr string
	YTDLPPath  string

	DownloadSettings DownloadConfig
}

type DownloadConfig struct {
	MaxFileSize            int64
	MaxConcurrentDownloads int
	DownloadTimeout        time.Duration
	ProbeTimeout           time.Duration
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// NewConfig loads the configuration from the environment. A local .env file,
// when present, is loaded first; real environment variables win over it.
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration overrides from .env")
	}

	const mb = 1024 * 1024
	config := &Config{
		BotToken:   getEnv("BOT_TOKEN", ""),
		PublicURL:  strings.TrimSuffix(getEnv("PUBLIC_URL", ""), "/"),
		TempPath:   getEnv("TEMP_PATH", DefaultTempPath),
		Lang:       getEnv("LANG", "en"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		ListenAddr: getEnv("LISTEN_ADDR", DefaultListenAddr),
		YTDLPPath:  getEnv("YTDLP_PATH", "yt-dlp"),

		DownloadSettings: DownloadConfig{
			MaxFileSize:            int64(getEnvInt("MAX_FILE_SIZE_MB", DefaultMaxFileSizeMB)) * mb,
			MaxConcurrentDownloads: getEnvInt("MAX_CONCURRENT_DOWNLOADS", DefaultMaxConcurrentDownloads),
			DownloadTimeout:        getEnvDuration("DOWNLOAD_TIMEOUT", DefaultDownloadTimeout),
			ProbeTimeout:           getEnvDuration("PROBE_TIMEOUT", DefaultProbeTimeout),
		},
	}

	if err := config.validate(); err != nil {
		log.Printf("Configuration validation failed: %v", err)
		return nil, err
	}

	log.Println("Configuration loaded successfully")
	return config, nil
}

func (c *Config) validate() error {
	if err := c.validateRequiredFields(); err != nil {
		return err
	}

	if err := c.validatePublicURL(); err != nil {
		return err
	}

	return c.validateDownloadSettings()
}

func (c *Config) validateRequiredFields() error {
	if c.BotToken == "" {
		return fmt.Errorf("missing required environment variable BOT_TOKEN")
	}
	return nil
}

func (c *Config) validatePublicURL() error {
	if c.PublicURL == "" {
		return nil
	}
	parsed, err := url.Parse(c.PublicURL)
	if err != nil {
		return fmt.Errorf("PUBLIC_URL is not a valid URL: %w", err)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return fmt.Errorf("PUBLIC_URL must use http or https, got %q", parsed.Scheme)
	}
	return nil
}

func (c *Config) validateDownloadSettings() error {
	if c.DownloadSettings.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be positive")
	}

	if c.DownloadSettings.MaxConcurrentDownloads <= 0 {
		return fmt.Errorf("max concurrent downloads must be positive")
	}

	if c.DownloadSettings.DownloadTimeout < 0 {
		return fmt.Errorf("download timeout cannot be negative")
	}

	return nil
}

func (c *Config) GetDownloadSettings() DownloadConfig {
	return c.DownloadSettings
}
