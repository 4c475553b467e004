package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Configuration provides type-safe access to player settings
type Configuration struct {
	viper *viper.Viper
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("media.url", "")
	v.SetDefault("media.type", "audio/mpeg")
	v.SetDefault("transcript.url", "")
	v.SetDefault("transcript.fetch_timeout_seconds", 15)
	v.SetDefault("transcript.max_retries", 3)
	v.SetDefault("transcript.base_backoff_ms", 500)
	v.SetDefault("clock.tick_interval_ms", 250)
	v.SetDefault("log.level", "info")
}

// NewConfiguration creates a new Configuration instance with default settings
func NewConfiguration() *Configuration {
	v := viper.New()
	setDefaults(v)
	return &Configuration{viper: v}
}

// NewConfigurationFromFile creates a Configuration instance from a config file
func NewConfigurationFromFile(configFile string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	return &Configuration{viper: v}, nil
}

// NewConfigurationFromEnv creates a Configuration instance that reads from environment variables
func NewConfigurationFromEnv() (*Configuration, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("PLAYER")
	v.AutomaticEnv()

	v.BindEnv("media.url", "MEDIA_URL")
	v.BindEnv("media.type", "MEDIA_TYPE")
	v.BindEnv("transcript.url", "TRANSCRIPT_URL")
	v.BindEnv("transcript.fetch_timeout_seconds", "TRANSCRIPT_FETCH_TIMEOUT_SECONDS")
	v.BindEnv("transcript.max_retries", "TRANSCRIPT_MAX_RETRIES")
	v.BindEnv("transcript.base_backoff_ms", "TRANSCRIPT_BASE_BACKOFF_MS")
	v.BindEnv("clock.tick_interval_ms", "CLOCK_TICK_INTERVAL_MS")
	v.BindEnv("log.level", "LOG_LEVEL")

	return &Configuration{viper: v}, nil
}

// GetMediaURL returns the configured audio source location
func (c *Configuration) GetMediaURL() string {
	return c.viper.GetString("media.url")
}

// GetMediaType returns the configured media MIME type
func (c *Configuration) GetMediaType() string {
	return c.viper.GetString("media.type")
}

// GetTranscriptURL returns the configured transcript document location
func (c *Configuration) GetTranscriptURL() string {
	return c.viper.GetString("transcript.url")
}

// GetFetchTimeout returns the overall transcript fetch timeout
func (c *Configuration) GetFetchTimeout() time.Duration {
	return time.Duration(c.viper.GetInt("transcript.fetch_timeout_seconds")) * time.Second
}

// GetMaxRetries returns the maximum number of transcript fetch attempts
func (c *Configuration) GetMaxRetries() int {
	return c.viper.GetInt("transcript.max_retries")
}

// GetBaseBackoffMS returns the base backoff between fetch retries
func (c *Configuration) GetBaseBackoffMS() int {
	return c.viper.GetInt("transcript.base_backoff_ms")
}

// GetTickInterval returns the built-in playback clock tick interval
func (c *Configuration) GetTickInterval() time.Duration {
	return time.Duration(c.viper.GetInt("clock.tick_interval_ms")) * time.Millisecond
}

// GetLogLevel returns the configured logging level
func (c *Configuration) GetLogLevel() string {
	return c.viper.GetString("log.level")
}
