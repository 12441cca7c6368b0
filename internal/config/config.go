package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// User queried when a command is given no user argument
	DefaultUser string

	// Output format template for the now command
	// Default: "{{.Artist}} - {{.Name}}"
	OutputFormat string

	// Fixed output width for the now command (0 = no padding)
	OutputWidth int

	// Marquee scrolling for the now command
	Marquee MarqueeConfig

	// Path to the SQLite play archive
	// Default: ~/.config/lastfm-go/archive.db
	ArchivePath string

	// Poll interval for the watch command (in seconds)
	WatchInterval int

	// Last.fm API settings
	LastFM LastFMConfig
}

// MarqueeConfig holds scrolling text settings
type MarqueeConfig struct {
	Enabled   bool
	Speed     int // Characters advanced per second
	Separator string
}

// LastFMConfig holds Last.fm specific configuration
type LastFMConfig struct {
	APIKey    string
	APISecret string
	BaseURL   string
	UserAgent string
	Timeout   int     // Seconds
	RateLimit float64 // Requests per second, 0 disables limiting
	RateBurst int
}

// TimeoutDuration returns the HTTP timeout as a time.Duration.
func (c LastFMConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	return load(getConfigDir())
}

func load(configDir string) (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Config file locations (in order of precedence)
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Set defaults
	v.SetDefault("output_format", "{{.Artist}} - {{.Name}}")
	v.SetDefault("output_width", 0)
	v.SetDefault("marquee_enabled", false)
	v.SetDefault("marquee_speed", 2)
	v.SetDefault("marquee_separator", " • ")
	v.SetDefault("archive_path", filepath.Join(configDir, "archive.db"))
	v.SetDefault("watch_interval", 15)
	v.SetDefault("lastfm.timeout", 30)
	v.SetDefault("lastfm.rate_limit", 0)
	v.SetDefault("lastfm.rate_burst", 1)

	// Read config file (optional - don't fail if missing)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Read from environment variables, e.g. LASTFM_LASTFM_API_KEY or
	// LASTFM_DEFAULT_USER
	v.SetEnvPrefix("LASTFM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Map config to struct
	cfg := &Config{
		DefaultUser:  v.GetString("default_user"),
		OutputFormat: v.GetString("output_format"),
		OutputWidth:  v.GetInt("output_width"),
		Marquee: MarqueeConfig{
			Enabled:   v.GetBool("marquee_enabled"),
			Speed:     v.GetInt("marquee_speed"),
			Separator: v.GetString("marquee_separator"),
		},
		ArchivePath:   v.GetString("archive_path"),
		WatchInterval: v.GetInt("watch_interval"),
		LastFM: LastFMConfig{
			APIKey:    v.GetString("lastfm.api_key"),
			APISecret: v.GetString("lastfm.api_secret"),
			BaseURL:   v.GetString("lastfm.base_url"),
			UserAgent: v.GetString("lastfm.user_agent"),
			Timeout:   v.GetInt("lastfm.timeout"),
			RateLimit: v.GetFloat64("lastfm.rate_limit"),
			RateBurst: v.GetInt("lastfm.rate_burst"),
		},
	}

	return cfg, nil
}

// getConfigDir returns the configuration directory path
// Creates the directory if it doesn't exist
func getConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	configDir := filepath.Join(homeDir, ".config", "lastfm-go")

	// Create config directory if it doesn't exist
	_ = os.MkdirAll(configDir, 0755)

	return configDir
}

// GetConfigDir returns the configuration directory path (public helper)
func GetConfigDir() string {
	return getConfigDir()
}

// Save writes configuration to file
func (c *Config) Save() error {
	return c.save(getConfigDir())
}

func (c *Config) save(configDir string) error {
	v := viper.New()

	// Set config file path
	configFile := filepath.Join(configDir, "config.yaml")

	// Set values in viper
	v.Set("default_user", c.DefaultUser)
	v.Set("output_format", c.OutputFormat)
	v.Set("output_width", c.OutputWidth)
	v.Set("marquee_enabled", c.Marquee.Enabled)
	v.Set("marquee_speed", c.Marquee.Speed)
	v.Set("marquee_separator", c.Marquee.Separator)
	v.Set("archive_path", c.ArchivePath)
	v.Set("watch_interval", c.WatchInterval)
	v.Set("lastfm.api_key", c.LastFM.APIKey)
	v.Set("lastfm.api_secret", c.LastFM.APISecret)
	v.Set("lastfm.base_url", c.LastFM.BaseURL)
	v.Set("lastfm.user_agent", c.LastFM.UserAgent)
	v.Set("lastfm.timeout", c.LastFM.Timeout)
	v.Set("lastfm.rate_limit", c.LastFM.RateLimit)
	v.Set("lastfm.rate_burst", c.LastFM.RateBurst)

	// Write to file
	return v.WriteConfigAs(configFile)
}
