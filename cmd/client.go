package cmd

import (
	"errors"
	"fmt"

	"github.com/jfmyers9/lastfm-go/internal/config"
	"github.com/jfmyers9/lastfm-go/pkg/lastfm"
	"golang.org/x/time/rate"
)

var errNoAPIKey = errors.New("no API key configured, run 'lastfm config set-key' or set LASTFM_LASTFM_API_KEY")

// loadClient loads the configuration and builds an API client from it.
func loadClient() (*config.Config, *lastfm.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	client, err := newClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, client, nil
}

func newClient(cfg *config.Config) (*lastfm.Client, error) {
	if cfg.LastFM.APIKey == "" {
		return nil, errNoAPIKey
	}

	clientLogger := logger
	client, err := lastfm.NewClient(lastfm.Config{
		APIKey:    cfg.LastFM.APIKey,
		APISecret: cfg.LastFM.APISecret,
		BaseURL:   cfg.LastFM.BaseURL,
		UserAgent: cfg.LastFM.UserAgent,
		Timeout:   cfg.LastFM.TimeoutDuration(),
		Logger:    &clientLogger,
		RateLimit: rate.Limit(cfg.LastFM.RateLimit),
		RateBurst: cfg.LastFM.RateBurst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

// resolveUser returns the user named on the command line, falling back to
// the configured default user.
func resolveUser(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if cfg.DefaultUser != "" {
		return cfg.DefaultUser, nil
	}
	return "", errors.New("no user given and no default_user configured")
}
