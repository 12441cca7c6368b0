package watch

import (
	"context"
	"time"

	"github.com/jfmyers9/lastfm-go/pkg/lastfm"
	"github.com/rs/zerolog"
)

// Fetcher returns the track a user is listening to right now, or nil
type Fetcher interface {
	NowPlaying(ctx context.Context, user string) (*lastfm.RecentTrack, error)
}

// UserFetcher reads now-playing state from user.getRecentTracks
type UserFetcher struct {
	Users *lastfm.UserService
}

// NowPlaying fetches the newest recent track and returns it if it is
// marked as now playing
func (f UserFetcher) NowPlaying(ctx context.Context, user string) (*lastfm.RecentTrack, error) {
	page, err := f.Users.GetRecentTracks(ctx, user, &lastfm.RecentTracksOptions{
		PageOptions: lastfm.PageOptions{Limit: 1},
	})
	if err != nil {
		return nil, err
	}
	for i := range page.Items {
		if page.Items[i].NowPlaying {
			return &page.Items[i], nil
		}
	}
	return nil, nil
}

// Update represents one poll result
type Update struct {
	Track *lastfm.RecentTrack // Now playing track (nil if nothing is playing)
	Err   error               // Error from the API
}

// Poller polls a user's now-playing track at regular intervals
type Poller struct {
	fetcher  Fetcher
	user     string
	interval time.Duration
	logger   zerolog.Logger
}

// NewPoller creates a new Poller instance
func NewPoller(fetcher Fetcher, user string, interval time.Duration, logger zerolog.Logger) *Poller {
	return &Poller{
		fetcher:  fetcher,
		user:     user,
		interval: interval,
		logger:   logger.With().Str("component", "poller").Str("user", user).Logger(),
	}
}

// Run starts the polling loop and sends updates to the provided channel
// Blocks until context is cancelled
func (p *Poller) Run(ctx context.Context, updates chan<- Update) error {
	p.logger.Info().
		Dur("interval", p.interval).
		Msg("Starting poller")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Poll immediately on start
	p.poll(ctx, updates)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Msg("Poller stopped")
			return ctx.Err()
		case <-ticker.C:
			p.poll(ctx, updates)
		}
	}
}

func (p *Poller) poll(ctx context.Context, updates chan<- Update) {
	track, err := p.fetcher.NowPlaying(ctx, p.user)
	if err != nil {
		p.logger.Debug().Err(err).Msg("Error getting now playing track")
		select {
		case updates <- Update{Err: err}:
		case <-ctx.Done():
		}
		return
	}

	select {
	case updates <- Update{Track: track}:
		if track != nil {
			p.logger.Debug().
				Str("track", track.Name).
				Str("artist", track.Artist.Name).
				Msg("Poll update")
		}
	case <-ctx.Done():
	}
}
