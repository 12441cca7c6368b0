package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/jfmyers9/lastfm-go/pkg/lastfm"
	"github.com/rs/zerolog"
)

// DefaultPageSize is the largest page user.getRecentTracks serves.
const DefaultPageSize = 200

// Syncer copies a user's listening history into a Store
type Syncer struct {
	users    *lastfm.UserService
	store    *Store
	pageSize int
	logger   zerolog.Logger
}

// NewSyncer creates a Syncer
func NewSyncer(users *lastfm.UserService, store *Store, logger zerolog.Logger) *Syncer {
	return &Syncer{
		users:    users,
		store:    store,
		pageSize: DefaultPageSize,
		logger:   logger.With().Str("component", "archive").Logger(),
	}
}

// Sync fetches every play newer than the newest archived one and returns
// how many were added. The track currently playing is skipped.
func (s *Syncer) Sync(ctx context.Context, user string) (int, error) {
	opts := &lastfm.RecentTracksOptions{
		PageOptions: lastfm.PageOptions{Limit: s.pageSize, Page: 1},
	}

	latest, ok, err := s.store.Latest(ctx)
	if err != nil {
		return 0, err
	}
	if ok {
		opts.From = latest.Add(time.Second)
	}

	s.logger.Info().
		Str("user", user).
		Time("from", opts.From).
		Msg("Starting sync")

	added := 0
	for {
		page, err := s.users.GetRecentTracks(ctx, user, opts)
		if err != nil {
			return added, fmt.Errorf("failed to fetch page %d: %w", opts.Page, err)
		}

		plays := make([]Play, 0, page.Len())
		for _, t := range page.Items {
			if p, ok := PlayFromTrack(t); ok {
				plays = append(plays, p)
			}
		}

		n, err := s.store.Save(ctx, plays)
		if err != nil {
			return added, err
		}
		added += n

		s.logger.Debug().
			Int("page", page.Info.Page).
			Int("total_pages", page.Info.TotalPages).
			Int("added", n).
			Msg("Synced page")

		if page.Len() == 0 || !page.HasNext() {
			break
		}
		opts.Page++
	}

	s.logger.Info().
		Str("user", user).
		Int("added", added).
		Msg("Sync complete")

	return added, nil
}
