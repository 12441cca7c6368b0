package watch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Change describes a transition of the now-playing track. Previous.Track
// is nil when playback started and Current.Track is nil when it stopped.
type Change struct {
	Previous Playing
	Current  Playing
}

// Started reports whether playback began from silence
func (c Change) Started() bool {
	return c.Previous.Track == nil && c.Current.Track != nil
}

// Stopped reports whether playback ended
func (c Change) Stopped() bool {
	return c.Current.Track == nil
}

// Watcher feeds poll updates into a State and reports changes
type Watcher struct {
	poller   *Poller
	state    *State
	onChange func(Change)
	now      func() time.Time
	logger   zerolog.Logger
}

// NewWatcher creates a Watcher. onChange is called from the watcher's
// goroutine for every change.
func NewWatcher(poller *Poller, state *State, onChange func(Change), logger zerolog.Logger) *Watcher {
	return &Watcher{
		poller:   poller,
		state:    state,
		onChange: onChange,
		now:      time.Now,
		logger:   logger.With().Str("component", "watcher").Logger(),
	}
}

// Run polls until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info().Msg("Starting watcher")

	var wg sync.WaitGroup
	updates := make(chan Update, 10)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := w.poller.Run(ctx, updates); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Error().Err(err).Msg("Poller error")
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		w.handleUpdates(ctx, updates)
	}()

	wg.Wait()

	w.logger.Info().Msg("Watcher stopped")
	return nil
}

func (w *Watcher) handleUpdates(ctx context.Context, updates <-chan Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case update := <-updates:
			if update.Err != nil {
				// Keep the last known state; a failed poll is not a stop
				w.logger.Warn().Err(update.Err).Msg("Poll failed")
				continue
			}
			if err := w.handle(update); err != nil {
				w.logger.Error().Err(err).Msg("Failed to handle update")
			}
		}
	}
}

func (w *Watcher) handle(update Update) error {
	prev, changed, err := w.state.Set(update.Track, w.now())
	if !changed {
		return err
	}

	change := Change{Previous: prev, Current: w.state.Get()}
	if change.Stopped() {
		w.logger.Info().Msg("Playback stopped")
	} else {
		w.logger.Info().
			Str("track", update.Track.Name).
			Str("artist", update.Track.Artist.Name).
			Msg("Track changed")
	}

	if w.onChange != nil {
		w.onChange(change)
	}
	return err
}
