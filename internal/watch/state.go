package watch

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/jfmyers9/lastfm-go/pkg/lastfm"
)

// Playing is the track a user is listening to and when it was first seen
type Playing struct {
	Track *lastfm.RecentTrack `json:"track,omitempty"` // nil if nothing is playing
	Since time.Time           `json:"since"`
}

// State tracks the current now-playing track with thread-safe access and
// optional persistence, so a restarted watcher does not announce the
// same track twice
type State struct {
	mu       sync.RWMutex
	current  Playing
	filePath string
}

// NewState creates a new State instance
// If filePath is provided, attempts to restore state from disk
func NewState(filePath string) (*State, error) {
	s := &State{
		filePath: filePath,
	}

	// Try to restore state from disk if file exists
	if filePath != "" {
		if err := s.restore(); err != nil && !os.IsNotExist(err) {
			// The returned State is still usable, just empty; callers
			// decide whether a corrupt file is fatal
			return s, err
		}
	}

	return s, nil
}

// Set records track as the one playing now and returns the previous
// state. changed is false when track is the same one already recorded.
//
// Same-track rule:
//   - Two tracks are the same when name, artist and album all match.
//     Last.fm sends no play ID for a now-playing track, and its URL and
//     images can differ between polls of the same play.
//   - nil followed by nil is not a change (still nothing playing).
//   - Since is kept across polls of the same track, so it records when
//     the track was first seen rather than the latest poll.
//   - Playing the same track twice in a row looks like one long play.
//     The watcher cannot tell a repeat from a long track.
//
// The new state is persisted before returning; a persistence error is
// returned alongside changed=true since the in-memory state did change.
func (s *State) Set(track *lastfm.RecentTrack, now time.Time) (prev Playing, changed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev = s.current

	// Same track (or still silent): leave Since untouched
	if isSameTrack(prev.Track, track) || (prev.Track == nil && track == nil) {
		return prev, false, nil
	}

	// Track changed or playback started/stopped - reset state
	s.current = Playing{Track: track}
	if track != nil {
		s.current.Since = now
	}
	return prev, true, s.persist()
}

// Get returns a copy of the current state
func (s *State) Get() Playing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Reset clears the current state
func (s *State) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = Playing{}
	return s.persist()
}

// persist saves the current state to disk
// Must be called with lock held
func (s *State) persist() error {
	if s.filePath == "" {
		return nil
	}

	data, err := json.MarshalIndent(s.current, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.filePath), 0755); err != nil {
		return err
	}

	// Write atomically via temp file + rename
	tmpPath := s.filePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}

	return os.Rename(tmpPath, s.filePath)
}

// restore loads state saved by persist. A missing file is reported as
// os.ErrNotExist so NewState can start fresh.
func (s *State) restore() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	var p Playing
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = p

	return nil
}

// isSameTrack compares two tracks by name, artist and album
// Either track being nil means they are not the same
func isSameTrack(t1, t2 *lastfm.RecentTrack) bool {
	if t1 == nil || t2 == nil {
		return false
	}
	return t1.Name == t2.Name &&
		t1.Artist.Name == t2.Artist.Name &&
		t1.Album.Name == t2.Album.Name
}
