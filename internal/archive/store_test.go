package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jfmyers9/lastfm-go/pkg/lastfm"
)

// createTestStore creates an in-memory SQLite archive for testing
func createTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

func play(artist, track string, at int64) Play {
	return Play{Artist: artist, Track: track, PlayedAt: time.Unix(at, 0)}
}

func TestNewStore(t *testing.T) {
	t.Run("in-memory database", func(t *testing.T) {
		store, err := NewStore(":memory:")
		if err != nil {
			t.Fatalf("failed to create in-memory store: %v", err)
		}
		defer func() { _ = store.Close() }()
	})

	t.Run("file-based database", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "archive.db")

		store, err := NewStore(path)
		if err != nil {
			t.Fatalf("failed to create file-based store: %v", err)
		}
		if _, err := store.Save(context.Background(), []Play{play("Burial", "Archangel", 100)}); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
		_ = store.Close()

		// Reopen and verify the play survived
		store, err = NewStore(path)
		if err != nil {
			t.Fatalf("failed to reopen store: %v", err)
		}
		defer func() { _ = store.Close() }()

		count, err := store.Count(context.Background())
		if err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 play after reopen, got %d", count)
		}
	})
}

func TestStoreSave_Deduplicates(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	plays := []Play{
		play("Burial", "Archangel", 100),
		play("Burial", "Near Dark", 300),
		play("Burial", "Archangel", 100),
	}

	added, err := store.Save(ctx, plays)
	if err != nil {
		t.Fatalf("failed to save plays: %v", err)
	}
	if added != 2 {
		t.Errorf("expected 2 new plays, got %d", added)
	}

	added, err = store.Save(ctx, plays[:1])
	if err != nil {
		t.Fatalf("failed to save plays: %v", err)
	}
	if added != 0 {
		t.Errorf("expected duplicate to be skipped, got %d added", added)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("failed to count: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 plays, got %d", count)
	}
}

func TestStoreLatest(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	_, ok, err := store.Latest(ctx)
	if err != nil {
		t.Fatalf("failed to query latest: %v", err)
	}
	if ok {
		t.Error("expected empty archive to have no latest play")
	}

	if _, err := store.Save(ctx, []Play{play("A", "1", 100), play("B", "2", 500), play("C", "3", 300)}); err != nil {
		t.Fatalf("failed to save plays: %v", err)
	}

	latest, ok, err := store.Latest(ctx)
	if err != nil {
		t.Fatalf("failed to query latest: %v", err)
	}
	if !ok || latest.Unix() != 500 {
		t.Errorf("expected latest 500, got %v (ok=%v)", latest.Unix(), ok)
	}
}

func TestStoreRecent(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	if _, err := store.Save(ctx, []Play{play("A", "1", 100), play("B", "2", 500), play("C", "3", 300)}); err != nil {
		t.Fatalf("failed to save plays: %v", err)
	}

	plays, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("failed to query recent: %v", err)
	}
	if len(plays) != 2 {
		t.Fatalf("expected 2 plays, got %d", len(plays))
	}
	if plays[0].Track != "2" || plays[1].Track != "3" {
		t.Errorf("expected newest first, got %q then %q", plays[0].Track, plays[1].Track)
	}
}

func TestStoreTopArtists(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	plays := []Play{
		play("Autechre", "a", 1),
		play("Burial", "b", 2),
		play("Burial", "c", 3),
		play("Autechre", "d", 4),
		play("Burial", "e", 5),
		play("Clark", "f", 6),
	}
	if _, err := store.Save(ctx, plays); err != nil {
		t.Fatalf("failed to save plays: %v", err)
	}

	top, err := store.TopArtists(ctx, 0)
	if err != nil {
		t.Fatalf("failed to query top artists: %v", err)
	}

	want := []ArtistCount{{"Burial", 3}, {"Autechre", 2}, {"Clark", 1}}
	if len(top) != len(want) {
		t.Fatalf("expected %d artists, got %d", len(want), len(top))
	}
	for i := range want {
		if top[i] != want[i] {
			t.Errorf("position %d: expected %+v, got %+v", i, want[i], top[i])
		}
	}
}

func TestPlayFromTrack(t *testing.T) {
	date := &lastfm.Date{Unix: 1612116840, Text: "31 Jan 2021, 18:14"}

	tests := []struct {
		name  string
		track lastfm.RecentTrack
		want  bool
	}{
		{
			name: "played",
			track: lastfm.RecentTrack{
				Track: lastfm.Track{Name: "Xtal", Artist: lastfm.EntityRef{Name: "Aphex Twin"}, PlayedAt: date},
				Album: lastfm.EntityRef{Name: "Selected Ambient Works 85-92"},
			},
			want: true,
		},
		{
			name: "now playing",
			track: lastfm.RecentTrack{
				Track:      lastfm.Track{Name: "Dawn Chorus"},
				NowPlaying: true,
			},
			want: false,
		},
		{
			name:  "no date",
			track: lastfm.RecentTrack{Track: lastfm.Track{Name: "x"}},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := PlayFromTrack(tt.track)
			if ok != tt.want {
				t.Fatalf("expected ok=%v, got %v", tt.want, ok)
			}
			if ok {
				if p.PlayedAt.Unix() != date.Unix || p.Album != "Selected Ambient Works 85-92" {
					t.Errorf("unexpected play %+v", p)
				}
			}
		})
	}
}
