package archive

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jfmyers9/lastfm-go/pkg/lastfm"
	_ "modernc.org/sqlite"
)

// Store is a local play history backed by SQLite
type Store struct {
	db *sql.DB
}

// Play is one archived listen
type Play struct {
	ID         int64
	Track      string
	Artist     string
	Album      string
	TrackMBID  string
	ArtistMBID string
	URL        string
	PlayedAt   time.Time
}

// ArtistCount is an artist with the number of archived plays
type ArtistCount struct {
	Artist string
	Plays  int
}

// PlayFromTrack converts a recent track to a Play. Tracks without a play
// date (the one currently playing) are not plays yet and return false.
func PlayFromTrack(t lastfm.RecentTrack) (Play, bool) {
	if t.NowPlaying || t.PlayedAt == nil {
		return Play{}, false
	}
	return Play{
		Track:      t.Name,
		Artist:     t.Artist.Name,
		Album:      t.Album.Name,
		TrackMBID:  t.MBID,
		ArtistMBID: t.Artist.MBID,
		URL:        t.URL,
		PlayedAt:   t.PlayedAt.Time(),
	}, true
}

// NewStore opens (or creates) the archive at dbPath
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps :memory: databases consistent
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA journal_mode = WAL",
		"PRAGMA temp_store = MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS plays (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			track TEXT NOT NULL,
			artist TEXT NOT NULL,
			album TEXT NOT NULL DEFAULT '',
			track_mbid TEXT NOT NULL DEFAULT '',
			artist_mbid TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL DEFAULT '',
			played_at INTEGER NOT NULL,
			UNIQUE (played_at, artist, track)
		);

		CREATE INDEX IF NOT EXISTS idx_played_at ON plays(played_at);
		CREATE INDEX IF NOT EXISTS idx_artist ON plays(artist);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save inserts plays in one transaction and returns how many were new.
// Plays already archived are skipped.
func (s *Store) Save(ctx context.Context, plays []Play) (int, error) {
	if len(plays) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO plays (track, artist, album, track_mbid, artist_mbid, url, played_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, p := range plays {
		result, err := stmt.ExecContext(ctx,
			p.Track,
			p.Artist,
			p.Album,
			p.TrackMBID,
			p.ArtistMBID,
			p.URL,
			p.PlayedAt.Unix(),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert play %q: %w", p.Track, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to get rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return inserted, nil
}

// Latest returns the time of the newest archived play. The boolean is
// false when the archive is empty.
func (s *Store) Latest(ctx context.Context) (time.Time, bool, error) {
	var ts sql.NullInt64
	err := s.db.QueryRowContext(ctx, "SELECT MAX(played_at) FROM plays").Scan(&ts)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to query latest play: %w", err)
	}
	if !ts.Valid {
		return time.Time{}, false, nil
	}
	return time.Unix(ts.Int64, 0), true, nil
}

// Count returns the number of archived plays
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM plays").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count plays: %w", err)
	}
	return count, nil
}

// Recent returns the newest plays, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]Play, error) {
	query := `
		SELECT id, track, artist, album, track_mbid, artist_mbid, url, played_at
		FROM plays
		ORDER BY played_at DESC, id DESC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query plays: %w", err)
	}
	defer rows.Close()

	var plays []Play
	for rows.Next() {
		var p Play
		var playedAt int64
		if err := rows.Scan(&p.ID, &p.Track, &p.Artist, &p.Album, &p.TrackMBID, &p.ArtistMBID, &p.URL, &playedAt); err != nil {
			return nil, fmt.Errorf("failed to scan play: %w", err)
		}
		p.PlayedAt = time.Unix(playedAt, 0)
		plays = append(plays, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plays: %w", err)
	}

	return plays, nil
}

// TopArtists returns the most played artists in the archive
func (s *Store) TopArtists(ctx context.Context, limit int) ([]ArtistCount, error) {
	query := `
		SELECT artist, COUNT(*) AS plays
		FROM plays
		GROUP BY artist
		ORDER BY plays DESC, artist ASC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query top artists: %w", err)
	}
	defer rows.Close()

	var artists []ArtistCount
	for rows.Next() {
		var a ArtistCount
		if err := rows.Scan(&a.Artist, &a.Plays); err != nil {
			return nil, fmt.Errorf("failed to scan artist: %w", err)
		}
		artists = append(artists, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating artists: %w", err)
	}

	return artists, nil
}
