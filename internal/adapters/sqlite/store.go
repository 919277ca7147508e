// Package sqlite provides a SQLite-backed implementation of the snapshot
// store port.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/reprise-labs/reprise/internal/core/domain"
	"github.com/reprise-labs/reprise/internal/core/ports"
)

// Store persists one hydrated track pool per base playlist. Indicator
// vectors are not stored; the session rebuilds them against a fresh
// universe on load.
type Store struct {
	db *sql.DB
}

// compile-time interface assertion
var _ ports.SnapshotStore = (*Store)(nil)

// NewStore creates a connection and runs the schema migration.
func NewStore(storagePath string) (*Store, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return store, nil
}

// Close ensures the DB connection is closed gracefully.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSnapshot transactionally replaces the stored pool for the base
// playlist.
func (s *Store) SaveSnapshot(ctx context.Context, basePlaylist string, tracks []domain.Track) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	querySnapshot := `
		INSERT INTO snapshots (base_playlist, taken_at) VALUES (?, CURRENT_TIMESTAMP)
		ON CONFLICT(base_playlist) DO UPDATE SET taken_at=CURRENT_TIMESTAMP;
	`
	if _, err := tx.ExecContext(ctx, querySnapshot, basePlaylist); err != nil {
		return fmt.Errorf("failed to save snapshot metadata: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM snapshot_tracks WHERE base_playlist = ?", basePlaylist); err != nil {
		return fmt.Errorf("failed to clear old snapshot tracks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_tracks (
			base_playlist, position, id, name, artists, genres, popularity, added_at,
			danceability, energy, instrumentalness, tempo, valence, loudness, sentiment
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for position, t := range tracks {
		artists, err := json.Marshal(t.Artists)
		if err != nil {
			return fmt.Errorf("failed to encode artists for track %s: %w", t.ID, err)
		}
		genres, err := json.Marshal(t.Genres)
		if err != nil {
			return fmt.Errorf("failed to encode genres for track %s: %w", t.ID, err)
		}

		if _, err := stmt.ExecContext(
			ctx,
			basePlaylist,
			position,
			t.ID,
			t.Name,
			string(artists),
			string(genres),
			t.Popularity,
			t.AddedAt,
			t.Features.Danceability,
			t.Features.Energy,
			t.Features.Instrumentalness,
			t.Features.Tempo,
			t.Features.Valence,
			t.Features.Loudness,
			t.LyricsSentiment,
		); err != nil {
			return fmt.Errorf("failed to save snapshot track %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}

	return nil
}

// LoadSnapshot returns the stored pool in its original order, or
// domain.ErrNotFound when the base playlist was never snapshotted.
func (s *Store) LoadSnapshot(ctx context.Context, basePlaylist string) ([]domain.Track, error) {
	row := s.db.QueryRowContext(ctx, "SELECT base_playlist FROM snapshots WHERE base_playlist = ?", basePlaylist)
	var name string
	if err := row.Scan(&name); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, artists, genres, popularity, added_at,
			danceability, energy, instrumentalness, tempo, valence, loudness, sentiment
		FROM snapshot_tracks
		WHERE base_playlist = ?
		ORDER BY position ASC
	`, basePlaylist)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot tracks: %w", err)
	}
	defer rows.Close()

	var tracks []domain.Track
	for rows.Next() {
		var track domain.Track
		var artists, genres string
		if err := rows.Scan(
			&track.ID,
			&track.Name,
			&artists,
			&genres,
			&track.Popularity,
			&track.AddedAt,
			&track.Features.Danceability,
			&track.Features.Energy,
			&track.Features.Instrumentalness,
			&track.Features.Tempo,
			&track.Features.Valence,
			&track.Features.Loudness,
			&track.LyricsSentiment,
		); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot track: %w", err)
		}
		if err := json.Unmarshal([]byte(artists), &track.Artists); err != nil {
			return nil, fmt.Errorf("failed to decode artists for track %s: %w", track.ID, err)
		}
		if err := json.Unmarshal([]byte(genres), &track.Genres); err != nil {
			return nil, fmt.Errorf("failed to decode genres for track %s: %w", track.ID, err)
		}
		tracks = append(tracks, track)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshot tracks: %w", err)
	}

	return tracks, nil
}

func (s *Store) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS snapshots (
		base_playlist TEXT PRIMARY KEY,
		taken_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS snapshot_tracks (
		base_playlist TEXT NOT NULL,
		position INTEGER NOT NULL,
		id TEXT NOT NULL,
		name TEXT NOT NULL,
		artists TEXT NOT NULL,
		genres TEXT NOT NULL,
		popularity INTEGER,
		added_at DATETIME,
		danceability REAL,
		energy REAL,
		instrumentalness REAL,
		tempo REAL,
		valence REAL,
		loudness REAL,
		sentiment REAL,
		PRIMARY KEY (base_playlist, position),
		FOREIGN KEY(base_playlist) REFERENCES snapshots(base_playlist) ON DELETE CASCADE
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return err
	}

	return nil
}
