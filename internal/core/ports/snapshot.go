package ports

import (
	"context"

	"github.com/reprise-labs/reprise/internal/core/domain"
)

// SnapshotStore caches one hydrated track pool per base playlist, so a
// session can start without refetching the whole catalog. Staleness is never
// auto-detected; the caller chooses cache or live fetch explicitly.
type SnapshotStore interface {
	// SaveSnapshot overwrites the stored pool for the base playlist.
	SaveSnapshot(ctx context.Context, basePlaylist string, tracks []domain.Track) error

	// LoadSnapshot returns the stored pool, or domain.ErrNotFound when no
	// snapshot exists for the base playlist.
	LoadSnapshot(ctx context.Context, basePlaylist string) ([]domain.Track, error)
}
