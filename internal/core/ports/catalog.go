package ports

import (
	"context"

	"github.com/reprise-labs/reprise/internal/core/domain"
)

// CatalogProvider is the driven port onto the music catalog. Implementations
// hydrate tracks fully (artist genres, audio features, added-at) before
// returning them, so the core never sees a partially built track.
type CatalogProvider interface {
	// PlaylistTracks fetches every track of the playlist, hydrated.
	PlaylistTracks(ctx context.Context, playlistID string) ([]domain.Track, error)

	// TopTracks returns the user's most listened tracks for the term,
	// hydrated, most listened first.
	TopTracks(ctx context.Context, term domain.Term, limit int) ([]domain.Track, error)

	// TopArtists returns the user's most listened artists for the term,
	// most listened first.
	TopArtists(ctx context.Context, term domain.Term, limit int) ([]domain.Artist, error)

	// SearchArtistID resolves an artist name to its catalog id.
	SearchArtistID(ctx context.Context, name string) (string, error)

	// Recommendations asks the catalog for tracks matching the seeds and
	// the feature envelope.
	Recommendations(ctx context.Context, seeds domain.SeedSelection) ([]domain.Track, error)
}
