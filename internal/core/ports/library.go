package ports

import (
	"context"

	"github.com/reprise-labs/reprise/internal/core/domain"
)

// LibraryProvider is the driven port onto the user's playlist library.
type LibraryProvider interface {
	// Playlists returns one page of the user's playlists. A page shorter
	// than limit marks the end of the library.
	Playlists(ctx context.Context, limit, offset int) ([]domain.PlaylistRef, error)

	// CreatePlaylist creates an empty playlist owned by the current user.
	CreatePlaylist(ctx context.Context, name, description string) (domain.PlaylistRef, error)

	// ReplaceTracks atomically replaces the playlist's contents with the
	// given tracks. The remote caps one replace at 100 items.
	ReplaceTracks(ctx context.Context, playlistID string, trackIDs []string) error

	// AppendTracks appends the given tracks, preserving order. The remote
	// caps one append at 100 items.
	AppendTracks(ctx context.Context, playlistID string, trackIDs []string) error

	// UpdatePlaylistDetails rewrites the playlist's name and description.
	UpdatePlaylistDetails(ctx context.Context, playlistID, name, description string) error
}
