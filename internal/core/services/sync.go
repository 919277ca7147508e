package services

import (
	"context"
	"fmt"
	"log"

	"github.com/reprise-labs/reprise/internal/core/domain"
	"github.com/reprise-labs/reprise/internal/core/ports"
)

const (
	// libraryPageSize is the page size the library collaborator serves.
	libraryPageSize = 50

	// trackBatchSize is the remote cap on tracks per replace or append call.
	trackBatchSize = 100
)

// SyncEngine drives a generated playlist to a desired track list. Contents
// are always replaced rather than diffed; the first batch goes out as an
// atomic replace so a crash mid-sync leaves the playlist holding its first
// hundred tracks instead of nothing.
type SyncEngine struct {
	library ports.LibraryProvider
}

// NewSyncEngine constructs a SyncEngine.
func NewSyncEngine(library ports.LibraryProvider) *SyncEngine {
	return &SyncEngine{library: library}
}

// FindExisting pages through the user's library looking for the playlist
// carrying this identity. Returns nil when no playlist matches.
func (e *SyncEngine) FindExisting(ctx context.Context, identity domain.Identity, basePlaylist string) (*domain.PlaylistRef, error) {
	for offset := 0; ; offset += libraryPageSize {
		page, err := e.library.Playlists(ctx, libraryPageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("sync: list playlists: %w", err)
		}

		for _, ref := range page {
			if identity.Matches(ref.Name, ref.Description, basePlaylist) {
				ref := ref
				return &ref, nil
			}
		}

		if len(page) < libraryPageSize {
			return nil, nil
		}
	}
}

// Sync creates or updates the playlist for the kind so its track list equals
// trackIDs in order, with duplicates dropped. Metadata is rewritten when the
// found playlist carries a legacy name or a stale description.
func (e *SyncEngine) Sync(ctx context.Context, kind domain.Kind, basePlaylist string, trackIDs []string) (domain.PlaylistRef, error) {
	identity := kind.Identity(basePlaylist)

	found, err := e.FindExisting(ctx, identity, basePlaylist)
	if err != nil {
		return domain.PlaylistRef{}, err
	}

	var ref domain.PlaylistRef
	if found == nil {
		ref, err = e.library.CreatePlaylist(ctx, identity.Name, identity.Description)
		if err != nil {
			return domain.PlaylistRef{}, fmt.Errorf("sync: create playlist: %w", err)
		}
		log.Printf("INFO sync: created playlist %q (%s)", identity.Name, ref.ID)
	} else {
		ref = *found
		if identity.NeedsDetailsRefresh(ref.Name, ref.Description) {
			if err := e.library.UpdatePlaylistDetails(ctx, ref.ID, identity.Name, identity.Description); err != nil {
				return domain.PlaylistRef{}, fmt.Errorf("sync: update details: %w", err)
			}
			ref.Name = identity.Name
			ref.Description = identity.Description
		}
	}

	desired := dedupe(trackIDs)

	first := desired
	if len(first) > trackBatchSize {
		first = desired[:trackBatchSize]
	}
	if err := e.library.ReplaceTracks(ctx, ref.ID, first); err != nil {
		return domain.PlaylistRef{}, fmt.Errorf("sync: replace tracks: %w", err)
	}

	for offset := trackBatchSize; offset < len(desired); offset += trackBatchSize {
		end := offset + trackBatchSize
		if end > len(desired) {
			end = len(desired)
		}
		if err := e.library.AppendTracks(ctx, ref.ID, desired[offset:end]); err != nil {
			return domain.PlaylistRef{}, fmt.Errorf("sync: append tracks: %w", err)
		}
	}

	ref.TrackCount = len(desired)
	return ref, nil
}

// dedupe drops repeated ids, keeping the first occurrence's position.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	deduped := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		deduped = append(deduped, id)
	}
	return deduped
}
