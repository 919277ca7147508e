package services

import (
	"context"
	"fmt"
	"log"

	"github.com/reprise-labs/reprise/internal/core/domain"
)

// SweepReport summarizes one pass over the user's generated playlists.
type SweepReport struct {
	Total    int
	Updated  int
	Failed   int
	Failures []SweepFailure
}

// SweepFailure records one playlist the sweep could not refresh.
type SweepFailure struct {
	Playlist string
	Reason   string
}

// UpdateAllGeneratedPlaylists walks the user's library, recognizes every
// playlist this engine generated, and rebuilds each one against the current
// pool with k tracks. A failing playlist is logged and reported but does not
// abort the sweep; snapshot-dated playlists are left untouched.
func (r *Recommender) UpdateAllGeneratedPlaylists(ctx context.Context, k int) (SweepReport, error) {
	if err := validateK(k, maxPoolK); err != nil {
		return SweepReport{}, err
	}
	if _, err := r.CurrentSession(); err != nil {
		return SweepReport{}, err
	}

	targets, err := r.collectGenerated(ctx)
	if err != nil {
		return SweepReport{}, err
	}

	report := SweepReport{Total: len(targets)}
	for i, target := range targets {
		if err := r.refreshGenerated(ctx, target.kind, k); err != nil {
			report.Failed++
			report.Failures = append(report.Failures, SweepFailure{Playlist: target.ref.Name, Reason: err.Error()})
			log.Printf("WARN sweep: playlist %q not refreshed: %v", target.ref.Name, err)
		} else {
			report.Updated++
		}
		log.Printf("INFO sweep: %d%% done (%d/%d)", (i+1)*100/len(targets), i+1, len(targets))
	}

	return report, nil
}

type generatedPlaylist struct {
	ref  domain.PlaylistRef
	kind domain.Kind
}

func (r *Recommender) collectGenerated(ctx context.Context) ([]generatedPlaylist, error) {
	var targets []generatedPlaylist
	for offset := 0; ; offset += libraryPageSize {
		page, err := r.syncer.library.Playlists(ctx, libraryPageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("sweep: list playlists: %w", err)
		}

		for _, ref := range page {
			if kind, ok := domain.ParseGeneratedName(ref.Name, ref.Description); ok {
				targets = append(targets, generatedPlaylist{ref: ref, kind: kind})
			}
		}

		if len(page) < libraryPageSize {
			return targets, nil
		}
	}
}

// refreshGenerated recomputes one playlist kind with the matching operation.
// Catalog-backed recommendations carry a tighter K cap, so k is clamped for
// them rather than rejected.
func (r *Recommender) refreshGenerated(ctx context.Context, kind domain.Kind, k int) error {
	catalogK := k
	if catalogK > maxCatalogK {
		catalogK = maxCatalogK
	}

	var err error
	switch kind := kind.(type) {
	case domain.SongKind:
		_, err = r.RecommendationsForSong(ctx, kind.Song, k, true)
	case domain.ArtistFullKind:
		_, err = r.ArtistPlaylist(ctx, kind.Artist, k, false, true, true)
	case domain.ArtistRelatedKind:
		_, err = r.ArtistPlaylist(ctx, kind.Artist, k, true, false, true)
	case domain.MostListenedKind:
		_, err = r.MostListened(ctx, kind.Term, k, true)
	case domain.MostListenedRecommendationKind:
		_, err = r.MostListenedRecommendation(ctx, kind.Term, k, true)
	case domain.MoodKind:
		_, err = r.SongsByMood(ctx, kind.Mood, k, kind.ExcludeMostlyInstrumental, true)
	case domain.ProfileRecommendationKind:
		_, err = r.ProfileRecommendation(ctx, kind.Term, kind.Criteria, catalogK, false, true)
	case domain.PlaylistRecommendationKind:
		_, err = r.PlaylistRecommendation(ctx, domain.PoolTimeRange(kind.TimeRange), kind.Criteria, catalogK, false, true)
	default:
		err = fmt.Errorf("sweep: unhandled kind %T", kind)
	}
	return err
}
