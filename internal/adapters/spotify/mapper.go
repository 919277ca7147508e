package spotify

import (
	"log"
	"time"

	"github.com/reprise-labs/reprise/internal/core/domain"
)

// minLoudnessDb is the quietest loudness the catalog reports. Raw loudness
// is negative dB; dividing by -60 normalizes it into roughly [0, 1] with
// higher meaning louder.
const minLoudnessDb = -60.0

// mapTrackToDomain converts a raw track plus its enrichment into a domain
// track. features may be nil when the catalog has none for the track; the
// features then default to zero with a logged warning instead of failing
// the whole pool.
func mapTrackToDomain(wt wireTrack, features *wireAudioFeatures, genres []string, addedAt time.Time) domain.Track {
	track := domain.Track{
		ID:         wt.ID,
		Name:       wt.Name,
		Genres:     genres,
		Popularity: wt.Popularity,
		AddedAt:    addedAt,
	}
	for _, a := range wt.Artists {
		track.Artists = append(track.Artists, a.Name)
	}

	if features == nil {
		log.Printf("WARN spotify adapter: no audio features for track %s (%q), defaulting to zero", wt.ID, wt.Name)
		return track
	}

	track.Features = domain.AudioFeatures{
		Danceability:     features.Danceability,
		Energy:           features.Energy,
		Instrumentalness: features.Instrumentalness,
		Tempo:            features.Tempo,
		Valence:          features.Valence,
		Loudness:         features.Loudness / minLoudnessDb,
	}
	return track
}

func mapArtistToDomain(wa wireArtist) domain.Artist {
	return domain.Artist{
		ID:         wa.ID,
		Name:       wa.Name,
		Genres:     wa.Genres,
		Popularity: wa.Popularity,
	}
}

func mapPlaylistToRef(wp wirePlaylist) domain.PlaylistRef {
	return domain.PlaylistRef{
		ID:          wp.ID,
		Name:        wp.Name,
		Description: wp.Description,
		TrackCount:  wp.Tracks.Total,
	}
}
