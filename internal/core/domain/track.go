package domain

import "time"

// AudioFeatures holds the continuous audio attributes of a track.
// Loudness is normalized (raw dB divided by -60) so it lies roughly in [0, 1]
// with higher meaning louder; the adapter performs that division.
type AudioFeatures struct {
	Danceability     float64
	Energy           float64
	Instrumentalness float64
	Tempo            float64
	Valence          float64
	Loudness         float64
}

// Track represents one catalog item with identity and feature vector.
// A Track is fully built before it enters a candidate pool and is never
// mutated afterwards. The empty ID is reserved for synthetic aggregate
// tracks produced by Aggregate.
type Track struct {
	ID         string
	Name       string
	Artists    []string
	Genres     []string
	Popularity int
	AddedAt    time.Time
	Features   AudioFeatures

	// LyricsSentiment is in [-1, 1] and only meaningful when lyric
	// enrichment produced it; it defaults to 0, which zeroes its
	// contribution to the distance.
	LyricsSentiment float64

	// GenresIndexed and ArtistsIndexed are binary indicator vectors built
	// against the enclosing collection's Universe. Vectors from different
	// universes are not comparable.
	GenresIndexed  []int
	ArtistsIndexed []int
}

// HasArtist reports whether the track credits the given artist name.
func (t Track) HasArtist(name string) bool {
	for _, a := range t.Artists {
		if a == name {
			return true
		}
	}
	return false
}
