package domain

import "math"

// Aggregate synthesizes a pseudo-track out of the seed tracks, for use as a
// KNN query representing a profile, a mood or a listening window. Indicator
// vectors are OR-combined (a genre present in any seed is present in the
// aggregate), continuous features are averaged, and popularity is the
// rounded mean. The result carries an empty ID, marking it synthetic.
//
// All seeds must have been indexed against the given universe.
func Aggregate(seeds []Track, u Universe, label string) (Track, error) {
	if len(seeds) == 0 {
		return Track{}, ErrEmptyAggregate
	}

	aggregate := Track{
		Name:           label,
		GenresIndexed:  make([]int, len(u.Genres)),
		ArtistsIndexed: make([]int, len(u.Artists)),
	}

	seenGenres := make(map[string]struct{})
	seenArtists := make(map[string]struct{})

	var popularity float64
	for _, seed := range seeds {
		orInto(aggregate.GenresIndexed, seed.GenresIndexed)
		orInto(aggregate.ArtistsIndexed, seed.ArtistsIndexed)

		for _, g := range seed.Genres {
			if _, ok := seenGenres[g]; !ok {
				seenGenres[g] = struct{}{}
				aggregate.Genres = append(aggregate.Genres, g)
			}
		}
		for _, a := range seed.Artists {
			if _, ok := seenArtists[a]; !ok {
				seenArtists[a] = struct{}{}
				aggregate.Artists = append(aggregate.Artists, a)
			}
		}

		popularity += float64(seed.Popularity)
		aggregate.Features.Tempo += seed.Features.Tempo
		aggregate.Features.Energy += seed.Features.Energy
		aggregate.Features.Valence += seed.Features.Valence
		aggregate.Features.Loudness += seed.Features.Loudness
		aggregate.Features.Danceability += seed.Features.Danceability
		aggregate.Features.Instrumentalness += seed.Features.Instrumentalness
		aggregate.LyricsSentiment += seed.LyricsSentiment
	}

	n := float64(len(seeds))
	aggregate.Popularity = int(math.Round(popularity / n))
	aggregate.Features.Tempo /= n
	aggregate.Features.Energy /= n
	aggregate.Features.Valence /= n
	aggregate.Features.Loudness /= n
	aggregate.Features.Danceability /= n
	aggregate.Features.Instrumentalness /= n
	aggregate.LyricsSentiment /= n

	return aggregate, nil
}

func orInto(dst, src []int) {
	for i := 0; i < len(dst) && i < len(src); i++ {
		if src[i] == 1 {
			dst[i] = 1
		}
	}
}
