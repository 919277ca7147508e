package domain

// Universe is the set of distinct genres and artists observed across one
// collection snapshot. Its order is stable within one build (first-seen
// order) but otherwise arbitrary; two indicator vectors are only comparable
// when built against the same Universe.
type Universe struct {
	Genres  []string
	Artists []string
}

// BuildUniverse collects the distinct genres and artists across the given
// tracks. Empty collections yield empty universes.
func BuildUniverse(tracks []Track) Universe {
	var u Universe
	seenGenres := make(map[string]struct{})
	seenArtists := make(map[string]struct{})

	for _, t := range tracks {
		for _, g := range t.Genres {
			if _, ok := seenGenres[g]; !ok {
				seenGenres[g] = struct{}{}
				u.Genres = append(u.Genres, g)
			}
		}
		for _, a := range t.Artists {
			if _, ok := seenArtists[a]; !ok {
				seenArtists[a] = struct{}{}
				u.Artists = append(u.Artists, a)
			}
		}
	}

	return u
}

// Index converts the track's genre and artist lists into binary indicator
// vectors against the universe: position i is 1 when the universe item at i
// is present in the track's set.
func (u Universe) Index(t Track) (genresIndexed, artistsIndexed []int) {
	return indicatorVector(u.Genres, t.Genres), indicatorVector(u.Artists, t.Artists)
}

// IndexTracks returns copies of the given tracks with their indicator
// vectors rebuilt against the universe. The input slice is not modified.
func IndexTracks(tracks []Track, u Universe) []Track {
	indexed := make([]Track, len(tracks))
	for i, t := range tracks {
		t.GenresIndexed, t.ArtistsIndexed = u.Index(t)
		indexed[i] = t
	}
	return indexed
}

func indicatorVector(universe, items []string) []int {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}

	vector := make([]int, len(universe))
	for i, candidate := range universe {
		if _, ok := set[candidate]; ok {
			vector[i] = 1
		}
	}
	return vector
}
