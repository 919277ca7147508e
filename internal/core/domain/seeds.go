package domain

// SeedSelection is a catalog recommendation request: seed artists, genres
// and tracks (the catalog caps them at five combined), a feature envelope
// around the desired sound, and the result size.
type SeedSelection struct {
	ArtistIDs []string
	Genres    []string
	TrackIDs  []string
	Envelope  FeatureEnvelope
	Limit     int
}

// SeedCount reports how many seeds the selection carries.
func (s SeedSelection) SeedCount() int {
	return len(s.ArtistIDs) + len(s.Genres) + len(s.TrackIDs)
}
