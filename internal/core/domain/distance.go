package domain

import "math"

// Weights of the individual feature distances in the total distance. These
// coefficients came out of empirical tuning and must stay bit-exact: every
// generated playlist built before a weight change would silently disagree
// with one built after.
const (
	genresWeight           = 0.8
	energyWeight           = 0.65
	valenceWeight          = 0.93
	artistsWeight          = 0.38
	tempoWeight            = 0.0025
	loudnessWeight         = 0.15
	danceabilityWeight     = 0.25
	sentimentWeight        = 0.6
	instrumentalnessWeight = 0.4

	popularityWeight       = 0.015
	popularityArtistWeight = 0.003
)

// listDistance measures how far apart two equal-length indicator vectors
// are. The vector a is always the query track's, which makes the measure
// intentionally asymmetric: the query missing from the candidate weighs
// more (+0.4) than the candidate carrying something extra (+0.2), and a
// shared bit is rewarded (-0.4).
func listDistance(a, b []int) float64 {
	var distance float64
	for i := 0; i < len(a) && i < len(b); i++ {
		switch {
		case a[i] == 1 && b[i] == 0:
			distance += 0.4
		case a[i] == 0 && b[i] == 1:
			distance += 0.2
		case a[i] == 1 && b[i] == 1:
			distance -= 0.4
		}
	}
	return distance
}

// Distance computes the weighted dissimilarity between two tracks; lower
// means more similar. It is not a true metric: shared genre or artist bits
// can drive it negative, and the genre/artist terms are asymmetric, so the
// query track must always be passed as a.
//
// artistRecommendation softens the popularity term so that an artist mix is
// not dragged toward the most popular songs in the pool.
func Distance(a, b Track, artistRecommendation bool) float64 {
	tempoDistance := math.Abs(a.Features.Tempo - b.Features.Tempo)
	energyDistance := math.Abs(a.Features.Energy - b.Features.Energy)
	valenceDistance := math.Abs(a.Features.Valence - b.Features.Valence)
	loudnessDistance := math.Abs(a.Features.Loudness - b.Features.Loudness)
	popularityDistance := math.Abs(float64(a.Popularity - b.Popularity))
	danceabilityDistance := math.Abs(a.Features.Danceability - b.Features.Danceability)
	sentimentDistance := math.Abs(a.LyricsSentiment - b.LyricsSentiment)
	genresDistance := listDistance(a.GenresIndexed, b.GenresIndexed)
	artistsDistance := listDistance(a.ArtistsIndexed, b.ArtistsIndexed)

	// Rounded to 2 decimals to suppress floating noise in the catalog data.
	instrumentalnessDistance := math.Abs(round2(a.Features.Instrumentalness) - round2(b.Features.Instrumentalness))

	popularityFactor := popularityWeight
	if artistRecommendation {
		popularityFactor = popularityArtistWeight
	}

	return genresDistance*genresWeight +
		energyDistance*energyWeight +
		valenceDistance*valenceWeight +
		artistsDistance*artistsWeight +
		tempoDistance*tempoWeight +
		loudnessDistance*loudnessWeight +
		danceabilityDistance*danceabilityWeight +
		sentimentDistance*sentimentWeight +
		instrumentalnessDistance*instrumentalnessWeight +
		popularityDistance*popularityFactor
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
