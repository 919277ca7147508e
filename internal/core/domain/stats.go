package domain

// FeatureStatistics aggregates the minimum, maximum and mean of every audio
// feature over a pool. The playlist-recommendation seeds use it to build a
// feature envelope around the base playlist's sound.
type FeatureStatistics struct {
	Min  AudioFeatures
	Max  AudioFeatures
	Mean AudioFeatures
}

// Statistics computes per-feature min/max/mean across the pool. An empty
// pool yields the zero value.
func Statistics(pool []Track) FeatureStatistics {
	if len(pool) == 0 {
		return FeatureStatistics{}
	}

	stats := FeatureStatistics{Min: pool[0].Features, Max: pool[0].Features}
	var sum AudioFeatures

	for _, t := range pool {
		f := t.Features
		sum.Tempo += f.Tempo
		sum.Energy += f.Energy
		sum.Valence += f.Valence
		sum.Loudness += f.Loudness
		sum.Danceability += f.Danceability
		sum.Instrumentalness += f.Instrumentalness

		stats.Min.Tempo = minFloat(stats.Min.Tempo, f.Tempo)
		stats.Max.Tempo = maxFloat(stats.Max.Tempo, f.Tempo)
		stats.Min.Energy = minFloat(stats.Min.Energy, f.Energy)
		stats.Max.Energy = maxFloat(stats.Max.Energy, f.Energy)
		stats.Min.Valence = minFloat(stats.Min.Valence, f.Valence)
		stats.Max.Valence = maxFloat(stats.Max.Valence, f.Valence)
		stats.Min.Loudness = minFloat(stats.Min.Loudness, f.Loudness)
		stats.Max.Loudness = maxFloat(stats.Max.Loudness, f.Loudness)
		stats.Min.Danceability = minFloat(stats.Min.Danceability, f.Danceability)
		stats.Max.Danceability = maxFloat(stats.Max.Danceability, f.Danceability)
		stats.Min.Instrumentalness = minFloat(stats.Min.Instrumentalness, f.Instrumentalness)
		stats.Max.Instrumentalness = maxFloat(stats.Max.Instrumentalness, f.Instrumentalness)
	}

	n := float64(len(pool))
	stats.Mean = AudioFeatures{
		Tempo:            sum.Tempo / n,
		Energy:           sum.Energy / n,
		Valence:          sum.Valence / n,
		Loudness:         sum.Loudness / n,
		Danceability:     sum.Danceability / n,
		Instrumentalness: sum.Instrumentalness / n,
	}

	return stats
}

// FeatureEnvelope bounds a catalog recommendation request around a pool's
// sound: stay between Min and Max, aim for Target.
type FeatureEnvelope struct {
	Min    AudioFeatures
	Max    AudioFeatures
	Target AudioFeatures
}

// Envelope widens the observed range by 20% on both ends and targets the
// mean, so the catalog is not pinned to the pool's exact extremes.
func (s FeatureStatistics) Envelope() FeatureEnvelope {
	return FeatureEnvelope{
		Min:    scaleFeatures(s.Min, 0.8),
		Max:    scaleFeatures(s.Max, 1.2),
		Target: s.Mean,
	}
}

func scaleFeatures(f AudioFeatures, factor float64) AudioFeatures {
	return AudioFeatures{
		Tempo:            f.Tempo * factor,
		Energy:           f.Energy * factor,
		Valence:          f.Valence * factor,
		Loudness:         f.Loudness * factor,
		Danceability:     f.Danceability * factor,
		Instrumentalness: f.Instrumentalness * factor,
	}
}

func minFloat(a, b float64) float64 {
	if b < a {
		return b
	}
	return a
}

func maxFloat(a, b float64) float64 {
	if b > a {
		return b
	}
	return a
}
