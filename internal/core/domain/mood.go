package domain

import (
	"sort"
	"strings"
)

// Mood is a coarse emotional category derived from a track's valence,
// energy and loudness.
type Mood string

const (
	MoodHappy Mood = "happy"
	MoodSad   Mood = "sad"
	MoodCalm  Mood = "calm"
	MoodAngry Mood = "angry"
)

func (m Mood) Valid() bool {
	switch m {
	case MoodHappy, MoodSad, MoodCalm, MoodAngry:
		return true
	}
	return false
}

// Title renders the mood capitalized for playlist names.
func (m Mood) Title() string {
	s := string(m)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Thresholds splitting the feature space into moods. Loudness here is the
// normalized value, not raw dB.
const (
	moodEnergyThreshold         = 0.6
	moodValenceThreshold        = 0.5
	moodLoudnessThreshold       = 0.5
	mostlyInstrumentalThreshold = 0.8
)

func (m Mood) matches(f AudioFeatures) bool {
	switch m {
	case MoodSad:
		return f.Valence < moodValenceThreshold && f.Energy < moodEnergyThreshold
	case MoodCalm:
		return f.Valence >= moodValenceThreshold && f.Energy < moodEnergyThreshold && f.Loudness < moodLoudnessThreshold
	case MoodAngry:
		return f.Valence < moodValenceThreshold && f.Energy >= moodEnergyThreshold && f.Loudness >= moodLoudnessThreshold
	case MoodHappy:
		return f.Valence >= moodValenceThreshold && f.Energy >= moodEnergyThreshold
	}
	return false
}

// moodIndex scores how strongly a track expresses the mood. Sad and happy
// lean on valence; calm and angry lean on loudness.
func (m Mood) moodIndex(t Track) float64 {
	if m == MoodSad || m == MoodHappy {
		return t.Features.Energy + 3*t.Features.Valence + 2*t.LyricsSentiment
	}
	return t.Features.Energy + 3*t.Features.Loudness + t.LyricsSentiment
}

// ascending reports whether weaker mood-index values come first: sad and
// calm playlists open with their softest songs, happy and angry with their
// most intense.
func (m Mood) ascending() bool {
	return m == MoodSad || m == MoodCalm
}

// FilterByMood selects the pool tracks matching the mood, ordered by mood
// index. The input pool is not modified.
func FilterByMood(pool []Track, mood Mood, excludeMostlyInstrumental bool) []Track {
	var filtered []Track
	for _, t := range pool {
		if !mood.matches(t.Features) {
			continue
		}
		if excludeMostlyInstrumental && t.Features.Instrumentalness > mostlyInstrumentalThreshold {
			continue
		}
		filtered = append(filtered, t)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if mood.ascending() {
			return mood.moodIndex(filtered[i]) < mood.moodIndex(filtered[j])
		}
		return mood.moodIndex(filtered[i]) > mood.moodIndex(filtered[j])
	})

	return filtered
}
