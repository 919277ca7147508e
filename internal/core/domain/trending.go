package domain

import (
	"sort"
	"time"
)

// PoolTimeRange bounds how much of the base playlist, by added-at date, is
// considered for a trend.
type PoolTimeRange string

const (
	RangeAllTime   PoolTimeRange = "all_time"
	RangeMonth     PoolTimeRange = "month"
	RangeTrimester PoolTimeRange = "trimester"
	RangeSemester  PoolTimeRange = "semester"
	RangeYear      PoolTimeRange = "year"
)

func (r PoolTimeRange) Valid() bool {
	switch r {
	case RangeAllTime, RangeMonth, RangeTrimester, RangeSemester, RangeYear:
		return true
	}
	return false
}

// Cutoff returns the earliest added-at timestamp the range admits.
func (r PoolTimeRange) Cutoff(now time.Time) time.Time {
	switch r {
	case RangeMonth:
		return now.AddDate(0, 0, -30)
	case RangeTrimester:
		return now.AddDate(0, 0, -90)
	case RangeSemester:
		return now.AddDate(0, 0, -180)
	case RangeYear:
		return now.AddDate(0, 0, -365)
	}
	// all_time still bounds the window: nothing was added before the
	// catalog service existed.
	return time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
}

// FilterByAddedAt returns the pool tracks added at or after the cutoff.
func FilterByAddedAt(pool []Track, cutoff time.Time) []Track {
	var filtered []Track
	for _, t := range pool {
		if !t.AddedAt.Before(cutoff) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// TrendEntry is one genre or artist with its occurrence count and its share
// of all occurrences in the window.
type TrendEntry struct {
	Name  string
	Count int
	Rate  float64
}

// TrendingGenres counts genre occurrences across the pool, most frequent
// first. Ties keep first-seen order.
func TrendingGenres(pool []Track) []TrendEntry {
	return trending(pool, func(t Track) []string { return t.Genres })
}

// TrendingArtists counts artist occurrences across the pool, most frequent
// first.
func TrendingArtists(pool []Track) []TrendEntry {
	return trending(pool, func(t Track) []string { return t.Artists })
}

func trending(pool []Track, items func(Track) []string) []TrendEntry {
	counts := make(map[string]int)
	var order []string
	var total int

	for _, t := range pool {
		for _, item := range items(t) {
			if _, ok := counts[item]; !ok {
				order = append(order, item)
			}
			counts[item]++
			total++
		}
	}

	entries := make([]TrendEntry, 0, len(order))
	for _, name := range order {
		entry := TrendEntry{Name: name, Count: counts[name]}
		if total > 0 {
			entry.Rate = float64(entry.Count) / float64(total)
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})

	return entries
}
