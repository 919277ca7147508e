package domain

import "sort"

// Neighbor pairs a candidate track with its distance to the query.
type Neighbor struct {
	Track    Track
	Distance float64
}

// Neighbors ranks every candidate in the pool by Distance to the query and
// returns the closest k. The query itself is excluded from the pool by id,
// so the result holds min(k, len(pool)-1) entries when the query is part of
// the pool. The sort is stable: candidates at equal distance keep their
// original pool order, which makes repeated calls with identical input
// produce identical output.
//
// Callers must validate k before calling; Neighbors does not clamp.
func Neighbors(query Track, pool []Track, k int, artistRecommendation bool) []Neighbor {
	neighbors := make([]Neighbor, 0, len(pool))
	for _, candidate := range pool {
		if candidate.ID == query.ID {
			continue
		}
		neighbors = append(neighbors, Neighbor{
			Track:    candidate,
			Distance: Distance(query, candidate, artistRecommendation),
		})
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].Distance < neighbors[j].Distance
	})

	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors
}
