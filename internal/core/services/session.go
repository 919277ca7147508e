package services

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/reprise-labs/reprise/internal/core/domain"
)

// Session holds the per-run state of one recommendation run: the hydrated
// base-playlist pool, the universe its indicator vectors were built against,
// and caches of the user's top items so repeated operations within the run
// do not refetch them. A session is created when the pool is loaded and
// discarded when the pool is reloaded; nothing in it outlives the run.
type Session struct {
	ID       string
	Pool     []domain.Track
	Universe domain.Universe

	mu         sync.Mutex
	topTracks  map[domain.Term][]domain.Track
	topArtists map[domain.Term][]domain.Artist
}

func newSession(pool []domain.Track) *Session {
	universe := domain.BuildUniverse(pool)
	return &Session{
		ID:         uuid.NewString(),
		Pool:       domain.IndexTracks(pool, universe),
		Universe:   universe,
		topTracks:  make(map[domain.Term][]domain.Track),
		topArtists: make(map[domain.Term][]domain.Artist),
	}
}

// trackByName finds the first pool track whose name matches, case-insensitively.
func (s *Session) trackByName(song string) (domain.Track, bool) {
	for _, t := range s.Pool {
		if strings.EqualFold(t.Name, song) {
			return t, true
		}
	}
	return domain.Track{}, false
}

// tracksByArtist returns every pool track crediting the artist, in pool order.
func (s *Session) tracksByArtist(artist string) []domain.Track {
	var matched []domain.Track
	for _, t := range s.Pool {
		if t.HasArtist(artist) {
			matched = append(matched, t)
		}
	}
	return matched
}

func (s *Session) cachedTopTracks(term domain.Term, limit int) ([]domain.Track, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cached, ok := s.topTracks[term]
	if !ok || len(cached) < limit {
		return nil, false
	}
	return cached[:limit], true
}

func (s *Session) storeTopTracks(term domain.Term, tracks []domain.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(tracks) > len(s.topTracks[term]) {
		s.topTracks[term] = tracks
	}
}

func (s *Session) cachedTopArtists(term domain.Term, limit int) ([]domain.Artist, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cached, ok := s.topArtists[term]
	if !ok || len(cached) < limit {
		return nil, false
	}
	return cached[:limit], true
}

func (s *Session) storeTopArtists(term domain.Term, artists []domain.Artist) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(artists) > len(s.topArtists[term]) {
		s.topArtists[term] = artists
	}
}
