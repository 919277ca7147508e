package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/reprise-labs/reprise/internal/core/domain"
	"github.com/reprise-labs/reprise/internal/core/services"
)

// --- Mocks ---

// The Handler depends on the concrete *Recommender, so these tests build a
// real service over mock driven adapters, exactly like the service tests do.

type stubCatalog struct {
	pool []domain.Track
	recs []domain.Track
}

func (s *stubCatalog) PlaylistTracks(ctx context.Context, playlistID string) ([]domain.Track, error) {
	return s.pool, nil
}

func (s *stubCatalog) TopTracks(ctx context.Context, term domain.Term, limit int) ([]domain.Track, error) {
	if limit > len(s.pool) {
		limit = len(s.pool)
	}
	return s.pool[:limit], nil
}

func (s *stubCatalog) TopArtists(ctx context.Context, term domain.Term, limit int) ([]domain.Artist, error) {
	return []domain.Artist{{ID: "ar1", Name: "The Strokes", Genres: []string{"rock", "indie"}, Popularity: 80}}, nil
}

func (s *stubCatalog) SearchArtistID(ctx context.Context, name string) (string, error) {
	return "ar-" + name, nil
}

func (s *stubCatalog) Recommendations(ctx context.Context, seeds domain.SeedSelection) ([]domain.Track, error) {
	return s.recs, nil
}

type stubLibrary struct {
	playlists []domain.PlaylistRef
	created   []domain.PlaylistRef
}

func (s *stubLibrary) Playlists(ctx context.Context, limit, offset int) ([]domain.PlaylistRef, error) {
	if offset >= len(s.playlists) {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.playlists) {
		end = len(s.playlists)
	}
	return s.playlists[offset:end], nil
}

func (s *stubLibrary) CreatePlaylist(ctx context.Context, name, description string) (domain.PlaylistRef, error) {
	ref := domain.PlaylistRef{ID: "pl-new", Name: name, Description: description}
	s.created = append(s.created, ref)
	return ref, nil
}

func (s *stubLibrary) ReplaceTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	return nil
}

func (s *stubLibrary) AppendTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	return nil
}

func (s *stubLibrary) UpdatePlaylistDetails(ctx context.Context, playlistID, name, description string) error {
	return nil
}

type stubSnapshots struct{}

func (s *stubSnapshots) SaveSnapshot(ctx context.Context, basePlaylist string, tracks []domain.Track) error {
	return nil
}

func (s *stubSnapshots) LoadSnapshot(ctx context.Context, basePlaylist string) ([]domain.Track, error) {
	return nil, domain.ErrNotFound
}

func restPool() []domain.Track {
	now := time.Now()
	return []domain.Track{
		{
			ID: "a", Name: "Reptilia", Artists: []string{"The Strokes"}, Genres: []string{"rock", "indie"},
			Popularity: 70, AddedAt: now.AddDate(0, 0, -5),
			Features: domain.AudioFeatures{Danceability: 0.5, Energy: 0.9, Instrumentalness: 0.02, Tempo: 158, Valence: 0.7, Loudness: 0.8},
		},
		{
			ID: "b", Name: "My Number", Artists: []string{"Foals"}, Genres: []string{"indie"},
			Popularity: 60, AddedAt: now.AddDate(0, 0, -40),
			Features: domain.AudioFeatures{Danceability: 0.7, Energy: 0.8, Instrumentalness: 0.01, Tempo: 120, Valence: 0.9, Loudness: 0.7},
		},
		{
			ID: "c", Name: "Gymnopedie No.1", Artists: []string{"Erik Satie"}, Genres: []string{"classical"},
			Popularity: 55, AddedAt: now.AddDate(0, 0, -200),
			Features: domain.AudioFeatures{Danceability: 0.2, Energy: 0.1, Instrumentalness: 0.95, Tempo: 60, Valence: 0.3, Loudness: 0.1},
		},
	}
}

func newTestHandler(t *testing.T, withSession bool) (*Handler, *stubLibrary) {
	t.Helper()

	catalog := &stubCatalog{pool: restPool(), recs: restPool()[:1]}
	library := &stubLibrary{}
	svc := services.NewRecommender(catalog, library, &stubSnapshots{}, "base-id", "Base Mix")

	if withSession {
		if _, err := svc.StartSession(context.Background(), false); err != nil {
			t.Fatalf("failed to start session: %v", err)
		}
	}
	return NewHandler(svc), library
}

func doJSON(t *testing.T, h *Handler, method, target string, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestHandler_HealthCheck(t *testing.T) {
	h, _ := newTestHandler(t, false)

	rec := doJSON(t, h, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("body = %q, want an ok status", rec.Body.String())
	}
}

func TestHandler_StartSession(t *testing.T) {
	h, _ := newTestHandler(t, false)

	rec := doJSON(t, h, http.MethodPost, "/session", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"pool_size":3`) {
		t.Fatalf("body = %q, want pool_size 3", rec.Body.String())
	}
}

func TestHandler_SongRecommendations(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]any
		withSession    bool
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Success: ranks the pool around the song",
			body:           map[string]any{"song": "Reptilia"},
			withSession:    true,
			expectedStatus: http.StatusOK,
			expectedBody:   `"name":"My Number"`,
		},
		{
			name:           "Bad Request: missing song",
			body:           map[string]any{},
			withSession:    true,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "song is required",
		},
		{
			name:           "Bad Request: k out of range",
			body:           map[string]any{"song": "Reptilia", "k": 2000},
			withSession:    true,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "must be between 1 and 1500",
		},
		{
			name:           "Not Found: unknown song",
			body:           map[string]any{"song": "Wonderwall"},
			withSession:    true,
			expectedStatus: http.StatusNotFound,
			expectedBody:   "Wonderwall",
		},
		{
			name:           "Conflict: no active session",
			body:           map[string]any{"song": "Reptilia"},
			withSession:    false,
			expectedStatus: http.StatusConflict,
			expectedBody:   "no active session",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			h, _ := newTestHandler(t, tc.withSession)

			rec := doJSON(t, h, http.MethodPost, "/recommendations/song", tc.body)
			if rec.Code != tc.expectedStatus {
				t.Errorf("status = %d, want %d, body: %s", rec.Code, tc.expectedStatus, strings.TrimSpace(rec.Body.String()))
			}
			if tc.expectedBody != "" && !strings.Contains(rec.Body.String(), tc.expectedBody) {
				t.Errorf("body = %q, want substring %q", rec.Body.String(), tc.expectedBody)
			}
		})
	}
}

func TestHandler_SongRecommendations_BuildCreatesPlaylist(t *testing.T) {
	h, library := newTestHandler(t, true)

	rec := doJSON(t, h, http.MethodPost, "/recommendations/song", map[string]any{
		"song":           "Reptilia",
		"build_playlist": true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	if len(library.created) != 1 {
		t.Fatalf("created %d playlists, want 1", len(library.created))
	}

	var resp recommendationResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Playlist == nil {
		t.Fatal("expected the built playlist in the response")
	}
	if resp.Playlist.Name != library.created[0].Name {
		t.Fatalf("playlist name = %q, want %q", resp.Playlist.Name, library.created[0].Name)
	}
}

func TestHandler_ArtistPlaylist(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]any
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Success: artist songs only",
			body:           map[string]any{"artist": "The Strokes"},
			expectedStatus: http.StatusOK,
			expectedBody:   `"name":"Reptilia"`,
		},
		{
			name:           "Bad Request: missing artist",
			body:           map[string]any{},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "artist is required",
		},
		{
			name:           "Not Found: artist not in the pool",
			body:           map[string]any{"artist": "Oasis"},
			expectedStatus: http.StatusNotFound,
			expectedBody:   "Oasis",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			h, _ := newTestHandler(t, true)

			rec := doJSON(t, h, http.MethodPost, "/recommendations/artist", tc.body)
			if rec.Code != tc.expectedStatus {
				t.Errorf("status = %d, want %d, body: %s", rec.Code, tc.expectedStatus, strings.TrimSpace(rec.Body.String()))
			}
			if !strings.Contains(rec.Body.String(), tc.expectedBody) {
				t.Errorf("body = %q, want substring %q", rec.Body.String(), tc.expectedBody)
			}
		})
	}
}

func TestHandler_SongsByMood(t *testing.T) {
	h, _ := newTestHandler(t, true)

	rec := doJSON(t, h, http.MethodPost, "/recommendations/mood", map[string]any{"mood": "happy"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var resp recommendationResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// Reptilia and My Number are happy; the Satie piece is not.
	if len(resp.Tracks) != 2 {
		t.Fatalf("got %d tracks, want 2", len(resp.Tracks))
	}

	badMood := doJSON(t, h, http.MethodPost, "/recommendations/mood", map[string]any{"mood": "grumpy"})
	if badMood.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", badMood.Code, http.StatusBadRequest)
	}
}

func TestHandler_MostListened(t *testing.T) {
	h, _ := newTestHandler(t, true)

	rec := doJSON(t, h, http.MethodPost, "/recommendations/most-listened", map[string]any{
		"time_range": "short_term",
		"k":          2,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var resp recommendationResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Tracks) != 2 {
		t.Fatalf("got %d tracks, want 2", len(resp.Tracks))
	}

	badTerm := doJSON(t, h, http.MethodPost, "/recommendations/most-listened", map[string]any{
		"time_range": "decade",
	})
	if badTerm.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", badTerm.Code, http.StatusBadRequest)
	}
}

func TestHandler_ProfileRecommendation(t *testing.T) {
	h, _ := newTestHandler(t, true)

	rec := doJSON(t, h, http.MethodPost, "/recommendations/profile", map[string]any{
		"time_range":    "medium_term",
		"main_criteria": "mixed",
		"k":             10,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"name":"Reptilia"`) {
		t.Fatalf("body = %q, want the catalog recommendation", rec.Body.String())
	}

	badK := doJSON(t, h, http.MethodPost, "/recommendations/profile", map[string]any{
		"time_range":    "medium_term",
		"main_criteria": "mixed",
		"k":             101,
	})
	if badK.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", badK.Code, http.StatusBadRequest)
	}
}

func TestHandler_PlaylistRecommendation(t *testing.T) {
	h, _ := newTestHandler(t, true)

	rec := doJSON(t, h, http.MethodPost, "/recommendations/playlist", map[string]any{
		"time_range":    "year",
		"main_criteria": "genres",
		"k":             10,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	badCriteria := doJSON(t, h, http.MethodPost, "/recommendations/playlist", map[string]any{
		"time_range":    "year",
		"main_criteria": "vibes",
	})
	if badCriteria.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", badCriteria.Code, http.StatusBadRequest)
	}
}

func TestHandler_Trends(t *testing.T) {
	h, _ := newTestHandler(t, true)

	genres := doJSON(t, h, http.MethodGet, "/trends/genres", nil)
	if genres.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", genres.Code, genres.Body.String())
	}
	if !strings.Contains(genres.Body.String(), `"name":"indie"`) {
		t.Fatalf("body = %q, want the indie genre", genres.Body.String())
	}

	artists := doJSON(t, h, http.MethodGet, "/trends/artists?time_range=month", nil)
	if artists.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", artists.Code, artists.Body.String())
	}
	if !strings.Contains(artists.Body.String(), `"name":"The Strokes"`) {
		t.Fatalf("body = %q, want The Strokes in the month window", artists.Body.String())
	}
	if strings.Contains(artists.Body.String(), "Erik Satie") {
		t.Fatalf("body = %q, the 200-day-old track is outside the month window", artists.Body.String())
	}

	badRange := doJSON(t, h, http.MethodGet, "/trends/genres?time_range=eon", nil)
	if badRange.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", badRange.Code, http.StatusBadRequest)
	}
}

func TestHandler_AudioStatistics(t *testing.T) {
	h, _ := newTestHandler(t, true)

	rec := doJSON(t, h, http.MethodGet, "/statistics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var resp statisticsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Min.Tempo != 60 || resp.Max.Tempo != 158 {
		t.Fatalf("tempo range = [%v, %v], want [60, 158]", resp.Min.Tempo, resp.Max.Tempo)
	}
}

func TestHandler_SyncAll(t *testing.T) {
	h, _ := newTestHandler(t, true)

	rec := doJSON(t, h, http.MethodPost, "/playlists/sync-all", map[string]any{"k": 10})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"total":0`) {
		t.Fatalf("body = %q, want an empty sweep report", rec.Body.String())
	}
}
