package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/reprise-labs/reprise/internal/core/domain"
)

type staticToken string

func (s staticToken) Token(ctx context.Context) (string, error) {
	return string(s), nil
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(server.Client(), server.URL, staticToken("test-token"))
	client.maxRetries = 3
	client.baseBackoff = time.Millisecond
	return client, server
}

func TestClient_PlaylistTracks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /playlists/pl1/tracks", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("authorization header = %q", got)
		}
		_ = json.NewEncoder(w).Encode(wirePlaylistTracksPage{
			Items: []wirePlaylistTrackItem{
				{
					AddedAt: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
					Track: wireTrack{
						ID: "t1", Name: "Reptilia", Popularity: 70,
						Artists: []wireArtist{{ID: "ar1", Name: "The Strokes"}},
					},
				},
				{
					// Local file: no catalog id, must be skipped.
					Track: wireTrack{Name: "Home Recording"},
				},
				{
					Track: wireTrack{
						ID: "t2", Name: "My Number", Popularity: 60,
						Artists: []wireArtist{{ID: "ar2", Name: "Foals"}},
					},
				},
			},
		})
	})
	mux.HandleFunc("GET /audio-features", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(wireAudioFeaturesBatch{
			AudioFeatures: []*wireAudioFeatures{
				{ID: "t1", Danceability: 0.5, Energy: 0.8, Instrumentalness: 0.1, Tempo: 158, Valence: 0.7, Loudness: -6},
				nil, // the catalog has no features for t2
			},
		})
	})
	mux.HandleFunc("GET /artists", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(wireArtistsBatch{
			Artists: []wireArtist{
				{ID: "ar1", Genres: []string{"rock", "indie"}},
				{ID: "ar2", Genres: []string{"indie"}},
			},
		})
	})

	client, _ := newTestClient(t, mux)

	tracks, err := client.PlaylistTracks(context.Background(), "pl1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("got %d tracks, want 2 (local file skipped)", len(tracks))
	}

	first := tracks[0]
	if first.ID != "t1" || first.Name != "Reptilia" {
		t.Fatalf("first track = %+v", first)
	}
	if want := []string{"rock", "indie"}; len(first.Genres) != 2 || first.Genres[0] != want[0] || first.Genres[1] != want[1] {
		t.Fatalf("genres = %v, want %v", first.Genres, want)
	}
	if got, want := first.Features.Loudness, -6.0/-60.0; got != want {
		t.Fatalf("normalized loudness = %v, want %v", got, want)
	}
	if first.AddedAt.IsZero() {
		t.Fatal("added-at was not mapped")
	}

	// Missing features default to zero instead of failing the pool.
	if tracks[1].Features != (domain.AudioFeatures{}) {
		t.Fatalf("t2 features = %+v, want zero", tracks[1].Features)
	}
	if tracks[1].Genres[0] != "indie" {
		t.Fatalf("t2 genres = %v", tracks[1].Genres)
	}
}

func TestClient_RetriesRateLimitThenSucceeds(t *testing.T) {
	var calls int
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search", func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"artists": map[string]any{"items": []wireArtist{{ID: "ar1", Name: "Foals"}}},
		})
	})

	client, _ := newTestClient(t, mux)

	id, err := client.SearchArtistID(context.Background(), "Foals")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if id != "ar1" {
		t.Fatalf("artist id = %q, want ar1", id)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestClient_RateLimitExhaustion(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /me/playlists", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	client, _ := newTestClient(t, mux)

	_, err := client.Playlists(context.Background(), 50, 0)
	if !errors.Is(err, domain.ErrTooManyRequests) {
		t.Fatalf("expected ErrTooManyRequests, got: %v", err)
	}
}

func TestClient_AuthExpired(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /me/playlists", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	client, _ := newTestClient(t, mux)

	_, err := client.Playlists(context.Background(), 50, 0)
	if !errors.Is(err, domain.ErrAuthExpired) {
		t.Fatalf("expected ErrAuthExpired, got: %v", err)
	}
}

type refreshableToken struct {
	token       string
	invalidated bool
}

func (r *refreshableToken) Token(ctx context.Context) (string, error) {
	if r.invalidated {
		return "fresh-token", nil
	}
	return r.token, nil
}

func (r *refreshableToken) Invalidate() { r.invalidated = true }

func TestClient_RefreshesTokenOn401(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(wireUser{ID: "user-1"})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	source := &refreshableToken{token: "stale-token"}
	client := NewClient(server.Client(), server.URL, source)
	client.maxRetries = 3
	client.baseBackoff = time.Millisecond

	var user wireUser
	if err := client.get(context.Background(), "/me", nil, &user); err != nil {
		t.Fatalf("expected the retried call to succeed, got: %v", err)
	}
	if user.ID != "user-1" {
		t.Fatalf("user id = %q, want user-1", user.ID)
	}
	if !source.invalidated {
		t.Fatal("the stale token was never invalidated")
	}
}

func TestClient_SearchArtistID_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(wireSearchResponse{})
	})

	client, _ := newTestClient(t, mux)

	_, err := client.SearchArtistID(context.Background(), "Nobody")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestClient_CreatePlaylist(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /me", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(wireUser{ID: "user-1"})
	})
	mux.HandleFunc("POST /users/user-1/playlists", func(w http.ResponseWriter, r *http.Request) {
		var body createPlaylistRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode create body: %v", err)
		}
		if body.Public {
			t.Error("generated playlists must be private")
		}
		_ = json.NewEncoder(w).Encode(wirePlaylist{ID: "pl-new", Name: body.Name, Description: body.Description})
	})

	client, _ := newTestClient(t, mux)

	ref, err := client.CreatePlaylist(context.Background(), "'Reptilia' Related", "desc")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if ref.ID != "pl-new" || ref.Name != "'Reptilia' Related" {
		t.Fatalf("ref = %+v", ref)
	}
}

func TestClient_ReplaceTracks_SendsURIs(t *testing.T) {
	var got trackURIsRequest
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /playlists/pl1/tracks", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	})

	client, _ := newTestClient(t, mux)

	if err := client.ReplaceTracks(context.Background(), "pl1", []string{"t1", "t2"}); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(got.URIs) != 2 || got.URIs[0] != "spotify:track:t1" {
		t.Fatalf("uris = %v", got.URIs)
	}
}
