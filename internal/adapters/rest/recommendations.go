package rest

import (
	"net/http"

	"github.com/reprise-labs/reprise/internal/core/domain"
	"github.com/reprise-labs/reprise/internal/core/services"
)

// defaultK is the playlist size used when a request omits "k".
const defaultK = 50

func requestedK(k int) int {
	if k == 0 {
		return defaultK
	}
	return k
}

type songRecommendationsRequest struct {
	Song  string `json:"song"`
	K     int    `json:"k"`
	Build bool   `json:"build_playlist"`
}

// SongRecommendations handles POST /recommendations/song
func (h *Handler) SongRecommendations(w http.ResponseWriter, r *http.Request) {
	var req songRecommendationsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Song == "" {
		writeError(w, http.StatusBadRequest, "song is required")
		return
	}

	result, err := h.svc.RecommendationsForSong(r.Context(), req.Song, requestedK(req.K), req.Build)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toRecommendationResponse(result))
}

type artistPlaylistRequest struct {
	Artist              string `json:"artist"`
	K                   int    `json:"k"`
	CompleteWithSimilar bool   `json:"complete_with_similar"`
	EnsureAllSongs      bool   `json:"ensure_all_songs"`
	Build               bool   `json:"build_playlist"`
}

// ArtistPlaylist handles POST /recommendations/artist
func (h *Handler) ArtistPlaylist(w http.ResponseWriter, r *http.Request) {
	var req artistPlaylistRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Artist == "" {
		writeError(w, http.StatusBadRequest, "artist is required")
		return
	}

	result, err := h.svc.ArtistPlaylist(r.Context(), req.Artist, requestedK(req.K), req.CompleteWithSimilar, req.EnsureAllSongs, req.Build)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toRecommendationResponse(result))
}

type moodRequest struct {
	Mood                      string `json:"mood"`
	K                         int    `json:"k"`
	ExcludeMostlyInstrumental bool   `json:"exclude_mostly_instrumental"`
	Build                     bool   `json:"build_playlist"`
}

// SongsByMood handles POST /recommendations/mood
func (h *Handler) SongsByMood(w http.ResponseWriter, r *http.Request) {
	var req moodRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Mood == "" {
		writeError(w, http.StatusBadRequest, "mood is required")
		return
	}

	result, err := h.svc.SongsByMood(r.Context(), domain.Mood(req.Mood), requestedK(req.K), req.ExcludeMostlyInstrumental, req.Build)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toRecommendationResponse(result))
}

type mostListenedRequest struct {
	TimeRange string `json:"time_range"`
	K         int    `json:"k"`
	Similar   bool   `json:"similar"`
	Build     bool   `json:"build_playlist"`
}

// MostListened handles POST /recommendations/most-listened. With "similar",
// the top tracks seed a ranking over the base pool instead of being returned
// directly.
func (h *Handler) MostListened(w http.ResponseWriter, r *http.Request) {
	var req mostListenedRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	term := domain.Term(req.TimeRange)
	k := requestedK(req.K)

	var result services.PlaylistResult
	var err error
	if req.Similar {
		result, err = h.svc.MostListenedRecommendation(r.Context(), term, k, req.Build)
	} else {
		result, err = h.svc.MostListened(r.Context(), term, k, req.Build)
	}
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toRecommendationResponse(result))
}

type profileRecommendationRequest struct {
	TimeRange    string `json:"time_range"`
	MainCriteria string `json:"main_criteria"`
	K            int    `json:"k"`
	SnapshotDate bool   `json:"snapshot_date"`
	Build        bool   `json:"build_playlist"`
}

// ProfileRecommendation handles POST /recommendations/profile
func (h *Handler) ProfileRecommendation(w http.ResponseWriter, r *http.Request) {
	var req profileRecommendationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.svc.ProfileRecommendation(r.Context(), domain.Term(req.TimeRange), domain.Criteria(req.MainCriteria), requestedK(req.K), req.SnapshotDate, req.Build)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toRecommendationResponse(result))
}

type playlistRecommendationRequest struct {
	TimeRange    string `json:"time_range"`
	MainCriteria string `json:"main_criteria"`
	K            int    `json:"k"`
	SnapshotDate bool   `json:"snapshot_date"`
	Build        bool   `json:"build_playlist"`
}

// PlaylistRecommendation handles POST /recommendations/playlist
func (h *Handler) PlaylistRecommendation(w http.ResponseWriter, r *http.Request) {
	var req playlistRecommendationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.svc.PlaylistRecommendation(r.Context(), domain.PoolTimeRange(req.TimeRange), domain.Criteria(req.MainCriteria), requestedK(req.K), req.SnapshotDate, req.Build)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toRecommendationResponse(result))
}
