package rest

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/reprise-labs/reprise/internal/core/domain"
	"github.com/reprise-labs/reprise/internal/core/services"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// respondError translates service and domain errors into HTTP statuses.
func respondError(w http.ResponseWriter, err error) {
	var invalid *domain.InvalidParameterError
	var notFound *domain.TrackNotFoundError

	switch {
	case errors.As(err, &invalid):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &notFound), errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrNoSession):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrEmptyAggregate):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrTooManyRequests):
		writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, domain.ErrAuthExpired):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeBody fills req from the JSON body. A missing body leaves the zero
// value so boolean-only requests can omit it entirely.
func decodeBody(r *http.Request, req any) error {
	if r.Body == nil {
		return nil
	}
	if ct := r.Header.Get("Content-Type"); ct != "" {
		media, _, err := mime.ParseMediaType(ct)
		if err != nil || media != "application/json" {
			return errors.New("unsupported content type")
		}
	}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

// --- Response DTOs ---

type audioFeaturesResponse struct {
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Instrumentalness float64 `json:"instrumentalness"`
	Tempo            float64 `json:"tempo"`
	Valence          float64 `json:"valence"`
	Loudness         float64 `json:"loudness"`
}

type trackResponse struct {
	ID         string                `json:"id"`
	Name       string                `json:"name"`
	Artists    []string              `json:"artists"`
	Genres     []string              `json:"genres"`
	Popularity int                   `json:"popularity"`
	AddedAt    time.Time             `json:"added_at"`
	Features   audioFeaturesResponse `json:"features"`
}

type playlistResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TrackCount  int    `json:"track_count"`
}

type recommendationResponse struct {
	Tracks   []trackResponse   `json:"tracks"`
	Playlist *playlistResponse `json:"playlist,omitempty"`
}

func toFeaturesResponse(f domain.AudioFeatures) audioFeaturesResponse {
	return audioFeaturesResponse{
		Danceability:     f.Danceability,
		Energy:           f.Energy,
		Instrumentalness: f.Instrumentalness,
		Tempo:            f.Tempo,
		Valence:          f.Valence,
		Loudness:         f.Loudness,
	}
}

func toRecommendationResponse(result services.PlaylistResult) recommendationResponse {
	resp := recommendationResponse{Tracks: make([]trackResponse, len(result.Tracks))}
	for i, t := range result.Tracks {
		resp.Tracks[i] = trackResponse{
			ID:         t.ID,
			Name:       t.Name,
			Artists:    t.Artists,
			Genres:     t.Genres,
			Popularity: t.Popularity,
			AddedAt:    t.AddedAt,
			Features:   toFeaturesResponse(t.Features),
		}
	}
	if result.Playlist != nil {
		resp.Playlist = &playlistResponse{
			ID:          result.Playlist.ID,
			Name:        result.Playlist.Name,
			Description: result.Playlist.Description,
			TrackCount:  result.Playlist.TrackCount,
		}
	}
	return resp
}
