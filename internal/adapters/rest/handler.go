package rest

import (
	"encoding/json"
	"net/http"

	"github.com/reprise-labs/reprise/internal/core/services"
)

// Handler manages the HTTP interface for our application.
type Handler struct {
	svc    *services.Recommender // Dependency on the Core Service
	router *http.ServeMux        // Standard library router
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(svc *services.Recommender) *Handler {
	h := &Handler{
		svc:    svc,
		router: http.NewServeMux(),
	}

	// Register Routes
	h.routes()

	return h
}

// ServeHTTP satisfies the http.Handler interface.
// It acts as a proxy, passing the request to our internal router.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes() {
	// Health Check
	h.router.HandleFunc("GET /health", h.HealthCheck)
	// Session Management
	h.router.HandleFunc("POST /session", h.StartSession)
	// Recommendations
	h.router.HandleFunc("POST /recommendations/song", h.SongRecommendations)
	h.router.HandleFunc("POST /recommendations/artist", h.ArtistPlaylist)
	h.router.HandleFunc("POST /recommendations/mood", h.SongsByMood)
	h.router.HandleFunc("POST /recommendations/most-listened", h.MostListened)
	h.router.HandleFunc("POST /recommendations/profile", h.ProfileRecommendation)
	h.router.HandleFunc("POST /recommendations/playlist", h.PlaylistRecommendation)
	// Library Maintenance
	h.router.HandleFunc("POST /playlists/sync-all", h.SyncAll)
	// Pool Insights
	h.router.HandleFunc("GET /trends/genres", h.TrendingGenres)
	h.router.HandleFunc("GET /trends/artists", h.TrendingArtists)
	h.router.HandleFunc("GET /statistics", h.AudioStatistics)
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok", "message": "Reprise is live 🎶"})
}

type startSessionRequest struct {
	UseCache bool `json:"use_cache"`
}

type startSessionResponse struct {
	SessionID string `json:"session_id"`
	PoolSize  int    `json:"pool_size"`
}

// StartSession handles POST /session. It (re)loads the base-playlist pool and
// replaces the active session; every other route requires one.
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.svc.StartSession(r.Context(), req.UseCache)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, startSessionResponse{
		SessionID: session.ID,
		PoolSize:  len(session.Pool),
	})
}
