package rest

import (
	"net/http"

	"github.com/reprise-labs/reprise/internal/core/domain"
)

type trendEntryResponse struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Rate  float64 `json:"rate"`
}

func toTrendResponse(entries []domain.TrendEntry) []trendEntryResponse {
	resp := make([]trendEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = trendEntryResponse{Name: e.Name, Count: e.Count, Rate: e.Rate}
	}
	return resp
}

func queryTimeRange(r *http.Request) domain.PoolTimeRange {
	timeRange := r.URL.Query().Get("time_range")
	if timeRange == "" {
		return domain.RangeAllTime
	}
	return domain.PoolTimeRange(timeRange)
}

// TrendingGenres handles GET /trends/genres
func (h *Handler) TrendingGenres(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.TrendingGenres(queryTimeRange(r))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTrendResponse(entries))
}

// TrendingArtists handles GET /trends/artists
func (h *Handler) TrendingArtists(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.TrendingArtists(queryTimeRange(r))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTrendResponse(entries))
}

type statisticsResponse struct {
	Min  audioFeaturesResponse `json:"min"`
	Max  audioFeaturesResponse `json:"max"`
	Mean audioFeaturesResponse `json:"mean"`
}

// AudioStatistics handles GET /statistics
func (h *Handler) AudioStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.AudioStatistics()
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statisticsResponse{
		Min:  toFeaturesResponse(stats.Min),
		Max:  toFeaturesResponse(stats.Max),
		Mean: toFeaturesResponse(stats.Mean),
	})
}

type syncAllRequest struct {
	K int `json:"k"`
}

type syncAllResponse struct {
	Total    int                   `json:"total"`
	Updated  int                   `json:"updated"`
	Failed   int                   `json:"failed"`
	Failures []syncFailureResponse `json:"failures,omitempty"`
}

type syncFailureResponse struct {
	Playlist string `json:"playlist"`
	Reason   string `json:"reason"`
}

// SyncAll handles POST /playlists/sync-all. It rebuilds every playlist this
// engine generated against the current pool.
func (h *Handler) SyncAll(w http.ResponseWriter, r *http.Request) {
	var req syncAllRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	report, err := h.svc.UpdateAllGeneratedPlaylists(r.Context(), requestedK(req.K))
	if err != nil {
		respondError(w, err)
		return
	}

	resp := syncAllResponse{Total: report.Total, Updated: report.Updated, Failed: report.Failed}
	for _, f := range report.Failures {
		resp.Failures = append(resp.Failures, syncFailureResponse{Playlist: f.Playlist, Reason: f.Reason})
	}
	writeJSON(w, http.StatusOK, resp)
}
