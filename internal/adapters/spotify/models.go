package spotify

import "time"

// Wire DTOs for the subset of the Web API this adapter touches.

type wireArtist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity"`
}

type wireTrack struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Popularity int          `json:"popularity"`
	Artists    []wireArtist `json:"artists"`
}

type wirePlaylistTrackItem struct {
	AddedAt time.Time `json:"added_at"`
	Track   wireTrack `json:"track"`
}

type wirePlaylistTracksPage struct {
	Items []wirePlaylistTrackItem `json:"items"`
	Next  string                  `json:"next"`
	Total int                     `json:"total"`
}

type wireAudioFeatures struct {
	ID               string  `json:"id"`
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Instrumentalness float64 `json:"instrumentalness"`
	Tempo            float64 `json:"tempo"`
	Valence          float64 `json:"valence"`
	Loudness         float64 `json:"loudness"`
}

type wireAudioFeaturesBatch struct {
	AudioFeatures []*wireAudioFeatures `json:"audio_features"`
}

type wireArtistsBatch struct {
	Artists []wireArtist `json:"artists"`
}

type wireTopTracksPage struct {
	Items []wireTrack `json:"items"`
	Next  string      `json:"next"`
}

type wireTopArtistsPage struct {
	Items []wireArtist `json:"items"`
	Next  string       `json:"next"`
}

type wireSearchResponse struct {
	Artists struct {
		Items []wireArtist `json:"items"`
	} `json:"artists"`
}

type wireRecommendations struct {
	Tracks []wireTrack `json:"tracks"`
}

type wirePlaylist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Tracks      struct {
		Total int `json:"total"`
	} `json:"tracks"`
}

type wirePlaylistsPage struct {
	Items []wirePlaylist `json:"items"`
	Next  string         `json:"next"`
}

type wireUser struct {
	ID string `json:"id"`
}

type trackURIsRequest struct {
	URIs []string `json:"uris"`
}

type createPlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
}

type playlistDetailsRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
