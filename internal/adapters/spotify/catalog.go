package spotify

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/reprise-labs/reprise/internal/core/domain"
)

const (
	playlistPageSize = 100
	topItemsPageSize = 50
	featuresBatch    = 100
	artistsBatch     = 50
)

// PlaylistTracks fetches every track of the playlist and hydrates each with
// audio features and its artists' genres.
func (c *Client) PlaylistTracks(ctx context.Context, playlistID string) ([]domain.Track, error) {
	var items []wirePlaylistTrackItem
	for offset := 0; ; offset += playlistPageSize {
		query := url.Values{
			"limit":  {strconv.Itoa(playlistPageSize)},
			"offset": {strconv.Itoa(offset)},
		}

		var page wirePlaylistTracksPage
		if err := c.get(ctx, "/playlists/"+playlistID+"/tracks", query, &page); err != nil {
			return nil, err
		}
		items = append(items, page.Items...)

		if len(page.Items) < playlistPageSize {
			break
		}
	}

	tracks := make([]wireTrack, len(items))
	addedAt := make([]time.Time, len(items))
	for i, item := range items {
		tracks[i] = item.Track
		addedAt[i] = item.AddedAt
	}

	return c.hydrate(ctx, tracks, addedAt)
}

// TopTracks returns the user's most listened tracks for the term, hydrated.
func (c *Client) TopTracks(ctx context.Context, term domain.Term, limit int) ([]domain.Track, error) {
	var tracks []wireTrack
	for offset := 0; len(tracks) < limit; offset += topItemsPageSize {
		pageSize := topItemsPageSize
		if remaining := limit - len(tracks); remaining < pageSize {
			pageSize = remaining
		}
		query := url.Values{
			"time_range": {string(term)},
			"limit":      {strconv.Itoa(pageSize)},
			"offset":     {strconv.Itoa(offset)},
		}

		var page wireTopTracksPage
		if err := c.get(ctx, "/me/top/tracks", query, &page); err != nil {
			return nil, err
		}
		tracks = append(tracks, page.Items...)

		if len(page.Items) < pageSize || page.Next == "" {
			break
		}
	}

	return c.hydrate(ctx, tracks, nil)
}

// TopArtists returns the user's most listened artists for the term.
func (c *Client) TopArtists(ctx context.Context, term domain.Term, limit int) ([]domain.Artist, error) {
	var artists []domain.Artist
	for offset := 0; len(artists) < limit; offset += topItemsPageSize {
		pageSize := topItemsPageSize
		if remaining := limit - len(artists); remaining < pageSize {
			pageSize = remaining
		}
		query := url.Values{
			"time_range": {string(term)},
			"limit":      {strconv.Itoa(pageSize)},
			"offset":     {strconv.Itoa(offset)},
		}

		var page wireTopArtistsPage
		if err := c.get(ctx, "/me/top/artists", query, &page); err != nil {
			return nil, err
		}
		for _, wa := range page.Items {
			artists = append(artists, mapArtistToDomain(wa))
		}

		if len(page.Items) < pageSize || page.Next == "" {
			break
		}
	}

	return artists, nil
}

// SearchArtistID resolves an artist name to its catalog id, taking the
// catalog's best match.
func (c *Client) SearchArtistID(ctx context.Context, name string) (string, error) {
	query := url.Values{
		"q":     {fmt.Sprintf("artist:%q", name)},
		"type":  {"artist"},
		"limit": {"1"},
	}

	var result wireSearchResponse
	if err := c.get(ctx, "/search", query, &result); err != nil {
		return "", err
	}
	if len(result.Artists.Items) == 0 {
		return "", fmt.Errorf("spotify adapter: artist %q: %w", name, domain.ErrNotFound)
	}
	return result.Artists.Items[0].ID, nil
}

// Recommendations asks the catalog's recommendation endpoint for tracks
// matching the seeds and the feature envelope, and hydrates the result.
func (c *Client) Recommendations(ctx context.Context, seeds domain.SeedSelection) ([]domain.Track, error) {
	query := url.Values{"limit": {strconv.Itoa(seeds.Limit)}}
	if len(seeds.ArtistIDs) > 0 {
		query.Set("seed_artists", strings.Join(seeds.ArtistIDs, ","))
	}
	if len(seeds.Genres) > 0 {
		query.Set("seed_genres", strings.Join(seeds.Genres, ","))
	}
	if len(seeds.TrackIDs) > 0 {
		query.Set("seed_tracks", strings.Join(seeds.TrackIDs, ","))
	}
	addEnvelope(query, seeds.Envelope)

	var result wireRecommendations
	if err := c.get(ctx, "/recommendations", query, &result); err != nil {
		return nil, err
	}

	return c.hydrate(ctx, result.Tracks, nil)
}

// addEnvelope translates a feature envelope into the endpoint's min_/max_/
// target_ tunables. A zero envelope adds nothing.
func addEnvelope(query url.Values, envelope domain.FeatureEnvelope) {
	if envelope == (domain.FeatureEnvelope{}) {
		return
	}

	set := func(prefix string, f domain.AudioFeatures) {
		query.Set(prefix+"_danceability", formatFloat(f.Danceability))
		query.Set(prefix+"_energy", formatFloat(f.Energy))
		query.Set(prefix+"_instrumentalness", formatFloat(f.Instrumentalness))
		query.Set(prefix+"_tempo", formatFloat(f.Tempo))
		query.Set(prefix+"_valence", formatFloat(f.Valence))
	}
	set("min", envelope.Min)
	set("max", envelope.Max)
	set("target", envelope.Target)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// hydrate enriches raw tracks with audio features and artist genres. A track
// without features keeps zeroed features; a failed enrichment batch fails
// the whole call since a half-hydrated pool would skew every distance.
func (c *Client) hydrate(ctx context.Context, tracks []wireTrack, addedAt []time.Time) ([]domain.Track, error) {
	ids := make([]string, 0, len(tracks))
	for _, wt := range tracks {
		if wt.ID != "" {
			ids = append(ids, wt.ID)
		}
	}

	features, err := c.audioFeatures(ctx, ids)
	if err != nil {
		return nil, err
	}
	genres, err := c.genresForArtists(ctx, tracks)
	if err != nil {
		return nil, err
	}

	hydrated := make([]domain.Track, 0, len(tracks))
	for i, wt := range tracks {
		if wt.ID == "" {
			continue // local files and removed tracks carry no id
		}

		var trackGenres []string
		seen := make(map[string]struct{})
		for _, a := range wt.Artists {
			for _, g := range genres[a.ID] {
				if _, ok := seen[g]; !ok {
					seen[g] = struct{}{}
					trackGenres = append(trackGenres, g)
				}
			}
		}

		var added time.Time
		if addedAt != nil {
			added = addedAt[i]
		}
		hydrated = append(hydrated, mapTrackToDomain(wt, features[wt.ID], trackGenres, added))
	}

	return hydrated, nil
}

// audioFeatures fetches features for the ids in batches. Entries the catalog
// has no features for come back null and are simply absent from the map.
func (c *Client) audioFeatures(ctx context.Context, ids []string) (map[string]*wireAudioFeatures, error) {
	features := make(map[string]*wireAudioFeatures, len(ids))
	for start := 0; start < len(ids); start += featuresBatch {
		end := start + featuresBatch
		if end > len(ids) {
			end = len(ids)
		}

		query := url.Values{"ids": {strings.Join(ids[start:end], ",")}}
		var batch wireAudioFeaturesBatch
		if err := c.get(ctx, "/audio-features", query, &batch); err != nil {
			return nil, err
		}

		for _, f := range batch.AudioFeatures {
			if f != nil {
				features[f.ID] = f
			}
		}
	}
	return features, nil
}

// genresForArtists resolves the genres of every artist appearing in the
// tracks, caching per artist id for the client's lifetime.
func (c *Client) genresForArtists(ctx context.Context, tracks []wireTrack) (map[string][]string, error) {
	var missing []string
	seen := make(map[string]struct{})

	c.mu.Lock()
	for _, wt := range tracks {
		for _, a := range wt.Artists {
			if a.ID == "" {
				continue
			}
			if _, cached := c.artistGenres[a.ID]; cached {
				continue
			}
			if _, queued := seen[a.ID]; queued {
				continue
			}
			seen[a.ID] = struct{}{}
			missing = append(missing, a.ID)
		}
	}
	c.mu.Unlock()

	for start := 0; start < len(missing); start += artistsBatch {
		end := start + artistsBatch
		if end > len(missing) {
			end = len(missing)
		}

		query := url.Values{"ids": {strings.Join(missing[start:end], ",")}}
		var batch wireArtistsBatch
		if err := c.get(ctx, "/artists", query, &batch); err != nil {
			return nil, err
		}

		c.mu.Lock()
		for _, wa := range batch.Artists {
			c.artistGenres[wa.ID] = wa.Genres
		}
		c.mu.Unlock()
	}

	genres := make(map[string][]string)
	c.mu.Lock()
	for _, wt := range tracks {
		for _, a := range wt.Artists {
			if cached, ok := c.artistGenres[a.ID]; ok {
				genres[a.ID] = cached
			}
		}
	}
	c.mu.Unlock()

	return genres, nil
}
