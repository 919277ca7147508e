package spotify

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/reprise-labs/reprise/internal/core/domain"
)

// Playlists returns one page of the current user's playlists.
func (c *Client) Playlists(ctx context.Context, limit, offset int) ([]domain.PlaylistRef, error) {
	query := url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}

	var page wirePlaylistsPage
	if err := c.get(ctx, "/me/playlists", query, &page); err != nil {
		return nil, err
	}

	refs := make([]domain.PlaylistRef, 0, len(page.Items))
	for _, wp := range page.Items {
		refs = append(refs, mapPlaylistToRef(wp))
	}
	return refs, nil
}

// CreatePlaylist creates a private playlist owned by the current user.
func (c *Client) CreatePlaylist(ctx context.Context, name, description string) (domain.PlaylistRef, error) {
	userID, err := c.currentUserID(ctx)
	if err != nil {
		return domain.PlaylistRef{}, err
	}

	body := createPlaylistRequest{Name: name, Description: description, Public: false}
	var created wirePlaylist
	if err := c.send(ctx, http.MethodPost, "/users/"+userID+"/playlists", nil, body, &created); err != nil {
		return domain.PlaylistRef{}, err
	}
	return mapPlaylistToRef(created), nil
}

// ReplaceTracks atomically replaces the playlist's contents.
func (c *Client) ReplaceTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	return c.send(ctx, http.MethodPut, "/playlists/"+playlistID+"/tracks", nil, trackURIsRequest{URIs: trackURIs(trackIDs)}, nil)
}

// AppendTracks appends tracks to the playlist, preserving order.
func (c *Client) AppendTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	return c.send(ctx, http.MethodPost, "/playlists/"+playlistID+"/tracks", nil, trackURIsRequest{URIs: trackURIs(trackIDs)}, nil)
}

// UpdatePlaylistDetails rewrites the playlist's name and description.
func (c *Client) UpdatePlaylistDetails(ctx context.Context, playlistID, name, description string) error {
	return c.send(ctx, http.MethodPut, "/playlists/"+playlistID, nil, playlistDetailsRequest{Name: name, Description: description}, nil)
}

func (c *Client) currentUserID(ctx context.Context) (string, error) {
	c.mu.Lock()
	cached := c.userID
	c.mu.Unlock()
	if cached != "" {
		return cached, nil
	}

	var user wireUser
	if err := c.get(ctx, "/me", nil, &user); err != nil {
		return "", err
	}

	c.mu.Lock()
	c.userID = user.ID
	c.mu.Unlock()
	return user.ID, nil
}

func trackURIs(trackIDs []string) []string {
	uris := make([]string, len(trackIDs))
	for i, id := range trackIDs {
		uris[i] = "spotify:track:" + id
	}
	return uris
}
