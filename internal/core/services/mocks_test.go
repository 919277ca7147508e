package services

import (
	"context"
	"fmt"

	"github.com/reprise-labs/reprise/internal/core/domain"
)

// --- Mocks ---

// mockCatalog is a lightweight mock of the catalog provider.
type mockCatalog struct {
	poolTracks []domain.Track
	poolErr    error

	topTracks  map[domain.Term][]domain.Track
	topArtists map[domain.Term][]domain.Artist
	topErr     error

	artistIDs map[string]string

	recommended []domain.Track
	recErr      error

	recCalls []domain.SeedSelection
}

func (m *mockCatalog) PlaylistTracks(ctx context.Context, playlistID string) ([]domain.Track, error) {
	if m.poolErr != nil {
		return nil, m.poolErr
	}
	return m.poolTracks, nil
}

func (m *mockCatalog) TopTracks(ctx context.Context, term domain.Term, limit int) ([]domain.Track, error) {
	if m.topErr != nil {
		return nil, m.topErr
	}
	tracks := m.topTracks[term]
	if len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return tracks, nil
}

func (m *mockCatalog) TopArtists(ctx context.Context, term domain.Term, limit int) ([]domain.Artist, error) {
	if m.topErr != nil {
		return nil, m.topErr
	}
	artists := m.topArtists[term]
	if len(artists) > limit {
		artists = artists[:limit]
	}
	return artists, nil
}

func (m *mockCatalog) SearchArtistID(ctx context.Context, name string) (string, error) {
	if id, ok := m.artistIDs[name]; ok {
		return id, nil
	}
	return "", fmt.Errorf("artist %q not found", name)
}

func (m *mockCatalog) Recommendations(ctx context.Context, seeds domain.SeedSelection) ([]domain.Track, error) {
	m.recCalls = append(m.recCalls, seeds)
	if m.recErr != nil {
		return nil, m.recErr
	}
	return m.recommended, nil
}

// mockLibrary is an in-memory mock of the library provider. Playlist
// contents live in tracks, keyed by playlist id.
type mockLibrary struct {
	playlists []domain.PlaylistRef
	listErr   error

	tracks map[string][]string

	created        []domain.PlaylistRef
	detailsUpdated map[string]domain.Identity

	replaceCalls int
	appendCalls  int
	replaceErr   error
}

func newMockLibrary(playlists ...domain.PlaylistRef) *mockLibrary {
	return &mockLibrary{
		playlists:      playlists,
		tracks:         make(map[string][]string),
		detailsUpdated: make(map[string]domain.Identity),
	}
}

func (m *mockLibrary) Playlists(ctx context.Context, limit, offset int) ([]domain.PlaylistRef, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if offset >= len(m.playlists) {
		return nil, nil
	}
	end := offset + limit
	if end > len(m.playlists) {
		end = len(m.playlists)
	}
	return m.playlists[offset:end], nil
}

func (m *mockLibrary) CreatePlaylist(ctx context.Context, name, description string) (domain.PlaylistRef, error) {
	ref := domain.PlaylistRef{
		ID:          fmt.Sprintf("pl-%d", len(m.playlists)+1),
		Name:        name,
		Description: description,
	}
	m.playlists = append(m.playlists, ref)
	m.created = append(m.created, ref)
	return ref, nil
}

func (m *mockLibrary) ReplaceTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.replaceCalls++
	m.tracks[playlistID] = append([]string{}, trackIDs...)
	return nil
}

func (m *mockLibrary) AppendTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	m.appendCalls++
	m.tracks[playlistID] = append(m.tracks[playlistID], trackIDs...)
	return nil
}

func (m *mockLibrary) UpdatePlaylistDetails(ctx context.Context, playlistID, name, description string) error {
	m.detailsUpdated[playlistID] = domain.Identity{Name: name, Description: description}
	for i := range m.playlists {
		if m.playlists[i].ID == playlistID {
			m.playlists[i].Name = name
			m.playlists[i].Description = description
		}
	}
	return nil
}

// mockSnapshots is an in-memory mock of the snapshot store.
type mockSnapshots struct {
	stored  map[string][]domain.Track
	loadErr error
	saveErr error
}

func newMockSnapshots() *mockSnapshots {
	return &mockSnapshots{stored: make(map[string][]domain.Track)}
}

func (m *mockSnapshots) SaveSnapshot(ctx context.Context, basePlaylist string, tracks []domain.Track) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.stored[basePlaylist] = tracks
	return nil
}

func (m *mockSnapshots) LoadSnapshot(ctx context.Context, basePlaylist string) ([]domain.Track, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	tracks, ok := m.stored[basePlaylist]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return tracks, nil
}
