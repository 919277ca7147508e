package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/reprise-labs/reprise/internal/core/domain"
	"github.com/reprise-labs/reprise/internal/core/ports"
)

const (
	// maxPoolK caps K for operations ranking the local pool.
	maxPoolK = 1500

	// maxCatalogK caps K for operations delegating to the catalog's
	// recommendation endpoint.
	maxCatalogK = 100

	// topSeedLimit is how many top items feed an aggregate or a seed
	// selection.
	topSeedLimit = 50

	// maxSeeds is the catalog's cap on combined recommendation seeds.
	maxSeeds = 5
)

// ErrNoSession is returned by every operation invoked before StartSession.
var ErrNoSession = errors.New("service: no active session, call StartSession first")

// Recommender coordinates the catalog, the library and the snapshot cache to
// build recommendation playlists over one base playlist.
type Recommender struct {
	catalog   ports.CatalogProvider
	snapshots ports.SnapshotStore
	syncer    *SyncEngine

	basePlaylistID   string
	basePlaylistName string

	mu      sync.RWMutex
	session *Session
}

// NewRecommender constructs a Recommender over the given base playlist. Call
// StartSession before any recommendation operation.
func NewRecommender(catalog ports.CatalogProvider, library ports.LibraryProvider, snapshots ports.SnapshotStore, basePlaylistID, basePlaylistName string) *Recommender {
	return &Recommender{
		catalog:          catalog,
		snapshots:        snapshots,
		syncer:           NewSyncEngine(library),
		basePlaylistID:   basePlaylistID,
		basePlaylistName: basePlaylistName,
	}
}

// PlaylistResult is the outcome of one recommendation operation: the ranked
// tracks, and the remote playlist when building one was requested.
type PlaylistResult struct {
	Tracks   []domain.Track
	Playlist *domain.PlaylistRef
}

// StartSession loads the base-playlist pool and replaces the active session.
// With useCache, a stored snapshot is preferred and the catalog is only hit
// when none exists; a live fetch always refreshes the snapshot.
func (r *Recommender) StartSession(ctx context.Context, useCache bool) (*Session, error) {
	var pool []domain.Track

	if useCache {
		cached, err := r.snapshots.LoadSnapshot(ctx, r.basePlaylistName)
		switch {
		case err == nil:
			pool = cached
		case errors.Is(err, domain.ErrNotFound):
			log.Printf("WARN service: no snapshot for %q, fetching live", r.basePlaylistName)
		default:
			return nil, fmt.Errorf("service: load snapshot: %w", err)
		}
	}

	if pool == nil {
		fetched, err := r.catalog.PlaylistTracks(ctx, r.basePlaylistID)
		if err != nil {
			return nil, fmt.Errorf("service: fetch base playlist: %w", err)
		}
		pool = fetched

		if err := r.snapshots.SaveSnapshot(ctx, r.basePlaylistName, pool); err != nil {
			log.Printf("WARN service: snapshot save for %q failed: %v", r.basePlaylistName, err)
		}
	}

	session := newSession(pool)
	r.mu.Lock()
	r.session = session
	r.mu.Unlock()

	log.Printf("INFO service: session %s started over %q (%d tracks)", session.ID, r.basePlaylistName, len(session.Pool))
	return session, nil
}

// CurrentSession returns the active session.
func (r *Recommender) CurrentSession() (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.session == nil {
		return nil, ErrNoSession
	}
	return r.session, nil
}

// RecommendationsForSong ranks the pool by similarity to the named song and
// returns the closest k tracks. With build, the result is synced into the
// song's generated playlist.
func (r *Recommender) RecommendationsForSong(ctx context.Context, song string, k int, build bool) (PlaylistResult, error) {
	if err := validateK(k, maxPoolK); err != nil {
		return PlaylistResult{}, err
	}
	session, err := r.CurrentSession()
	if err != nil {
		return PlaylistResult{}, err
	}

	query, ok := session.trackByName(song)
	if !ok {
		return PlaylistResult{}, &domain.TrackNotFoundError{Song: song}
	}

	tracks := neighborTracks(domain.Neighbors(query, session.Pool, k, false))
	if !build {
		return PlaylistResult{Tracks: tracks}, nil
	}

	artist := ""
	if len(query.Artists) > 0 {
		artist = query.Artists[0]
	}

	// The built playlist opens with the song itself; the returned
	// recommendations do not include it.
	withQuery := append([]domain.Track{query}, tracks...)
	result, err := r.buildPlaylist(ctx, domain.SongKind{Song: query.Name, Artist: artist}, withQuery)
	if err != nil {
		return PlaylistResult{}, err
	}
	result.Tracks = tracks
	return result, nil
}

// ArtistPlaylist collects the artist's pool songs. With completeWithSimilar,
// a pool shorter than k is filled with the closest non-artist songs, ranked
// against the artist's aggregate sound; otherwise the playlist holds the
// artist's songs alone (all of them with ensureAllSongs, at most k without).
func (r *Recommender) ArtistPlaylist(ctx context.Context, artist string, k int, completeWithSimilar, ensureAllSongs, build bool) (PlaylistResult, error) {
	if err := validateK(k, maxPoolK); err != nil {
		return PlaylistResult{}, err
	}
	session, err := r.CurrentSession()
	if err != nil {
		return PlaylistResult{}, err
	}

	artistSongs := session.tracksByArtist(artist)
	if len(artistSongs) == 0 {
		return PlaylistResult{}, &domain.TrackNotFoundError{Artist: artist}
	}

	tracks := artistSongs
	var kind domain.Kind = domain.ArtistFullKind{Artist: artist}

	if completeWithSimilar {
		kind = domain.ArtistRelatedKind{Artist: artist}

		// Every artist song stays in; the fill tops the list up to k, or
		// adds a third of the artist's catalog when it already covers k.
		fill := k - len(artistSongs)
		if len(artistSongs) >= k {
			fill = len(artistSongs) / 3
		}

		aggregate, err := domain.Aggregate(artistSongs, session.Universe, artist)
		if err != nil {
			return PlaylistResult{}, fmt.Errorf("service: aggregate artist songs: %w", err)
		}

		rest := make([]domain.Track, 0, len(session.Pool)-len(artistSongs))
		for _, t := range session.Pool {
			if !t.HasArtist(artist) {
				rest = append(rest, t)
			}
		}

		similar := neighborTracks(domain.Neighbors(aggregate, rest, fill, true))
		tracks = append(append([]domain.Track{}, artistSongs...), similar...)
	} else if !ensureAllSongs && len(tracks) > k {
		tracks = tracks[:k]
	}

	if !build {
		return PlaylistResult{Tracks: tracks}, nil
	}
	return r.buildPlaylist(ctx, kind, tracks)
}

// SongsByMood filters the pool down to the mood, orders it by intensity and
// keeps the strongest k. A pool with fewer matching songs is returned whole
// with a warning.
func (r *Recommender) SongsByMood(ctx context.Context, mood domain.Mood, k int, excludeMostlyInstrumental, build bool) (PlaylistResult, error) {
	if !mood.Valid() {
		return PlaylistResult{}, &domain.InvalidParameterError{Param: "mood", Message: fmt.Sprintf("unknown mood %q", mood)}
	}
	if err := validateK(k, maxPoolK); err != nil {
		return PlaylistResult{}, err
	}
	session, err := r.CurrentSession()
	if err != nil {
		return PlaylistResult{}, err
	}

	tracks := domain.FilterByMood(session.Pool, mood, excludeMostlyInstrumental)
	if len(tracks) > k {
		tracks = tracks[:k]
	} else if len(tracks) < k {
		log.Printf("WARN service: only %d %s songs in the pool, fewer than the %d requested", len(tracks), mood, k)
	}

	if !build {
		return PlaylistResult{Tracks: tracks}, nil
	}
	return r.buildPlaylist(ctx, domain.MoodKind{Mood: mood, ExcludeMostlyInstrumental: excludeMostlyInstrumental}, tracks)
}

// MostListened returns the user's top k tracks for the term, as the catalog
// reports them.
func (r *Recommender) MostListened(ctx context.Context, term domain.Term, k int, build bool) (PlaylistResult, error) {
	if err := validateTerm(term); err != nil {
		return PlaylistResult{}, err
	}
	if err := validateK(k, maxPoolK); err != nil {
		return PlaylistResult{}, err
	}
	session, err := r.CurrentSession()
	if err != nil {
		return PlaylistResult{}, err
	}

	tracks, err := r.topTracks(ctx, session, term, k)
	if err != nil {
		return PlaylistResult{}, err
	}

	if !build {
		return PlaylistResult{Tracks: tracks}, nil
	}
	return r.buildPlaylist(ctx, domain.MostListenedKind{Term: term}, tracks)
}

// MostListenedRecommendation ranks the pool against the aggregate sound of
// the user's top tracks for the term.
func (r *Recommender) MostListenedRecommendation(ctx context.Context, term domain.Term, k int, build bool) (PlaylistResult, error) {
	if err := validateTerm(term); err != nil {
		return PlaylistResult{}, err
	}
	if err := validateK(k, maxPoolK); err != nil {
		return PlaylistResult{}, err
	}
	session, err := r.CurrentSession()
	if err != nil {
		return PlaylistResult{}, err
	}

	top, err := r.topTracks(ctx, session, term, topSeedLimit)
	if err != nil {
		return PlaylistResult{}, err
	}

	aggregate, err := domain.Aggregate(domain.IndexTracks(top, session.Universe), session.Universe, term.Spaced()+" most listened")
	if err != nil {
		return PlaylistResult{}, fmt.Errorf("service: aggregate %s top tracks: %w", term.Spaced(), err)
	}

	tracks := neighborTracks(domain.Neighbors(aggregate, session.Pool, k, false))
	if !build {
		return PlaylistResult{Tracks: tracks}, nil
	}
	return r.buildPlaylist(ctx, domain.MostListenedRecommendationKind{Term: term}, tracks)
}

// ProfileRecommendation asks the catalog for k tracks seeded from the user's
// top artists, genres and tracks for the term. With snapshotDate, the built
// playlist is a dated point-in-time copy the sweep will never refresh.
func (r *Recommender) ProfileRecommendation(ctx context.Context, term domain.Term, criteria domain.Criteria, k int, snapshotDate, build bool) (PlaylistResult, error) {
	if err := validateTerm(term); err != nil {
		return PlaylistResult{}, err
	}
	if err := validateCriteria(criteria); err != nil {
		return PlaylistResult{}, err
	}
	if err := validateK(k, maxCatalogK); err != nil {
		return PlaylistResult{}, err
	}
	session, err := r.CurrentSession()
	if err != nil {
		return PlaylistResult{}, err
	}

	seeds, err := r.profileSeeds(ctx, session, term, criteria)
	if err != nil {
		return PlaylistResult{}, err
	}
	seeds.Limit = k

	tracks, err := r.catalog.Recommendations(ctx, seeds)
	if err != nil {
		return PlaylistResult{}, fmt.Errorf("service: catalog recommendations: %w", err)
	}

	if !build {
		return PlaylistResult{Tracks: tracks}, nil
	}

	kind := domain.ProfileRecommendationKind{Term: term, Criteria: criteria}
	if snapshotDate {
		kind.Snapshot = time.Now()
	}
	return r.buildPlaylist(ctx, kind, tracks)
}

// PlaylistRecommendation asks the catalog for k tracks seeded from the base
// playlist itself: its trending genres and artists within the time range,
// its most popular tracks, and a feature envelope around its sound.
func (r *Recommender) PlaylistRecommendation(ctx context.Context, timeRange domain.PoolTimeRange, criteria domain.Criteria, k int, snapshotDate, build bool) (PlaylistResult, error) {
	if err := validateTimeRange(timeRange); err != nil {
		return PlaylistResult{}, err
	}
	if err := validateCriteria(criteria); err != nil {
		return PlaylistResult{}, err
	}
	if err := validateK(k, maxCatalogK); err != nil {
		return PlaylistResult{}, err
	}
	session, err := r.CurrentSession()
	if err != nil {
		return PlaylistResult{}, err
	}

	window := domain.FilterByAddedAt(session.Pool, timeRange.Cutoff(time.Now()))
	if len(window) == 0 {
		return PlaylistResult{}, fmt.Errorf("service: no tracks in the %s window: %w", timeRange, domain.ErrEmptyAggregate)
	}

	seeds, err := r.playlistSeeds(ctx, window, criteria)
	if err != nil {
		return PlaylistResult{}, err
	}
	seeds.Envelope = domain.Statistics(window).Envelope()
	seeds.Limit = k

	tracks, err := r.catalog.Recommendations(ctx, seeds)
	if err != nil {
		return PlaylistResult{}, fmt.Errorf("service: catalog recommendations: %w", err)
	}

	if !build {
		return PlaylistResult{Tracks: tracks}, nil
	}

	kind := domain.PlaylistRecommendationKind{TimeRange: string(timeRange), Criteria: criteria}
	if snapshotDate {
		kind.Snapshot = time.Now()
	}
	return r.buildPlaylist(ctx, kind, tracks)
}

// TrendingGenres reports the pool's genre distribution within the time range.
func (r *Recommender) TrendingGenres(timeRange domain.PoolTimeRange) ([]domain.TrendEntry, error) {
	window, err := r.poolWindow(timeRange)
	if err != nil {
		return nil, err
	}
	return domain.TrendingGenres(window), nil
}

// TrendingArtists reports the pool's artist distribution within the time range.
func (r *Recommender) TrendingArtists(timeRange domain.PoolTimeRange) ([]domain.TrendEntry, error) {
	window, err := r.poolWindow(timeRange)
	if err != nil {
		return nil, err
	}
	return domain.TrendingArtists(window), nil
}

// AudioStatistics reports per-feature min/max/mean over the whole pool.
func (r *Recommender) AudioStatistics() (domain.FeatureStatistics, error) {
	session, err := r.CurrentSession()
	if err != nil {
		return domain.FeatureStatistics{}, err
	}
	return domain.Statistics(session.Pool), nil
}

func (r *Recommender) poolWindow(timeRange domain.PoolTimeRange) ([]domain.Track, error) {
	if err := validateTimeRange(timeRange); err != nil {
		return nil, err
	}
	session, err := r.CurrentSession()
	if err != nil {
		return nil, err
	}
	return domain.FilterByAddedAt(session.Pool, timeRange.Cutoff(time.Now())), nil
}

func (r *Recommender) buildPlaylist(ctx context.Context, kind domain.Kind, tracks []domain.Track) (PlaylistResult, error) {
	ref, err := r.syncer.Sync(ctx, kind, r.basePlaylistName, trackIDs(tracks))
	if err != nil {
		return PlaylistResult{}, err
	}
	return PlaylistResult{Tracks: tracks, Playlist: &ref}, nil
}

func (r *Recommender) topTracks(ctx context.Context, session *Session, term domain.Term, limit int) ([]domain.Track, error) {
	if cached, ok := session.cachedTopTracks(term, limit); ok {
		return cached, nil
	}
	tracks, err := r.catalog.TopTracks(ctx, term, limit)
	if err != nil {
		return nil, fmt.Errorf("service: fetch %s top tracks: %w", term.Spaced(), err)
	}
	session.storeTopTracks(term, tracks)
	return tracks, nil
}

func (r *Recommender) topArtists(ctx context.Context, session *Session, term domain.Term, limit int) ([]domain.Artist, error) {
	if cached, ok := session.cachedTopArtists(term, limit); ok {
		return cached, nil
	}
	artists, err := r.catalog.TopArtists(ctx, term, limit)
	if err != nil {
		return nil, fmt.Errorf("service: fetch %s top artists: %w", term.Spaced(), err)
	}
	session.storeTopArtists(term, artists)
	return artists, nil
}

// profileSeeds selects catalog seeds from the user's profile favorites.
// Mixed takes one artist, two genres and two tracks to stay within the
// five-seed cap while touching every criterion.
func (r *Recommender) profileSeeds(ctx context.Context, session *Session, term domain.Term, criteria domain.Criteria) (domain.SeedSelection, error) {
	artists, err := r.topArtists(ctx, session, term, maxSeeds)
	if err != nil {
		return domain.SeedSelection{}, err
	}
	tracks, err := r.topTracks(ctx, session, term, maxSeeds)
	if err != nil {
		return domain.SeedSelection{}, err
	}
	if len(artists) == 0 && len(tracks) == 0 {
		return domain.SeedSelection{}, fmt.Errorf("service: no %s listening history: %w", term.Spaced(), domain.ErrEmptyAggregate)
	}

	var seeds domain.SeedSelection
	switch criteria {
	case domain.CriteriaArtists:
		seeds.ArtistIDs = artistIDs(artists, maxSeeds)
	case domain.CriteriaTracks:
		seeds.TrackIDs = trackIDsCapped(tracks, maxSeeds)
	case domain.CriteriaGenres:
		seeds.Genres = topGenres(artists, maxSeeds)
	case domain.CriteriaMixed:
		seeds.ArtistIDs = artistIDs(artists, 1)
		seeds.Genres = topGenres(artists, 2)
		seeds.TrackIDs = trackIDsCapped(tracks, 2)
	}
	return seeds, nil
}

// playlistSeeds selects catalog seeds from the window's own trends. Artist
// names are resolved to catalog ids; an unresolvable artist is skipped with
// a warning rather than failing the run.
func (r *Recommender) playlistSeeds(ctx context.Context, window []domain.Track, criteria domain.Criteria) (domain.SeedSelection, error) {
	var seeds domain.SeedSelection

	genres := func(limit int) []string {
		entries := domain.TrendingGenres(window)
		names := make([]string, 0, limit)
		for _, e := range entries {
			if len(names) == limit {
				break
			}
			names = append(names, e.Name)
		}
		return names
	}

	artists := func(limit int) []string {
		entries := domain.TrendingArtists(window)
		ids := make([]string, 0, limit)
		for _, e := range entries {
			if len(ids) == limit {
				break
			}
			id, err := r.catalog.SearchArtistID(ctx, e.Name)
			if err != nil {
				log.Printf("WARN service: artist %q not resolved: %v", e.Name, err)
				continue
			}
			ids = append(ids, id)
		}
		return ids
	}

	tracks := func(limit int) []string {
		byPopularity := append([]domain.Track{}, window...)
		sort.SliceStable(byPopularity, func(i, j int) bool {
			return byPopularity[i].Popularity > byPopularity[j].Popularity
		})
		return trackIDsCapped(byPopularity, limit)
	}

	switch criteria {
	case domain.CriteriaGenres:
		seeds.Genres = genres(maxSeeds)
	case domain.CriteriaArtists:
		seeds.ArtistIDs = artists(maxSeeds)
	case domain.CriteriaTracks:
		seeds.TrackIDs = tracks(maxSeeds)
	case domain.CriteriaMixed:
		seeds.Genres = genres(2)
		seeds.ArtistIDs = artists(1)
		seeds.TrackIDs = tracks(2)
	}

	if seeds.SeedCount() == 0 {
		return domain.SeedSelection{}, fmt.Errorf("service: no usable seeds in the window: %w", domain.ErrEmptyAggregate)
	}
	return seeds, nil
}

func validateK(k, upper int) error {
	if k < 1 || k > upper {
		return &domain.InvalidParameterError{Param: "k", Message: fmt.Sprintf("must be between 1 and %d", upper)}
	}
	return nil
}

func validateTerm(term domain.Term) error {
	if !term.Valid() {
		return &domain.InvalidParameterError{Param: "time_range", Message: fmt.Sprintf("unknown term %q", term)}
	}
	return nil
}

func validateCriteria(criteria domain.Criteria) error {
	if !criteria.Valid() {
		return &domain.InvalidParameterError{Param: "main_criteria", Message: fmt.Sprintf("unknown criteria %q", criteria)}
	}
	return nil
}

func validateTimeRange(timeRange domain.PoolTimeRange) error {
	if !timeRange.Valid() {
		return &domain.InvalidParameterError{Param: "time_range", Message: fmt.Sprintf("unknown time range %q", timeRange)}
	}
	return nil
}

func neighborTracks(neighbors []domain.Neighbor) []domain.Track {
	tracks := make([]domain.Track, len(neighbors))
	for i, n := range neighbors {
		tracks[i] = n.Track
	}
	return tracks
}

func trackIDs(tracks []domain.Track) []string {
	ids := make([]string, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}
	return ids
}

func trackIDsCapped(tracks []domain.Track, limit int) []string {
	if len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return trackIDs(tracks)
}

func artistIDs(artists []domain.Artist, limit int) []string {
	if len(artists) > limit {
		artists = artists[:limit]
	}
	ids := make([]string, len(artists))
	for i, a := range artists {
		ids[i] = a.ID
	}
	return ids
}

// topGenres counts genre occurrences across the artists and returns the most
// frequent, ties in first-seen order.
func topGenres(artists []domain.Artist, limit int) []string {
	counts := make(map[string]int)
	var order []string
	for _, a := range artists {
		for _, g := range a.Genres {
			if _, ok := counts[g]; !ok {
				order = append(order, g)
			}
			counts[g]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > limit {
		order = order[:limit]
	}
	return order
}
