package domain

import (
	"fmt"
	"strings"
	"time"
)

// Term is a listening-history window on the user's profile.
type Term string

const (
	TermShort  Term = "short_term"
	TermMedium Term = "medium_term"
	TermLong   Term = "long_term"
)

// Valid reports whether the term is one of the supported windows.
func (t Term) Valid() bool {
	return t == TermShort || t == TermMedium || t == TermLong
}

// Spaced renders the term with spaces: "short term".
func (t Term) Spaced() string {
	return strings.ReplaceAll(string(t), "_", " ")
}

// Sentence renders the term sentence-capitalized: "Short term".
func (t Term) Sentence() string {
	s := t.Spaced()
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Title renders the term title-cased: "Short Term".
func (t Term) Title() string {
	switch t {
	case TermShort:
		return "Short Term"
	case TermMedium:
		return "Medium Term"
	case TermLong:
		return "Long Term"
	}
	return t.Sentence()
}

// Criteria is the seed criteria of a profile or playlist recommendation.
type Criteria string

const (
	CriteriaMixed   Criteria = "mixed"
	CriteriaArtists Criteria = "artists"
	CriteriaTracks  Criteria = "tracks"
	CriteriaGenres  Criteria = "genres"
)

func (c Criteria) Valid() bool {
	switch c {
	case CriteriaMixed, CriteriaArtists, CriteriaTracks, CriteriaGenres:
		return true
	}
	return false
}

// Display renders the criteria the way playlist names spell it; "mixed"
// expands to the full list.
func (c Criteria) Display() string {
	if c == CriteriaMixed {
		return "genres, tracks and artists"
	}
	return string(c)
}

// Identity is a generated playlist's semantic identity: the name and
// description are a pure function of the recommendation kind and its
// parameters, and existing playlists are matched against them verbatim.
type Identity struct {
	Name        string
	Description string
}

// Matches reports whether a library playlist with the given name and
// description is this identity's generated playlist. Name must match
// exactly (or through the legacy short-term profile fallback), and on top
// of that either the name carries a recognized auto-generated pattern or
// the description references the base playlist. The extra containment
// check keeps a user's unrelated same-named playlist from being clobbered.
func (id Identity) Matches(candidateName, candidateDescription, basePlaylist string) bool {
	if candidateName != id.Name && !id.legacyProfileName(candidateName) {
		return false
	}

	return strings.Contains(id.Name, " Term Most-listened Tracks") ||
		strings.Contains(id.Name, "Recommendation (") ||
		strings.Contains(candidateDescription, ", within the playlist "+basePlaylist) ||
		candidateDescription == ""
}

// NeedsDetailsRefresh reports whether a matched playlist's metadata must be
// rewritten: either it still carries a legacy name, or its description no
// longer matches the generated one.
func (id Identity) NeedsDetailsRefresh(foundName, foundDescription string) bool {
	return id.legacyProfileName(foundName) || foundDescription != id.Description
}

// legacyProfileName matches the pre-term-split naming of short-term profile
// recommendations, where the "Short term " prefix was absent.
func (id Identity) legacyProfileName(candidateName string) bool {
	return strings.HasPrefix(strings.ToLower(id.Name), "short term profile recommendation") &&
		candidateName == strings.Replace(id.Name, "Short term ", "", 1)
}

// Kind is a closed tagged variant describing one recommendation playlist
// kind together with its parameters. The switch over kinds is exhaustive
// wherever it appears; adding a variant without handling it everywhere is a
// compile-time visible change, unlike the stringly-typed dispatch it
// replaces.
type Kind interface {
	// Identity derives the generated playlist's name and description.
	Identity(basePlaylist string) Identity

	isKind()
}

// SongKind is a playlist of songs related to one song of the base playlist.
type SongKind struct {
	Song   string
	Artist string
}

func (SongKind) isKind() {}

func (k SongKind) Identity(basePlaylist string) Identity {
	return Identity{
		Name:        fmt.Sprintf("'%s' Related", k.Song),
		Description: fmt.Sprintf("Songs related to '%s' by %s, within the playlist %s", k.Song, k.Artist, basePlaylist),
	}
}

// ArtistFullKind is a playlist holding every base-playlist song by one artist.
type ArtistFullKind struct {
	Artist string
}

func (ArtistFullKind) isKind() {}

func (k ArtistFullKind) Identity(basePlaylist string) Identity {
	return Identity{
		Name:        fmt.Sprintf("This once was '%s'", k.Artist),
		Description: fmt.Sprintf("All %s songs, within the playlist %s", possessive(k.Artist), basePlaylist),
	}
}

// ArtistRelatedKind is an artist's songs completed with the closest other
// songs in the base playlist.
type ArtistRelatedKind struct {
	Artist string
}

func (ArtistRelatedKind) isKind() {}

func (k ArtistRelatedKind) Identity(basePlaylist string) Identity {
	return Identity{
		Name:        fmt.Sprintf("'%s' Mix", k.Artist),
		Description: fmt.Sprintf("Songs related to '%s', within the playlist %s", k.Artist, basePlaylist),
	}
}

// MostListenedKind is the user's top tracks for a term, taken as-is.
type MostListenedKind struct {
	Term Term
}

func (MostListenedKind) isKind() {}

func (k MostListenedKind) Identity(string) Identity {
	return Identity{
		Name:        fmt.Sprintf("%s Most-listened Tracks", k.Term.Title()),
		Description: fmt.Sprintf("The most listened tracks in a %s period", k.Term.Spaced()),
	}
}

// MostListenedRecommendationKind is the base-playlist songs closest to the
// user's top tracks for a term.
type MostListenedRecommendationKind struct {
	Term Term
}

func (MostListenedRecommendationKind) isKind() {}

func (k MostListenedRecommendationKind) Identity(basePlaylist string) Identity {
	return Identity{
		Name:        fmt.Sprintf("%s most listened recommendations", k.Term.Sentence()),
		Description: fmt.Sprintf("Songs related to the %s most listened tracks, within the playlist %s", k.Term.Spaced(), basePlaylist),
	}
}

// MoodKind is a playlist filtered and ordered by a mood.
type MoodKind struct {
	Mood                      Mood
	ExcludeMostlyInstrumental bool
}

func (MoodKind) isKind() {}

func (k MoodKind) Identity(basePlaylist string) Identity {
	exclusion := ""
	if k.ExcludeMostlyInstrumental {
		exclusion = ", excluding the mostly instrumental songs"
	}
	return Identity{
		Name:        fmt.Sprintf("%s Songs", k.Mood.Title()),
		Description: fmt.Sprintf("Songs related to the mood \"%s\"%s, within the playlist %s", k.Mood, exclusion, basePlaylist),
	}
}

// ProfileRecommendationKind is a catalog recommendation seeded from the
// user's profile favorites. A non-zero Snapshot marks a point-in-time copy
// that the sweep will never refresh.
type ProfileRecommendationKind struct {
	Term     Term
	Criteria Criteria
	Snapshot time.Time
}

func (ProfileRecommendationKind) isKind() {}

func (k ProfileRecommendationKind) Identity(string) Identity {
	name := fmt.Sprintf("%s Profile Recommendation", k.Term.Sentence())
	description := fmt.Sprintf("%s profile-based recommendations based on favorite %s", k.Term.Sentence(), k.Criteria.Display())

	if !k.Snapshot.IsZero() {
		date := k.Snapshot.UTC().Format("2006-01-02")
		name += fmt.Sprintf(" (%s - %s)", k.Criteria.Display(), date)
		description += fmt.Sprintf(" - %s snapshot", date)
	} else {
		name += fmt.Sprintf(" (%s)", k.Criteria.Display())
	}

	return Identity{Name: name, Description: description}
}

// PlaylistRecommendationKind is a catalog recommendation seeded from the
// base playlist's trending genres, artists and audio-feature envelope.
type PlaylistRecommendationKind struct {
	TimeRange string // all_time, month, trimester, semester, year
	Criteria  Criteria
	Snapshot  time.Time
}

func (PlaylistRecommendationKind) isKind() {}

func (k PlaylistRecommendationKind) Identity(basePlaylist string) Identity {
	rangeLabel := "for all_time"
	if k.TimeRange != "all_time" {
		rangeLabel = "for the last " + k.TimeRange
	}

	name := fmt.Sprintf("Playlist Recommendation %s", rangeLabel)
	description := fmt.Sprintf("Playlist-based recommendations based on favorite %s, within the playlist %s %s", k.Criteria.Display(), basePlaylist, rangeLabel)

	if !k.Snapshot.IsZero() {
		date := k.Snapshot.UTC().Format("2006-01-02")
		name += fmt.Sprintf(" (%s - %s)", k.Criteria.Display(), date)
		description += fmt.Sprintf(" - %s snapshot", date)
	} else {
		name += fmt.Sprintf(" (%s)", k.Criteria.Display())
	}

	return Identity{Name: name, Description: description}
}

// possessive appends the English possessive, dropping the trailing s when
// the name already ends in one: "Foals'" but "Bjork's".
func possessive(name string) string {
	if strings.HasSuffix(name, "s") {
		return name + "'"
	}
	return name + "'s"
}
