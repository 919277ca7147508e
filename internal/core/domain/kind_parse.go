package domain

import (
	"regexp"
	"strings"
)

var snapshotDatePattern = regexp.MustCompile(` - \d{4}-\d{2}-\d{2}\)$`)

// ParseGeneratedName is the inverse of Kind.Identity over the naming
// grammar: it recognizes a library playlist as one of the generated kinds so
// the batch sweep can recompute it. Snapshot-dated playlists are deliberately
// unparseable; a point-in-time copy is never refreshed.
func ParseGeneratedName(name, description string) (Kind, bool) {
	switch {
	case strings.HasPrefix(name, "This once was '") && strings.HasSuffix(name, "'"):
		artist := strings.TrimSuffix(strings.TrimPrefix(name, "This once was '"), "'")
		return ArtistFullKind{Artist: artist}, artist != ""

	case strings.HasPrefix(name, "'") && strings.HasSuffix(name, "' Related"):
		song := strings.TrimSuffix(strings.TrimPrefix(name, "'"), "' Related")
		return SongKind{Song: song}, song != ""

	case strings.HasPrefix(name, "'") && strings.HasSuffix(name, "' Mix"):
		artist := strings.TrimSuffix(strings.TrimPrefix(name, "'"), "' Mix")
		return ArtistRelatedKind{Artist: artist}, artist != ""

	case strings.HasSuffix(name, " Most-listened Tracks"):
		term, ok := termFromSpaced(strings.TrimSuffix(name, " Most-listened Tracks"))
		return MostListenedKind{Term: term}, ok

	case strings.HasSuffix(name, " most listened recommendations"):
		term, ok := termFromSpaced(strings.TrimSuffix(name, " most listened recommendations"))
		return MostListenedRecommendationKind{Term: term}, ok

	case strings.HasSuffix(name, " Songs"):
		mood := Mood(strings.ToLower(strings.TrimSuffix(name, " Songs")))
		if !mood.Valid() {
			return nil, false
		}
		return MoodKind{
			Mood:                      mood,
			ExcludeMostlyInstrumental: strings.Contains(description, "excluding the mostly instrumental songs"),
		}, true

	case strings.Contains(name, "Profile Recommendation ("):
		if snapshotDatePattern.MatchString(name) {
			return nil, false
		}
		idx := strings.Index(name, "Profile Recommendation (")
		prefix := strings.TrimSuffix(name[:idx], " ")
		term := TermShort // legacy names carried no term prefix
		if prefix != "" {
			var ok bool
			if term, ok = termFromSpaced(prefix); !ok {
				return nil, false
			}
		}
		criteria, ok := parseCriteria(insideParens(name))
		return ProfileRecommendationKind{Term: term, Criteria: criteria}, ok

	case strings.HasPrefix(name, "Playlist Recommendation for "):
		if snapshotDatePattern.MatchString(name) {
			return nil, false
		}
		rest := strings.TrimPrefix(name, "Playlist Recommendation for ")
		open := strings.Index(rest, " (")
		if open < 0 {
			return nil, false
		}
		timeRange := PoolTimeRange(strings.TrimPrefix(rest[:open], "the last "))
		if !timeRange.Valid() {
			return nil, false
		}
		criteria, ok := parseCriteria(insideParens(name))
		return PlaylistRecommendationKind{TimeRange: string(timeRange), Criteria: criteria}, ok
	}

	return nil, false
}

func termFromSpaced(s string) (Term, bool) {
	term := Term(strings.ReplaceAll(strings.ToLower(s), " ", "_"))
	return term, term.Valid()
}

func parseCriteria(s string) (Criteria, bool) {
	if s == CriteriaMixed.Display() {
		return CriteriaMixed, true
	}
	c := Criteria(s)
	return c, c.Valid()
}

func insideParens(name string) string {
	open := strings.Index(name, "(")
	end := strings.LastIndex(name, ")")
	if open < 0 || end <= open {
		return ""
	}
	return name[open+1 : end]
}
