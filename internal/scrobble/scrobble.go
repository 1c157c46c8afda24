// Package scrobble holds the in-memory event model shared by the ingestion
// side and the analysis engines. A Scrobble is created once at ingestion and
// never mutated afterwards, except to attach its normalized instant.
package scrobble

import (
	"time"

	"github.com/avelis/scrobble-charts/internal/timeparse"
)

// KeySeparator joins artist and track/album names into a composite key.
// Keys are compared by exact string equality: no case folding, and an artist
// or title containing the separator itself can collide with another key.
const KeySeparator = " - "

type Scrobble struct {
	Artist string
	Album  string
	Track  string

	// RawDate is the source-provided date text, kept verbatim.
	RawDate string
	// UTS is an optional epoch-seconds hint, kept as the string the source
	// delivered it as.
	UTS string

	instant    time.Time
	normalized bool
	parseable  bool
}

// Instant reports the normalized instant attached by Normalize. The second
// return is false for scrobbles whose date could not be parsed, or that have
// not been normalized yet.
func (s *Scrobble) Instant() (time.Time, bool) {
	if !s.normalized {
		return time.Time{}, false
	}
	return s.instant, s.parseable
}

// SetInstant attaches an already-known instant, bypassing date parsing.
// Used by tests and by ingestion paths that carry a parsed time.
func (s *Scrobble) SetInstant(t time.Time) {
	s.instant = t
	s.normalized = true
	s.parseable = true
}

// Normalize attaches a normalized instant to every scrobble in the list.
// Scrobbles with unparseable dates are marked as such; they still count in
// plain frequency tables but are skipped by every time-based computation.
func Normalize(scrobbles []*Scrobble) {
	for _, s := range scrobbles {
		if s.normalized {
			continue
		}
		t, ok := timeparse.Normalize(s.RawDate, s.UTS)
		s.instant = t
		s.parseable = ok
		s.normalized = true
	}
}

// KeyFunc derives the composite key a scrobble is ranked under. An empty
// key excludes the scrobble from that category.
type KeyFunc func(*Scrobble) string

func ArtistKey(s *Scrobble) string {
	return s.Artist
}

func TrackKey(s *Scrobble) string {
	return s.Artist + KeySeparator + s.Track
}

// AlbumKey returns an empty key for scrobbles without album metadata, which
// excludes them from album rankings.
func AlbumKey(s *Scrobble) string {
	if s.Album == "" {
		return ""
	}
	return s.Artist + KeySeparator + s.Album
}

// KeyFor maps a category name to its key function. Unknown categories get
// the artist key.
func KeyFor(category string) KeyFunc {
	switch category {
	case "track", "song":
		return TrackKey
	case "album":
		return AlbumKey
	default:
		return ArtistKey
	}
}
