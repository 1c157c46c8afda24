package analysis

import (
	"sort"
	"time"

	"github.com/avelis/scrobble-charts/internal/scrobble"
)

// EntityCount is one row of a top-N frequency table.
type EntityCount struct {
	Name  string
	Plays int
}

// Overview summarizes a set of scrobbles: totals, top entities per category,
// and fixed-size listening histograms.
type Overview struct {
	Total int

	TopArtists []EntityCount
	TopTracks  []EntityCount
	TopAlbums  []EntityCount

	// ByHour buckets plays by local hour of day. ByWeekday is Sunday-first.
	// ByMonthDay bucket 0 holds day 1 of the month.
	ByHour     [24]int
	ByWeekday  [7]int
	ByMonthDay [31]int
}

// BuildOverview aggregates the scrobbles that fall inside the optional
// [start, end] range (inclusive bounds, either may be nil). Scrobbles with
// unparseable dates count toward the total when no range is given, but are
// always skipped by the histograms. Returns nil when nothing is in range.
func BuildOverview(scrobbles []*scrobble.Scrobble, start, end *time.Time, artistN, trackN, albumN int) *Overview {
	o := &Overview{}

	artists := newCounter()
	tracks := newCounter()
	albums := newCounter()

	for _, s := range scrobbles {
		instant, ok := s.Instant()
		if start != nil || end != nil {
			// Range membership is undecidable without an instant.
			if !ok {
				continue
			}
			if start != nil && instant.Before(*start) {
				continue
			}
			if end != nil && instant.After(*end) {
				continue
			}
		}

		o.Total++
		artists.add(scrobble.ArtistKey(s))
		tracks.add(scrobble.TrackKey(s))
		albums.add(scrobble.AlbumKey(s))

		if ok {
			o.ByHour[instant.Hour()]++
			o.ByWeekday[int(instant.Weekday())]++
			o.ByMonthDay[instant.Day()-1]++
		}
	}

	if o.Total == 0 {
		return nil
	}

	o.TopArtists = artists.top(artistN)
	o.TopTracks = tracks.top(trackN)
	o.TopAlbums = albums.top(albumN)
	return o
}

// counter is a frequency table that remembers first-seen order so that ties
// in the top-N cut stay in the order counting produced.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) add(key string) {
	if key == "" {
		return
	}
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *counter) top(n int) []EntityCount {
	entries := make([]EntityCount, 0, len(c.order))
	for _, name := range c.order {
		entries = append(entries, EntityCount{Name: name, Plays: c.counts[name]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Plays > entries[j].Plays
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
