package analysis

import (
	"sort"

	"github.com/avelis/scrobble-charts/internal/scrobble"
)

// DefaultYearlyTopN bounds how deep each year's ranking goes.
const DefaultYearlyTopN = 100

// YearEntry is one item's placement within one calendar year.
type YearEntry struct {
	Year     int
	Item     string
	Position int
	Plays    int
}

// RankByYear ranks items by play count within each calendar year of the
// normalized instants. Positions are dense and 1-based within a year. Years
// are independent: no state crosses from one year to the next. Scrobbles
// without an instant are excluded.
func RankByYear(scrobbles []*scrobble.Scrobble, key scrobble.KeyFunc, topN int) map[int][]YearEntry {
	type yearCounts struct {
		counts map[string]int
		order  []string
	}
	byYear := map[int]*yearCounts{}

	for _, s := range scrobbles {
		instant, ok := s.Instant()
		if !ok {
			continue
		}
		k := key(s)
		if k == "" {
			continue
		}
		year := instant.Year()
		yc := byYear[year]
		if yc == nil {
			yc = &yearCounts{counts: map[string]int{}}
			byYear[year] = yc
		}
		if _, seen := yc.counts[k]; !seen {
			yc.order = append(yc.order, k)
		}
		yc.counts[k]++
	}

	rankings := make(map[int][]YearEntry, len(byYear))
	for year, yc := range byYear {
		sort.SliceStable(yc.order, func(i, j int) bool {
			return yc.counts[yc.order[i]] > yc.counts[yc.order[j]]
		})
		items := yc.order
		if topN > 0 && len(items) > topN {
			items = items[:topN]
		}

		entries := make([]YearEntry, 0, len(items))
		for i, item := range items {
			entries = append(entries, YearEntry{
				Year:     year,
				Item:     item,
				Position: i + 1,
				Plays:    yc.counts[item],
			})
		}
		rankings[year] = entries
	}
	return rankings
}

// Years lists the ranking map's years in ascending order.
func Years(rankings map[int][]YearEntry) []int {
	years := make([]int, 0, len(rankings))
	for y := range rankings {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
