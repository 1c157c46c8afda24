package analysis

import (
	"sort"
	"time"

	"github.com/avelis/scrobble-charts/internal/scrobble"
)

const (
	// candidatePool bounds day-by-day tracking to the items with the highest
	// lifetime play counts. This keeps the walk at O(days x 20) regardless of
	// library size; an item outside the global top 20 can never reign, even
	// during a short local burst.
	candidatePool = 20

	// DefaultMinReignDays filters out items that only grazed the top spots.
	DefaultMinReignDays = 3
)

// ReignEntry reports how long one item held a top-K position.
type ReignEntry struct {
	Name       string
	DaysInTop  int
	TotalPlays int
	// CurrentlyTop reports membership in the most recent day's top-K set.
	CurrentlyTop bool
}

// Reign computes, for each prominent item, the number of distinct calendar
// days it spent inside the day's top K by cumulative play count. Counts
// accumulate over the item's lifetime and never reset, so a day's champion
// is the item with the most plays up to and including that day.
func Reign(scrobbles []*scrobble.Scrobble, key scrobble.KeyFunc, topK, minDays int) []ReignEntry {
	totals := map[string]int{}
	var order []string
	for _, s := range scrobbles {
		k := key(s)
		if k == "" {
			continue
		}
		if _, seen := totals[k]; !seen {
			order = append(order, k)
		}
		totals[k]++
	}
	if len(totals) == 0 {
		return nil
	}

	sort.SliceStable(order, func(i, j int) bool {
		return totals[order[i]] > totals[order[j]]
	})
	if len(order) > candidatePool {
		order = order[:candidatePool]
	}
	candidates := map[string]bool{}
	for _, k := range order {
		candidates[k] = true
	}

	days := dayBuckets(scrobbles, key, candidates)
	if len(days) == 0 {
		return nil
	}

	cumulative := map[string]int{}
	daysInTop := map[string]int{}
	var lastTop map[string]bool

	for _, day := range days {
		for k, n := range day.plays {
			cumulative[k] += n
		}

		top := topSet(cumulative, order, topK)
		for k := range top {
			daysInTop[k]++
		}
		lastTop = top
	}

	var entries []ReignEntry
	for _, k := range order {
		if daysInTop[k] < minDays || daysInTop[k] == 0 {
			continue
		}
		entries = append(entries, ReignEntry{
			Name:         k,
			DaysInTop:    daysInTop[k],
			TotalPlays:   totals[k],
			CurrentlyTop: lastTop[k],
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].DaysInTop > entries[j].DaysInTop
	})
	if len(entries) > candidatePool {
		entries = entries[:candidatePool]
	}
	return entries
}

type dayBucket struct {
	day   string
	plays map[string]int
}

// dayBuckets groups candidate plays by local calendar day, in chronological
// order. Scrobbles without a normalized instant are left out entirely.
func dayBuckets(scrobbles []*scrobble.Scrobble, key scrobble.KeyFunc, candidates map[string]bool) []dayBucket {
	byDay := map[string]map[string]int{}
	for _, s := range scrobbles {
		instant, ok := s.Instant()
		if !ok {
			continue
		}
		k := key(s)
		if !candidates[k] {
			continue
		}
		day := instant.Format("2006-01-02")
		if byDay[day] == nil {
			byDay[day] = map[string]int{}
		}
		byDay[day][k]++
	}

	buckets := make([]dayBucket, 0, len(byDay))
	for day, plays := range byDay {
		buckets = append(buckets, dayBucket{day: day, plays: plays})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].day < buckets[j].day
	})
	return buckets
}

// topSet picks the K items with the highest cumulative count. Only items
// that have been played at all are eligible; ties resolve toward the item
// with the higher lifetime total (the candidate ordering).
func topSet(cumulative map[string]int, order []string, k int) map[string]bool {
	ranked := make([]string, 0, len(order))
	for _, name := range order {
		if cumulative[name] > 0 {
			ranked = append(ranked, name)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return cumulative[ranked[i]] > cumulative[ranked[j]]
	})
	if len(ranked) > k {
		ranked = ranked[:k]
	}

	top := make(map[string]bool, len(ranked))
	for _, name := range ranked {
		top[name] = true
	}
	return top
}

// CutoffYearsAgo returns the instant N years before now, for the recency
// window the reign command offers. Zero years means no cutoff.
func CutoffYearsAgo(years int, now time.Time) *time.Time {
	if years <= 0 {
		return nil
	}
	cutoff := now.AddDate(-years, 0, 0)
	return &cutoff
}

// FilterSince keeps scrobbles whose instant is at or after the cutoff. A nil
// cutoff keeps everything.
func FilterSince(scrobbles []*scrobble.Scrobble, cutoff *time.Time) []*scrobble.Scrobble {
	if cutoff == nil {
		return scrobbles
	}
	var kept []*scrobble.Scrobble
	for _, s := range scrobbles {
		instant, ok := s.Instant()
		if !ok || instant.Before(*cutoff) {
			continue
		}
		kept = append(kept, s)
	}
	return kept
}
