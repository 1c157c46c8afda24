package analysis

import (
	"math"
	"sort"
)

// Year-over-year evolution reports. Every report is a pure function over the
// per-year rankings from RankByYear; the year set is whatever that map
// contains, sorted ascending. Reports degrade to empty results on empty or
// single-year input rather than erroring.

const (
	// DefaultEvolutionTopN caps each report's result list.
	DefaultEvolutionTopN = 10

	// droppedOutPosition marks an item absent from the comparison year.
	droppedOutPosition = 999

	// climberBound and dropBound restrict climbers/drops to items near the
	// top of the relevant year. Climbers bound the destination year, drops
	// bound the origin year.
	climberBound = 20
	dropBound    = 20
)

// Newcomer is an item whose first ranked appearance is the target year.
type Newcomer struct {
	Item     string
	Position int
	Plays    int
}

// Newcomers lists items present in targetYear that never appeared in any
// earlier year's ranking. The first available year has no newcomers by
// definition (everything would qualify), so it yields an empty result.
func Newcomers(rankings map[int][]YearEntry, targetYear, topN int) []Newcomer {
	years := Years(rankings)
	if len(years) == 0 || targetYear == years[0] {
		return nil
	}
	target, ok := rankings[targetYear]
	if !ok {
		return nil
	}

	seen := map[string]bool{}
	for _, y := range years {
		if y >= targetYear {
			break
		}
		for _, e := range rankings[y] {
			seen[e.Item] = true
		}
	}

	var out []Newcomer
	for _, e := range target {
		if seen[e.Item] {
			continue
		}
		out = append(out, Newcomer{Item: e.Item, Position: e.Position, Plays: e.Plays})
		if topN > 0 && len(out) == topN {
			break
		}
	}
	return out
}

// Climber is an item that improved its position between two years.
type Climber struct {
	Item         string
	FromPosition int
	ToPosition   int
	PositionGain int
}

// Climbers lists items present in both years that ended at position <= 20 in
// toYear and strictly improved on their fromYear position, ordered by how
// many places they gained.
func Climbers(rankings map[int][]YearEntry, fromYear, toYear, topN int) []Climber {
	from := positionIndex(rankings[fromYear])
	if len(from) == 0 {
		return nil
	}

	var out []Climber
	for _, e := range rankings[toYear] {
		fromPos, ok := from[e.Item]
		if !ok || e.Position > climberBound || fromPos.Position <= e.Position {
			continue
		}
		out = append(out, Climber{
			Item:         e.Item,
			FromPosition: fromPos.Position,
			ToPosition:   e.Position,
			PositionGain: fromPos.Position - e.Position,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PositionGain > out[j].PositionGain
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// GrowthEntry is an item whose play count grew between two years.
type GrowthEntry struct {
	Item          string
	FromPlays     int
	ToPlays       int
	Growth        int
	GrowthPercent float64
}

// Growth lists items played more in toYear than in fromYear, ordered by the
// absolute increase. GrowthPercent is relative to the fromYear count,
// rounded to one decimal.
func Growth(rankings map[int][]YearEntry, fromYear, toYear, topN int) []GrowthEntry {
	from := positionIndex(rankings[fromYear])
	if len(from) == 0 {
		return nil
	}

	var out []GrowthEntry
	for _, e := range rankings[toYear] {
		prev, ok := from[e.Item]
		if !ok {
			continue
		}
		growth := e.Plays - prev.Plays
		if growth <= 0 {
			continue
		}
		out = append(out, GrowthEntry{
			Item:          e.Item,
			FromPlays:     prev.Plays,
			ToPlays:       e.Plays,
			Growth:        growth,
			GrowthPercent: round1(float64(growth) / float64(prev.Plays) * 100),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Growth > out[j].Growth
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// Drop is an item that fell down the ranking, or out of it entirely.
type Drop struct {
	Item         string
	FromPosition int
	// ToPosition is 999 when the item is absent from the comparison year.
	ToPosition   int
	PositionDrop int
}

// Drops lists items ranked <= 20 in fromYear that lost ground by toYear,
// ordered by how far they fell. Items missing from toYear get the sentinel
// position 999.
func Drops(rankings map[int][]YearEntry, fromYear, toYear, topN int) []Drop {
	to := positionIndex(rankings[toYear])
	if _, ok := rankings[fromYear]; !ok {
		return nil
	}

	var out []Drop
	for _, e := range rankings[fromYear] {
		if e.Position > dropBound {
			continue
		}
		toPos := droppedOutPosition
		if cur, ok := to[e.Item]; ok {
			toPos = cur.Position
		}
		delta := toPos - e.Position
		if delta <= 0 {
			continue
		}
		out = append(out, Drop{
			Item:         e.Item,
			FromPosition: e.Position,
			ToPosition:   toPos,
			PositionDrop: delta,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PositionDrop > out[j].PositionDrop
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// Comeback is an item that returned to the ranking after missing at least
// one full year.
type Comeback struct {
	Item         string
	LastSeenYear int
	YearsAbsent  int
	Position     int
	Plays        int
}

// Comebacks lists items present in targetYear whose most recent earlier
// appearance is two or more years back. Requires at least two years of data
// before targetYear.
func Comebacks(rankings map[int][]YearEntry, targetYear, topN int) []Comeback {
	years := Years(rankings)
	priorYears := 0
	for _, y := range years {
		if y < targetYear {
			priorYears++
		}
	}
	if priorYears < 2 {
		return nil
	}

	var out []Comeback
	for _, e := range rankings[targetYear] {
		lastSeen := 0
		for i := len(years) - 1; i >= 0; i-- {
			y := years[i]
			if y >= targetYear {
				continue
			}
			if containsItem(rankings[y], e.Item) {
				lastSeen = y
				break
			}
		}
		if lastSeen == 0 || targetYear-lastSeen < 2 {
			continue
		}
		out = append(out, Comeback{
			Item:         e.Item,
			LastSeenYear: lastSeen,
			YearsAbsent:  targetYear - lastSeen - 1,
			Position:     e.Position,
			Plays:        e.Plays,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].YearsAbsent > out[j].YearsAbsent
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// ConsistentEntry is an item that held a high position across many years.
type ConsistentEntry struct {
	Item            string
	Years           int
	AveragePosition float64
	TotalPlays      int
}

// Consistent lists items that placed at or above topPosition in at least
// minYears distinct years across the entire range, ordered by how many
// years qualified. AveragePosition and TotalPlays cover qualifying years
// only.
func Consistent(rankings map[int][]YearEntry, topPosition, minYears, topN int) []ConsistentEntry {
	type tally struct {
		years       int
		positionSum int
		plays       int
	}
	tallies := map[string]*tally{}
	var order []string

	for _, y := range Years(rankings) {
		for _, e := range rankings[y] {
			if e.Position > topPosition {
				continue
			}
			t := tallies[e.Item]
			if t == nil {
				t = &tally{}
				tallies[e.Item] = t
				order = append(order, e.Item)
			}
			t.years++
			t.positionSum += e.Position
			t.plays += e.Plays
		}
	}

	var out []ConsistentEntry
	for _, item := range order {
		t := tallies[item]
		if t.years < minYears {
			continue
		}
		out = append(out, ConsistentEntry{
			Item:            item,
			Years:           t.years,
			AveragePosition: round1(float64(t.positionSum) / float64(t.years)),
			TotalPlays:      t.plays,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Years > out[j].Years
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// OneYearWonder is an item that ranked well in a single year and never
// appeared in any other.
type OneYearWonder struct {
	Item     string
	Year     int
	Position int
	Plays    int
}

// OneYearWonders lists items present in exactly one year of the whole range
// whose single appearance reached position <= minPosition, ordered by that
// year's play count.
func OneYearWonders(rankings map[int][]YearEntry, minPosition, topN int) []OneYearWonder {
	appearances := map[string]int{}
	for _, entries := range rankings {
		for _, e := range entries {
			appearances[e.Item]++
		}
	}

	var out []OneYearWonder
	for _, y := range Years(rankings) {
		for _, e := range rankings[y] {
			if appearances[e.Item] != 1 || e.Position > minPosition {
				continue
			}
			out = append(out, OneYearWonder{Item: e.Item, Year: y, Position: e.Position, Plays: e.Plays})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Plays > out[j].Plays
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

func positionIndex(entries []YearEntry) map[string]YearEntry {
	idx := make(map[string]YearEntry, len(entries))
	for _, e := range entries {
		idx[e.Item] = e
	}
	return idx
}

func containsItem(entries []YearEntry, item string) bool {
	for _, e := range entries {
		if e.Item == item {
			return true
		}
	}
	return false
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
