package analysis

import (
	"fmt"
	"testing"
	"time"

	"github.com/avelis/scrobble-charts/internal/scrobble"
)

func playsOnDay(t *testing.T, artist string, day time.Time, count int) []*scrobble.Scrobble {
	t.Helper()
	var scrobbles []*scrobble.Scrobble
	for i := 0; i < count; i++ {
		scrobbles = append(scrobbles, play(t, artist, "", "S", day.Add(time.Duration(i)*time.Minute)))
	}
	return scrobbles
}

func TestReign_Empty(t *testing.T) {
	if entries := Reign(nil, scrobble.ArtistKey, 1, 1); entries != nil {
		t.Fatalf("expected nil, got %+v", entries)
	}

	// Plays with no parseable dates produce totals but no days to walk.
	scrobbles := []*scrobble.Scrobble{undated("A", "", "S")}
	if entries := Reign(scrobbles, scrobble.ArtistKey, 1, 1); entries != nil {
		t.Fatalf("expected nil for undated input, got %+v", entries)
	}
}

func TestReign_CumulativeTakeover(t *testing.T) {
	// X has 5 plays per day for days 1-4; Y has 1 play on day 1 only. X's
	// day-1 cumulative of 5 already beats Y's 1, so X reigns every day and
	// Y never appears.
	day1 := time.Date(2022, 3, 1, 12, 0, 0, 0, time.Local)
	var scrobbles []*scrobble.Scrobble
	for d := 0; d < 4; d++ {
		scrobbles = append(scrobbles, playsOnDay(t, "X", day1.AddDate(0, 0, d), 5)...)
	}
	scrobbles = append(scrobbles, playsOnDay(t, "Y", day1, 1)...)

	entries := Reign(scrobbles, scrobble.ArtistKey, 1, 1)
	if len(entries) != 1 {
		t.Fatalf("expected only X, got %+v", entries)
	}
	x := entries[0]
	if x.Name != "X" || x.DaysInTop != 4 || x.TotalPlays != 20 || !x.CurrentlyTop {
		t.Fatalf("X = %+v", x)
	}
}

func TestReign_MinDaysFilter(t *testing.T) {
	day1 := time.Date(2022, 3, 1, 12, 0, 0, 0, time.Local)
	var scrobbles []*scrobble.Scrobble
	// A reigns days 1-2, then B overtakes for days 3-5.
	scrobbles = append(scrobbles, playsOnDay(t, "A", day1, 3)...)
	for d := 1; d < 5; d++ {
		scrobbles = append(scrobbles, playsOnDay(t, "B", day1.AddDate(0, 0, d), 2)...)
	}

	all := Reign(scrobbles, scrobble.ArtistKey, 1, 1)
	if len(all) != 2 {
		t.Fatalf("expected A and B, got %+v", all)
	}
	if all[0].Name != "B" || all[0].DaysInTop != 3 {
		t.Errorf("entries[0] = %+v", all[0])
	}
	if all[1].Name != "A" || all[1].DaysInTop != 2 || all[1].CurrentlyTop {
		t.Errorf("entries[1] = %+v", all[1])
	}

	filtered := Reign(scrobbles, scrobble.ArtistKey, 1, 3)
	if len(filtered) != 1 || filtered[0].Name != "B" {
		t.Fatalf("minDays=3 should keep only B, got %+v", filtered)
	}
}

func TestReign_CandidatePoolBound(t *testing.T) {
	day1 := time.Date(2022, 3, 1, 12, 0, 0, 0, time.Local)
	var scrobbles []*scrobble.Scrobble

	// 25 artists; the 5 with the lowest totals are outside the candidate
	// pool and can never appear, even with a huge topK.
	for i := 0; i < 25; i++ {
		name := fmt.Sprintf("artist-%02d", i)
		scrobbles = append(scrobbles, playsOnDay(t, name, day1, 25-i)...)
	}

	entries := Reign(scrobbles, scrobble.ArtistKey, 100, 1)
	if len(entries) != 20 {
		t.Fatalf("got %d entries, want 20", len(entries))
	}
	for _, e := range entries {
		if e.TotalPlays <= 5 {
			t.Errorf("%s (plays=%d) is outside the global top 20", e.Name, e.TotalPlays)
		}
	}
}

func TestReign_DaysInTopBounds(t *testing.T) {
	day1 := time.Date(2022, 3, 1, 12, 0, 0, 0, time.Local)
	var scrobbles []*scrobble.Scrobble
	for d := 0; d < 3; d++ {
		scrobbles = append(scrobbles, playsOnDay(t, "A", day1.AddDate(0, 0, d), 2)...)
		scrobbles = append(scrobbles, playsOnDay(t, "B", day1.AddDate(0, 0, d), 1)...)
	}

	entries := Reign(scrobbles, scrobble.ArtistKey, 2, 1)
	for _, e := range entries {
		if e.DaysInTop < 1 || e.DaysInTop > 3 {
			t.Errorf("%s DaysInTop = %d, want between 1 and 3", e.Name, e.DaysInTop)
		}
	}
}

func TestReign_ZeroDayItemsExcluded(t *testing.T) {
	day1 := time.Date(2022, 3, 1, 12, 0, 0, 0, time.Local)
	var scrobbles []*scrobble.Scrobble
	scrobbles = append(scrobbles, playsOnDay(t, "A", day1, 10)...)
	scrobbles = append(scrobbles, playsOnDay(t, "B", day1, 1)...)

	// B is in the candidate pool but never reaches top-1; it must not show
	// up with a zero tally even with minDays=0.
	entries := Reign(scrobbles, scrobble.ArtistKey, 1, 0)
	if len(entries) != 1 || entries[0].Name != "A" {
		t.Fatalf("expected only A, got %+v", entries)
	}
}

func TestReign_AlbumKeySkipsAlbumless(t *testing.T) {
	day1 := time.Date(2022, 3, 1, 12, 0, 0, 0, time.Local)
	scrobbles := []*scrobble.Scrobble{
		play(t, "A", "Alb", "S", day1),
		play(t, "A", "", "S", day1.Add(time.Minute)),
	}

	entries := Reign(scrobbles, scrobble.AlbumKey, 1, 1)
	if len(entries) != 1 || entries[0].Name != "A - Alb" || entries[0].TotalPlays != 1 {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestFilterSince(t *testing.T) {
	now := time.Date(2023, 6, 1, 0, 0, 0, 0, time.Local)
	old := play(t, "A", "", "S", now.AddDate(-3, 0, 0))
	recent := play(t, "B", "", "S", now.AddDate(0, -6, 0))
	scrobbles := []*scrobble.Scrobble{old, recent, undated("C", "", "S")}

	if got := FilterSince(scrobbles, nil); len(got) != 3 {
		t.Fatalf("nil cutoff should keep everything, got %d", len(got))
	}

	cutoff := CutoffYearsAgo(1, now)
	got := FilterSince(scrobbles, cutoff)
	if len(got) != 1 || got[0] != recent {
		t.Fatalf("FilterSince kept %d scrobbles, want just the recent one", len(got))
	}

	if CutoffYearsAgo(0, now) != nil {
		t.Fatal("zero years should mean no cutoff")
	}
}
