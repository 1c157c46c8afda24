// Package timeparse resolves the heterogeneous date representations found in
// scrobble exports and API payloads into a single instant. Sources disagree
// wildly: some rows carry an epoch-seconds value, some carry localized text
// like "3 Ene 2015, 14:05", and in-progress plays carry no date at all.
package timeparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// NowPlaying is the date text last.fm uses for a track that is still
// playing. It never resolves to an instant.
const NowPlaying = "Now Playing"

// epochFloor rejects epoch-seconds values that are too small to be a modern
// scrobble timestamp (anything before 2001-09-09). Small integers show up
// when a column holds a counter or a misparsed field.
const epochFloor = 1_000_000_000

var dayMonthYear = regexp.MustCompile(`^(\d{1,2}) ([^\s,]+) (\d{4}),? (\d{1,2}):(\d{2})$`)

// months covers English month names and abbreviations plus the Spanish
// abbreviations seen in localized exports. Keys are lowercase with any
// trailing dot stripped.
var months = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,

	"ene": time.January,
	"abr": time.April,
	"ago": time.August,
	"dic": time.December,
}

// Normalize resolves a raw date text and an optional epoch-seconds hint into
// an instant. The first strategy that succeeds wins:
//
//  1. the epoch hint, when it parses as an integer above the plausibility floor
//  2. a generic calendar parse of the raw text, when it lands after 1970
//  3. "<day> <month name> <year>[,] <hour>:<minute>"
//  4. "2006-01-02 15:04:05"
//  5. the raw text as a bare epoch-seconds integer
//
// "Now Playing" and fully absent dates resolve to nothing. Normalize is pure
// and total: every failure path reports ok=false, nothing panics.
func Normalize(raw, uts string) (time.Time, bool) {
	if raw == NowPlaying {
		return time.Time{}, false
	}
	if raw == "" && uts == "" {
		return time.Time{}, false
	}

	if uts != "" {
		if secs, err := strconv.ParseInt(uts, 10, 64); err == nil && secs > epochFloor {
			return time.Unix(secs, 0), true
		}
	}

	if raw == "" {
		return time.Time{}, false
	}

	// Generic parse first. dateparse handles RFC3339, slash dates, and most
	// export formats, but collapses some garbage to the epoch, hence the
	// year guard.
	if t, err := dateparse.ParseLocal(raw); err == nil && t.Year() > 1970 {
		return t, true
	}

	if t, ok := parseDayMonthYear(raw); ok {
		return t, true
	}

	if t, err := time.ParseInLocation("2006-01-02 15:04:05", raw, time.Local); err == nil {
		return t, true
	}

	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil && secs > epochFloor {
		return time.Unix(secs, 0), true
	}

	return time.Time{}, false
}

func parseDayMonthYear(raw string) (time.Time, bool) {
	m := dayMonthYear.FindStringSubmatch(raw)
	if m == nil {
		return time.Time{}, false
	}

	month, ok := months[strings.TrimSuffix(strings.ToLower(m[2]), ".")]
	if !ok {
		return time.Time{}, false
	}

	day, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])

	if day < 1 || day > 31 || hour > 23 || minute > 59 {
		return time.Time{}, false
	}

	return time.Date(year, month, day, hour, minute, 0, 0, time.Local), true
}
