package timeparse

import (
	"fmt"
	"testing"
	"time"
)

func TestNormalize_NowPlaying(t *testing.T) {
	if _, ok := Normalize(NowPlaying, ""); ok {
		t.Fatalf("Normalize(%q, \"\") should not resolve", NowPlaying)
	}
	// Even a usable hint doesn't rescue an in-progress play.
	if _, ok := Normalize(NowPlaying, "1600000000"); ok {
		t.Fatalf("Normalize(%q, hint) should not resolve", NowPlaying)
	}
}

func TestNormalize_Empty(t *testing.T) {
	if _, ok := Normalize("", ""); ok {
		t.Fatal("Normalize(\"\", \"\") should not resolve")
	}
}

func TestNormalize_HintWinsRegardlessOfRawFormat(t *testing.T) {
	const uts = "1600000000" // 2020-09-13 UTC
	want := time.Unix(1600000000, 0)

	raws := []string{
		"",
		"13 Sep 2020, 12:26",
		"2020-09-13 12:26:40",
		"garbage",
		"99 Nonsense 2020, 12:26",
	}
	for _, raw := range raws {
		got, ok := Normalize(raw, uts)
		if !ok {
			t.Errorf("Normalize(%q, %q) failed to resolve", raw, uts)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("Normalize(%q, %q) = %v, want %v", raw, uts, got, want)
		}
	}
}

func TestNormalize_HintBelowFloorIsIgnored(t *testing.T) {
	// The hint is implausibly small, so resolution falls through to the raw
	// text.
	got, ok := Normalize("2020-09-13 12:26:40", "999999999")
	if !ok {
		t.Fatal("expected raw text to resolve")
	}
	want := time.Date(2020, 9, 13, 12, 26, 40, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	if _, ok := Normalize("", "999999999"); ok {
		t.Fatal("implausible hint with no raw text should not resolve")
	}
}

func TestNormalize_GenericParse(t *testing.T) {
	got, ok := Normalize("2021-03-04T05:06:07Z", "")
	if !ok {
		t.Fatal("RFC3339 text should resolve")
	}
	if got.UTC() != time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC) {
		t.Fatalf("got %v", got)
	}
}

func TestNormalize_DayMonthYear(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"3 Jan 2015, 14:05", time.Date(2015, time.January, 3, 14, 5, 0, 0, time.Local)},
		{"3 Ene 2015, 14:05", time.Date(2015, time.January, 3, 14, 5, 0, 0, time.Local)},
		{"12 Abr. 2018 09:30", time.Date(2018, time.April, 12, 9, 30, 0, 0, time.Local)},
		{"1 Ago 2019, 23:59", time.Date(2019, time.August, 1, 23, 59, 0, 0, time.Local)},
		{"25 Dic 2020, 00:00", time.Date(2020, time.December, 25, 0, 0, 0, 0, time.Local)},
		{"7 September 2016, 08:15", time.Date(2016, time.September, 7, 8, 15, 0, 0, time.Local)},
	}

	for _, tc := range tests {
		got, ok := Normalize(tc.raw, "")
		if !ok {
			t.Errorf("Normalize(%q) failed to resolve", tc.raw)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("Normalize(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestNormalize_UnknownMonthName(t *testing.T) {
	if _, ok := Normalize("3 Fev 2015, 14:05", ""); ok {
		t.Fatal("unknown month name should not resolve")
	}
}

func TestNormalize_DashedDateTime(t *testing.T) {
	got, ok := Normalize("2019-07-20 21:15:30", "")
	if !ok {
		t.Fatal("expected dashed date-time to resolve")
	}
	want := time.Date(2019, 7, 20, 21, 15, 30, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNormalize_BareEpochText(t *testing.T) {
	got, ok := Normalize("1600000000", "")
	if !ok {
		t.Fatal("bare epoch text should resolve")
	}
	if !got.Equal(time.Unix(1600000000, 0)) {
		t.Fatalf("got %v", got)
	}

	if _, ok := Normalize("12345", ""); ok {
		t.Fatal("small integer should not resolve")
	}
}

func TestNormalize_Garbage(t *testing.T) {
	inputs := []string{"not a date", "????", "32 Jan 2015, 14:05", "3 Jan 2015, 25:05"}
	for _, raw := range inputs {
		if got, ok := Normalize(raw, ""); ok {
			t.Errorf("Normalize(%q) = %v, expected failure", raw, got)
		}
	}
}

func TestNormalize_EpochFloorBoundary(t *testing.T) {
	// Exactly at the floor is rejected, one past it is accepted.
	if _, ok := Normalize("", fmt.Sprintf("%d", epochFloor)); ok {
		t.Fatal("floor value should be rejected")
	}
	got, ok := Normalize("", fmt.Sprintf("%d", epochFloor+1))
	if !ok {
		t.Fatal("floor+1 should be accepted")
	}
	if !got.Equal(time.Unix(epochFloor+1, 0)) {
		t.Fatalf("got %v", got)
	}
}
