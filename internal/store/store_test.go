package store

import (
	"path/filepath"
	"testing"
	"time"
)

func createTestDb(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "scrobbles.db")

	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("New(%s) error: %v", dbPath, err)
	}

	return store
}

func TestCreateUser(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	user := "testuser"
	err := s.CreateUser(user)
	if err != nil {
		t.Fatalf("CreateUser(%q) error: %v", user, err)
	}

	// Idempotency
	err = s.CreateUser(user)
	if err != nil {
		t.Fatalf("CreateUser(%q) error: %v", user, err)
	}
}

func TestAddScrobbles(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	user := "testuser"
	if err := s.CreateUser(user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	tracks := []TrackImport{
		{
			Artist:    "Test Artist",
			Album:     "Test Album",
			TrackName: "Test Track",
			DateUTS:   "1600000000",
			DateRaw:   "13 Sep 2020, 12:26",
		},
	}

	err := s.AddScrobbles(user, tracks)
	if err != nil {
		t.Fatalf("AddScrobbles failed: %v", err)
	}

	// Verify data was inserted
	row := s.db.QueryRow("SELECT COUNT(*) FROM Listen WHERE user = ?", user)
	var count int
	if err := row.Scan(&count); err != nil {
		t.Fatalf("querying count: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 listen, got %d", count)
	}

	// Test idempotent insert (same data)
	err = s.AddScrobbles(user, tracks)
	if err != nil {
		t.Fatalf("AddScrobbles (repeat) failed: %v", err)
	}
	row = s.db.QueryRow("SELECT COUNT(*) FROM Listen WHERE user = ?", user)
	if err := row.Scan(&count); err != nil {
		t.Fatalf("querying count: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 listen after repeat, got %d", count)
	}
}

func TestGetScrobbles_RoundTrip(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	user := "testuser"
	if err := s.CreateUser(user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	tracks := []TrackImport{
		{Artist: "Artist A", Album: "Album A", TrackName: "Track 1", DateUTS: "1600000100"},
		{Artist: "Artist B", Album: "", TrackName: "Track 2", DateUTS: "1600000000", DateRaw: "13 Sep 2020, 12:26"},
		{Artist: "Artist C", Album: "", TrackName: "Track 3", DateRaw: "3 Ene 2015, 14:05"},
	}
	if err := s.AddScrobbles(user, tracks); err != nil {
		t.Fatalf("AddScrobbles: %v", err)
	}

	scrobbles, err := s.GetScrobbles(user)
	if err != nil {
		t.Fatalf("GetScrobbles: %v", err)
	}
	if len(scrobbles) != 3 {
		t.Fatalf("got %d scrobbles, want 3", len(scrobbles))
	}

	// Dates travel verbatim; nothing is resolved at the store layer.
	byArtist := map[string]int{}
	for _, sc := range scrobbles {
		byArtist[sc.Artist]++
		if _, ok := sc.Instant(); ok {
			t.Errorf("%s already has an instant before normalization", sc.Artist)
		}
	}
	for _, artist := range []string{"Artist A", "Artist B", "Artist C"} {
		if byArtist[artist] != 1 {
			t.Errorf("missing scrobble for %q", artist)
		}
	}

	for _, sc := range scrobbles {
		if sc.Artist == "Artist C" {
			if sc.UTS != "" || sc.RawDate != "3 Ene 2015, 14:05" {
				t.Errorf("Artist C dates = (%q, %q)", sc.UTS, sc.RawDate)
			}
		}
	}
}

func TestGetLatestListen(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	user := "testuser"
	if err := s.CreateUser(user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	// No listens yet.
	latest, err := s.GetLatestListen(user)
	if err != nil {
		t.Fatalf("GetLatestListen (empty): %v", err)
	}
	if !latest.IsZero() {
		t.Errorf("expected zero time, got %v", latest)
	}

	tracks := []TrackImport{
		{Artist: "A", TrackName: "T1", DateUTS: "1600000000"},
		{Artist: "A", TrackName: "T2", DateUTS: "1700000000"},
		{Artist: "A", TrackName: "T3", DateRaw: "3 Ene 2015, 14:05"}, // no uts
	}
	if err := s.AddScrobbles(user, tracks); err != nil {
		t.Fatalf("AddScrobbles: %v", err)
	}

	latest, err = s.GetLatestListen(user)
	if err != nil {
		t.Fatalf("GetLatestListen: %v", err)
	}
	if !latest.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("latest = %v, want %v", latest, time.Unix(1700000000, 0))
	}
}

func TestCountListens(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	user := "testuser"
	if err := s.CreateUser(user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	count, err := s.CountListens(user)
	if err != nil {
		t.Fatalf("CountListens: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}

	tracks := []TrackImport{
		{Artist: "A", TrackName: "T1", DateUTS: "1600000000"},
		{Artist: "A", TrackName: "T1", DateUTS: "1600000060"},
	}
	if err := s.AddScrobbles(user, tracks); err != nil {
		t.Fatalf("AddScrobbles: %v", err)
	}

	count, err = s.CountListens(user)
	if err != nil {
		t.Fatalf("CountListens: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestLastUpdated(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	user := "testuser"
	if err := s.CreateUser(user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := s.GetLastUpdated(user)
	if err != nil {
		t.Fatalf("GetLastUpdated (empty): %v", err)
	}
	if !got.IsZero() {
		t.Errorf("expected zero time, got %v", got)
	}

	when := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := s.SetLastUpdated(user, when); err != nil {
		t.Fatalf("SetLastUpdated: %v", err)
	}
	got, err = s.GetLastUpdated(user)
	if err != nil {
		t.Fatalf("GetLastUpdated: %v", err)
	}
	if !got.Equal(when) {
		t.Errorf("last updated = %v, want %v", got, when)
	}
}

func TestSessionKey(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	user := "testuser"
	if err := s.CreateUser(user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	key, err := s.GetSessionKey(user)
	if err != nil {
		t.Fatalf("GetSessionKey (empty): %v", err)
	}
	if key != "" {
		t.Errorf("expected no session key, got %q", key)
	}

	if err := s.SetSessionKey(user, "abc123"); err != nil {
		t.Fatalf("SetSessionKey: %v", err)
	}
	key, err = s.GetSessionKey(user)
	if err != nil {
		t.Fatalf("GetSessionKey: %v", err)
	}
	if key != "abc123" {
		t.Errorf("key = %q, want abc123", key)
	}
}
