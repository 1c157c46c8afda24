package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/avelis/scrobble-charts/internal/scrobble"
)

func (s *Store) GetSessionKey(user string) (string, error) {
	row := s.db.QueryRow("SELECT session_key FROM User WHERE name = ? AND session_key <> ''", user)
	var key string
	err := row.Scan(&key)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting session key: %w", err)
	}
	return key, nil
}

func (s *Store) GetLastUpdated(user string) (time.Time, error) {
	row := s.db.QueryRow("SELECT last_updated FROM User WHERE name = ?", user)
	var t sql.NullTime
	err := row.Scan(&t)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("getting last updated: %w", err)
	}
	return t.Time, nil
}

// GetLatestListen returns the newest listen with a usable epoch date, for
// deciding how far back an incremental update needs to reach.
func (s *Store) GetLatestListen(user string) (time.Time, error) {
	query := "SELECT date FROM Listen WHERE user = ? AND date <> '' ORDER BY CAST(date AS INTEGER) DESC LIMIT 1"
	row := s.db.QueryRow(query, user)
	var dateStr string
	err := row.Scan(&dateStr)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("scanning latest listen: %w", err)
	}

	uts, err := strconv.ParseInt(dateStr, 10, 64)
	if err != nil {
		return time.Time{}, nil
	}
	return time.Unix(uts, 0), nil
}

// GetScrobbles materializes a user's full listening history for one analysis
// pass. Dates travel as the raw strings ingestion stored; normalization is
// the caller's job.
func (s *Store) GetScrobbles(user string) ([]*scrobble.Scrobble, error) {
	query := `
		SELECT t.artist, t.album, t.name, l.date, l.date_raw
		FROM Listen l
		INNER JOIN Track t ON l.track = t.id
		WHERE l.user = ?
		ORDER BY CAST(l.date AS INTEGER) ASC
	`
	rows, err := s.db.Query(query, user)
	if err != nil {
		return nil, fmt.Errorf("querying scrobbles: %w", err)
	}
	defer rows.Close()

	var scrobbles []*scrobble.Scrobble
	for rows.Next() {
		sc := &scrobble.Scrobble{}
		if err := rows.Scan(&sc.Artist, &sc.Album, &sc.Track, &sc.UTS, &sc.RawDate); err != nil {
			return nil, fmt.Errorf("scanning scrobble: %w", err)
		}
		scrobbles = append(scrobbles, sc)
	}
	return scrobbles, rows.Err()
}

// CountListens reports a user's total listen count without materializing
// anything, a cheap precondition for the analysis commands.
func (s *Store) CountListens(user string) (int64, error) {
	var count int64
	err := s.db.QueryRow("SELECT COUNT(id) FROM Listen WHERE user = ?", user).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting listens: %w", err)
	}
	return count, nil
}
