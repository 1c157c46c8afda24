package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/avelis/scrobble-charts/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Imports a scrobble export file",
	Long: `Reads a CSV export with one scrobble per line:

  artist,album,track,date[,uts]

An optional header row is skipped. The date column is stored verbatim; dates
are resolved when reports run, so mixed and localized formats are fine.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := importFile(viper.GetString("database"), viper.GetString("user"), args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func importFile(dbPath, user, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %q: %w", path, err)
	}
	defer f.Close()

	tracks, err := readScrobbleCsv(f)
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		return fmt.Errorf("%q contains no scrobbles", path)
	}

	db, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	user = strings.ToLower(user)
	if err := db.CreateUser(user); err != nil {
		return fmt.Errorf("creating user: %w", err)
	}
	if err := db.AddScrobbles(user, tracks); err != nil {
		return fmt.Errorf("importing scrobbles: %w", err)
	}

	fmt.Printf("Imported %d scrobbles for %q\n", len(tracks), user)
	return nil
}

func readScrobbleCsv(r io.Reader) ([]store.TrackImport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var tracks []store.TrackImport
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		line++

		if len(record) < 4 {
			return nil, fmt.Errorf("line %d: expected at least 4 columns, got %d", line, len(record))
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "artist") {
			continue
		}

		t := store.TrackImport{
			Artist:    record[0],
			Album:     record[1],
			TrackName: record[2],
			DateRaw:   record[3],
		}
		if len(record) > 4 {
			t.DateUTS = strings.TrimSpace(record[4])
		}
		if t.Artist == "" || t.TrackName == "" {
			return nil, fmt.Errorf("line %d: artist and track must not be empty", line)
		}
		tracks = append(tracks, t)
	}
	return tracks, nil
}
