/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/avelis/scrobble-charts/internal/analysis"
)

var (
	overviewArtists int
	overviewTracks  int
	overviewAlbums  int
	overviewClocks  bool
)

var overviewCmd = &cobra.Command{
	Use:   "overview [from] [to (optional)]",
	Short: "Summarizes listening history",
	Long: `Shows totals, top artists/tracks/albums, and listening-time histograms.
Date strings look like 'yyyy', 'yyyy-mm', 'yyyy-mm-dd', or relative like '30d'.
With no dates, covers all time.`,
	Args: cobra.RangeArgs(0, 2),
	Run: func(cmd *cobra.Command, args []string) {
		err := printOverview(os.Stdout, viper.GetString("database"), args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(overviewCmd)
	overviewCmd.Flags().IntVar(&overviewArtists, "artists", 10, "Number of top artists to show")
	overviewCmd.Flags().IntVar(&overviewTracks, "tracks", 10, "Number of top tracks to show")
	overviewCmd.Flags().IntVar(&overviewAlbums, "albums", 6, "Number of top albums to show")
	overviewCmd.Flags().BoolVar(&overviewClocks, "clocks", true, "Show hour/weekday/day-of-month histograms")
}

func printOverview(out io.Writer, dbPath string, args []string) error {
	scrobbles, err := loadScrobbles(dbPath, viper.GetString("user"))
	if err != nil {
		return err
	}

	var start, end *time.Time
	if len(args) > 0 {
		s, e, err := parseDateRangeFromArgs(args)
		if err != nil {
			return err
		}
		start, end = &s, &e
	}

	o := analysis.BuildOverview(scrobbles, start, end, overviewArtists, overviewTracks, overviewAlbums)
	if o == nil {
		fmt.Fprintln(out, "No scrobbles in the selected period.")
		return nil
	}

	fmt.Fprintf(out, "Listening overview for %s\n", viper.GetString("user"))
	if start != nil && end != nil {
		fmt.Fprintf(out, "Period: %s to %s\n", start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	fmt.Fprintf(out, "Total scrobbles: %d\n\n", o.Total)

	printTopTable(out, fmt.Sprintf("Top %d Artists", len(o.TopArtists)), "Artist", o.TopArtists)
	printTopTable(out, fmt.Sprintf("Top %d Tracks", len(o.TopTracks)), "Track", o.TopTracks)
	printTopTable(out, fmt.Sprintf("Top %d Albums", len(o.TopAlbums)), "Album", o.TopAlbums)

	if overviewClocks {
		printClock(out, "Plays by hour", hourLabels(), o.ByHour[:])
		printClock(out, "Plays by weekday", weekdayLabels(), o.ByWeekday[:])
		printClock(out, "Plays by day of month", monthDayLabels(), o.ByMonthDay[:])
	}

	return nil
}

func printTopTable(out io.Writer, title, header string, entries []analysis.EntityCount) {
	if len(entries) == 0 {
		return
	}
	a := Analysis{results: [][]string{{"#", header, "Plays"}}}
	for i, e := range entries {
		a.results = append(a.results, []string{strconv.Itoa(i + 1), e.Name, strconv.Itoa(e.Plays)})
	}
	fmt.Fprintf(out, "## %s\n%s\n", title, a)
}

func printClock(out io.Writer, title string, labels []string, buckets []int) {
	a := Analysis{results: [][]string{{"Bucket", "Plays"}}}
	for i, n := range buckets {
		if n == 0 {
			continue
		}
		a.results = append(a.results, []string{labels[i], strconv.Itoa(n)})
	}
	if a.Empty() {
		return
	}
	fmt.Fprintf(out, "## %s\n%s\n", title, a)
}

func hourLabels() []string {
	labels := make([]string, 24)
	for i := range labels {
		labels[i] = fmt.Sprintf("%02d:00", i)
	}
	return labels
}

func weekdayLabels() []string {
	return []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
}

func monthDayLabels() []string {
	labels := make([]string, 31)
	for i := range labels {
		labels[i] = strconv.Itoa(i + 1)
	}
	return labels
}
