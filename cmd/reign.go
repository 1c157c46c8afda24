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
	"github.com/avelis/scrobble-charts/internal/scrobble"
)

var (
	reignCategory string
	reignTopK     int
	reignWindow   int
	reignMinDays  int
)

var reignCmd = &cobra.Command{
	Use:   "reign",
	Short: "Shows which artists, tracks, or albums reigned over your charts",
	Long: `For each day of your listening history, computes the top K items by
cumulative play count, then reports how many days each item held a top spot.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := printReign(os.Stdout, viper.GetString("database"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(reignCmd)
	reignCmd.Flags().StringVar(&reignCategory, "by", "artist", "Category to rank: artist, track, or album")
	reignCmd.Flags().IntVar(&reignTopK, "top", 1, "Size of each day's top set (1, 5, or 10)")
	reignCmd.Flags().IntVar(&reignWindow, "window", 0, "Only consider the last N years (0 for all time)")
	reignCmd.Flags().IntVar(&reignMinDays, "min-days", analysis.DefaultMinReignDays, "Hide items that reigned fewer days than this")
}

func printReign(out io.Writer, dbPath string) error {
	scrobbles, err := loadScrobbles(dbPath, viper.GetString("user"))
	if err != nil {
		return err
	}

	cutoff := analysis.CutoffYearsAgo(reignWindow, time.Now())
	scrobbles = analysis.FilterSince(scrobbles, cutoff)

	entries := analysis.Reign(scrobbles, scrobble.KeyFor(reignCategory), reignTopK, reignMinDays)
	if len(entries) == 0 {
		fmt.Fprintln(out, "Not enough dated listening data for a reign chart.")
		return nil
	}

	a := Analysis{results: [][]string{{"#", "Name", "Days in top", "Total plays", "Reigning now"}}}
	for i, e := range entries {
		now := ""
		if e.CurrentlyTop {
			now = "yes"
		}
		a.results = append(a.results, []string{
			strconv.Itoa(i + 1), e.Name, strconv.Itoa(e.DaysInTop), strconv.Itoa(e.TotalPlays), now,
		})
	}
	a.summary = fmt.Sprintf("Top %d by %s, minimum %d days", reignTopK, reignCategory, reignMinDays)
	fmt.Fprint(out, a)
	return nil
}
