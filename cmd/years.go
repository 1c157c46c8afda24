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

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/avelis/scrobble-charts/internal/analysis"
	"github.com/avelis/scrobble-charts/internal/scrobble"
)

var (
	yearsCategory string
	yearsNumber   int
)

var yearsCmd = &cobra.Command{
	Use:   "years",
	Short: "Ranks artists, tracks, or albums within each calendar year",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := printYears(os.Stdout, viper.GetString("database"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(yearsCmd)
	yearsCmd.Flags().StringVar(&yearsCategory, "by", "artist", "Category to rank: artist, track, or album")
	yearsCmd.Flags().IntVarP(&yearsNumber, "number", "n", 10, "Number of results to show per year")
}

func printYears(out io.Writer, dbPath string) error {
	scrobbles, err := loadScrobbles(dbPath, viper.GetString("user"))
	if err != nil {
		return err
	}

	rankings := analysis.RankByYear(scrobbles, scrobble.KeyFor(yearsCategory), analysis.DefaultYearlyTopN)
	years := analysis.Years(rankings)
	if len(years) == 0 {
		fmt.Fprintln(out, "No dated listening data.")
		return nil
	}

	for _, year := range years {
		entries := rankings[year]
		shown := entries
		if yearsNumber > 0 && len(shown) > yearsNumber {
			shown = shown[:yearsNumber]
		}

		a := Analysis{results: [][]string{{"#", "Name", "Plays"}}}
		for _, e := range shown {
			a.results = append(a.results, []string{strconv.Itoa(e.Position), e.Item, strconv.Itoa(e.Plays)})
		}
		a.summary = fmt.Sprintf("%d distinct %ss in %d", len(entries), yearsCategory, year)
		fmt.Fprintf(out, "## %d\n%s\n", year, a)
	}
	return nil
}
