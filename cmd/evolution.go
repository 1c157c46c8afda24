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
	evolutionCategory string
	evolutionNumber   int
)

var evolutionCmd = &cobra.Command{
	Use:   "evolution <report> [year] [year]",
	Short: "Compares your yearly charts across years",
	Long: `Year-over-year narratives derived from per-year rankings.

  newcomers <year>        first-ever chart appearances in that year
  climbers <from> <to>    biggest position gains between two years
  growth <from> <to>      biggest play-count increases between two years
  drops <from> <to>       biggest falls (999 marks a complete drop-out)
  comebacks <year>        returns after a gap of one or more full years
  consistent              items in the top 10 across at least 3 years
  wonders                 one-year wonders: charted high exactly once

With no year arguments, two-year reports use the two most recent years and
single-year reports use the most recent year.`,
	Args: cobra.RangeArgs(1, 3),
	Run: func(cmd *cobra.Command, args []string) {
		err := printEvolution(os.Stdout, viper.GetString("database"), args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(evolutionCmd)
	evolutionCmd.Flags().StringVar(&evolutionCategory, "by", "artist", "Category to rank: artist, track, or album")
	evolutionCmd.Flags().IntVarP(&evolutionNumber, "number", "n", analysis.DefaultEvolutionTopN, "Number of results to show")
}

func printEvolution(out io.Writer, dbPath string, args []string) error {
	scrobbles, err := loadScrobbles(dbPath, viper.GetString("user"))
	if err != nil {
		return err
	}

	rankings := analysis.RankByYear(scrobbles, scrobble.KeyFor(evolutionCategory), analysis.DefaultYearlyTopN)
	years := analysis.Years(rankings)
	if len(years) < 2 {
		fmt.Fprintln(out, "Need at least two years of listening data for evolution reports.")
		return nil
	}

	report := args[0]
	yearArgs, err := parseYearArgs(args[1:], years)
	if err != nil {
		return err
	}

	a, err := buildEvolutionReport(report, rankings, years, yearArgs)
	if err != nil {
		return err
	}
	if a.Empty() {
		fmt.Fprintf(out, "No results for %s.\n", report)
		return nil
	}
	fmt.Fprint(out, a)
	return nil
}

// parseYearArgs fills missing year arguments with the most recent years in
// the data: [from, to] defaults to the last two, a single target defaults to
// the last.
func parseYearArgs(args []string, years []int) ([]int, error) {
	parsed := make([]int, 0, 2)
	for _, arg := range args {
		y, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("Invalid year %q", arg)
		}
		parsed = append(parsed, y)
	}
	switch len(parsed) {
	case 0:
		parsed = []int{years[len(years)-2], years[len(years)-1]}
	case 1:
		// One explicit year acts as the "to"/target year.
		parsed = []int{years[len(years)-2], parsed[0]}
	}
	return parsed, nil
}

func buildEvolutionReport(report string, rankings map[int][]analysis.YearEntry, years []int, yearArgs []int) (Analysis, error) {
	from, to := yearArgs[0], yearArgs[1]
	var a Analysis

	switch report {
	case "newcomers":
		a.results = [][]string{{"#", "Name", "Plays"}}
		for _, e := range analysis.Newcomers(rankings, to, evolutionNumber) {
			a.results = append(a.results, []string{strconv.Itoa(e.Position), e.Item, strconv.Itoa(e.Plays)})
		}
		a.summary = fmt.Sprintf("First chart appearances in %d", to)

	case "climbers":
		a.results = [][]string{{"Name", strconv.Itoa(from), strconv.Itoa(to), "Gain"}}
		for _, e := range analysis.Climbers(rankings, from, to, evolutionNumber) {
			a.results = append(a.results, []string{
				e.Item, strconv.Itoa(e.FromPosition), strconv.Itoa(e.ToPosition), strconv.Itoa(e.PositionGain),
			})
		}
		a.summary = fmt.Sprintf("Biggest climbs from %d to %d", from, to)

	case "growth":
		a.results = [][]string{{"Name", strconv.Itoa(from), strconv.Itoa(to), "Growth", "%"}}
		for _, e := range analysis.Growth(rankings, from, to, evolutionNumber) {
			a.results = append(a.results, []string{
				e.Item, strconv.Itoa(e.FromPlays), strconv.Itoa(e.ToPlays),
				strconv.Itoa(e.Growth), fmt.Sprintf("%.1f", e.GrowthPercent),
			})
		}
		a.summary = fmt.Sprintf("Biggest play-count growth from %d to %d", from, to)

	case "drops":
		a.results = [][]string{{"Name", strconv.Itoa(from), strconv.Itoa(to), "Fell"}}
		for _, e := range analysis.Drops(rankings, from, to, evolutionNumber) {
			toPos := strconv.Itoa(e.ToPosition)
			if e.ToPosition == 999 {
				toPos = "out"
			}
			a.results = append(a.results, []string{
				e.Item, strconv.Itoa(e.FromPosition), toPos, strconv.Itoa(e.PositionDrop),
			})
		}
		a.summary = fmt.Sprintf("Biggest falls from %d to %d", from, to)

	case "comebacks":
		a.results = [][]string{{"Name", "Last seen", "Years away", "Plays"}}
		for _, e := range analysis.Comebacks(rankings, to, evolutionNumber) {
			a.results = append(a.results, []string{
				e.Item, strconv.Itoa(e.LastSeenYear), strconv.Itoa(e.YearsAbsent), strconv.Itoa(e.Plays),
			})
		}
		a.summary = fmt.Sprintf("Comebacks in %d", to)

	case "consistent":
		a.results = [][]string{{"Name", "Years in top 10", "Avg position", "Total plays"}}
		for _, e := range analysis.Consistent(rankings, 10, 3, evolutionNumber) {
			a.results = append(a.results, []string{
				e.Item, strconv.Itoa(e.Years), fmt.Sprintf("%.1f", e.AveragePosition), strconv.Itoa(e.TotalPlays),
			})
		}
		a.summary = fmt.Sprintf("Consistently charting across %d years of data", len(years))

	case "wonders":
		a.results = [][]string{{"Name", "Year", "Position", "Plays"}}
		for _, e := range analysis.OneYearWonders(rankings, 15, evolutionNumber) {
			a.results = append(a.results, []string{
				e.Item, strconv.Itoa(e.Year), strconv.Itoa(e.Position), strconv.Itoa(e.Plays),
			})
		}
		a.summary = "Charted high in exactly one year"

	default:
		return a, fmt.Errorf("Unknown report %q - one of: newcomers, climbers, growth, drops, comebacks, consistent, wonders", report)
	}

	return a, nil
}
