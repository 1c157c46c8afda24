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
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"

	"github.com/avelis/scrobble-charts/internal/scrobble"
	"github.com/avelis/scrobble-charts/internal/store"
)

// Analysis is a rendered report: a header row, data rows, and a one-line
// summary below the table.
type Analysis struct {
	results [][]string
	summary string
}

func (a Analysis) Empty() bool {
	return len(a.results) <= 1
}

func (a Analysis) String() string {
	out := new(bytes.Buffer)
	if len(a.results) > 1 {
		table := tablewriter.NewWriter(out)
		table.Header(a.results[0])
		for _, row := range a.results[1:] {
			if err := table.Append(row); err != nil {
				return fmt.Sprintf("Error rendering table: %v", err)
			}
		}
		if err := table.Render(); err != nil {
			return fmt.Sprintf("Error rendering table: %v", err)
		}
	}
	fmt.Fprintf(out, "%s\n", a.summary)
	return out.String()
}

// loadScrobbles opens the database and materializes the user's normalized
// event list for one analysis pass.
func loadScrobbles(dbPath, user string) ([]*scrobble.Scrobble, error) {
	db, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	scrobbles, err := db.GetScrobbles(user)
	if err != nil {
		return nil, fmt.Errorf("loading scrobbles: %w", err)
	}
	if len(scrobbles) == 0 {
		return nil, fmt.Errorf("No listening data for %q - run update or import first.", user)
	}

	scrobble.Normalize(scrobbles)
	return scrobbles, nil
}
