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
	"os"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var emailDryRun bool

var emailCmd = &cobra.Command{
	Use:   "email <address> <report...> [date] [date]",
	Short: "Sends a report by email",
	Long: `Emails one or more reports to the specified address.
  <report> is one or more of: overview, reign, years, evolution.
  Optional date arguments at the end scope the overview report
  (e.g. '2023-01' or '2023-01 2023-06').`,
	Args: cobra.MinimumNArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("from") == "" {
			return fmt.Errorf("required flag(s) \"from\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		err := sendEmailReport(viper.GetString("database"), args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(emailCmd)
	emailCmd.Flags().BoolVar(&emailDryRun, "dry-run", false, "Print the email instead of sending it")
}

func sendEmailReport(dbPath string, args []string) error {
	to := args[0]
	rest := args[1:]

	// Trailing args that parse as dates scope the report period.
	var dateArgs []string
	for len(rest) > 0 && len(dateArgs) < 2 {
		if _, err := parseSingleDatestring(rest[len(rest)-1]); err != nil {
			break
		}
		dateArgs = append([]string{rest[len(rest)-1]}, dateArgs...)
		rest = rest[:len(rest)-1]
	}

	if len(rest) == 0 {
		return fmt.Errorf("No reports specified")
	}

	body := new(bytes.Buffer)
	for _, report := range rest {
		var err error
		switch report {
		case "overview":
			err = printOverview(body, dbPath, dateArgs)
		case "reign":
			err = printReign(body, dbPath)
		case "years":
			err = printYears(body, dbPath)
		case "evolution":
			for _, sub := range []string{"newcomers", "climbers", "growth", "drops", "comebacks", "consistent", "wonders"} {
				fmt.Fprintf(body, "## %s\n", sub)
				if err = printEvolution(body, dbPath, []string{sub}); err != nil {
					break
				}
			}
		default:
			err = fmt.Errorf("Unknown report %q - one of: overview, reign, years, evolution", report)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(body)
	}

	subject := fmt.Sprintf("Scrobble report for %s: %s", viper.GetString("user"), strings.Join(rest, ", "))
	if emailDryRun {
		fmt.Printf("To: %s\nSubject: %s\n\n%s", to, subject, body)
		return nil
	}

	from := mail.NewEmail("scrobble-charts", viper.GetString("from"))
	message := mail.NewSingleEmail(from, subject, mail.NewEmail(to, to), body.String(), body.String())
	client := sendgrid.NewSendClient(viper.GetString("sendgrid_api_key"))
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("sending email: status %d: %s", response.StatusCode, response.Body)
	}

	fmt.Printf("Sent %s to %s\n", strings.Join(rest, ", "), to)
	return nil
}
