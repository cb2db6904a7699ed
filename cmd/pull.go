// Copyright 2025
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/hako/durafmt"
	"github.com/lukasmc92/cefnav/data"
	"github.com/lukasmc92/cefnav/export"
	"github.com/lukasmc92/cefnav/healthcheck"
	"github.com/lukasmc92/cefnav/reference"
	"github.com/lukasmc92/cefnav/report"
	"github.com/lukasmc92/cefnav/yahoo"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/xeonx/timeago"
)

var (
	pullDate    string
	pullParquet bool
)

// pullCmd represents the pull command
var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Pull fund pricing and build the NAV discount report",
	Long: `The pull sub-command runs one batch: it loads the NAV tickers reference
table, resolves the closing price of each fund and its NAV ticker on the
valuation date, looks up the most recent quarterly balance-sheet figures as of
that date, and writes the assembled table to an xlsx workbook.

The valuation date should be a trading day (or the last weekday before the
date of interest); funds with no trade on that exact day get empty price
cells. When --date is omitted a short wizard asks for it.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		if pullDate == "" {
			promptForDate()
		}

		target, err := time.Parse("2006-01-02", pullDate)
		if err != nil {
			log.Fatal().Err(err).Str("Date", pullDate).Msg("could not parse valuation date, expecting YYYY-MM-DD")
		}

		runID := uuid.New()
		logger := log.With().Str("RunID", runID.String()[:8]).Logger()
		ctx = logger.WithContext(ctx)

		healthcheck.Start(ctx)

		loader := reference.NewLoader()
		entries, err := loader.Entries(ctx)
		if err != nil {
			healthcheck.Failure(ctx)
			logger.Fatal().Err(err).Msg("could not load reference table")
		}

		builder := report.NewBuilder(yahoo.New())
		builder.OnRow = func(done, total int) {
			logger.Info().Int("Done", done).Int("Total", total).Msg("processed fund")
		}

		startTime := time.Now()
		result := builder.Build(ctx, entries, target)
		runTime := time.Since(startTime)

		outDir := viper.GetString("output.dir")

		xlsxPath, err := export.WriteXLSX(result, outDir)
		if err != nil {
			healthcheck.Failure(ctx)
			logger.Fatal().Err(err).Msg("writing report workbook failed")
		}

		artifacts := []string{xlsxPath}

		if pullParquet {
			parquetPath, err := export.WriteParquet(result, outDir)
			if err != nil {
				logger.Error().Err(err).Msg("writing parquet companion failed")
			} else {
				artifacts = append(artifacts, parquetPath)
			}
		}

		if viper.GetString("backblaze.application_id") != "" {
			year := target.Format("2006")
			for _, fn := range artifacts {
				if err := export.Upload(fn, year); err != nil {
					logger.Error().Err(err).Str("FileName", fn).Msg("failed uploading artifact to Backblaze")
				}
			}
		} else {
			logger.Info().Msg("skipping upload to backblaze because backblaze credentials are missing")
		}

		healthcheck.Success(ctx)

		logger.Info().Str("RunTime", durafmt.Parse(runTime).String()).
			Int("NumFunds", len(result.Rows)).Msg("NAV data pull complete")

		printRunSummary(result, target, xlsxPath, runTime)
	},
}

// promptForDate walks the operator through picking a valuation date when the
// --date flag was not supplied.
func promptForDate() {
	var confirmed bool

	pullDate = time.Now().Format("2006-01-02")

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Valuation date (or last weekday before valuation date)").
				Value(&pullDate).
				Validate(func(s string) error {
					_, err := time.Parse("2006-01-02", s)
					return err
				}),
			huh.NewConfirm().
				Title("Download NAV data?").
				Value(&confirmed),
		),
	)

	if err := form.Run(); err != nil {
		log.Fatal().Err(err).Msg("failed to run wizard")
	}

	if !confirmed {
		log.Info().Msg("run cancelled")
		os.Exit(0)
	}
}

func printRunSummary(result *data.Report, target time.Time, path string, runTime time.Duration) {
	var sb strings.Builder

	keyword := func(s string) string {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Render(s)
	}

	priced := 0
	for _, row := range result.Rows {
		if row.Discount != nil {
			priced++
		}
	}

	fmt.Fprintf(&sb,
		"%s\n\nValuation Date: %s (%s)\nFunds: %s\nWith Discount: %s\nRun Time: %s\nOutput: %s\n",
		lipgloss.NewStyle().Bold(true).Render("NAV DATA PULL COMPLETE"),
		keyword(target.Format("2006-01-02")),
		timeago.English.Format(target),
		keyword(fmt.Sprintf("%d", len(result.Rows))),
		keyword(fmt.Sprintf("%d", priced)),
		keyword(durafmt.Parse(runTime).String()),
		keyword(path),
	)

	fmt.Println(
		lipgloss.NewStyle().
			Width(60).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 2).
			Render(sb.String()),
	)
}

func init() {
	rootCmd.AddCommand(pullCmd)

	pullCmd.Flags().StringVarP(&pullDate, "date", "d", "", "valuation date (YYYY-MM-DD)")
	pullCmd.Flags().BoolVar(&pullParquet, "parquet", false, "also write a parquet companion file")
	pullCmd.Flags().String("out", ".", "directory to write the report into")

	if err := viper.BindPFlag("output.dir", pullCmd.Flags().Lookup("out")); err != nil {
		log.Panic().Err(err).Msg("BindPFlag for out failed")
	}
}
