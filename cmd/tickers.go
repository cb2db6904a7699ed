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

	"github.com/charmbracelet/glamour"
	"github.com/lukasmc92/cefnav/reference"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// tickersCmd represents the tickers command
var tickersCmd = &cobra.Command{
	Use:   "tickers",
	Short: "Display the NAV tickers reference table",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		loader := reference.NewLoader()
		entries, err := loader.Entries(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("could not load reference table")
		}

		summary := reference.Summary(entries)

		r, _ := glamour.NewTermRenderer(
			// detect background color and pick either the default dark or light theme
			glamour.WithAutoStyle(),
			// wrap output at specific width (default is 80)
			glamour.WithWordWrap(80),
		)

		out, err := r.Render(summary)
		if err != nil {
			log.Fatal().Err(err).Msg("could not render reference table summary")
		}

		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(tickersCmd)
}
