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
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cefnav",
	Short: "cefnav pulls closed-end fund pricing and computes price/NAV discounts",
	Long: `cefnav is a research utility for closed-end fund investors. It downloads
a reference table of fund and NAV ticker pairs, pulls end-of-day pricing and
quarterly balance-sheet fundamentals for each pair from Yahoo Finance, computes
the price/NAV discount ratio, and exports the result to a spreadsheet.

The batch is strictly best effort: a fund whose price or fundamentals cannot be
resolved gets empty cells for those columns and the run continues. Only a
failure to load the reference table aborts a run.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.cefnav.toml)")
	rootCmd.PersistentFlags().String("tickersUrl", "", "URL of the NAV tickers reference workbook")
	rootCmd.PersistentFlags().String("tickersFile", "", "local CSV file to use instead of the remote reference workbook")

	if err := viper.BindPFlag("tickers.url", rootCmd.PersistentFlags().Lookup("tickersUrl")); err != nil {
		log.Panic().Err(err).Msg("BindPFlag for tickersUrl failed")
	}
	if err := viper.BindPFlag("tickers.file", rootCmd.PersistentFlags().Lookup("tickersFile")); err != nil {
		log.Panic().Err(err).Msg("BindPFlag for tickersFile failed")
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".cefnav" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("toml")
		viper.SetConfigName(".cefnav")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Info().Str("ConfigFN", viper.ConfigFileUsed()).Msg("Using config file")
	}
}
