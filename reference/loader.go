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

// Package reference loads the NAV tickers reference table. The table lives
// in a spreadsheet published on GitHub; a local CSV can be substituted with
// the tickers.file setting. Rows without both a fund ticker and a NAV ticker
// are dropped during load rather than reported as errors.
package reference

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gocarina/gocsv"
	"github.com/lukasmc92/cefnav/data"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/xuri/excelize/v2"
)

const DefaultTickersURL = "https://github.com/Lukasmc92/NAV-Tickers/raw/refs/heads/main/Tickers.xlsx"

var (
	ErrFetch = errors.New("could not fetch reference table")
)

// Loader fetches and caches the reference table. The cache lives until
// Invalidate is called; there is no time-based expiry because one load per
// process run is the expected usage.
type Loader struct {
	mu       sync.Mutex
	client   *resty.Client
	entries  []*data.FundEntry
	loadedAt time.Time
}

func NewLoader() *Loader {
	return &Loader{
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

// Entries returns the reference table, loading it on first use.
func (loader *Loader) Entries(ctx context.Context) ([]*data.FundEntry, error) {
	loader.mu.Lock()
	defer loader.mu.Unlock()

	if loader.entries != nil {
		return loader.entries, nil
	}

	entries, err := loader.fetch(ctx)
	if err != nil {
		return nil, err
	}

	loader.entries = entries
	loader.loadedAt = time.Now()

	return entries, nil
}

// Invalidate clears the cached table so the next Entries call re-fetches.
func (loader *Loader) Invalidate() {
	loader.mu.Lock()
	defer loader.mu.Unlock()

	loader.entries = nil
	loader.loadedAt = time.Time{}
}

// LoadedAt returns the time of the last successful load, or the zero time.
func (loader *Loader) LoadedAt() time.Time {
	loader.mu.Lock()
	defer loader.mu.Unlock()

	return loader.loadedAt
}

func (loader *Loader) fetch(ctx context.Context) ([]*data.FundEntry, error) {
	if fn := viper.GetString("tickers.file"); fn != "" {
		log.Info().Str("FileName", fn).Msg("loading reference table from local csv")
		return loadCSVFile(fn)
	}

	url := viper.GetString("tickers.url")
	if url == "" {
		url = DefaultTickersURL
	}

	resp, err := loader.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFetch, err.Error())
	}

	if resp.StatusCode() >= 300 {
		return nil, fmt.Errorf("%w: status code %d from %s", ErrFetch, resp.StatusCode(), url)
	}

	entries, err := parseWorkbook(resp.Body())
	if err != nil {
		return nil, err
	}

	log.Info().Int("NumEntries", len(entries)).Str("URL", url).Msg("loaded reference table")
	return entries, nil
}

func loadCSVFile(fn string) ([]*data.FundEntry, error) {
	fh, err := os.Open(fn)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFetch, err.Error())
	}
	defer fh.Close()

	entries := []*data.FundEntry{}
	if err := gocsv.Unmarshal(fh, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFetch, err.Error())
	}

	return filterEntries(entries), nil
}

// parseWorkbook reads the first sheet of the reference workbook. Header names
// must match the published column titles; columns may appear in any order.
func parseWorkbook(content []byte) ([]*data.FundEntry, error) {
	book, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFetch, err.Error())
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrFetch)
	}

	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFetch, err.Error())
	}

	if len(rows) < 1 {
		return nil, fmt.Errorf("%w: workbook has no header row", ErrFetch)
	}

	colIdx := make(map[string]int, len(rows[0]))
	for idx, name := range rows[0] {
		colIdx[name] = idx
	}

	cell := func(row []string, name string) string {
		idx, ok := colIdx[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	entries := make([]*data.FundEntry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		entries = append(entries, &data.FundEntry{
			Fund:            cell(row, "Fund"),
			NAV:             cell(row, "NAV"),
			FundType:        cell(row, "Fund Type"),
			Subcategory:     cell(row, "Subcategory"),
			BroadCategory:   cell(row, "Broad Category"),
			GeographicFocus: cell(row, "Geographic Focus"),
		})
	}

	return filterEntries(entries), nil
}

// filterEntries drops rows missing either ticker. This is a best-effort
// policy, not validation: incomplete rows are expected in the source sheet.
func filterEntries(entries []*data.FundEntry) []*data.FundEntry {
	kept := make([]*data.FundEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Fund == "" || entry.NAV == "" {
			log.Debug().Object("Entry", entry).Msg("dropping incomplete reference row")
			continue
		}
		kept = append(kept, entry)
	}
	return kept
}
