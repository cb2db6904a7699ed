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

// Package report resolves per-fund prices and fundamentals and assembles the
// discount report. Provider faults never abort a batch: a failed lookup
// resolves to an absent value for that row only.
package report

import (
	"context"
	"time"

	"github.com/alphadose/haxmap"
	"github.com/lukasmc92/cefnav/data"
	"github.com/rs/zerolog/log"
)

// priceWindowDays is how far the close-price query extends on either side of
// the target date. The target may fall on a weekend or holiday; the window
// guarantees the surrounding fetch includes the target day if it traded at
// all, while the lookup still requires an exact calendar-day match so a price
// is never attributed to the wrong day.
const priceWindowDays = 2

// MarketData is the provider surface the resolvers need. The yahoo package
// satisfies it; tests substitute fakes.
type MarketData interface {
	DailyCloses(ctx context.Context, ticker string, start, end time.Time) ([]data.Bar, string, error)
	QuarterlyBalanceSheet(ctx context.Context, ticker string) (data.BalanceSheet, error)
}

// Line-item candidates consulted in priority order; first present wins.
var (
	sharesLineItems = []string{"Ordinary Shares Number", "Share Issued"}
	debtLineItems   = []string{"Total Debt", "Long Term Debt", "Current Debt"}
)

const outsideEquityLineItem = "Preferred Securities Outside Stock Equity"

type Resolver struct {
	md MarketData

	// several funds can share a NAV ticker, so close lookups are cached for
	// the life of the run
	closeCache *haxmap.Map[string, data.PriceResult]
	nameCache  *haxmap.Map[string, string]
}

func NewResolver(md MarketData) *Resolver {
	return &Resolver{
		md:         md,
		closeCache: haxmap.New[string, data.PriceResult](),
		nameCache:  haxmap.New[string, string](),
	}
}

// ResolveClose returns the close recorded for ticker on exactly the target
// calendar day, or an absent result when the day did not trade or the
// provider call failed. Faults are logged and converted, never propagated.
func (resolver *Resolver) ResolveClose(ctx context.Context, ticker string, target time.Time) data.PriceResult {
	targetDay := target.Format("2006-01-02")
	cacheKey := ticker + "|" + targetDay

	if cached, ok := resolver.closeCache.Get(cacheKey); ok {
		return cached
	}

	result := data.PriceResult{}

	start := target.AddDate(0, 0, -priceWindowDays)
	end := target.AddDate(0, 0, priceWindowDays)

	bars, longName, err := resolver.md.DailyCloses(ctx, ticker, start, end)
	if err != nil {
		log.Warn().Err(err).Str("Ticker", ticker).Str("TargetDate", targetDay).
			Msg("skipping close price lookup due to provider error")
	} else {
		for _, bar := range bars {
			if bar.Date.Format("2006-01-02") == targetDay {
				result = data.PriceResult{Close: bar.Close, Valid: true}
				break
			}
		}
	}

	if longName != "" {
		resolver.nameCache.Set(ticker, longName)
	}

	resolver.closeCache.Set(cacheKey, result)
	return result
}

// LongName returns the instrument name learned from a prior close lookup,
// falling back to the ticker itself.
func (resolver *Resolver) LongName(ticker string) string {
	if name, ok := resolver.nameCache.Get(ticker); ok {
		return name
	}
	return ticker
}

// ResolveFundamentals returns the balance-sheet snapshot for the most recent
// report dated on or before asOf. Reports dated after asOf are never used;
// selecting one would leak future information into the valuation.
func (resolver *Resolver) ResolveFundamentals(ctx context.Context, ticker string, asOf time.Time) data.FundamentalsSnapshot {
	snapshot := data.FundamentalsSnapshot{}

	balance, err := resolver.md.QuarterlyBalanceSheet(ctx, ticker)
	if err != nil {
		log.Warn().Err(err).Str("Ticker", ticker).
			Msg("skipping fundamentals lookup due to provider error")
		return snapshot
	}

	if len(balance) == 0 {
		return snapshot
	}

	// ISO date strings order the same as the dates they name
	asOfDay := asOf.Format("2006-01-02")
	latest := ""
	for reportDay := range balance {
		if reportDay <= asOfDay && reportDay > latest {
			latest = reportDay
		}
	}

	if latest == "" {
		return snapshot
	}

	statement := balance[latest]

	if value, ok := firstLineItem(statement, sharesLineItems); ok {
		snapshot.SharesOutstanding = &value
	}

	if value, ok := firstLineItem(statement, debtLineItems); ok {
		snapshot.TotalDebt = &value
	}

	if value, ok := statement[outsideEquityLineItem]; ok {
		snapshot.OutsideEquity = value
	}

	if reportDate, err := time.Parse("2006-01-02", latest); err == nil {
		snapshot.ReportDate = &reportDate
	}

	return snapshot
}

func firstLineItem(statement map[string]float64, candidates []string) (float64, bool) {
	for _, name := range candidates {
		if value, ok := statement[name]; ok {
			return value, true
		}
	}
	return 0, false
}
