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
package data

import (
	"time"

	"github.com/rs/zerolog"
)

// FundEntry is one row of the NAV tickers reference table. A fund trades on
// its Fund ticker; the sponsor publishes the net-asset-value under the NAV
// ticker. Entries are immutable once loaded.
type FundEntry struct {
	Fund            string `csv:"Fund"`
	NAV             string `csv:"NAV"`
	FundType        string `csv:"Fund Type"`
	Subcategory     string `csv:"Subcategory"`
	BroadCategory   string `csv:"Broad Category"`
	GeographicFocus string `csv:"Geographic Focus"`
}

func (entry *FundEntry) MarshalZerologObject(e *zerolog.Event) {
	e.Str("Fund", entry.Fund)
	e.Str("NAV", entry.NAV)
	e.Str("BroadCategory", entry.BroadCategory)
}

// Bar is a single daily close returned by the market data client. Date is
// normalized to the trading day in the exchange's local timezone.
type Bar struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceResult is the outcome of a close-price lookup. Valid is false when no
// trading data exists for the exact requested calendar day, or when the
// provider call failed; lookups never distinguish the two.
type PriceResult struct {
	Close float64
	Valid bool
}

// BalanceSheet maps report date (YYYY-MM-DD) to line-item name to reported
// value, mirroring one quarterly balance-sheet statement per column.
type BalanceSheet map[string]map[string]float64

// FundamentalsSnapshot holds the most recent reported balance-sheet figures
// as of a target date. SharesOutstanding and TotalDebt are nil when the line
// items are not reported; OutsideEquity defaults to 0 when not broken out,
// which is deliberate: unreported outside equity means none, not unknown.
type FundamentalsSnapshot struct {
	SharesOutstanding *float64
	TotalDebt         *float64
	OutsideEquity     float64
	ReportDate        *time.Time
}

func (snapshot *FundamentalsSnapshot) MarshalZerologObject(e *zerolog.Event) {
	if snapshot.SharesOutstanding != nil {
		e.Float64("SharesOutstanding", *snapshot.SharesOutstanding)
	}
	if snapshot.TotalDebt != nil {
		e.Float64("TotalDebt", *snapshot.TotalDebt)
	}
	e.Float64("OutsideEquity", snapshot.OutsideEquity)
	if snapshot.ReportDate != nil {
		e.Time("ReportDate", *snapshot.ReportDate)
	}
}
