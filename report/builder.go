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
package report

import (
	"context"
	"math"
	"time"

	"github.com/lukasmc92/cefnav/data"
	"github.com/rs/zerolog/log"
)

type Builder struct {
	resolver *Resolver

	// OnRow, when set, is called after each reference entry is processed.
	// The builder never depends on its consumer; the CLI uses it for
	// progress reporting.
	OnRow func(done, total int)
}

func NewBuilder(md MarketData) *Builder {
	return &Builder{resolver: NewResolver(md)}
}

// Build assembles the report for the given reference entries and valuation
// date. Entries are processed sequentially and rows keep the input order.
// Individual lookup failures leave absent cells; they never abort the batch.
func (builder *Builder) Build(ctx context.Context, entries []*data.FundEntry, target time.Time) *data.Report {
	report := &data.Report{
		Rows:       make([]*data.ReportRow, 0, len(entries)),
		TargetDate: target,
	}

	targetDay := target.Format("2006-01-02")

	for idx, entry := range entries {
		fundPrice := builder.resolver.ResolveClose(ctx, entry.Fund, target)
		navPrice := builder.resolver.ResolveClose(ctx, entry.NAV, target)
		fundamentals := builder.resolver.ResolveFundamentals(ctx, entry.Fund, target)

		row := &data.ReportRow{
			FundName:           builder.resolver.LongName(entry.Fund),
			BroadCategory:      entry.BroadCategory,
			FundType:           entry.FundType,
			Subcategory:        entry.Subcategory,
			GeographicFocus:    entry.GeographicFocus,
			Date:               targetDay,
			FundTicker:         entry.Fund,
			NAVTicker:          entry.NAV,
			SharesOutstandingM: scaleToMillions(fundamentals.SharesOutstanding),
			TotalDebtM:         scaleToMillions(fundamentals.TotalDebt),
		}

		if fundPrice.Valid {
			fundClose := fundPrice.Close
			row.FundClose = &fundClose
		}

		if navPrice.Valid {
			navClose := navPrice.Close
			row.NAVClose = &navClose
		}

		if fundPrice.Valid && navPrice.Valid {
			discount := fundPrice.Close / navPrice.Close
			row.Discount = &discount
		}

		report.Rows = append(report.Rows, row)

		log.Debug().Object("Row", row).Msg("assembled report row")

		if builder.OnRow != nil {
			builder.OnRow(idx+1, len(entries))
		}
	}

	report.GeneratedAt = time.Now()

	return report
}

// scaleToMillions converts a raw currency or share count to millions rounded
// to two decimal places. Absent stays absent.
func scaleToMillions(value *float64) *float64 {
	if value == nil {
		return nil
	}

	scaled := math.Round(*value/1e6*100) / 100
	return &scaled
}
