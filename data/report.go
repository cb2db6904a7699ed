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
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// GenerationMethod is the fixed description recorded in the report's
// provenance annotation.
const GenerationMethod = "This file was created using cefnav and Yahoo Finance to pull NAV pricing."

// ReportRow is the flattened result for one reference entry. Optional numeric
// fields are pointers; nil means the lookup returned no value and must stay
// empty in exports (never coerced to 0).
type ReportRow struct {
	FundName           string   `json:"fund_name" parquet:"name=fund_name, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	BroadCategory      string   `json:"broad_category" parquet:"name=broad_category, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	FundType           string   `json:"fund_type" parquet:"name=fund_type, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Subcategory        string   `json:"subcategory" parquet:"name=subcategory, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	GeographicFocus    string   `json:"geographic_focus" parquet:"name=geographic_focus, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Date               string   `json:"date" parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	FundTicker         string   `json:"fund_ticker" parquet:"name=fund_ticker, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	FundClose          *float64 `json:"fund_close_price" parquet:"name=fund_close_price, type=DOUBLE, repetitiontype=OPTIONAL"`
	NAVTicker          string   `json:"nav_ticker" parquet:"name=nav_ticker, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	NAVClose           *float64 `json:"nav_close_price" parquet:"name=nav_close_price, type=DOUBLE, repetitiontype=OPTIONAL"`
	Discount           *float64 `json:"discount" parquet:"name=discount, type=DOUBLE, repetitiontype=OPTIONAL"`
	SharesOutstandingM *float64 `json:"shares_outstanding_mil" parquet:"name=shares_outstanding_mil, type=DOUBLE, repetitiontype=OPTIONAL"`
	TotalDebtM         *float64 `json:"total_debt_mil" parquet:"name=total_debt_mil, type=DOUBLE, repetitiontype=OPTIONAL"`
}

func (row *ReportRow) MarshalZerologObject(e *zerolog.Event) {
	e.Str("FundTicker", row.FundTicker)
	e.Str("NAVTicker", row.NAVTicker)
	if row.FundClose != nil {
		e.Float64("FundClose", *row.FundClose)
	}
	if row.NAVClose != nil {
		e.Float64("NAVClose", *row.NAVClose)
	}
	if row.Discount != nil {
		e.Float64("Discount", *row.Discount)
	}
}

// Report is the assembled result of one batch run. Rows keep the order of
// the input reference table. A report is never mutated after assembly.
type Report struct {
	Rows        []*ReportRow
	TargetDate  time.Time
	GeneratedAt time.Time
}

// Filename returns the output artifact name for the report's target date.
func (report *Report) Filename() string {
	return fmt.Sprintf("Closed_End_Fund_Data_%s.xlsx", report.TargetDate.Format("2006-01-02"))
}

// Provenance returns the trailing annotation written two rows below the data.
func (report *Report) Provenance() string {
	return fmt.Sprintf("Downloaded on %s. Method: %s",
		report.GeneratedAt.Format("2006-01-02 15:04:05"), GenerationMethod)
}
