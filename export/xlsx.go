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

// Package export serializes a finished report to its output artifacts and
// optionally delivers them to Backblaze B2.
package export

import (
	"fmt"
	"path/filepath"

	"github.com/lukasmc92/cefnav/data"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

// Headers lists the output columns in order.
var Headers = []string{
	"Fund Name", "Broad Category", "Fund Type", "Subcategory", "Geographic Focus",
	"Date", "Fund Ticker", "Fund Close Price", "NAV Ticker", "NAV Close Price",
	"Discount", "Shares Outstanding(M)", "Total Debt(M)",
}

// WriteXLSX writes the report workbook into dir and returns the full path.
// Absent values become empty cells. The provenance annotation lands in
// column A, two rows below the last data row.
func WriteXLSX(report *data.Report, dir string) (string, error) {
	book := excelize.NewFile()
	defer func() {
		if err := book.Close(); err != nil {
			log.Error().Err(err).Msg("error closing workbook")
		}
	}()

	header := make([]interface{}, len(Headers))
	for idx, name := range Headers {
		header[idx] = name
	}

	if err := book.SetSheetRow(sheetName, "A1", &header); err != nil {
		return "", err
	}

	for idx, row := range report.Rows {
		cell, err := excelize.CoordinatesToCellName(1, idx+2)
		if err != nil {
			return "", err
		}

		values := []interface{}{
			row.FundName, row.BroadCategory, row.FundType, row.Subcategory,
			row.GeographicFocus, row.Date, row.FundTicker, optional(row.FundClose),
			row.NAVTicker, optional(row.NAVClose), optional(row.Discount),
			optional(row.SharesOutstandingM), optional(row.TotalDebtM),
		}

		if err := book.SetSheetRow(sheetName, cell, &values); err != nil {
			return "", err
		}
	}

	messageRow := len(report.Rows) + 3
	messageCell := fmt.Sprintf("A%d", messageRow)
	if err := book.SetCellValue(sheetName, messageCell, report.Provenance()); err != nil {
		return "", err
	}

	path := filepath.Join(dir, report.Filename())
	if err := book.SaveAs(path); err != nil {
		return "", err
	}

	log.Info().Str("FileName", path).Int("NumRows", len(report.Rows)).Msg("wrote report workbook")
	return path, nil
}

func optional(value *float64) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
