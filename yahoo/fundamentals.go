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
package yahoo

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/lukasmc92/cefnav/data"
)

// balanceSheetItems maps the timeseries type key to the line-item name used
// throughout the rest of the program. The names match the row labels of the
// published quarterly balance sheet.
var balanceSheetItems = map[string]string{
	"quarterlyOrdinarySharesNumber":                  "Ordinary Shares Number",
	"quarterlyShareIssued":                           "Share Issued",
	"quarterlyTotalDebt":                             "Total Debt",
	"quarterlyLongTermDebt":                          "Long Term Debt",
	"quarterlyCurrentDebt":                           "Current Debt",
	"quarterlyPreferredSecuritiesOutsideStockEquity": "Preferred Securities Outside Stock Equity",
}

// lookbackYears bounds the timeseries query; quarterly statements older than
// this are never needed for an as-of lookup against a recent valuation date.
const lookbackYears = 5

type timeseriesResponse struct {
	Timeseries struct {
		Result []json.RawMessage `json:"result"`
		Error  json.RawMessage   `json:"error"`
	} `json:"timeseries"`
}

type timeseriesMeta struct {
	Meta struct {
		Symbol []string `json:"symbol"`
		Type   []string `json:"type"`
	} `json:"meta"`
}

type timeseriesValue struct {
	AsOfDate      string `json:"asOfDate"`
	ReportedValue struct {
		Raw float64 `json:"raw"`
	} `json:"reportedValue"`
}

// QuarterlyBalanceSheet fetches the quarterly balance-sheet line items needed
// for the discount report, keyed by report date (YYYY-MM-DD) and line-item
// name. An empty map with a nil error means the ticker has no statements.
func (yahoo *Client) QuarterlyBalanceSheet(ctx context.Context, ticker string) (data.BalanceSheet, error) {
	if err := yahoo.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	types := make([]string, 0, len(balanceSheetItems))
	for key := range balanceSheetItems {
		types = append(types, key)
	}

	now := time.Now()
	url := fmt.Sprintf("%s/ws/fundamentals-timeseries/v1/finance/timeseries/%s", yahoo.BaseURL, ticker)

	resp, err := yahoo.client.R().
		SetContext(ctx).
		SetQueryParam("symbol", ticker).
		SetQueryParam("type", strings.Join(types, ",")).
		SetQueryParam("period1", strconv.FormatInt(now.AddDate(-lookbackYears, 0, 0).Unix(), 10)).
		SetQueryParam("period2", strconv.FormatInt(now.Unix(), 10)).
		SetQueryParam("merge", "false").
		Get(url)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() >= 300 {
		return nil, fmt.Errorf("%w (%d): %s", ErrInvalidStatusCode, resp.StatusCode(), ticker)
	}

	var timeseries timeseriesResponse
	if err := json.Unmarshal(resp.Body(), &timeseries); err != nil {
		return nil, err
	}

	balance := make(data.BalanceSheet)

	for _, raw := range timeseries.Timeseries.Result {
		var meta timeseriesMeta
		if err := json.Unmarshal(raw, &meta); err != nil || len(meta.Meta.Type) == 0 {
			continue
		}

		typeKey := meta.Meta.Type[0]
		lineItem, ok := balanceSheetItems[typeKey]
		if !ok {
			continue
		}

		// each result object carries its values under a key named after
		// the requested type
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			continue
		}

		rawValues, ok := fields[typeKey]
		if !ok {
			continue
		}

		var values []*timeseriesValue
		if err := json.Unmarshal(rawValues, &values); err != nil {
			continue
		}

		for _, value := range values {
			if value == nil || value.AsOfDate == "" {
				continue
			}

			statement, ok := balance[value.AsOfDate]
			if !ok {
				statement = make(map[string]float64)
				balance[value.AsOfDate] = statement
			}

			statement[lineItem] = value.ReportedValue.Raw
		}
	}

	return balance, nil
}
