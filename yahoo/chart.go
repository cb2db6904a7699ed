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
	"time"

	"github.com/goccy/go-json"
	"github.com/lukasmc92/cefnav/data"
	"github.com/rs/zerolog/log"
)

type chartResponse struct {
	Chart struct {
		Result []chartResult   `json:"result"`
		Error  json.RawMessage `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Symbol               string `json:"symbol"`
		LongName             string `json:"longName"`
		ExchangeTimezoneName string `json:"exchangeTimezoneName"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

// DailyCloses returns the daily close bars for ticker between start and end
// (inclusive calendar days) along with the instrument's long name when the
// provider reports one. Bar dates are normalized to the trading day in the
// exchange's own timezone so that calendar-day comparisons are exact.
func (yahoo *Client) DailyCloses(ctx context.Context, ticker string, start, end time.Time) ([]data.Bar, string, error) {
	if err := yahoo.limiter.Wait(ctx); err != nil {
		return nil, "", err
	}

	url := fmt.Sprintf("%s/v8/finance/chart/%s", yahoo.BaseURL, ticker)

	resp, err := yahoo.client.R().
		SetContext(ctx).
		SetQueryParam("period1", strconv.FormatInt(start.Unix(), 10)).
		SetQueryParam("period2", strconv.FormatInt(end.AddDate(0, 0, 1).Unix(), 10)).
		SetQueryParam("interval", "1d").
		SetQueryParam("events", "div,split").
		Get(url)
	if err != nil {
		return nil, "", err
	}

	if resp.StatusCode() >= 300 {
		return nil, "", fmt.Errorf("%w (%d): %s", ErrInvalidStatusCode, resp.StatusCode(), ticker)
	}

	var chart chartResponse
	if err := json.Unmarshal(resp.Body(), &chart); err != nil {
		return nil, "", err
	}

	if len(chart.Chart.Result) == 0 {
		return nil, "", fmt.Errorf("%w: %s", ErrNoData, ticker)
	}

	result := chart.Chart.Result[0]

	loc := time.UTC
	if result.Meta.ExchangeTimezoneName != "" {
		if exchangeLoc, err := time.LoadLocation(result.Meta.ExchangeTimezoneName); err == nil {
			loc = exchangeLoc
		} else {
			log.Warn().Err(err).Str("Timezone", result.Meta.ExchangeTimezoneName).
				Msg("could not load exchange timezone, falling back to UTC")
		}
	}

	if len(result.Indicators.Quote) == 0 {
		return nil, result.Meta.LongName, nil
	}

	closes := result.Indicators.Quote[0].Close

	bars := make([]data.Bar, 0, len(result.Timestamp))
	for idx, ts := range result.Timestamp {
		if idx >= len(closes) || closes[idx] == nil {
			// non-trading entry, yahoo reports null closes for those
			continue
		}

		barDate := time.Unix(ts, 0).In(loc)
		bars = append(bars, data.Bar{
			Date:  time.Date(barDate.Year(), barDate.Month(), barDate.Day(), 0, 0, 0, 0, loc),
			Close: *closes[idx],
		})
	}

	return bars, result.Meta.LongName, nil
}
