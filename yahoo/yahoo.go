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

// Package yahoo queries the public Yahoo Finance endpoints for daily price
// bars and quarterly balance-sheet statements. The chart and
// fundamentals-timeseries APIs need no API key; requests carry a browser
// User-Agent and are gated by a shared rate limiter.
package yahoo

import (
	"errors"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL   = "https://query1.finance.yahoo.com"
	defaultRateLimit = 60 // requests per minute

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

var (
	ErrInvalidStatusCode = errors.New("invalid status code received")
	ErrNoData            = errors.New("no data returned for ticker")
)

type Client struct {
	// BaseURL may be pointed at a test server; it defaults to the public
	// query1 endpoint.
	BaseURL string

	client  *resty.Client
	limiter *rate.Limiter
}

func New() *Client {
	rateLimit := viper.GetInt("yahoo.rate_limit")
	if rateLimit <= 0 {
		rateLimit = defaultRateLimit
	}

	return &Client{
		BaseURL: defaultBaseURL,
		client: resty.New().
			SetTimeout(30 * time.Second).
			SetHeader("User-Agent", userAgent).
			SetHeader("Accept", "application/json"),
		limiter: rate.NewLimiter(rate.Limit(float64(rateLimit)/float64(61)), 1),
	}
}
