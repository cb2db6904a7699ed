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

// Package healthcheck pings a healthchecks.io check so a scheduled data pull
// that stops running gets noticed. All calls are no-ops unless the
// healthchecks.uuid setting is configured.
package healthcheck

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var (
	ErrStatus = errors.New("status code is invalid")
)

const pingBaseURL = "https://hc-ping.com"

// Start signals that a run has begun so the check's timer measures run
// duration.
func Start(ctx context.Context) {
	ping(ctx, "/start")
}

// Success signals that the run completed.
func Success(ctx context.Context) {
	ping(ctx, "")
}

// Failure signals that the run did not complete.
func Failure(ctx context.Context) {
	ping(ctx, "/fail")
}

func ping(ctx context.Context, suffix string) {
	checkID := viper.GetString("healthchecks.uuid")
	if checkID == "" {
		return
	}

	client := resty.New()
	resp, err := client.R().
		SetContext(ctx).
		Get(fmt.Sprintf("%s/%s%s", pingBaseURL, checkID, suffix))
	if err != nil {
		log.Warn().Err(err).Msg("healthcheck ping failed")
		return
	}

	if resp.StatusCode() != 200 {
		log.Warn().Err(fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode())).
			Msg("healthcheck ping failed")
	}
}
