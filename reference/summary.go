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
package reference

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lukasmc92/cefnav/data"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Summary returns a markdown description of the loaded reference table
func Summary(entries []*data.FundEntry) string {
	p := message.NewPrinter(language.English)
	builder := strings.Builder{}

	builder.WriteString("# NAV Tickers Reference\n\n")
	builder.WriteString(p.Sprintf("Funds Tracked: %d\n\n", len(entries)))

	byCategory := make(map[string][]*data.FundEntry)
	for _, entry := range entries {
		category := entry.BroadCategory
		if category == "" {
			category = "Uncategorized"
		}
		byCategory[category] = append(byCategory[category], entry)
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	builder.WriteString("## Broad Categories\n\n")

	for _, category := range categories {
		funds := byCategory[category]
		builder.WriteString(p.Sprintf("  * %s (%d)\n", category, len(funds)))
		for _, entry := range funds {
			builder.WriteString(fmt.Sprintf("    * %s / %s [%s]\n", entry.Fund, entry.NAV, entry.FundType))
		}
	}

	return builder.String()
}
