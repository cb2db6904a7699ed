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
package report_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lukasmc92/cefnav/data"
	"github.com/lukasmc92/cefnav/report"
)

var _ = Describe("Resolver", func() {
	var (
		ctx      context.Context
		fake     *fakeMarketData
		resolver *report.Resolver
	)

	BeforeEach(func() {
		ctx = context.Background()
		fake = newFakeMarketData()
		resolver = report.NewResolver(fake)
	})

	Describe("ResolveClose", func() {
		It("returns the close recorded on the exact calendar day", func() {
			fake.bars["PEO"] = []data.Bar{
				bar(2024, time.March, 13, 19.80),
				bar(2024, time.March, 14, 20.15),
				bar(2024, time.March, 15, 20.42),
			}

			result := resolver.ResolveClose(ctx, "PEO", day(2024, time.March, 14))
			Expect(result.Valid).To(BeTrue())
			Expect(result.Close).To(Equal(20.15))
		})

		It("is absent when the day did not trade even if neighbors did", func() {
			// target is a Saturday; Friday and Monday both traded
			fake.bars["PEO"] = []data.Bar{
				bar(2024, time.March, 15, 20.42),
				bar(2024, time.March, 18, 20.61),
			}

			result := resolver.ResolveClose(ctx, "PEO", day(2024, time.March, 16))
			Expect(result.Valid).To(BeFalse())
		})

		It("is absent when the provider has no bars at all", func() {
			result := resolver.ResolveClose(ctx, "PEO", day(2024, time.March, 14))
			Expect(result.Valid).To(BeFalse())
		})

		It("converts provider faults to absent results", func() {
			fake.closeErrs["PEO"] = errors.New("connection reset")

			result := resolver.ResolveClose(ctx, "PEO", day(2024, time.March, 14))
			Expect(result.Valid).To(BeFalse())
		})

		It("caches lookups per ticker and day", func() {
			fake.bars["XPEOX"] = []data.Bar{bar(2024, time.March, 14, 18.50)}

			target := day(2024, time.March, 14)
			first := resolver.ResolveClose(ctx, "XPEOX", target)
			second := resolver.ResolveClose(ctx, "XPEOX", target)

			Expect(first).To(Equal(second))
			Expect(fake.closeCalls["XPEOX"]).To(Equal(1))
		})

		It("caches absent results from faults so a bad ticker is only tried once", func() {
			fake.closeErrs["BAD"] = errors.New("not found")

			target := day(2024, time.March, 14)
			resolver.ResolveClose(ctx, "BAD", target)
			resolver.ResolveClose(ctx, "BAD", target)

			Expect(fake.closeCalls["BAD"]).To(Equal(1))
		})
	})

	Describe("LongName", func() {
		It("returns the name learned from a prior close lookup", func() {
			fake.bars["PEO"] = []data.Bar{bar(2024, time.March, 14, 20.15)}
			fake.names["PEO"] = "Adams Natural Resources Fund, Inc."

			resolver.ResolveClose(ctx, "PEO", day(2024, time.March, 14))
			Expect(resolver.LongName("PEO")).To(Equal("Adams Natural Resources Fund, Inc."))
		})

		It("falls back to the ticker when no name is known", func() {
			Expect(resolver.LongName("PEO")).To(Equal("PEO"))
		})
	})

	Describe("ResolveFundamentals", func() {
		It("selects the most recent report on or before the as-of date", func() {
			fake.balances["PEO"] = data.BalanceSheet{
				"2023-12-31": {"Ordinary Shares Number": 25000000},
				"2024-03-31": {"Ordinary Shares Number": 26000000},
				"2024-06-30": {"Ordinary Shares Number": 27000000},
			}

			snapshot := resolver.ResolveFundamentals(ctx, "PEO", day(2024, time.April, 15))
			Expect(snapshot.SharesOutstanding).NotTo(BeNil())
			Expect(*snapshot.SharesOutstanding).To(Equal(26000000.0))
			Expect(snapshot.ReportDate).NotTo(BeNil())
			Expect(snapshot.ReportDate.Format("2006-01-02")).To(Equal("2024-03-31"))
		})

		It("never uses a report dated after the as-of date", func() {
			fake.balances["PEO"] = data.BalanceSheet{
				"2024-06-30": {"Ordinary Shares Number": 27000000},
			}

			snapshot := resolver.ResolveFundamentals(ctx, "PEO", day(2024, time.April, 15))
			Expect(snapshot.SharesOutstanding).To(BeNil())
			Expect(snapshot.ReportDate).To(BeNil())
		})

		It("uses a report dated exactly on the as-of date", func() {
			fake.balances["PEO"] = data.BalanceSheet{
				"2024-03-31": {"Ordinary Shares Number": 26000000},
			}

			snapshot := resolver.ResolveFundamentals(ctx, "PEO", day(2024, time.March, 31))
			Expect(snapshot.SharesOutstanding).NotTo(BeNil())
			Expect(*snapshot.SharesOutstanding).To(Equal(26000000.0))
		})

		It("prefers Ordinary Shares Number over Share Issued", func() {
			fake.balances["PEO"] = data.BalanceSheet{
				"2024-03-31": {
					"Ordinary Shares Number": 26000000,
					"Share Issued":           26500000,
				},
			}

			snapshot := resolver.ResolveFundamentals(ctx, "PEO", day(2024, time.April, 15))
			Expect(*snapshot.SharesOutstanding).To(Equal(26000000.0))
		})

		It("falls back to Share Issued when Ordinary Shares Number is missing", func() {
			fake.balances["PEO"] = data.BalanceSheet{
				"2024-03-31": {"Share Issued": 26500000},
			}

			snapshot := resolver.ResolveFundamentals(ctx, "PEO", day(2024, time.April, 15))
			Expect(*snapshot.SharesOutstanding).To(Equal(26500000.0))
		})

		It("walks the debt candidates in order", func() {
			fake.balances["PEO"] = data.BalanceSheet{
				"2024-03-31": {
					"Long Term Debt": 50000000,
					"Current Debt":   5000000,
				},
			}

			snapshot := resolver.ResolveFundamentals(ctx, "PEO", day(2024, time.April, 15))
			Expect(*snapshot.TotalDebt).To(Equal(50000000.0))
		})

		It("leaves debt absent when no debt line item is reported", func() {
			fake.balances["PEO"] = data.BalanceSheet{
				"2024-03-31": {"Ordinary Shares Number": 26000000},
			}

			snapshot := resolver.ResolveFundamentals(ctx, "PEO", day(2024, time.April, 15))
			Expect(snapshot.TotalDebt).To(BeNil())
		})

		It("defaults outside equity to zero when not broken out", func() {
			fake.balances["PEO"] = data.BalanceSheet{
				"2024-03-31": {"Ordinary Shares Number": 26000000},
			}

			snapshot := resolver.ResolveFundamentals(ctx, "PEO", day(2024, time.April, 15))
			Expect(snapshot.OutsideEquity).To(Equal(0.0))
		})

		It("reports outside equity when the statement includes it", func() {
			fake.balances["PEO"] = data.BalanceSheet{
				"2024-03-31": {
					"Preferred Securities Outside Stock Equity": 12000000,
				},
			}

			snapshot := resolver.ResolveFundamentals(ctx, "PEO", day(2024, time.April, 15))
			Expect(snapshot.OutsideEquity).To(Equal(12000000.0))
		})

		It("returns an empty snapshot on provider faults", func() {
			fake.balanceErrs["PEO"] = errors.New("rate limited")

			snapshot := resolver.ResolveFundamentals(ctx, "PEO", day(2024, time.April, 15))
			Expect(snapshot.SharesOutstanding).To(BeNil())
			Expect(snapshot.TotalDebt).To(BeNil())
			Expect(snapshot.OutsideEquity).To(Equal(0.0))
			Expect(snapshot.ReportDate).To(BeNil())
		})

		It("returns an empty snapshot when the ticker has no statements", func() {
			fake.balances["PEO"] = data.BalanceSheet{}

			snapshot := resolver.ResolveFundamentals(ctx, "PEO", day(2024, time.April, 15))
			Expect(snapshot.SharesOutstanding).To(BeNil())
			Expect(snapshot.ReportDate).To(BeNil())
		})
	})
})
