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
package export_test

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lukasmc92/cefnav/data"
	"github.com/lukasmc92/cefnav/export"
	"github.com/xuri/excelize/v2"
)

func fptr(value float64) *float64 {
	return &value
}

var _ = Describe("WriteXLSX", func() {
	var (
		dir    string
		report *data.Report
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()

		report = &data.Report{
			TargetDate:  time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC),
			GeneratedAt: time.Date(2024, time.March, 15, 9, 30, 0, 0, time.UTC),
			Rows: []*data.ReportRow{
				{
					FundName:           "Adams Natural Resources Fund, Inc.",
					BroadCategory:      "Equity",
					FundType:           "CEF",
					Subcategory:        "Energy",
					GeographicFocus:    "US",
					Date:               "2024-03-14",
					FundTicker:         "PEO",
					FundClose:          fptr(9.50),
					NAVTicker:          "XPEOX",
					NAVClose:           fptr(10.00),
					Discount:           fptr(0.95),
					SharesOutstandingM: fptr(26.00),
					TotalDebtM:         fptr(50.00),
				},
				{
					FundName:        "ASA",
					BroadCategory:   "Commodity",
					FundType:        "CEF",
					Subcategory:     "Gold",
					GeographicFocus: "Global",
					Date:            "2024-03-14",
					FundTicker:      "ASA",
					NAVTicker:       "XASAX",
				},
			},
		}
	})

	It("writes the workbook under the date-stamped filename", func() {
		path, err := export.WriteXLSX(report, dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(filepath.Base(path)).To(Equal("Closed_End_Fund_Data_2024-03-14.xlsx"))
		Expect(path).To(BeAnExistingFile())
	})

	It("round-trips headers, values, and empty cells", func() {
		path, err := export.WriteXLSX(report, dir)
		Expect(err).NotTo(HaveOccurred())

		book, err := excelize.OpenFile(path)
		Expect(err).NotTo(HaveOccurred())
		defer book.Close()

		rows, err := book.GetRows("Sheet1")
		Expect(err).NotTo(HaveOccurred())

		Expect(rows[0]).To(Equal(export.Headers))

		Expect(rows[1][0]).To(Equal("Adams Natural Resources Fund, Inc."))
		Expect(rows[1][6]).To(Equal("PEO"))
		Expect(rows[1][7]).To(Equal("9.5"))
		Expect(rows[1][9]).To(Equal("10"))
		Expect(rows[1][10]).To(Equal("0.95"))
		Expect(rows[1][11]).To(Equal("26"))

		// the second fund has no pricing or fundamentals
		fundClose, err := book.GetCellValue("Sheet1", "H3")
		Expect(err).NotTo(HaveOccurred())
		Expect(fundClose).To(BeEmpty())

		discount, err := book.GetCellValue("Sheet1", "K3")
		Expect(err).NotTo(HaveOccurred())
		Expect(discount).To(BeEmpty())
	})

	It("writes the provenance annotation two rows below the data", func() {
		path, err := export.WriteXLSX(report, dir)
		Expect(err).NotTo(HaveOccurred())

		book, err := excelize.OpenFile(path)
		Expect(err).NotTo(HaveOccurred())
		defer book.Close()

		// 2 data rows + header, annotation lands on row 5
		annotation, err := book.GetCellValue("Sheet1", "A5")
		Expect(err).NotTo(HaveOccurred())
		Expect(annotation).To(Equal("Downloaded on 2024-03-15 09:30:00. Method: " + data.GenerationMethod))

		blank, err := book.GetCellValue("Sheet1", "A4")
		Expect(err).NotTo(HaveOccurred())
		Expect(blank).To(BeEmpty())
	})
})
