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
package reference_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lukasmc92/cefnav/reference"
	"github.com/spf13/viper"
	"github.com/xuri/excelize/v2"
)

// buildWorkbook assembles an xlsx reference table in memory with the
// published column layout.
func buildWorkbook(rows [][]interface{}) []byte {
	book := excelize.NewFile()
	defer book.Close()

	header := []interface{}{"Fund", "NAV", "Fund Type", "Subcategory", "Broad Category", "Geographic Focus"}
	Expect(book.SetSheetRow("Sheet1", "A1", &header)).To(Succeed())

	for idx, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, idx+2)
		Expect(err).NotTo(HaveOccurred())
		Expect(book.SetSheetRow("Sheet1", cell, &row)).To(Succeed())
	}

	buf, err := book.WriteToBuffer()
	Expect(err).NotTo(HaveOccurred())
	return buf.Bytes()
}

var _ = Describe("Loader", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
		viper.Reset()
	})

	AfterEach(func() {
		viper.Reset()
	})

	Describe("loading the remote workbook", func() {
		var (
			server   *httptest.Server
			requests atomic.Int64
			payload  []byte
			status   int
		)

		BeforeEach(func() {
			requests.Store(0)
			status = http.StatusOK
			payload = buildWorkbook([][]interface{}{
				{"PEO", "XPEOX", "CEF", "Energy", "Equity", "US"},
				{"", "XNONEX", "CEF", "Energy", "Equity", "US"},
				{"ADX", "", "CEF", "Core", "Equity", "US"},
				{"ASA", "XASAX", "CEF", "Gold", "Commodity", "Global"},
			})

			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requests.Add(1)
				if status != http.StatusOK {
					w.WriteHeader(status)
					return
				}
				_, err := w.Write(payload)
				Expect(err).NotTo(HaveOccurred())
			}))

			viper.Set("tickers.url", server.URL)
		})

		AfterEach(func() {
			server.Close()
		})

		It("parses the workbook and drops rows missing either ticker", func() {
			loader := reference.NewLoader()
			entries, err := loader.Entries(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(2))
			Expect(entries[0].Fund).To(Equal("PEO"))
			Expect(entries[0].NAV).To(Equal("XPEOX"))
			Expect(entries[0].GeographicFocus).To(Equal("US"))
			Expect(entries[1].Fund).To(Equal("ASA"))
			Expect(entries[1].BroadCategory).To(Equal("Commodity"))
		})

		It("memoizes the table for the life of the loader", func() {
			loader := reference.NewLoader()

			_, err := loader.Entries(ctx)
			Expect(err).NotTo(HaveOccurred())
			_, err = loader.Entries(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(requests.Load()).To(Equal(int64(1)))
			Expect(loader.LoadedAt().IsZero()).To(BeFalse())
		})

		It("re-fetches after Invalidate", func() {
			loader := reference.NewLoader()

			_, err := loader.Entries(ctx)
			Expect(err).NotTo(HaveOccurred())

			loader.Invalidate()
			Expect(loader.LoadedAt().IsZero()).To(BeTrue())

			_, err = loader.Entries(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(requests.Load()).To(Equal(int64(2)))
		})

		It("fails the load when the server returns an error status", func() {
			status = http.StatusNotFound

			loader := reference.NewLoader()
			_, err := loader.Entries(ctx)
			Expect(err).To(MatchError(reference.ErrFetch))
		})
	})

	Describe("loading from a local csv", func() {
		It("reads the csv and applies the same filtering", func() {
			fn := filepath.Join(GinkgoT().TempDir(), "tickers.csv")
			csv := `Fund,NAV,Fund Type,Subcategory,Broad Category,Geographic Focus
PEO,XPEOX,CEF,Energy,Equity,US
,XNONEX,CEF,Energy,Equity,US
ASA,XASAX,CEF,Gold,Commodity,Global
`
			Expect(os.WriteFile(fn, []byte(csv), 0600)).To(Succeed())
			viper.Set("tickers.file", fn)

			loader := reference.NewLoader()
			entries, err := loader.Entries(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(2))
			Expect(entries[0].Fund).To(Equal("PEO"))
			Expect(entries[1].Subcategory).To(Equal("Gold"))
		})

		It("fails the load when the csv does not exist", func() {
			viper.Set("tickers.file", filepath.Join(GinkgoT().TempDir(), "missing.csv"))

			loader := reference.NewLoader()
			_, err := loader.Entries(ctx)
			Expect(err).To(MatchError(reference.ErrFetch))
		})
	})
})
