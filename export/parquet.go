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
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lukasmc92/cefnav/data"
	"github.com/rs/zerolog/log"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

// WriteParquet writes a parquet companion of the report rows into dir and
// returns the full path.
func WriteParquet(report *data.Report, dir string) (string, error) {
	dateStr := strings.ReplaceAll(report.TargetDate.Format("2006-01-02"), "-", "")
	path := filepath.Join(dir, fmt.Sprintf("cef-data-%s.parquet", dateStr))

	fh, err := local.NewLocalFileWriter(path)
	if err != nil {
		log.Error().Err(err).Str("FileName", path).Msg("cannot create local file")
		return "", err
	}
	defer fh.Close()

	pw, err := writer.NewParquetWriter(fh, new(data.ReportRow), 4)
	if err != nil {
		log.Error().Err(err).Msg("parquet writer creation failed")
		return "", err
	}

	pw.RowGroupSize = 128 * 1024 * 1024 // 128M
	pw.PageSize = 8 * 1024              // 8k
	pw.CompressionType = parquet.CompressionCodec_ZSTD

	for _, row := range report.Rows {
		if err := pw.Write(row); err != nil {
			log.Error().Err(err).Str("FundTicker", row.FundTicker).
				Msg("parquet write failed for row")
		}
	}

	if err := pw.WriteStop(); err != nil {
		log.Error().Err(err).Msg("parquet write failed")
		return "", err
	}

	log.Info().Int("NumRows", len(report.Rows)).Str("FileName", path).Msg("parquet write finished")
	return path, nil
}
