// Copyright 2026 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package batch encodes CSV files of coordinates into grid codes across a
// pool of workers.
//
// Each input row starts with a latitude and a longitude; the output repeats
// the row with the code appended. A first row that does not start with a
// number is treated as a header and gains a "code" column. Output rows are
// written in input order.
package batch

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/destel/rill"

	"m4o.io/gridcode"
	"m4o.io/gridcode/model"
)

// ErrShortRow is returned for a row with fewer than two fields.
var ErrShortRow = errors.New("row needs a latitude and a longitude")

// Row is one record read from the input.
type Row struct {
	Line   int
	Fields []string
	Header bool
}

// Result is a row along with its code, or the reason it has none.
type Result struct {
	Row
	Code gridcode.GridCode
	Err  error
}

// Stats counts the rows handled by Encode.
type Stats struct {
	Rows    int
	Encoded int
	Skipped int
}

// Encode reads rows from r, encodes them with codec and writes them to w.
// Unless WithLenient is set the first row that cannot be encoded stops the
// run.
func Encode(ctx context.Context, codec *gridcode.Codec, r io.Reader, w io.Writer, opts ...Option) (Stats, error) {
	cfg := defaultConfig

	for _, opt := range opts {
		opt(&cfg)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rows := GenerateRows(ctx, r)
	batches := rill.Batch(rows, max(cfg.batchSize, 1), -1)
	encoded := rill.OrderedMap(batches, int(max(cfg.nCPU, 1)), EncodeBatch(codec))

	cw := csv.NewWriter(w)

	var stats Stats

	err := rill.ForEach(encoded, 1, func(results []Result) error {
		for _, res := range results {
			if !res.Header {
				stats.Rows++
			}

			record := append(res.Fields, res.Code.String())

			switch {
			case res.Header:
				record[len(record)-1] = "code"
			case res.Err != nil && !cfg.lenient:
				return fmt.Errorf("line %d: %w", res.Line, res.Err)
			case res.Err != nil:
				slog.Warn("skipping row", "line", res.Line, "error", res.Err)
				stats.Skipped++
			default:
				stats.Encoded++
			}

			if err := cw.Write(record); err != nil {
				return fmt.Errorf("could not write line %d: %w", res.Line, err)
			}
		}

		return nil
	})
	if err != nil {
		return stats, err
	}

	cw.Flush()

	return stats, cw.Error()
}

// GenerateRows reads CSV records off of r until it is exhausted or ctx is
// cancelled.
func GenerateRows(ctx context.Context, r io.Reader) <-chan rill.Try[Row] {
	out := make(chan rill.Try[Row])

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	go func() {
		defer close(out)

		for n := 0; ; n++ {
			select {
			case <-ctx.Done():
				out <- rill.Try[Row]{Error: ctx.Err()}
				return
			default:
			}

			fields, err := cr.Read()
			if errors.Is(err, io.EOF) {
				return
			} else if err != nil {
				slog.Error("unable to read row", "error", err)
				out <- rill.Try[Row]{Error: fmt.Errorf("could not read row: %w", err)}

				return
			}

			line, _ := cr.FieldPos(0)

			out <- rill.Wrap(Row{Line: line, Fields: fields, Header: n == 0 && !numeric(fields[0])}, nil)
		}
	}()

	return out
}

func numeric(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)

	return err == nil
}

// EncodeBatch returns a function encoding a batch of rows with codec. Rows
// that cannot be encoded carry their error in the result.
func EncodeBatch(codec *gridcode.Codec) func(rows []Row) ([]Result, error) {
	return func(rows []Row) ([]Result, error) {
		results := make([]Result, len(rows))

		for i, row := range rows {
			results[i] = Result{Row: row}

			if row.Header {
				continue
			}

			if len(row.Fields) < 2 {
				results[i].Err = ErrShortRow
				continue
			}

			c, err := model.ParseLatLng(row.Fields[0], row.Fields[1])
			if err != nil {
				results[i].Err = err
				continue
			}

			results[i].Code, results[i].Err = codec.Encode(c)
		}

		return results, nil
	}
}
