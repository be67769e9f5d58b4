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

package batch

import (
	"context"
	"io"
	"log/slog"
	"os"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"m4o.io/gridcode"
	"m4o.io/gridcode/cmd/gridcode/cli"
	"m4o.io/gridcode/internal/batch"
)

var out io.Writer = os.Stdout

func init() {
	cli.RootCmd.AddCommand(batchCmd)

	flags := batchCmd.Flags()
	flags.Uint16P("cpu", "c", batch.DefaultNCpu(), "number of CPUs to use for encoding")
	flags.IntP("batch-size", "s", batch.DefaultBatchSize, "rows handed to a worker at once")
	flags.BoolP("lenient", "l", false, "write an empty code for rows that cannot be encoded")
	flags.BoolP("quiet", "q", false, "do not show a progress bar")
}

var batchCmd = &cobra.Command{
	Use:   "batch [<CSV file>]",
	Short: "Append grid codes to a CSV file of coordinates",
	Long: `Append grid codes to a CSV file of coordinates. Each row starts with a
latitude and a longitude; rows are written to stdout with the code appended,
in input order. Reads stdin when no file is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		codec, err := cli.Codec(cmd)
		if err != nil {
			return err
		}

		flags := cmd.Flags()

		ncpu, err := flags.GetUint16("cpu")
		if err != nil {
			return err
		}

		size, err := flags.GetInt("batch-size")
		if err != nil {
			return err
		}

		lenient, err := flags.GetBool("lenient")
		if err != nil {
			return err
		}

		quiet, err := flags.GetBool("quiet")
		if err != nil {
			return err
		}

		var in io.ReadCloser = os.Stdin

		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}

			in = f

			if !quiet {
				if in, err = cli.WrapInputFile(f); err != nil {
					f.Close()
					return err
				}
			}
		}

		defer in.Close()

		stats, err := runBatch(cmd.Context(), codec, in, batch.WithNCpus(ncpu), batch.WithBatchSize(size), batch.WithLenient(lenient))
		if err != nil {
			return err
		}

		slog.Info("encoded rows",
			"rows", humanize.Comma(int64(stats.Rows)),
			"encoded", humanize.Comma(int64(stats.Encoded)),
			"skipped", humanize.Comma(int64(stats.Skipped)))

		return nil
	},
}

func runBatch(ctx context.Context, codec *gridcode.Codec, in io.Reader, opts ...batch.Option) (batch.Stats, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	return batch.Encode(ctx, codec, in, out, opts...)
}
