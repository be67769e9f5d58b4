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

package distance

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"m4o.io/gridcode"
	"m4o.io/gridcode/cmd/gridcode/cli"
)

var out io.Writer = os.Stdout

func init() {
	cli.RootCmd.AddCommand(distanceCmd)

	distanceCmd.Flags().BoolP("metres", "m", false, "print the distance in metres without formatting")
}

var distanceCmd = &cobra.Command{
	Use:   "distance <from> <to>",
	Short: "Print the great-circle distance between two places",
	Long: `Print the great-circle distance between two places. Each place is a
grid code, a "lat,lng" pair or a latitude and a longitude.`,
	Args: cobra.RangeArgs(2, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		codec, err := cli.Codec(cmd)
		if err != nil {
			return err
		}

		raw, err := cmd.Flags().GetBool("metres")
		if err != nil {
			return err
		}

		d, err := runDistance(codec, args)
		if err != nil {
			return err
		}

		if raw {
			fmt.Fprintf(out, "%.1f\n", d)
		} else {
			fmt.Fprintln(out, gridcode.FormatDistance(d))
		}

		return nil
	},
}

func runDistance(codec *gridcode.Codec, args []string) (float64, error) {
	from, n, err := cli.ParsePlace(codec, args)
	if err != nil {
		return 0, err
	}

	to, m, err := cli.ParsePlace(codec, args[n:])
	if err != nil {
		return 0, err
	}

	if n+m != len(args) {
		return 0, fmt.Errorf("unexpected argument %q", args[n+m])
	}

	return gridcode.Distance(from, to), nil
}
