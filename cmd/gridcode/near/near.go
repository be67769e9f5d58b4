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

package near

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"m4o.io/gridcode"
	"m4o.io/gridcode/cmd/gridcode/cli"
)

var out io.Writer = os.Stdout

func init() {
	cli.RootCmd.AddCommand(nearCmd)

	flags := nearCmd.Flags()
	flags.Float64P("radius", "r", 50, "search radius in metres")
	flags.BoolP("geojson", "g", false, "print the cells as a GeoJSON feature collection")
}

var nearCmd = &cobra.Command{
	Use:   "near <place>",
	Short: "List the grid codes within a radius of a place",
	Long: `List the grid codes within a radius of a place. The place is a grid
code, a "lat,lng" pair or a latitude and a longitude.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		codec, err := cli.Codec(cmd)
		if err != nil {
			return err
		}

		flags := cmd.Flags()

		radius, err := flags.GetFloat64("radius")
		if err != nil {
			return err
		}

		codes, err := runNear(codec, args, radius)
		if err != nil {
			return err
		}

		if geo, err := flags.GetBool("geojson"); err != nil {
			return err
		} else if geo {
			return renderGeoJSON(codec, codes)
		}

		renderTxt(codes, radius)

		return nil
	},
}

func runNear(codec *gridcode.Codec, args []string, radius float64) (gridcode.CodeSet, error) {
	c, n, err := cli.ParsePlace(codec, args)
	if err != nil {
		return nil, err
	}

	if n != len(args) {
		return nil, fmt.Errorf("unexpected argument %q", args[n])
	}

	codes, err := codec.Within(c, radius)
	if err != nil {
		return nil, err
	}

	slog.Debug("enumerated cells", "origin", c, "radius", radius, "cells", codes.Len())

	return codes, nil
}

func renderGeoJSON(codec *gridcode.Codec, codes gridcode.CodeSet) error {
	fc, err := codec.FeatureCollection(codes.Sorted())
	if err != nil {
		return err
	}

	if bbox := codes.Bounds(); bbox != nil {
		cell := gridcode.GridCell{Bounds: *bbox}
		b := cell.Bound()
		fc.BBox = []float64{b.Min[0], b.Min[1], b.Max[0], b.Max[1]}
	}

	b, err := fc.MarshalJSON()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, string(b))

	return nil
}

func renderTxt(codes gridcode.CodeSet, radius float64) {
	for _, code := range codes.Sorted() {
		fmt.Fprintln(out, code)
	}

	fmt.Fprintf(out, "%s cells within %s\n", humanize.Comma(int64(codes.Len())), gridcode.FormatDistance(radius))
}
