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

package decode

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"m4o.io/gridcode"
	"m4o.io/gridcode/cmd/gridcode/cli"
)

var out io.Writer = os.Stdout

func init() {
	cli.RootCmd.AddCommand(decodeCmd)

	flags := decodeCmd.Flags()
	flags.BoolP("json", "j", false, "print the cells as JSON")
	flags.BoolP("geojson", "g", false, "print the cells as a GeoJSON feature collection")
}

var decodeCmd = &cobra.Command{
	Use:   "decode <code>...",
	Short: "Print the centre and bounds of grid codes",
	Long:  "Print the centre and bounds of grid codes",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		codec, err := cli.Codec(cmd)
		if err != nil {
			return err
		}

		cells, err := runDecode(codec, args)
		if err != nil {
			return err
		}

		flags := cmd.Flags()

		if geo, err := flags.GetBool("geojson"); err != nil {
			return err
		} else if geo {
			return renderGeoJSON(codec, cells)
		}

		if jsonfmt, err := flags.GetBool("json"); err != nil {
			return err
		} else if jsonfmt {
			return renderJSON(cells)
		}

		renderTxt(cells)

		return nil
	},
}

func runDecode(codec *gridcode.Codec, codes []string) ([]gridcode.GridCell, error) {
	cells := make([]gridcode.GridCell, 0, len(codes))

	for _, code := range codes {
		cell, err := codec.Cell(code)
		if err != nil {
			return nil, err
		}

		cells = append(cells, cell)
	}

	return cells, nil
}

func renderJSON(cells []gridcode.GridCell) error {
	b, err := json.Marshal(cells)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, string(b))

	return nil
}

func renderGeoJSON(codec *gridcode.Codec, cells []gridcode.GridCell) error {
	codes := make([]gridcode.GridCode, len(cells))
	for i, cell := range cells {
		codes[i] = cell.Code
	}

	fc, err := codec.FeatureCollection(codes)
	if err != nil {
		return err
	}

	b, err := fc.MarshalJSON()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, string(b))

	return nil
}

func renderTxt(cells []gridcode.GridCell) {
	for i, cell := range cells {
		if i > 0 {
			fmt.Fprintln(out)
		}

		b := cell.Bounds

		fmt.Fprintf(out, "Code: %s\n", cell.Code)
		fmt.Fprintf(out, "Center: %.6f, %.6f\n", cell.Center.Lat, cell.Center.Lng)
		fmt.Fprintf(out, "Center (DMS): %s, %s\n", cell.Center.Lat, cell.Center.Lng)
		fmt.Fprintf(out, "Bounds (S, W, N, E): %.6f, %.6f, %.6f, %.6f\n", b.Bottom, b.Left, b.Top, b.Right)
		fmt.Fprintf(out, "Index: %d, %d, %d\n", cell.Index.Lat, cell.Index.Lng, cell.Index.Sub)
	}
}
