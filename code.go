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

package gridcode

import (
	"strings"

	"m4o.io/gridcode/internal/base27"
	"m4o.io/gridcode/model"
)

// Grid constants. These values define the code format; changing any of them
// invalidates every code already printed or stored.
const (
	// Alphabet is the restricted set of symbols used in every code group.
	Alphabet = base27.Alphabet

	// Precision is the edge length of a grid cell in degrees, on both axes.
	// It is about 10 metres at the equator. Longitude cells narrow toward
	// the poles; no latitude correction is applied.
	Precision model.Degrees = 0.00009

	// SubDivisions is the number of sub-cells along each axis of a cell.
	SubDivisions = 5

	// SubCells is the number of sub-cells in a cell.
	SubCells = SubDivisions * SubDivisions

	// LatitudeBins is the number of cell rows between the poles (180/Precision).
	LatitudeBins = 2_000_000

	// LongitudeBins is the number of cell columns around the globe (360/Precision).
	LongitudeBins = 4_000_000

	// Separator joins the code groups.
	Separator = '-'

	// CodeLength is the length of a canonical code, separators included.
	CodeLength = 12

	digits = 10

	// maxValue is one past the largest packed index triple.
	maxValue = uint64(LatitudeBins) * LongitudeBins * SubCells
)

// groups holds the [start, end) offsets of each group in a canonical code.
var groups = [3][2]int{{0, 4}, {5, 9}, {10, 12}}

// GridCode is the canonical XXXX-YYYY-ZZ identifier of a grid sub-cell.
type GridCode string

func (g GridCode) String() string { return string(g) }

// Valid checks the code syntactically; see IsValid.
func (g GridCode) Valid() bool { return IsValid(string(g)) }

// IsValid checks that s is three hyphen-separated groups of 4, 4 and 2
// symbols from Alphabet. It does not check that the code names a cell inside
// the grid; Decode does that.
func IsValid(s string) bool {
	return syntaxError(s) == ""
}

// ParseGridCode validates s, ignoring surrounding whitespace, and returns it
// as a GridCode. Lowercase input is rejected rather than folded.
func ParseGridCode(s string) (GridCode, error) {
	s = strings.TrimSpace(s)
	if reason := syntaxError(s); reason != "" {
		return "", &FormatError{Input: s, Reason: reason}
	}

	return GridCode(s), nil
}

func syntaxError(s string) string {
	if len(s) != CodeLength {
		return "wrong length"
	}

	if s[groups[0][1]] != Separator || s[groups[1][1]] != Separator {
		return "misplaced separator"
	}

	for _, g := range groups {
		for i := g[0]; i < g[1]; i++ {
			if !base27.Valid(s[i]) {
				return "character outside alphabet"
			}
		}
	}

	return ""
}

// Index is the quantized address a grid code is a bijection of: the cell row
// and column and the sub-cell within it.
type Index struct {
	Lat uint32 `json:"lat"`
	Lng uint32 `json:"lng"`
	Sub uint8  `json:"sub"`
}

// SubLat returns the sub-cell row, 0 being the southernmost.
func (i Index) SubLat() int { return int(i.Sub) / SubDivisions }

// SubLng returns the sub-cell column, 0 being the westernmost.
func (i Index) SubLng() int { return int(i.Sub) % SubDivisions }

// Valid checks that every component lies inside the grid.
func (i Index) Valid() bool {
	return i.Lat < LatitudeBins && i.Lng < LongitudeBins && i.Sub < SubCells
}

// pack folds the triple into a single mixed-radix number. Four base-27
// digits cannot hold LatitudeBins on their own, so the three components share
// all ten digits instead of owning one group each.
func (i Index) pack() uint64 {
	return (uint64(i.Lat)*LongitudeBins+uint64(i.Lng))*SubCells + uint64(i.Sub)
}

func unpack(n uint64) Index {
	sub := n % SubCells
	n /= SubCells

	return Index{
		Lat: uint32(n / LongitudeBins),
		Lng: uint32(n % LongitudeBins),
		Sub: uint8(sub),
	}
}

// format renders a valid index as a canonical code.
func (i Index) format() GridCode {
	buf := make([]byte, 0, CodeLength)

	buf, err := base27.Append(buf, i.pack(), digits)
	if err != nil {
		// unreachable for a valid index: maxValue < 27^10
		panic(err)
	}

	out := make([]byte, 0, CodeLength)
	out = append(out, buf[0:4]...)
	out = append(out, Separator)
	out = append(out, buf[4:8]...)
	out = append(out, Separator)
	out = append(out, buf[8:10]...)

	return GridCode(out)
}

// parseIndex converts a code back into its index triple.
func parseIndex(s string) (Index, error) {
	code, err := ParseGridCode(s)
	if err != nil {
		return Index{}, err
	}

	c := string(code)

	n, err := base27.Decode(c[0:4] + c[5:9] + c[10:12])
	if err != nil {
		return Index{}, &FormatError{Input: c, Reason: err.Error()}
	}

	if n >= maxValue {
		return Index{}, &FormatError{Input: c, Reason: "outside the grid"}
	}

	return unpack(n), nil
}
