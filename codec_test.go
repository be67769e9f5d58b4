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

package gridcode_test

import (
	"errors"
	"math"
	"math/rand/v2"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/gridcode"
	"m4o.io/gridcode/model"
)

var codePattern = regexp.MustCompile(`^[` + gridcode.Alphabet + `]{4}-[` + gridcode.Alphabet + `]{4}-[` + gridcode.Alphabet + `]{2}$`)

// randomCoordinates returns a deterministic spread of in-range coordinates,
// including the corners of the valid range.
func randomCoordinates(n int) []model.Coordinate {
	r := rand.New(rand.NewPCG(17, 42))

	coords := []model.Coordinate{
		model.LatLng(0, 0),
		model.LatLng(90, 180),
		model.LatLng(-90, -180),
		model.LatLng(90, -180),
		model.LatLng(-90, 180),
	}

	for i := 0; i < n; i++ {
		coords = append(coords, model.LatLng(r.Float64()*180-90, r.Float64()*360-180))
	}

	return coords
}

func TestEncodeNewDelhi(t *testing.T) {
	c := model.LatLng(28.6139, 77.2090)

	code, err := gridcode.Encode(c)
	require.NoError(t, err)
	assert.Equal(t, gridcode.GridCode("N9NB-GPMJ-NC"), code)
	assert.Len(t, code.String(), gridcode.CodeLength)
	assert.Regexp(t, codePattern, code.String())

	decoded, err := gridcode.Decode(code.String())
	require.NoError(t, err)
	assert.Less(t, gridcode.Distance(c, decoded), 10.0)
}

func TestEncodeKnownPlaces(t *testing.T) {
	test_cases := []struct {
		name     string
		c        model.Coordinate
		expected gridcode.GridCode
	}{
		{"south west corner", model.LatLng(-90, -180), "2222-2222-22"},
		{"north east corner", model.LatLng(90, 180), "Z85S-XVN3-KD"},
		{"null island", model.LatLng(0, 0), "H53W-CG89-6T"},
		{"big ben", model.LatLng(51.5007, -0.1246), "RMPC-WQ5H-BN"},
		{"sydney opera house", model.LatLng(-33.8568, 151.2153), "B6VM-9GKM-JJ"},
		{"statue of liberty", model.LatLng(40.6892, -74.0445), "Q35X-ZK5C-9N"},
	}

	for _, tc := range test_cases {
		t.Run(tc.name, func(t *testing.T) {
			code, err := gridcode.Encode(tc.c)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, code)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	codec := gridcode.NewCodec()

	for _, c := range randomCoordinates(2000) {
		code, err := codec.Encode(c)
		require.NoError(t, err, c)
		require.Regexp(t, codePattern, code.String())
		require.True(t, gridcode.IsValid(code.String()))

		decoded, err := codec.Decode(code.String())
		require.NoError(t, err)

		cell, err := codec.CellOf(c)
		require.NoError(t, err)
		assert.Equal(t, code, cell.Code)
		assert.True(t, cell.Bounds.ContainsCoordinate(decoded), "%s decoded outside its cell", c)

		again, err := codec.Encode(decoded)
		require.NoError(t, err)
		assert.Equal(t, code, again, "re-encoding %s", c)
	}
}

func TestEncodeDeterministic(t *testing.T) {
	c := model.LatLng(35.6586, 139.7454)

	a, err := gridcode.Encode(c)
	require.NoError(t, err)
	b, err := gridcode.NewCodec(gridcode.WithRangePolicy(gridcode.ClampOutOfRange)).Encode(c)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestEncodeSameCell(t *testing.T) {
	c := model.LatLng(28.6139, 77.2090)

	cell, err := gridcode.NewCodec().CellOf(c)
	require.NoError(t, err)

	// every point in the sub-cell, inset from its edges, shares the code
	sb := cell.SubBounds
	inset := (sb.Top - sb.Bottom) / 10
	for _, p := range []model.Coordinate{
		{Lat: sb.Bottom + inset, Lng: sb.Left + inset},
		{Lat: sb.Top - inset, Lng: sb.Right - inset},
		cell.Center,
	} {
		code, err := gridcode.Encode(p)
		require.NoError(t, err)
		assert.Equal(t, cell.Code, code)
	}

	// a point one cell north does not
	north, err := gridcode.Encode(c.Offset(gridcode.Precision, 0))
	require.NoError(t, err)
	assert.NotEqual(t, cell.Code, north)
}

func TestEncodeDistinctCells(t *testing.T) {
	codec := gridcode.NewCodec()
	seen := map[gridcode.GridCode]gridcode.Index{}

	for _, c := range randomCoordinates(2000) {
		idx, err := codec.Quantize(c)
		require.NoError(t, err)

		code, err := codec.EncodeIndex(idx)
		require.NoError(t, err)

		if other, ok := seen[code]; ok {
			assert.Equal(t, other, idx, "distinct cells share %s", code)
		}

		seen[code] = idx
	}
}

func TestDecodeInvalid(t *testing.T) {
	for _, s := range []string{"", "hello", "n9nb-gpmj-nc", "N9NB-GPMJ", "N9NB-GPMJ-N0", "ZZZZ-ZZZZ-ZZ"} {
		_, err := gridcode.Decode(s)
		assert.True(t, errors.Is(err, gridcode.ErrInvalidFormat), "%q: %v", s, err)
	}
}

func TestEncodeOutOfRange(t *testing.T) {
	test_cases := []struct {
		name   string
		policy gridcode.RangePolicy
		c      model.Coordinate
		want   model.Coordinate
		err    error
	}{
		{"reject lat", gridcode.RejectOutOfRange, model.LatLng(91, 0), model.Coordinate{}, gridcode.ErrOutOfRange},
		{"reject lng", gridcode.RejectOutOfRange, model.LatLng(0, -181), model.Coordinate{}, gridcode.ErrOutOfRange},
		{"reject nan", gridcode.ClampOutOfRange, model.LatLng(math.NaN(), 0), model.Coordinate{}, gridcode.ErrOutOfRange},
		{"reject inf", gridcode.WrapLongitude, model.LatLng(0, math.Inf(1)), model.Coordinate{}, gridcode.ErrOutOfRange},
		{"clamp lat", gridcode.ClampOutOfRange, model.LatLng(95, 10), model.LatLng(90, 10), nil},
		{"clamp lng", gridcode.ClampOutOfRange, model.LatLng(10, -200), model.LatLng(10, -180), nil},
		{"wrap lng east", gridcode.WrapLongitude, model.LatLng(10, 190), model.LatLng(10, -170), nil},
		{"wrap lng west", gridcode.WrapLongitude, model.LatLng(10, -540.5), model.LatLng(10, 179.5), nil},
		{"wrap rejects lat", gridcode.WrapLongitude, model.LatLng(-100, 10), model.Coordinate{}, gridcode.ErrOutOfRange},
	}

	for _, tc := range test_cases {
		t.Run(tc.name, func(t *testing.T) {
			codec := gridcode.NewCodec(gridcode.WithRangePolicy(tc.policy))

			code, err := codec.Encode(tc.c)
			if tc.err != nil {
				assert.True(t, errors.Is(err, tc.err), "got %v", err)
				assert.Empty(t, code)

				return
			}

			require.NoError(t, err)

			want, err := codec.Encode(tc.want)
			require.NoError(t, err)
			assert.Equal(t, want, code)
		})
	}
}

func TestEncodeAntimeridian(t *testing.T) {
	east, err := gridcode.Encode(model.LatLng(10, 179.99999))
	require.NoError(t, err)
	west, err := gridcode.Encode(model.LatLng(10, -179.99999))
	require.NoError(t, err)

	assert.NotEqual(t, east, west)

	codec := gridcode.NewCodec()
	ei, err := codec.Index(east.String())
	require.NoError(t, err)
	wi, err := codec.Index(west.String())
	require.NoError(t, err)

	assert.Equal(t, uint32(gridcode.LongitudeBins-1), ei.Lng)
	assert.Equal(t, uint32(0), wi.Lng)
}

func TestEncodeIndexInvalid(t *testing.T) {
	_, err := gridcode.NewCodec().EncodeIndex(gridcode.Index{Lat: gridcode.LatitudeBins})
	assert.True(t, errors.Is(err, gridcode.ErrOutOfRange))
}

func TestRangePolicyString(t *testing.T) {
	for _, p := range []gridcode.RangePolicy{gridcode.RejectOutOfRange, gridcode.ClampOutOfRange, gridcode.WrapLongitude} {
		parsed, ok := gridcode.ParseRangePolicy(p.String())
		assert.True(t, ok)
		assert.Equal(t, p, parsed)
	}

	_, ok := gridcode.ParseRangePolicy("bounce")
	assert.False(t, ok)
}
