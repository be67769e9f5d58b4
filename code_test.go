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
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/gridcode/internal/base27"
)

func TestGridConstants(t *testing.T) {
	assert.Equal(t, float64(LatitudeBins), math.Round(180/float64(Precision)))
	assert.Equal(t, float64(LongitudeBins), math.Round(360/float64(Precision)))
	assert.Less(t, maxValue, base27.Pow(digits))
	assert.Len(t, Alphabet, 27)
}

func TestIsValid(t *testing.T) {
	test_cases := []struct {
		name     string
		code     string
		expected bool
	}{
		{"canonical", "N9NB-GPMJ-NC", true},
		{"origin", "2222-2222-22", true},
		{"all high", "ZZZZ-ZZZZ-ZZ", true},
		{"empty", "", false},
		{"short", "N9NB-GPMJ-N", false},
		{"long", "N9NB-GPMJ-NCC", false},
		{"no separators", "N9NBGPMJNC", false},
		{"separator moved", "N9N-BGPMJ-NC", false},
		{"underscore separator", "N9NB_GPMJ_NC", false},
		{"lowercase", "n9nb-gpmj-nc", false},
		{"zero", "N9N0-GPMJ-NC", false},
		{"letter O", "N9NO-GPMJ-NC", false},
		{"one", "N9N1-GPMJ-NC", false},
		{"letter I", "N9NI-GPMJ-NC", false},
		{"letter L", "N9NL-GPMJ-NC", false},
		{"vowel", "N9NA-GPMJ-NC", false},
		{"padded", " N9NB-GPMJ-NC", false},
	}

	for _, tc := range test_cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsValid(tc.code))
			assert.Equal(t, tc.expected, GridCode(tc.code).Valid())
		})
	}
}

func TestParseGridCode(t *testing.T) {
	code, err := ParseGridCode("  N9NB-GPMJ-NC\n")
	require.NoError(t, err)
	assert.Equal(t, GridCode("N9NB-GPMJ-NC"), code)

	_, err = ParseGridCode("n9nb-gpmj-nc")
	assert.True(t, errors.Is(err, ErrInvalidFormat))

	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "character outside alphabet", fe.Reason)
}

func TestIndexFormat(t *testing.T) {
	assert.Equal(t, GridCode("2222-2222-22"), Index{}.format())
	assert.Equal(t, GridCode("N9NB-GPMJ-NC"), Index{Lat: 1317932, Lng: 2857877, Sub: 8}.format())
	assert.Equal(t, GridCode("Z85S-XVN3-KD"), Index{Lat: 1999999, Lng: 3999999, Sub: 24}.format())
}

func TestIndexPackBijection(t *testing.T) {
	indexes := []Index{
		{},
		{Lat: 0, Lng: 0, Sub: 1},
		{Lat: 0, Lng: 1, Sub: 0},
		{Lat: 1, Lng: 0, Sub: 0},
		{Lat: 1317932, Lng: 2857877, Sub: 8},
		{Lat: 1317932, Lng: 2857878, Sub: 8},
		{Lat: 1317933, Lng: 2857877, Sub: 8},
		{Lat: LatitudeBins - 1, Lng: LongitudeBins - 1, Sub: SubCells - 1},
	}

	seen := map[GridCode]Index{}

	for _, idx := range indexes {
		code := idx.format()

		other, dup := seen[code]
		assert.False(t, dup, "%+v and %+v share %s", idx, other, code)
		seen[code] = idx

		back, err := parseIndex(code.String())
		require.NoError(t, err)
		assert.Equal(t, idx, back)
	}
}

func TestParseIndexOutsideGrid(t *testing.T) {
	_, err := parseIndex("ZZZZ-ZZZZ-ZZ")
	assert.True(t, errors.Is(err, ErrInvalidFormat))

	last := Index{Lat: LatitudeBins - 1, Lng: LongitudeBins - 1, Sub: SubCells - 1}
	_, err = parseIndex(last.format().String())
	assert.NoError(t, err)
}

func TestIndexSub(t *testing.T) {
	idx := Index{Sub: 17}

	assert.Equal(t, 3, idx.SubLat())
	assert.Equal(t, 2, idx.SubLng())
	assert.True(t, idx.Valid())
	assert.False(t, Index{Sub: SubCells}.Valid())
	assert.False(t, Index{Lat: LatitudeBins}.Valid())
	assert.False(t, Index{Lng: LongitudeBins}.Valid())
}
