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
	"bytes"
	"encoding/json"
	"testing"

	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/gridcode"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()

	buf := &bytes.Buffer{}
	saved := out

	t.Cleanup(func() { out = saved })

	out = buf

	return buf
}

func TestRunDecode(t *testing.T) {
	cells, err := runDecode(gridcode.NewCodec(), []string{"N9NB-GPMJ-NC", "B6VM-9GKM-JJ"})
	require.NoError(t, err)
	require.Len(t, cells, 2)

	assert.InDelta(t, 28.613907, float64(cells[0].Center.Lat), 1e-6)
	assert.InDelta(t, 77.208993, float64(cells[0].Center.Lng), 1e-6)
	assert.InDelta(t, -33.856803, float64(cells[1].Center.Lat), 1e-6)
	assert.InDelta(t, 151.215309, float64(cells[1].Center.Lng), 1e-6)

	_, err = runDecode(gridcode.NewCodec(), []string{"N9NB-GPMJ-NC", "N9NB-GPMJ-N0"})
	assert.ErrorIs(t, err, gridcode.ErrInvalidFormat)
}

func TestRenderText(t *testing.T) {
	buf := capture(t)

	cells, err := runDecode(gridcode.NewCodec(), []string{"N9NB-GPMJ-NC"})
	require.NoError(t, err)

	renderTxt(cells)

	assert.Equal(t, `Code: N9NB-GPMJ-NC
Center: 28.613907, 77.208993
Center (DMS): 28° 36' 50.07", 77° 12' 32.37"
Bounds (S, W, N, E): 28.613880, 77.208930, 28.613970, 77.209020
Index: 1317932, 2857877, 8
`, buf.String())
}

func TestRenderJSON(t *testing.T) {
	buf := capture(t)

	cells, err := runDecode(gridcode.NewCodec(), []string{"N9NB-GPMJ-NC"})
	require.NoError(t, err)
	require.NoError(t, renderJSON(cells))

	var got []struct {
		Code   string             `json:"code"`
		Center map[string]float64 `json:"center"`
	}

	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "N9NB-GPMJ-NC", got[0].Code)
	assert.InDelta(t, 28.613907, got[0].Center["lat"], 1e-9)
}

func TestRenderGeoJSON(t *testing.T) {
	buf := capture(t)
	codec := gridcode.NewCodec()

	cells, err := runDecode(codec, []string{"N9NB-GPMJ-NC", "B6VM-9GKM-JJ"})
	require.NoError(t, err)
	require.NoError(t, renderGeoJSON(codec, cells))

	fc, err := geojson.UnmarshalFeatureCollection(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, "B6VM-9GKM-JJ", fc.Features[1].Properties.MustString("code"))
}
