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
	"math"
	"testing"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/stretchr/testify/assert"

	"m4o.io/gridcode"
	"m4o.io/gridcode/model"
)

func TestDistanceIdentity(t *testing.T) {
	for _, c := range randomCoordinates(200) {
		assert.Equal(t, 0.0, gridcode.Distance(c, c))
	}
}

func TestDistanceSymmetric(t *testing.T) {
	coords := randomCoordinates(200)

	for i := 1; i < len(coords); i++ {
		a, b := coords[i-1], coords[i]

		ab := gridcode.Distance(a, b)
		assert.GreaterOrEqual(t, ab, 0.0)
		assert.InDelta(t, ab, gridcode.Distance(b, a), 1e-6)
	}
}

func TestDistanceAntipodal(t *testing.T) {
	test_cases := []struct {
		a model.Coordinate
		b model.Coordinate
	}{
		{model.LatLng(0, 0), model.LatLng(0, 180)},
		{model.LatLng(90, 0), model.LatLng(-90, 0)},
		{model.LatLng(28.6139, 77.2090), model.LatLng(-28.6139, -102.7910)},
	}

	for _, tc := range test_cases {
		d := gridcode.Distance(tc.a, tc.b)
		assert.False(t, math.IsNaN(d))
		assert.InDelta(t, math.Pi*gridcode.EarthRadius, d, 1)
	}
}

func TestDistanceNorth(t *testing.T) {
	origin := model.LatLng(28.6139, 77.2090)

	for _, meters := range []float64{10, 100, 1000, 10_000} {
		dLat := model.Degrees(meters / gridcode.EarthRadius * 180 / math.Pi)
		moved := origin.Offset(dLat, 0)

		assert.InEpsilon(t, meters, gridcode.Distance(origin, moved), 0.02)
	}

	near := gridcode.Distance(origin, origin.Offset(0.001, 0))
	far := gridcode.Distance(origin, origin.Offset(0.002, 0))
	assert.Greater(t, far, near)
}

func TestDistanceAgreesWithS2(t *testing.T) {
	coords := randomCoordinates(100)

	for i := 1; i < len(coords); i++ {
		a, b := coords[i-1], coords[i]

		angle := s2.LatLngFromDegrees(float64(a.Lat), float64(a.Lng)).
			Distance(s2.LatLngFromDegrees(float64(b.Lat), float64(b.Lng)))

		assert.InDelta(t, angle.Radians()*gridcode.EarthRadius, gridcode.Distance(a, b), 1e-3)
	}
}

func TestDistanceAgreesWithOrb(t *testing.T) {
	a := model.LatLng(51.5007, -0.1246)
	b := model.LatLng(48.8584, 2.2945)

	// orb uses the equatorial radius
	expected := geo.DistanceHaversine(orb.Point{-0.1246, 51.5007}, orb.Point{2.2945, 48.8584}) *
		gridcode.EarthRadius / orb.EarthRadius

	assert.InDelta(t, expected, gridcode.Distance(a, b), 1e-3)
}

func TestFormatDistance(t *testing.T) {
	test_cases := []struct {
		meters   float64
		expected string
	}{
		{0, "0m"},
		{0.4, "0m"},
		{50, "50m"},
		{50.5, "51m"},
		{999, "999m"},
		{1000, "1.0km"},
		{1049, "1.0km"},
		{2500, "2.5km"},
		{12_345, "12.3km"},
		{-5, "0m"},
		{math.NaN(), "0m"},
	}

	for _, tc := range test_cases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, gridcode.FormatDistance(tc.meters))
		})
	}
}
