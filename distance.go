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
	"math"
	"strconv"

	"m4o.io/gridcode/model"
)

const (
	// EarthRadius is the mean radius of the earth in metres used by Distance.
	EarthRadius = 6_371_000.0

	// MetersPerDegree approximates the length of one degree of latitude.
	MetersPerDegree = 111_000.0

	metersPerKilometer = 1000.0
)

// Distance returns the great-circle distance in metres between a and b using
// the haversine formula.
func Distance(a, b model.Coordinate) float64 {
	lat1 := a.Lat.Radians()
	lat2 := b.Lat.Radians()

	sinLat := math.Sin((b.Lat - a.Lat).Radians() / 2)
	sinLng := math.Sin((b.Lng - a.Lng).Radians() / 2)

	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLng*sinLng

	// rounding can push h just outside [0, 1] for antipodal points
	h = min(max(h, 0), 1)

	return 2 * EarthRadius * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// FormatDistance renders metres for display: whole metres below 1 km ("50m"),
// kilometres with one decimal place from 1 km up ("2.5km"). Negative and NaN
// values render as "0m".
func FormatDistance(meters float64) string {
	if math.IsNaN(meters) || meters < 0 {
		meters = 0
	}

	if meters < metersPerKilometer {
		return strconv.FormatFloat(math.Round(meters), 'f', 0, 64) + "m"
	}

	return strconv.FormatFloat(meters/metersPerKilometer, 'f', 1, 64) + "km"
}
