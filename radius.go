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
	"fmt"
	"maps"
	"math"
	"slices"

	"m4o.io/gridcode/model"
)

// minCosLat keeps the longitude span finite at the poles.
const minCosLat = 1e-9

// CodeSet is an unordered set of grid codes.
type CodeSet map[GridCode]struct{}

// Add inserts code into the set.
func (s CodeSet) Add(code GridCode) { s[code] = struct{}{} }

// Contains checks if code is in the set.
func (s CodeSet) Contains(code GridCode) bool {
	_, ok := s[code]

	return ok
}

// Len returns the number of codes in the set.
func (s CodeSet) Len() int { return len(s) }

// Sorted returns the codes in lexical order.
func (s CodeSet) Sorted() []GridCode {
	return slices.Sorted(maps.Keys(s))
}

// Within returns the codes of the cells around origin whose lattice sample
// lies within radius metres of it.
//
// The lattice steps Precision degrees from origin on both axes, spanning
// radius/111000 degrees of latitude and radius/(111000 cos lat) degrees of
// longitude. Each sample carries origin's sub-cell, so every code in the set
// shares origin's last refinement. This is an approximation: a cell whose
// sample falls just outside the circle is left out even when part of the
// cell is inside. Cost grows with the square of the radius, which is why it
// is bounded by MaxRadius and MaxSamples.
//
// The origin's own code is always in the set, including for a zero radius.
func (c *Codec) Within(origin model.Coordinate, radius float64) (CodeSet, error) {
	if math.IsNaN(radius) || radius < 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRadius, radius)
	}

	if radius > c.cfg.maxRadius {
		return nil, fmt.Errorf("%w: %vm exceeds %vm", ErrRadiusTooLarge, radius, c.cfg.maxRadius)
	}

	origin, err := c.normalize(origin)
	if err != nil {
		return nil, err
	}

	idx := quantize(origin)

	latSpan := radius / MetersPerDegree
	lngSpan := radius / (MetersPerDegree * max(math.Cos(origin.Lat.Radians()), minCosLat))

	nLat := int64(math.Floor(latSpan / float64(Precision)))
	nLng := int64(math.Floor(min(lngSpan, 180) / float64(Precision)))

	if samples := (2*nLat + 1) * (2*nLng + 1); samples > int64(c.cfg.maxSamples) {
		return nil, fmt.Errorf("%w: %d samples exceeds %d", ErrRadiusTooLarge, samples, c.cfg.maxSamples)
	}

	set := CodeSet{}
	set.Add(idx.format())

	for i := -nLat; i <= nLat; i++ {
		row := int64(idx.Lat) + i
		if row < 0 || row >= LatitudeBins {
			continue
		}

		lat := origin.Lat + model.Degrees(i)*Precision

		for j := -nLng; j <= nLng; j++ {
			sample := model.Coordinate{Lat: lat, Lng: origin.Lng + model.Degrees(j)*Precision}
			if Distance(origin, sample) > radius {
				continue
			}

			// offsetting the index rather than re-encoding the sample
			// keeps floating point drift out of the sub-cell
			col := (int64(idx.Lng) + j) % LongitudeBins
			if col < 0 {
				col += LongitudeBins
			}

			set.Add(Index{Lat: uint32(row), Lng: uint32(col), Sub: idx.Sub}.format())
		}
	}

	return set, nil
}
