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

package model

import (
	"errors"
	"fmt"
	"strings"
)

const (
	MaxLat Degrees = 90.0
	MaxLng Degrees = 180.0
	MinLat Degrees = -90.0
	MinLng Degrees = -180.0
)

// ErrMalformedCoordinate is returned when a "lat,lng" pair cannot be parsed.
var ErrMalformedCoordinate = errors.New("malformed coordinate")

// Coordinate is a point on the earth's surface in decimal degrees.
type Coordinate struct {
	Lat Degrees `json:"lat"`
	Lng Degrees `json:"lng"`
}

// LatLng creates a Coordinate from a latitude and longitude.
func LatLng(lat, lng float64) Coordinate {
	return Coordinate{Lat: Degrees(lat), Lng: Degrees(lng)}
}

// InRange checks that the latitude lies in [-90, 90] and the longitude in
// [-180, 180]. NaN and infinite values are never in range.
func (c Coordinate) InRange() bool {
	return c.Lat.IsFinite() && c.Lng.IsFinite() &&
		MinLat <= c.Lat && c.Lat <= MaxLat &&
		MinLng <= c.Lng && c.Lng <= MaxLng
}

// EqualWithin checks if two coordinates are within a specific epsilon on
// both axes.
func (c Coordinate) EqualWithin(o Coordinate, eps Epsilon) bool {
	return c.Lat.EqualWithin(o.Lat, eps) && c.Lng.EqualWithin(o.Lng, eps)
}

// Offset returns the coordinate moved by dLat and dLng degrees.
func (c Coordinate) Offset(dLat, dLng Degrees) Coordinate {
	return Coordinate{Lat: c.Lat + dLat, Lng: c.Lng + dLng}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%s, %s)", ftoa(float64(c.Lat)), ftoa(float64(c.Lng)))
}

// ParseCoordinate parses a "lat,lng" pair such as "28.6139,77.2090".
func ParseCoordinate(s string) (Coordinate, error) {
	lat, lng, ok := strings.Cut(s, ",")
	if !ok {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrMalformedCoordinate, s)
	}

	return ParseLatLng(lat, lng)
}

// ParseLatLng parses a latitude and longitude given as separate strings.
func ParseLatLng(lat, lng string) (Coordinate, error) {
	la, err := ParseDegrees(strings.TrimSpace(lat))
	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: latitude %q", ErrMalformedCoordinate, lat)
	}

	lo, err := ParseDegrees(strings.TrimSpace(lng))
	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: longitude %q", ErrMalformedCoordinate, lng)
	}

	return Coordinate{Lat: la, Lng: lo}, nil
}
