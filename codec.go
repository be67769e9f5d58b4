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

// Package gridcode maps GPS coordinates to short, shareable codes naming a
// ~10 m patch of the earth's surface, and back.
//
// A coordinate is shifted into non-negative ranges, quantized onto a global
// grid of Precision sized cells, refined to one of 5x5 sub-cells and written
// as ten symbols of a 27-symbol alphabet in the form XXXX-YYYY-ZZ. Decoding
// returns the centre of the sub-cell, so the mapping is many-to-one and
// re-encoding a decoded centre yields the same code.
package gridcode

import (
	"fmt"
	"math"

	"m4o.io/gridcode/model"
)

// Codec encodes and decodes grid codes. A Codec is immutable and safe for
// concurrent use.
type Codec struct {
	cfg codecOptions
}

// NewCodec returns a codec configured with opts.
func NewCodec(opts ...CodecOption) *Codec {
	cfg := defaultCodecConfig

	for _, opt := range opts {
		opt(&cfg)
	}

	return &Codec{cfg: cfg}
}

// RangePolicy returns the codec's handling of out of range coordinates.
func (c *Codec) RangePolicy() RangePolicy { return c.cfg.rangePolicy }

// MaxRadius returns the largest radius, in metres, accepted by Within.
func (c *Codec) MaxRadius() float64 { return c.cfg.maxRadius }

// Encode returns the grid code of the sub-cell containing coord.
func (c *Codec) Encode(coord model.Coordinate) (GridCode, error) {
	idx, err := c.Quantize(coord)
	if err != nil {
		return "", err
	}

	return idx.format(), nil
}

// EncodeLatLng is Encode for a bare latitude and longitude.
func (c *Codec) EncodeLatLng(lat, lng float64) (GridCode, error) {
	return c.Encode(model.LatLng(lat, lng))
}

// Decode returns the centre of the sub-cell named by code.
func (c *Codec) Decode(code string) (model.Coordinate, error) {
	idx, err := parseIndex(code)
	if err != nil {
		return model.Coordinate{}, err
	}

	return center(idx), nil
}

// Index returns the index triple named by code.
func (c *Codec) Index(code string) (Index, error) {
	return parseIndex(code)
}

// EncodeIndex returns the code of an index triple.
func (c *Codec) EncodeIndex(idx Index) (GridCode, error) {
	if !idx.Valid() {
		return "", fmt.Errorf("%w: index %+v", ErrOutOfRange, idx)
	}

	return idx.format(), nil
}

// Quantize normalizes coord according to the codec's RangePolicy and returns
// its index triple.
func (c *Codec) Quantize(coord model.Coordinate) (Index, error) {
	n, err := c.normalize(coord)
	if err != nil {
		return Index{}, err
	}

	return quantize(n), nil
}

func (c *Codec) normalize(coord model.Coordinate) (model.Coordinate, error) {
	if !coord.Lat.IsFinite() || !coord.Lng.IsFinite() {
		return coord, fmt.Errorf("%w: %s", ErrOutOfRange, coord)
	}

	switch c.cfg.rangePolicy {
	case ClampOutOfRange:
		coord.Lat = clamp(coord.Lat, model.MinLat, model.MaxLat)
		coord.Lng = clamp(coord.Lng, model.MinLng, model.MaxLng)
	case WrapLongitude:
		coord.Lng = wrap(coord.Lng)
	}

	if !coord.InRange() {
		return coord, fmt.Errorf("%w: %s", ErrOutOfRange, coord)
	}

	return coord, nil
}

// quantize maps an in-range coordinate to its index triple. The offsets are
// added before dividing so every quantity is non-negative and Floor is
// plain truncation.
func quantize(coord model.Coordinate) Index {
	qLat := float64(coord.Lat-model.MinLat) / float64(Precision)
	qLng := float64(coord.Lng-model.MinLng) / float64(Precision)

	latIdx := math.Floor(qLat)
	lngIdx := math.Floor(qLng)

	subLat := subIndex(qLat - latIdx)
	subLng := subIndex(qLng - lngIdx)

	// lat 90 belongs to the top row
	if latIdx >= LatitudeBins {
		latIdx = LatitudeBins - 1
		subLat = SubDivisions - 1
	}

	// lng 180 is the -180 meridian
	if lngIdx >= LongitudeBins {
		lngIdx -= LongitudeBins
	}

	return Index{
		Lat: uint32(latIdx),
		Lng: uint32(lngIdx),
		Sub: uint8(subLat*SubDivisions + subLng),
	}
}

func subIndex(frac float64) int {
	s := int(math.Floor(frac * SubDivisions))

	return min(max(s, 0), SubDivisions-1)
}

// center returns the centre of the sub-cell named by idx.
func center(idx Index) model.Coordinate {
	lat := (float64(idx.Lat) + (float64(idx.SubLat())+model.Half)/SubDivisions) * float64(Precision)
	lng := (float64(idx.Lng) + (float64(idx.SubLng())+model.Half)/SubDivisions) * float64(Precision)

	return model.Coordinate{
		Lat: model.Degrees(lat) + model.MinLat,
		Lng: model.Degrees(lng) + model.MinLng,
	}
}

func clamp(d, lo, hi model.Degrees) model.Degrees {
	return min(max(d, lo), hi)
}

// wrap maps a longitude into [-180, 180).
func wrap(lng model.Degrees) model.Degrees {
	w := math.Mod(float64(lng-model.MinLng), 360)
	if w < 0 {
		w += 360
	}

	return model.Degrees(w) + model.MinLng
}

var std = NewCodec()

// Encode returns the grid code of coord using the default codec.
func Encode(coord model.Coordinate) (GridCode, error) {
	return std.Encode(coord)
}

// Decode returns the centre of the sub-cell named by code using the default
// codec.
func Decode(code string) (model.Coordinate, error) {
	return std.Decode(code)
}

// Within lists the codes around origin using the default codec.
func Within(origin model.Coordinate, radius float64) (CodeSet, error) {
	return std.Within(origin, radius)
}
