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
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"m4o.io/gridcode/model"
)

// GridCell is the geometry behind a grid code. It is computed on demand and
// never stored.
type GridCell struct {
	Code   GridCode          `json:"code"`
	Index  Index             `json:"index"`
	Center model.Coordinate  `json:"center"`
	Bounds model.BoundingBox `json:"bounds"`

	// SubBounds is the sub-cell of Bounds that Center is the middle of.
	SubBounds model.BoundingBox `json:"sub_bounds"`
}

// Cell returns the geometry of the cell named by code.
func (c *Codec) Cell(code string) (GridCell, error) {
	idx, err := parseIndex(code)
	if err != nil {
		return GridCell{}, err
	}

	return cellOf(idx), nil
}

// CellOf returns the geometry of the cell containing coord.
func (c *Codec) CellOf(coord model.Coordinate) (GridCell, error) {
	idx, err := c.Quantize(coord)
	if err != nil {
		return GridCell{}, err
	}

	return cellOf(idx), nil
}

func cellOf(idx Index) GridCell {
	bottom := model.Degrees(idx.Lat)*Precision + model.MinLat
	left := model.Degrees(idx.Lng)*Precision + model.MinLng

	sub := Precision / SubDivisions
	subBottom := bottom + model.Degrees(idx.SubLat())*sub
	subLeft := left + model.Degrees(idx.SubLng())*sub

	return GridCell{
		Code:   idx.format(),
		Index:  idx,
		Center: center(idx),
		Bounds: model.BoundingBox{
			Top:    bottom + Precision,
			Left:   left,
			Bottom: bottom,
			Right:  left + Precision,
		},
		SubBounds: model.BoundingBox{
			Top:    subBottom + sub,
			Left:   subLeft,
			Bottom: subBottom,
			Right:  subLeft + sub,
		},
	}
}

// Bound returns the cell's bounds as an orb.Bound.
func (g GridCell) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{float64(g.Bounds.Left), float64(g.Bounds.Bottom)},
		Max: orb.Point{float64(g.Bounds.Right), float64(g.Bounds.Top)},
	}
}

// Feature returns the cell as a GeoJSON polygon carrying its code and centre
// as properties.
func (g GridCell) Feature() *geojson.Feature {
	f := geojson.NewFeature(g.Bound().ToPolygon())
	f.ID = g.Code.String()
	f.Properties["code"] = g.Code.String()
	f.Properties["lat"] = float64(g.Center.Lat)
	f.Properties["lng"] = float64(g.Center.Lng)

	return f
}

// FeatureCollection returns the cells named by codes as GeoJSON.
func (c *Codec) FeatureCollection(codes []GridCode) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()

	for _, code := range codes {
		cell, err := c.Cell(code.String())
		if err != nil {
			return nil, err
		}

		fc.Append(cell.Feature())
	}

	return fc, nil
}

// Bounds returns the smallest bounding box holding every cell in the set, or
// nil for an empty set.
func (s CodeSet) Bounds() *model.BoundingBox {
	if len(s) == 0 {
		return nil
	}

	bbox := model.InitialBoundingBox()

	for code := range s {
		idx, err := parseIndex(code.String())
		if err != nil {
			continue
		}

		cell := cellOf(idx)
		bbox.ExpandWithBoundingBox(&cell.Bounds)
	}

	return bbox
}
