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
	"encoding/json"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"m4o.io/gridcode/model"
)

const (
	// PayloadTag identifies a QR payload produced by this package.
	PayloadTag = "herenow"

	// PayloadVersion is the payload layout written by NewPayload.
	PayloadVersion = 1

	// payloadSlack absorbs rounding when checking an embedded coordinate
	// against its cell.
	payloadSlack model.Degrees = 1e-9
)

// Binary payload field numbers.
const (
	fieldTag     protowire.Number = 1
	fieldVersion protowire.Number = 2
	fieldCode    protowire.Number = 3
	fieldLat     protowire.Number = 4
	fieldLng     protowire.Number = 5
)

// Payload is the record embedded in a printed QR code: a grid code together
// with the coordinate it stands for.
type Payload struct {
	Tag     string        `json:"tag"`
	Version uint32        `json:"version"`
	Code    GridCode      `json:"code"`
	Lat     model.Degrees `json:"lat"`
	Lng     model.Degrees `json:"lng"`
}

// NewPayload builds a payload embedding the decoded centre of code.
func (c *Codec) NewPayload(code string) (*Payload, error) {
	idx, err := parseIndex(code)
	if err != nil {
		return nil, err
	}

	ctr := center(idx)

	return &Payload{
		Tag:     PayloadTag,
		Version: PayloadVersion,
		Code:    idx.format(),
		Lat:     ctr.Lat,
		Lng:     ctr.Lng,
	}, nil
}

// Center returns the embedded coordinate.
func (p *Payload) Center() model.Coordinate {
	return model.Coordinate{Lat: p.Lat, Lng: p.Lng}
}

// VerifyPayload checks that p is a known payload kind and that its embedded
// coordinate lies in the cell its code names, so that scanning the code and
// navigating to the coordinate lead to the same place.
func (c *Codec) VerifyPayload(p *Payload) error {
	if p.Tag != PayloadTag {
		return fmt.Errorf("%w: unknown tag %q", ErrPayloadMismatch, p.Tag)
	}

	if p.Version == 0 || p.Version > PayloadVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrPayloadMismatch, p.Version)
	}

	cell, err := c.Cell(p.Code.String())
	if err != nil {
		return err
	}

	b := cell.Bounds
	b.Top += payloadSlack
	b.Bottom -= payloadSlack
	b.Left -= payloadSlack
	b.Right += payloadSlack

	if !b.ContainsCoordinate(p.Center()) {
		return fmt.Errorf("%w: %s is outside cell %s", ErrPayloadMismatch, p.Center(), p.Code)
	}

	return nil
}

// ParsePayload decodes a JSON payload and verifies it.
func (c *Codec) ParsePayload(data []byte) (*Payload, error) {
	p := &Payload{}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayloadMismatch, err)
	}

	if err := c.VerifyPayload(p); err != nil {
		return nil, err
	}

	return p, nil
}

// MarshalBinary encodes the payload in protobuf wire format, which is
// considerably denser than JSON for small QR versions.
func (p *Payload) MarshalBinary() ([]byte, error) {
	b := make([]byte, 0, 48)

	b = protowire.AppendTag(b, fieldTag, protowire.BytesType)
	b = protowire.AppendString(b, p.Tag)
	b = protowire.AppendTag(b, fieldVersion, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(p.Version))
	b = protowire.AppendTag(b, fieldCode, protowire.BytesType)
	b = protowire.AppendString(b, p.Code.String())
	b = protowire.AppendTag(b, fieldLat, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, math.Float64bits(float64(p.Lat)))
	b = protowire.AppendTag(b, fieldLng, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, math.Float64bits(float64(p.Lng)))

	return b, nil
}

// UnmarshalBinary decodes a payload written by MarshalBinary. Unknown fields
// are skipped.
func (p *Payload) UnmarshalBinary(data []byte) error {
	*p = Payload{}

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrPayloadMismatch, protowire.ParseError(n))
		}

		data = data[n:]

		switch {
		case num == fieldTag && typ == protowire.BytesType:
			p.Tag, n = protowire.ConsumeString(data)
		case num == fieldCode && typ == protowire.BytesType:
			var s string
			s, n = protowire.ConsumeString(data)
			p.Code = GridCode(s)
		case num == fieldVersion && typ == protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(data)
			p.Version = uint32(v)
		case num == fieldLat && typ == protowire.Fixed64Type:
			var v uint64
			v, n = protowire.ConsumeFixed64(data)
			p.Lat = model.Degrees(math.Float64frombits(v))
		case num == fieldLng && typ == protowire.Fixed64Type:
			var v uint64
			v, n = protowire.ConsumeFixed64(data)
			p.Lng = model.Degrees(math.Float64frombits(v))
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
		}

		if n < 0 {
			return fmt.Errorf("%w: %v", ErrPayloadMismatch, protowire.ParseError(n))
		}

		data = data[n:]
	}

	return nil
}
