// Copyright 2017-26 the original author or authors.
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

package archive

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrNotArchive is returned when a stream does not start with an archive
// header.
var ErrNotArchive = errors.New("not a gridcode archive")

const (
	format = "gridcode.archive"

	// maxHeaderSize bounds the header read before the format is known.
	maxHeaderSize = 1024
)

const (
	fieldFormat      protowire.Number = 1
	fieldCompression protowire.Number = 2
	fieldKind        protowire.Number = 3
)

// Header describes the body of an archive.
type Header struct {
	// Compression is the algorithm applied to the body.
	Compression Compression

	// Kind names the records held in the body, such as "notes".
	Kind string
}

func (h Header) marshal() []byte {
	b := protowire.AppendTag(nil, fieldFormat, protowire.BytesType)
	b = protowire.AppendString(b, format)
	b = protowire.AppendTag(b, fieldCompression, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(h.Compression))
	b = protowire.AppendTag(b, fieldKind, protowire.BytesType)
	b = protowire.AppendString(b, h.Kind)

	return b
}

func (h *Header) unmarshal(b []byte) error {
	var f string

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrNotArchive, protowire.ParseError(n))
		}

		b = b[n:]

		switch {
		case num == fieldFormat && typ == protowire.BytesType:
			f, n = protowire.ConsumeString(b)
		case num == fieldCompression && typ == protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(b)
			h.Compression = Compression(v)
		case num == fieldKind && typ == protowire.BytesType:
			h.Kind, n = protowire.ConsumeString(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}

		if n < 0 {
			return fmt.Errorf("%w: %v", ErrNotArchive, protowire.ParseError(n))
		}

		b = b[n:]
	}

	if f != format {
		return ErrNotArchive
	}

	return nil
}

// writeHeader writes the size of the header followed by the header itself.
func writeHeader(wrtr io.Writer, h Header) error {
	hb := h.marshal()

	if err := binary.Write(wrtr, binary.BigEndian, uint32(len(hb))); err != nil {
		return fmt.Errorf("could not write header size: %w", err)
	}

	if _, err := wrtr.Write(hb); err != nil {
		return fmt.Errorf("could not write header: %w", err)
	}

	return nil
}

func readHeader(rdr io.Reader) (Header, error) {
	var size uint32

	if err := binary.Read(rdr, binary.BigEndian, &size); err != nil {
		return Header{}, fmt.Errorf("error reading header size: %w", err)
	}

	if size > maxHeaderSize {
		return Header{}, fmt.Errorf("%w: header of %d bytes", ErrNotArchive, size)
	}

	hb := make([]byte, size)
	if _, err := io.ReadFull(rdr, hb); err != nil {
		return Header{}, fmt.Errorf("error reading header: %w", err)
	}

	var h Header
	if err := h.unmarshal(hb); err != nil {
		return Header{}, fmt.Errorf("error unmarshalling header: %w", err)
	}

	return h, nil
}
