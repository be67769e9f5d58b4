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

// Package archive reads and writes compressed streams of JSON records, used
// to move notes between content indexes.
//
// An archive is a big endian uint32 header size, a protobuf encoded header
// naming the compression and record kind, then the compressed body.
package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
)

// Writer compresses records into an archive.
type Writer struct {
	packer io.WriteCloser
	enc    *json.Encoder
	count  int
}

// NewWriter writes an archive header to w and returns a Writer for the
// body. Close must be called to flush the body.
func NewWriter(w io.Writer, h Header) (*Writer, error) {
	if h.Compression < RAW || h.Compression > ZSTD {
		return nil, fmt.Errorf("%w: %v", ErrUnknownCompressionType, h.Compression)
	}

	if err := writeHeader(w, h); err != nil {
		return nil, err
	}

	p, err := newPacker(w, h.Compression)
	if err != nil {
		return nil, err
	}

	return &Writer{packer: p, enc: json.NewEncoder(p)}, nil
}

// Write appends one record to the archive.
func (w *Writer) Write(v any) error {
	if err := w.enc.Encode(v); err != nil {
		return fmt.Errorf("could not write record %d: %w", w.count, err)
	}

	w.count++

	return nil
}

// Count returns the number of records written.
func (w *Writer) Count() int { return w.count }

// Close flushes the compressed body. It does not close the underlying
// writer.
func (w *Writer) Close() error {
	if err := w.packer.Close(); err != nil {
		return fmt.Errorf("could not close writer: %w", err)
	}

	return nil
}

// Reader decompresses records from an archive.
type Reader struct {
	header   Header
	unpacker io.ReadCloser
	dec      *json.Decoder
}

// NewReader reads the archive header from r and returns a Reader for the
// body.
func NewReader(r io.Reader) (*Reader, error) {
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	u, err := newUnpacker(r, h.Compression)
	if err != nil {
		return nil, err
	}

	return &Reader{header: h, unpacker: u, dec: json.NewDecoder(u)}, nil
}

// Header returns the archive header.
func (r *Reader) Header() Header { return r.header }

// Read decodes the next record into v. It returns io.EOF after the last
// record.
func (r *Reader) Read(v any) error {
	if err := r.dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}

		return fmt.Errorf("could not read record: %w", err)
	}

	return nil
}

// Close releases the decompressor.
func (r *Reader) Close() error {
	return r.unpacker.Close()
}

// Records returns an iterator over the records of type T in r. Iteration
// stops at the first error, which is yielded.
func Records[T any](r *Reader) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			var v T

			err := r.Read(&v)
			if errors.Is(err, io.EOF) {
				return
			}

			if !yield(v, err) || err != nil {
				return
			}
		}
	}
}
