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
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
	"github.com/ulikunitz/xz/lzma"
)

type nopCloserWriter struct {
	io.Writer
}

func (w nopCloserWriter) Close() error {
	return nil
}

// newPacker returns a writer compressing into w. Closing it flushes the
// compressed stream but leaves w open.
func newPacker(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case RAW:
		return nopCloserWriter{w}, nil
	case ZLIB:
		return zlib.NewWriter(w), nil
	case LZMA:
		lw, err := lzma.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("could not create lzma writer: %w", err)
		}

		return lw, nil
	case LZ4:
		return lz4.NewWriter(w), nil
	case ZSTD:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("could not create zstd writer: %w", err)
		}

		return zw, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownCompressionType, c)
	}
}
