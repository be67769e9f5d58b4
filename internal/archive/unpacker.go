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

// newUnpacker returns a reader decompressing r.
func newUnpacker(r io.Reader, c Compression) (io.ReadCloser, error) {
	var factory func(r io.Reader) (io.Reader, error)

	switch c {
	case RAW:
		return io.NopCloser(r), nil
	case ZLIB:
		return zlib.NewReader(r)
	case LZMA:
		factory = func(r io.Reader) (io.Reader, error) {
			return lzma.NewReader(r)
		}
	case LZ4:
		factory = func(r io.Reader) (io.Reader, error) {
			return lz4.NewReader(r), nil
		}
	case ZSTD:
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("unpacker factory error: %w", err)
		}

		return d.IOReadCloser(), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownCompressionType, c)
	}

	rdr, err := factory(r)
	if err != nil {
		return nil, fmt.Errorf("unpacker factory error: %w", err)
	}

	return io.NopCloser(rdr), nil
}
