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
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCompressionType is returned for a compression the archive does
// not know how to read or write.
var ErrUnknownCompressionType = errors.New("unknown archive compression type")

// Compression is the algorithm used to compress an archive body.
type Compression int

const (
	RAW Compression = iota
	ZLIB
	LZMA
	LZ4
	ZSTD
)

// DefaultCompression is used when none is given.
const DefaultCompression = ZSTD

var compressionNames = [...]string{"raw", "zlib", "lzma", "lz4", "zstd"}

func (c Compression) String() string {
	if c < RAW || c > ZSTD {
		return fmt.Sprintf("Compression(%d)", int(c))
	}

	return compressionNames[c]
}

// ParseCompression returns the compression named s, ignoring case.
func ParseCompression(s string) (Compression, error) {
	for i, name := range compressionNames {
		if strings.EqualFold(s, name) {
			return Compression(i), nil
		}
	}

	return RAW, fmt.Errorf("%w: %q", ErrUnknownCompressionType, s)
}
