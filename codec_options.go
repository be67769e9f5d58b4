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

const (
	// DefaultMaxRadius is the default upper bound, in metres, of a radius
	// query.
	DefaultMaxRadius = 1000.0

	// DefaultMaxSamples is the default upper bound on lattice samples in a
	// radius query. Near the poles a small radius spans many longitude
	// cells; this keeps such queries bounded.
	DefaultMaxSamples = 250_000
)

// RangePolicy decides what Encode does with a coordinate outside
// [-90, 90] x [-180, 180].
type RangePolicy int

const (
	// RejectOutOfRange fails with ErrOutOfRange.
	RejectOutOfRange RangePolicy = iota

	// ClampOutOfRange clamps each axis to its valid range.
	ClampOutOfRange

	// WrapLongitude wraps the longitude into [-180, 180) and rejects an
	// out of range latitude.
	WrapLongitude
)

func (p RangePolicy) String() string {
	switch p {
	case RejectOutOfRange:
		return "reject"
	case ClampOutOfRange:
		return "clamp"
	case WrapLongitude:
		return "wrap"
	default:
		return "unknown"
	}
}

// ParseRangePolicy converts "reject", "clamp" or "wrap" to a RangePolicy.
func ParseRangePolicy(s string) (RangePolicy, bool) {
	switch s {
	case "reject":
		return RejectOutOfRange, true
	case "clamp":
		return ClampOutOfRange, true
	case "wrap":
		return WrapLongitude, true
	default:
		return RejectOutOfRange, false
	}
}

// codecOptions provides optional configuration parameters for Codec construction.
type codecOptions struct {
	rangePolicy RangePolicy
	maxRadius   float64 // metres
	maxSamples  int
}

// CodecOption configures how we set up the codec.
type CodecOption func(*codecOptions)

// WithRangePolicy sets how out of range coordinates are handled.
func WithRangePolicy(p RangePolicy) CodecOption {
	return func(o *codecOptions) {
		o.rangePolicy = p
	}
}

// WithMaxRadius sets the largest radius, in metres, Within accepts.
func WithMaxRadius(m float64) CodecOption {
	return func(o *codecOptions) {
		o.maxRadius = m
	}
}

// WithMaxSamples sets the largest number of lattice samples Within takes.
func WithMaxSamples(n int) CodecOption {
	return func(o *codecOptions) {
		o.maxSamples = n
	}
}

// defaultCodecConfig provides a default configuration for codecs.
var defaultCodecConfig = codecOptions{
	rangePolicy: RejectOutOfRange,
	maxRadius:   DefaultMaxRadius,
	maxSamples:  DefaultMaxSamples,
}
