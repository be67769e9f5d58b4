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
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat is returned when a string is not a well-formed grid
	// code, or names a cell outside the grid.
	ErrInvalidFormat = errors.New("invalid grid code")

	// ErrOutOfRange is returned when a coordinate lies outside the valid
	// latitude/longitude ranges and the codec's RangePolicy does not allow it.
	ErrOutOfRange = errors.New("coordinate out of range")

	// ErrInvalidRadius is returned for a negative or NaN radius.
	ErrInvalidRadius = errors.New("invalid radius")

	// ErrRadiusTooLarge is returned when a radius query would exceed the
	// codec's MaxRadius or MaxSamples bounds.
	ErrRadiusTooLarge = errors.New("radius too large")

	// ErrPayloadMismatch is returned when a QR payload is of an unknown kind
	// or its embedded coordinate disagrees with its grid code.
	ErrPayloadMismatch = errors.New("payload mismatch")
)

// FormatError describes why a string was rejected as a grid code.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid grid code %q: %s", e.Input, e.Reason)
}

// Unwrap allows errors.Is(err, ErrInvalidFormat).
func (e *FormatError) Unwrap() error {
	return ErrInvalidFormat
}
