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

// Package base27 converts unsigned integers to and from fixed-width strings
// over a restricted 27-symbol alphabet that omits the visually ambiguous
// glyphs 0/O and 1/I/L as well as vowels.
package base27

import (
	"errors"
	"fmt"

	"golang.org/x/exp/constraints"
)

const (
	// Alphabet is the ordered digit set; the index of a symbol is its value.
	Alphabet = "23456789BCDFGHJKMNPQRSTVWXZ"

	// Radix is the number of symbols in Alphabet.
	Radix = len(Alphabet)
)

var (
	// ErrInvalidDigit is returned when a string contains a symbol outside
	// Alphabet.
	ErrInvalidDigit = errors.New("invalid base27 digit")

	// ErrOverflow is returned when a value needs more digits than requested.
	ErrOverflow = errors.New("base27 overflow")
)

// values maps a byte to its digit value, or -1.
var values = func() [256]int8 {
	var v [256]int8
	for i := range v {
		v[i] = -1
	}

	for i := 0; i < Radix; i++ {
		v[Alphabet[i]] = int8(i)
	}

	return v
}()

// IndexOf returns the value of the symbol b, or -1 when b is not a symbol.
func IndexOf(b byte) int {
	return int(values[b])
}

// Valid checks if b is a symbol of Alphabet.
func Valid(b byte) bool {
	return values[b] >= 0
}

// Pow returns Radix raised to the power of width.
func Pow(width int) uint64 {
	p := uint64(1)
	for i := 0; i < width; i++ {
		p *= uint64(Radix)
	}

	return p
}

// Append writes n as exactly width digits, most significant first, to dst.
func Append[T constraints.Unsigned](dst []byte, n T, width int) ([]byte, error) {
	v := uint64(n)
	if v >= Pow(width) {
		return dst, fmt.Errorf("%w: %d does not fit in %d digits", ErrOverflow, v, width)
	}

	start := len(dst)
	for i := 0; i < width; i++ {
		dst = append(dst, Alphabet[0])
	}

	for i := start + width - 1; i >= start; i-- {
		dst[i] = Alphabet[v%uint64(Radix)]
		v /= uint64(Radix)
	}

	return dst, nil
}

// Encode returns n as a string of exactly width digits.
func Encode[T constraints.Unsigned](n T, width int) (string, error) {
	b, err := Append(make([]byte, 0, width), n, width)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// Decode parses digits, most significant first, into an integer.
func Decode(s string) (uint64, error) {
	var n uint64

	for i := 0; i < len(s); i++ {
		d := values[s[i]]
		if d < 0 {
			return 0, fmt.Errorf("%w: %q at offset %d", ErrInvalidDigit, s[i], i)
		}

		n = n*uint64(Radix) + uint64(d)
	}

	return n, nil
}
