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

package gridcode

import (
	"math/rand/v2"
	"testing"

	"m4o.io/gridcode/model"
)

func benchCoordinates(n int) []model.Coordinate {
	r := rand.New(rand.NewPCG(1, 2))
	coords := make([]model.Coordinate, n)

	for i := range coords {
		coords[i] = model.LatLng(r.Float64()*180-90, r.Float64()*360-180)
	}

	return coords
}

func BenchmarkEncode(b *testing.B) {
	coords := benchCoordinates(1024)
	codec := NewCodec()

	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		if _, err := codec.Encode(coords[n%len(coords)]); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecode(b *testing.B) {
	coords := benchCoordinates(1024)
	codes := make([]string, len(coords))

	for i, c := range coords {
		codes[i] = quantize(c).format().String()
	}

	codec := NewCodec()

	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		if _, err := codec.Decode(codes[n%len(codes)]); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkWithin(b *testing.B) {
	origin := model.LatLng(51.5007, -0.1246)
	codec := NewCodec()

	for _, radius := range []float64{10, 100, 500} {
		b.Run(FormatDistance(radius), func(b *testing.B) {
			for n := 0; n < b.N; n++ {
				if _, err := codec.Within(origin, radius); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
