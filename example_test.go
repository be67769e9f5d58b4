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

package gridcode_test

import (
	"fmt"
	"log"

	"m4o.io/gridcode"
	"m4o.io/gridcode/model"
)

func Example() {
	code, err := gridcode.Encode(model.LatLng(28.6139, 77.2090))
	if err != nil {
		log.Fatal(err)
	}

	c, err := gridcode.Decode(code.String())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%s -> %.6f, %.6f\n", code, c.Lat, c.Lng)
	// Output:
	// N9NB-GPMJ-NC -> 28.613907, 77.208993
}

func ExampleFormatDistance() {
	delhi := model.LatLng(28.6139, 77.2090)

	fmt.Println(gridcode.FormatDistance(850))
	fmt.Println(gridcode.FormatDistance(gridcode.Distance(delhi, delhi)))
	fmt.Println(gridcode.FormatDistance(12345))
	// Output:
	// 850m
	// 0m
	// 12.3km
}

func ExampleIsValid() {
	fmt.Println(gridcode.IsValid("N9NB-GPMJ-NC"))
	fmt.Println(gridcode.IsValid("N9NB-GPMJ-N0"))
	// Output:
	// true
	// false
}
