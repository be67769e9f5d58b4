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

package cli

import (
	"os"

	"github.com/spf13/pflag"
)

// fileValue is a pflag.Value naming a file that is opened when the flag is
// set. Unset, it holds a default such as os.Stdin.
type fileValue struct {
	value    **os.File
	open     func(name string) (*os.File, error)
	typename string
}

// NewReaderValue creates a flag value that opens the named file for
// reading.
func NewReaderValue(def *os.File, p **os.File, typename string) pflag.Value {
	return newFileValue(def, p, typename, os.Open)
}

// NewWriterValue creates a flag value that creates, or truncates, the named
// file for writing.
func NewWriterValue(def *os.File, p **os.File, typename string) pflag.Value {
	return newFileValue(def, p, typename, os.Create)
}

func newFileValue(def *os.File, p **os.File, typename string, open func(string) (*os.File, error)) *fileValue {
	v := &fileValue{
		value:    p,
		open:     open,
		typename: typename,
	}
	*v.value = def

	return v
}

func (v *fileValue) Set(val string) error {
	f, err := v.open(val)
	if err != nil {
		return err
	}

	*v.value = f

	return nil
}

func (v *fileValue) Type() string {
	return v.typename
}

func (v *fileValue) String() string {
	if *v.value == nil {
		return ""
	}

	return (*v.value).Name()
}
