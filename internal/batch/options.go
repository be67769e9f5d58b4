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

package batch

import (
	"runtime"
)

// DefaultBatchSize is the default number of rows encoded per task.
const DefaultBatchSize = 256

// DefaultNCpu provides the default number of CPUs.
func DefaultNCpu() uint16 {
	cpus := uint16(runtime.GOMAXPROCS(-1))

	return max(cpus-1, 1)
}

// options provides optional configuration parameters for Encode.
type options struct {
	batchSize int    // rows per encoding task
	nCPU      uint16 // the number of CPUs to use for background processing
	lenient   bool   // skip rows that cannot be encoded
}

// Option configures how Encode runs.
type Option func(*options)

// WithBatchSize lets you set the number of rows handed to a worker at once.
func WithBatchSize(s int) Option {
	return func(o *options) {
		o.batchSize = s
	}
}

// WithNCpus lets you set the number of CPUs to use for background processing.
func WithNCpus(n uint16) Option {
	return func(o *options) {
		o.nCPU = n
	}
}

// WithLenient makes Encode write an empty code for rows it cannot encode
// instead of failing.
func WithLenient(lenient bool) Option {
	return func(o *options) {
		o.lenient = lenient
	}
}

// defaultConfig provides a default configuration for Encode.
var defaultConfig = options{
	batchSize: DefaultBatchSize,
	nCPU:      DefaultNCpu(),
}
