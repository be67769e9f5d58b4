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
	"fmt"
	"io"
	"os"
	"path/filepath"

	pb "gopkg.in/cheggaaa/pb.v1"
)

// progressBar is a ReadCloser reporting the bytes read from a file on a
// ProgressBar. Closing it closes the file and clears the progress line.
type progressBar struct {
	r   io.ReadCloser
	bar *pb.ProgressBar
}

// WrapInputFile returns f wrapped with a progress bar on stderr tracking the
// bytes read relative to its size. Stdin and other non regular files are
// returned as is.
func WrapInputFile(f *os.File) (io.ReadCloser, error) {
	if f == os.Stdin {
		return f, nil
	}

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", f.Name(), err)
	}

	if !fi.Mode().IsRegular() {
		return f, nil
	}

	bar := pb.New64(fi.Size()).SetUnits(pb.U_BYTES_DEC).SetWidth(79).Prefix(filepath.Base(f.Name()) + " ")
	bar.Output = os.Stderr
	bar.ShowSpeed = true
	bar.Start()

	return progressBar{
		r:   bar.NewProxyReader(f),
		bar: bar,
	}, nil
}

// Read implements io.Reader.Read by simple delegation.
func (pb progressBar) Read(p []byte) (int, error) {
	return pb.r.Read(p)
}

// Close implements io.Closer.Close by closing the file and clearing the
// terminal line of progress output.
func (pb progressBar) Close() error {
	// make sure newline is not printed by Finish()
	pb.bar.Output = nil
	pb.bar.NotPrint = true

	pb.bar.Finish()

	fmt.Fprintf(os.Stderr, "\033[2K\r")

	return pb.r.Close()
}
