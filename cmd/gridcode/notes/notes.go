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

package notes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"m4o.io/gridcode"
	"m4o.io/gridcode/cmd/gridcode/cli"
	"m4o.io/gridcode/internal/archive"
	"m4o.io/gridcode/internal/store"
)

const (
	archiveKind = "notes"
	importBatch = 500
)

var out io.Writer = os.Stdout

// ErrWrongArchive is returned when importing an archive of something other
// than notes.
var ErrWrongArchive = errors.New("archive does not hold notes")

var (
	importFrom *os.File
	exportTo   *os.File
)

func init() {
	cli.RootCmd.AddCommand(notesCmd)
	notesCmd.AddCommand(addCmd, listCmd, nearCmd, rmCmd, exportCmd, importCmd)

	addCmd.Flags().StringP("author", "a", os.Getenv("USER"), "author of the note")
	listCmd.Flags().StringP("code", "c", "", "only list notes in the cell of this code")
	nearCmd.Flags().Float64P("radius", "r", 50, "search radius in metres")
	exportCmd.Flags().StringP("compression", "z", archive.DefaultCompression.String(), "archive compression: raw, zlib, lzma, lz4 or zstd")
	exportCmd.Flags().VarP(cli.NewWriterValue(os.Stdout, &exportTo, "file"), "output", "o", "archive to write (default stdout)")
	importCmd.Flags().VarP(cli.NewReaderValue(os.Stdin, &importFrom, "file"), "input", "i", "archive to read (default stdin)")
}

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Leave and find notes pinned to grid cells",
	Long:  "Leave and find notes pinned to grid cells",
}

// withStore runs fn against the notes database named by the root flags.
func withStore(cmd *cobra.Command, fn func(ctx context.Context, st *store.Store, codec *gridcode.Codec) error) error {
	codec, err := cli.Codec(cmd)
	if err != nil {
		return err
	}

	st, err := cli.OpenStore(cmd, codec)
	if err != nil {
		return err
	}

	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	return fn(ctx, st, codec)
}

var addCmd = &cobra.Command{
	Use:   "add <place> <text>...",
	Short: "Leave a note at a place",
	Long: `Leave a note at a place. The place is a grid code, a "lat,lng" pair or
a latitude and a longitude; the remaining arguments are the note.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		author, err := cmd.Flags().GetString("author")
		if err != nil {
			return err
		}

		return withStore(cmd, func(ctx context.Context, st *store.Store, codec *gridcode.Codec) error {
			n, err := runAdd(ctx, st, codec, args, author)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "%s %s\n", n.ID, n.Code)

			return nil
		})
	},
}

func runAdd(ctx context.Context, st *store.Store, codec *gridcode.Codec, args []string, author string) (store.Note, error) {
	c, n, err := cli.ParsePlace(codec, args)
	if err != nil {
		return store.Note{}, err
	}

	return st.Add(ctx, store.Note{
		Lat:    c.Lat,
		Lng:    c.Lng,
		Body:   strings.Join(args[n:], " "),
		Author: author,
	})
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, newest first",
	Long:  "List notes, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		code, err := cmd.Flags().GetString("code")
		if err != nil {
			return err
		}

		return withStore(cmd, func(ctx context.Context, st *store.Store, _ *gridcode.Codec) error {
			notes, err := runList(ctx, st, code)
			if err != nil {
				return err
			}

			renderNotes(notes, time.Now())

			return nil
		})
	},
}

func runList(ctx context.Context, st *store.Store, code string) ([]store.Note, error) {
	if code == "" {
		return st.All(ctx)
	}

	return st.ByCode(ctx, code)
}

var nearCmd = &cobra.Command{
	Use:   "near <place>",
	Short: "List notes near a place, nearest first",
	Long:  "List notes near a place, nearest first",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		radius, err := cmd.Flags().GetFloat64("radius")
		if err != nil {
			return err
		}

		return withStore(cmd, func(ctx context.Context, st *store.Store, codec *gridcode.Codec) error {
			near, err := runNear(ctx, st, codec, args, radius)
			if err != nil {
				return err
			}

			renderNear(near, time.Now())

			return nil
		})
	},
}

func runNear(ctx context.Context, st *store.Store, codec *gridcode.Codec, args []string, radius float64) ([]store.NearNote, error) {
	c, n, err := cli.ParsePlace(codec, args)
	if err != nil {
		return nil, err
	}

	if n != len(args) {
		return nil, fmt.Errorf("unexpected argument %q", args[n])
	}

	return st.Near(ctx, c, radius)
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a note",
	Long:  "Remove a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, st *store.Store, _ *gridcode.Codec) error {
			ok, err := st.Delete(ctx, args[0])
			if err != nil {
				return err
			}

			if !ok {
				return fmt.Errorf("no note %q", args[0])
			}

			return nil
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every note to a compressed archive",
	Long:  "Write every note to a compressed archive",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		name, err := cmd.Flags().GetString("compression")
		if err != nil {
			return err
		}

		c, err := archive.ParseCompression(name)
		if err != nil {
			return err
		}

		if exportTo != os.Stdout {
			defer exportTo.Close()
		}

		return withStore(cmd, func(ctx context.Context, st *store.Store, _ *gridcode.Codec) error {
			n, err := runExport(ctx, st, exportTo, c)
			if err != nil {
				return err
			}

			slog.Info("exported notes", "count", humanize.Comma(int64(n)), "compression", c)

			return nil
		})
	},
}

func runExport(ctx context.Context, st *store.Store, w io.Writer, c archive.Compression) (int, error) {
	notes, err := st.All(ctx)
	if err != nil {
		return 0, err
	}

	aw, err := archive.NewWriter(w, archive.Header{Compression: c, Kind: archiveKind})
	if err != nil {
		return 0, err
	}

	for _, n := range notes {
		if err := aw.Write(n); err != nil {
			return 0, err
		}
	}

	if err := aw.Close(); err != nil {
		return 0, err
	}

	return aw.Count(), nil
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Read notes from an archive written by export",
	Long: `Read notes from an archive written by export. Notes already present are
skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		in, err := cli.WrapInputFile(importFrom)
		if err != nil {
			return err
		}

		defer in.Close()

		return withStore(cmd, func(ctx context.Context, st *store.Store, _ *gridcode.Codec) error {
			n, err := runImport(ctx, st, in)
			if err != nil {
				return err
			}

			slog.Info("imported notes", "count", humanize.Comma(int64(n)))

			return nil
		})
	},
}

func runImport(ctx context.Context, st *store.Store, r io.Reader) (int, error) {
	ar, err := archive.NewReader(r)
	if err != nil {
		return 0, err
	}

	defer ar.Close()

	if kind := ar.Header().Kind; kind != archiveKind {
		return 0, fmt.Errorf("%w: found %q", ErrWrongArchive, kind)
	}

	total := 0
	pending := make([]store.Note, 0, importBatch)

	flush := func() error {
		n, err := st.Import(ctx, pending)
		total += n
		pending = pending[:0]

		return err
	}

	for n, err := range archive.Records[store.Note](ar) {
		if err != nil {
			return total, err
		}

		pending = append(pending, n)

		if len(pending) == importBatch {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}

	if err := flush(); err != nil {
		return total, err
	}

	return total, nil
}

func renderNotes(notes []store.Note, now time.Time) {
	for _, n := range notes {
		fmt.Fprintf(out, "%s  %s  %s  %s\n", n.ID, n.Code, humanize.RelTime(n.Created, now, "ago", "from now"), byline(n))
	}
}

func renderNear(near []store.NearNote, now time.Time) {
	for _, n := range near {
		fmt.Fprintf(out, "%8s  %s  %s  %s\n", gridcode.FormatDistance(n.Distance), n.Code,
			humanize.RelTime(n.Created, now, "ago", "from now"), byline(n.Note))
	}

	fmt.Fprintf(out, "%s notes\n", humanize.Comma(int64(len(near))))
}

func byline(n store.Note) string {
	if n.Author == "" {
		return n.Body
	}

	return n.Author + ": " + n.Body
}
