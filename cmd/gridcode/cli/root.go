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

// Package cli holds the root command and the plumbing shared by the
// gridcode subcommands.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"m4o.io/gridcode"
	"m4o.io/gridcode/internal/store"
	"m4o.io/gridcode/model"
)

// RootCmd is the gridcode command; subcommands add themselves to it.
var RootCmd = &cobra.Command{
	Use:   "gridcode",
	Short: "Encode coordinates as grid codes and find what was left near them",
	Long: `gridcode turns latitude/longitude pairs into short XXXX-YYYY-ZZ codes
naming a cell of roughly ten metres, and keeps a local index of notes pinned
to those cells.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level, err := cmd.Flags().GetString("log-level")
		if err != nil {
			return err
		}

		return SetupLogging(level, os.Stderr)
	},
}

func init() {
	cfg := LoadConfig()

	flags := RootCmd.PersistentFlags()
	flags.String("db", cfg.DB, "path of the notes database ($"+EnvDB+")")
	flags.String("log-level", cfg.LogLevel, "log level: debug, info, warn or error ($"+EnvLogLevel+")")
	flags.String("range", cfg.Range, "out of range coordinates: reject, clamp or wrap ($"+EnvRange+")")
}

// Execute runs the root command with the process arguments and exits
// non-zero on failure.
func Execute() {
	if err := Run(os.Args[1:]); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// Run runs the root command with args.
func Run(args []string) error {
	RootCmd.SetArgs(PositionalArgs(RootCmd, args))

	return RootCmd.Execute()
}

// PositionalArgs rewrites args so that negative coordinates such as
// "-33.8568" or "-33.8568,151.2153" reach the command as arguments instead
// of being read as shorthand flags. Everything from the first negative
// coordinate on is placed after a "--" terminator, except flags, which are
// moved ahead of it along with their values.
func PositionalArgs(root *cobra.Command, args []string) []string {
	first := slices.IndexFunc(args, isNegativeNumber)
	if first < 0 || slices.Contains(args[:first], "--") {
		return args
	}

	cmd, _, err := root.Find(args[:first])
	if err != nil {
		return args
	}

	head := slices.Clone(args[:first])
	tail := make([]string, 0, len(args)-first)

loop:
	for i := first; i < len(args); i++ {
		arg := args[i]

		switch {
		case arg == "--":
			tail = append(tail, args[i+1:]...)
			break loop
		case arg == "-" || !strings.HasPrefix(arg, "-") || isNegativeNumber(arg):
			tail = append(tail, arg)
		default:
			head = append(head, arg)

			if takesValue(cmd, arg) && i+1 < len(args) {
				i++
				head = append(head, args[i])
			}
		}
	}

	return append(append(head, "--"), tail...)
}

// isNegativeNumber reports whether arg is a negative number, or a "lat,lng"
// pair whose latitude is negative.
func isNegativeNumber(arg string) bool {
	if !strings.HasPrefix(arg, "-") {
		return false
	}

	lat, _, _ := strings.Cut(arg, ",")
	_, err := strconv.ParseFloat(lat, 64)

	return err == nil
}

// takesValue reports whether the flag named by arg, as written on the command
// line, consumes the following argument as its value.
func takesValue(cmd *cobra.Command, arg string) bool {
	if strings.Contains(arg, "=") {
		return false
	}

	var f *pflag.Flag

	switch name, long := strings.CutPrefix(arg, "--"); {
	case long:
		if f = cmd.Flags().Lookup(name); f == nil {
			f = cmd.InheritedFlags().Lookup(name)
		}
	case len(arg) == 2:
		if f = cmd.Flags().ShorthandLookup(arg[1:]); f == nil {
			f = cmd.InheritedFlags().ShorthandLookup(arg[1:])
		}
	}

	return f != nil && f.NoOptDefVal == ""
}

// Codec returns a codec honouring the --range flag.
func Codec(cmd *cobra.Command) (*gridcode.Codec, error) {
	name, err := cmd.Flags().GetString("range")
	if err != nil {
		return nil, err
	}

	policy, ok := gridcode.ParseRangePolicy(name)
	if !ok {
		return nil, fmt.Errorf("unknown range policy %q", name)
	}

	return gridcode.NewCodec(gridcode.WithRangePolicy(policy)), nil
}

// OpenStore opens the notes database named by the --db flag, creating its
// directory if needed.
func OpenStore(cmd *cobra.Command, codec *gridcode.Codec) (*store.Store, error) {
	path, err := cmd.Flags().GetString("db")
	if err != nil {
		return nil, err
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	slog.Debug("opening notes", "db", path)

	return store.Open(path, store.WithCodec(codec))
}

// ParsePlace reads a place given either as a grid code, as "lat,lng", or as
// a latitude and a longitude in two arguments. It returns the coordinate and
// the number of arguments consumed.
func ParsePlace(codec *gridcode.Codec, args []string) (model.Coordinate, int, error) {
	if len(args) == 0 {
		return model.Coordinate{}, 0, fmt.Errorf("%w: no place given", model.ErrMalformedCoordinate)
	}

	if gridcode.IsValid(args[0]) {
		c, err := codec.Decode(args[0])

		return c, 1, err
	}

	if c, err := model.ParseCoordinate(args[0]); err == nil {
		return c, 1, nil
	}

	if len(args) < 2 {
		return model.Coordinate{}, 0, fmt.Errorf("%w: %q", model.ErrMalformedCoordinate, args[0])
	}

	c, err := model.ParseLatLng(args[0], args[1])
	if err != nil {
		return model.Coordinate{}, 0, err
	}

	return c, 2, nil
}
