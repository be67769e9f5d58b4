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

package encode

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"m4o.io/gridcode"
	"m4o.io/gridcode/cmd/gridcode/cli"
)

var out io.Writer = os.Stdout

func init() {
	cli.RootCmd.AddCommand(encodeCmd)

	flags := encodeCmd.Flags()
	flags.BoolP("json", "j", false, "print the QR payload as JSON")
	flags.BoolP("binary", "b", false, "print the compact QR payload, base64 encoded")
}

var encodeCmd = &cobra.Command{
	Use:   "encode <lat> <lng> | encode <lat,lng>",
	Short: "Print the grid code of a coordinate",
	Long: `Print the grid code of a coordinate. With --json or --binary the QR
payload embedding the code and the centre of its cell is printed instead.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		codec, err := cli.Codec(cmd)
		if err != nil {
			return err
		}

		flags := cmd.Flags()

		jsonfmt, err := flags.GetBool("json")
		if err != nil {
			return err
		}

		binary, err := flags.GetBool("binary")
		if err != nil {
			return err
		}

		code, err := runEncode(codec, args)
		if err != nil {
			return err
		}

		switch {
		case jsonfmt:
			return renderJSON(codec, code)
		case binary:
			return renderBinary(codec, code)
		default:
			fmt.Fprintln(out, code)
			return nil
		}
	},
}

func runEncode(codec *gridcode.Codec, args []string) (gridcode.GridCode, error) {
	c, n, err := cli.ParsePlace(codec, args)
	if err != nil {
		return "", err
	}

	if n != len(args) {
		return "", fmt.Errorf("unexpected argument %q", args[n])
	}

	return codec.Encode(c)
}

func renderJSON(codec *gridcode.Codec, code gridcode.GridCode) error {
	p, err := codec.NewPayload(code.String())
	if err != nil {
		return err
	}

	b, err := json.Marshal(p)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, string(b))

	return nil
}

func renderBinary(codec *gridcode.Codec, code gridcode.GridCode) error {
	p, err := codec.NewPayload(code.String())
	if err != nil {
		return err
	}

	b, err := p.MarshalBinary()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, base64.RawURLEncoding.EncodeToString(b))

	return nil
}
