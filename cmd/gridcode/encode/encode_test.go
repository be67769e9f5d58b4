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
	"bytes"
	"encoding/base64"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/gridcode"
	"m4o.io/gridcode/cmd/gridcode/cli"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()

	buf := &bytes.Buffer{}
	saved := out

	t.Cleanup(func() { out = saved })

	out = buf

	return buf
}

func TestRunEncode(t *testing.T) {
	codec := gridcode.NewCodec()

	tests := []struct {
		args []string
		want gridcode.GridCode
	}{
		{[]string{"28.6139", "77.2090"}, "N9NB-GPMJ-NC"},
		{[]string{"28.6139,77.2090"}, "N9NB-GPMJ-NC"},
		{[]string{"-33.8568", "151.2153"}, "B6VM-9GKM-JJ"},
		{[]string{"N9NB-GPMJ-NC"}, "N9NB-GPMJ-NC"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			code, err := runEncode(codec, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestRunEncodeErrors(t *testing.T) {
	codec := gridcode.NewCodec()

	_, err := runEncode(codec, []string{"95", "0"})
	assert.ErrorIs(t, err, gridcode.ErrOutOfRange)

	_, err = runEncode(codec, []string{"28.6139,77.2090", "extra"})
	assert.Error(t, err)

	code, err := runEncode(gridcode.NewCodec(gridcode.WithRangePolicy(gridcode.ClampOutOfRange)), []string{"95", "200"})
	require.NoError(t, err)
	assert.Equal(t, gridcode.GridCode("Z85S-XVN3-KD"), code)
}

func TestRenderJSON(t *testing.T) {
	buf := capture(t)
	codec := gridcode.NewCodec()

	require.NoError(t, renderJSON(codec, "N9NB-GPMJ-NC"))

	p, err := codec.ParsePayload(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, gridcode.GridCode("N9NB-GPMJ-NC"), p.Code)
	assert.Contains(t, buf.String(), `"tag":"herenow"`)
}

func TestRenderBinary(t *testing.T) {
	buf := capture(t)
	codec := gridcode.NewCodec()

	require.NoError(t, renderBinary(codec, "N9NB-GPMJ-NC"))

	b, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(buf.String()))
	require.NoError(t, err)

	var p gridcode.Payload
	require.NoError(t, p.UnmarshalBinary(b))
	require.NoError(t, codec.VerifyPayload(&p))
	assert.Equal(t, gridcode.GridCode("N9NB-GPMJ-NC"), p.Code)
}

func TestEncodeCommand(t *testing.T) {
	saved := slog.Default()
	t.Cleanup(func() { slog.SetDefault(saved) })

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"encode", "28.6139", "77.2090"}, "N9NB-GPMJ-NC"},
		{[]string{"encode", "-33.8568", "151.2153"}, "B6VM-9GKM-JJ"},
		{[]string{"encode", "-33.8568,151.2153"}, "B6VM-9GKM-JJ"},
		{[]string{"encode", "40.6892", "-74.0445"}, "Q35X-ZK5C-9N"},
		{[]string{"encode", "--range", "clamp", "-95", "-200"}, "2222-2222-22"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args[1:], " "), func(t *testing.T) {
			buf := capture(t)

			require.NoError(t, cli.Run(tt.args))
			assert.Equal(t, tt.want+"\n", buf.String())
		})
	}

	t.Run("json after coordinates", func(t *testing.T) {
		buf := capture(t)

		t.Cleanup(func() { _ = encodeCmd.Flags().Set("json", "false") })

		require.NoError(t, cli.Run([]string{"encode", "-33.8568", "151.2153", "--json", "--range", "reject"}))

		p, err := gridcode.NewCodec().ParsePayload(buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, gridcode.GridCode("B6VM-9GKM-JJ"), p.Code)
	})
}
