// Copyright 2025 walteh LLC
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


package opts

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootOpts_Operation(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "bundlepatch.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
root: ./extracted
options:
  channel: stable
  region: eu
files:
  - {name: index, path: index.js, from: a, to: b}
`), 0o644))

	ctx := zerolog.Nop().WithContext(context.Background())

	t.Run("config_values", func(t *testing.T) {
		o := &RootOpts{ConfigFile: configPath, Version: "1.0.0", Console: io.Discard}
		op, err := o.Operation(ctx)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "extracted"), op.Config.Root)
		assert.Equal(t, "stable", op.Values["channel"])
		assert.Equal(t, "1.0.0", op.Values[VersionOption], "version defaults to the tool version")
		assert.Equal(t, op.Config.Root, op.Selector.Root())
	})

	t.Run("flag_overrides", func(t *testing.T) {
		other := t.TempDir()
		o := &RootOpts{
			ConfigFile: configPath,
			Root:       other,
			Values:     map[string]string{"channel": "beta", VersionOption: "custom"},
			Version:    "1.0.0",
			Console:    io.Discard,
		}
		op, err := o.Operation(ctx)
		require.NoError(t, err)
		assert.Equal(t, other, op.Config.Root)
		assert.Equal(t, "beta", op.Values["channel"])
		assert.Equal(t, "eu", op.Values["region"])
		assert.Equal(t, "custom", op.Values[VersionOption])
	})

	t.Run("missing_config", func(t *testing.T) {
		o := &RootOpts{ConfigFile: filepath.Join(dir, "nope.yaml"), Console: io.Discard}
		_, err := o.Operation(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loading config")
	})
}
