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


package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
root = "./extracted"

bundle "app" {
  patterns = ["app-*.js"]
}

insert "beta" {
  bundle = "app"
  anchor = "get isBeta(){"
  insert = "return true;"
}

prepend "banner" {
  bundle  = "app"
  snippet {
    text   = "/*{channel}*/"
    params = ["channel"]
  }
}

binary "checksum" {
  target   = "tool.bin"
  original = "43484b3d31313031"
  patched  = "43484b3d30313031"
}
`

func setup(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	root := filepath.Join(dir, "extracted")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "app-a.js"), []byte("get isBeta(){return false;}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "tool.bin"), []byte("..CHK=1101.."), 0o644))

	configPath := filepath.Join(dir, "bundlepatch.hcl")
	require.NoError(t, os.WriteFile(configPath, []byte(testConfig), 0o644), "writing config file")
	return configPath, root
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	out := &bytes.Buffer{}
	cmd := newRootCmd(out)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(zerolog.Nop().WithContext(context.Background()))
	return out.String(), err
}

func TestApplyCommand(t *testing.T) {
	configPath, root := setup(t)

	out, err := run(t, "apply", "--config", configPath, "--option", "channel=beta")
	require.NoError(t, err, "apply should succeed")
	assert.Contains(t, out, "bundlepatch • applying patches")

	got, err := os.ReadFile(filepath.Join(root, "app-a.js"))
	require.NoError(t, err)
	assert.Equal(t, "/*beta*/get isBeta(){return true;return false;}", string(got))

	bin, err := os.ReadFile(filepath.Join(root, "tool.bin"))
	require.NoError(t, err)
	assert.Equal(t, "..CHK=0101..", string(bin))

	_, err = run(t, "restore", "-c", configPath)
	require.NoError(t, err, "restore should succeed")
	bin, err = os.ReadFile(filepath.Join(root, "tool.bin"))
	require.NoError(t, err)
	assert.Equal(t, "..CHK=1101..", string(bin))
}

func TestApplyCommand_RootOverride(t *testing.T) {
	configPath, root := setup(t)
	other := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(other, "tool.bin"), []byte("unrelated"), 0o644))

	_, err := run(t, "apply", "-c", configPath, "--root", other)
	require.Error(t, err, "binary in the override root has no marker")

	got, err := os.ReadFile(filepath.Join(root, "app-a.js"))
	require.NoError(t, err)
	assert.Equal(t, "get isBeta(){return false;}", string(got), "configured root must not be touched")
}

func TestApplyCommand_MissingConfig(t *testing.T) {
	_, err := run(t, "apply", "-c", filepath.Join(t.TempDir(), "none.hcl"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "bundlepatch version info")
	assert.NotEmpty(t, GetVersionInfo().Version)
}
