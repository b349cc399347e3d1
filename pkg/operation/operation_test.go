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


package operation

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/bundlepatch/pkg/config"
	"github.com/walteh/bundlepatch/pkg/log"
	"github.com/walteh/bundlepatch/pkg/patch"
	"github.com/walteh/bundlepatch/pkg/selector"
)

const (
	original = "43484b3d31313031" // CHK=1101
	patched  = "43484b3d30313031" // CHK=0101
)

func setupRoot(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func read(t *testing.T, root, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, name))
	require.NoError(t, err)
	return string(data)
}

func testConfig(root string) *config.Config {
	return &config.Config{
		Root:    root,
		Options: map[string]string{"channel": "beta"},
		Bundles: []config.Bundle{
			{Name: "app", Patterns: []string{"app-*.js"}},
			{Name: "vendor", Patterns: []string{"vendor-*.js"}},
		},
		Replace: []config.ReplaceRule{{
			Name:        "fetch",
			Bundle:      "app",
			Trigger:     `headers.get("Accept")`,
			Target:      `return r.headers.get("Accept")?a:b`,
			Replacement: config.Template{Text: `return wrap(r,"{channel}")`, Params: []string{"channel"}},
		}},
		Insert: []config.InsertRule{{
			Name:   "beta",
			Bundle: "app",
			Anchor: "get isBeta(){",
			Insert: "return true;",
		}},
		Prepend: []config.PrependRule{{
			Name:    "banner",
			Bundle:  "vendor",
			Snippet: config.Template{Text: "/*{version}*/", Params: []string{"version"}},
		}},
		Files: []config.FileRule{{
			Name: "index",
			Path: "index.js",
			From: "if(cfg.debug)",
			To:   "if(process.argv.includes('--debug'))",
		}},
		Binaries: []config.BinaryRule{{
			Name:     "checksum",
			Target:   "tool.bin",
			Original: original,
			Patched:  patched,
		}},
	}
}

func testFiles() map[string]string {
	return map[string]string{
		"index.js":    "boot();if(cfg.debug)devtools();",
		"app-a.js":    "class A{get isBeta(){return false;}}",
		"app-b.js":    `async function f(r){return r.headers.get("Accept")?a:b}`,
		"app-c.js":    `async function g(r){return r.headers.get("Accept")?a:b}`,
		"vendor-1.js": "lib();",
		"tool.bin":    "MZ..CHK=1101..",
	}
}

func newApply(t *testing.T, cfg *config.Config) (*ApplyOperation, context.Context) {
	t.Helper()
	values := patch.Options{"version": "0.3.0"}
	for k, v := range cfg.Options {
		values[k] = v
	}
	op, err := NewApplyOperation(Options{
		Config:   cfg,
		Selector: selector.New(cfg.Root),
		Logger:   log.NewWithZerolog(io.Discard, zerolog.Nop()),
		Values:   values,
	})
	require.NoError(t, err)
	return op, zerolog.Nop().WithContext(context.Background())
}

func TestApplyOperation(t *testing.T) {
	root := setupRoot(t, testFiles())
	cfg := testConfig(root)
	op, ctx := newApply(t, cfg)

	require.NoError(t, NewRunner().Run(ctx, op))

	assert.Equal(t, "boot();if(process.argv.includes('--debug'))devtools();", read(t, root, "index.js"))
	assert.Equal(t, "class A{get isBeta(){return true;return false;}}", read(t, root, "app-a.js"))
	assert.Equal(t, `async function f(r){return wrap(r,"beta")}`, read(t, root, "app-b.js"))
	assert.Equal(t, `async function g(r){return r.headers.get("Accept")?a:b}`, read(t, root, "app-c.js"), "only the first match is patched")
	assert.Equal(t, "/*0.3.0*/lib();", read(t, root, "vendor-1.js"))
	assert.Equal(t, "MZ..CHK=0101..", read(t, root, "tool.bin"))
	assert.Equal(t, "MZ..CHK=1101..", read(t, root, "tool.bin.old"))

	summary := op.Summary()
	assert.Equal(t, 5, summary.Patched)
	assert.Equal(t, 0, summary.Failed)
	assert.Empty(t, summary.Unmatched)

	assert.Equal(t, []log.SummaryRow{
		{Rule: "index", Kind: "file", Outcome: "patched", Files: 1},
		{Rule: "fetch", Kind: "replace", Outcome: "patched", Files: 1},
		{Rule: "beta", Kind: "insert", Outcome: "patched", Files: 1},
		{Rule: "banner", Kind: "prepend", Outcome: "patched", Files: 1},
		{Rule: "checksum", Kind: "binary", Outcome: "patched", Files: 1},
	}, op.Rows())
}

func TestApplyOperation_Rerun(t *testing.T) {
	root := setupRoot(t, testFiles())
	cfg := testConfig(root)
	op, ctx := newApply(t, cfg)

	require.NoError(t, op.Execute(ctx))
	first := map[string]string{}
	for name := range testFiles() {
		first[name] = read(t, root, name)
	}

	// app-b.js no longer has the trigger, app-c.js still does and gets patched
	require.NoError(t, op.Execute(ctx))
	for name, content := range first {
		if name == "app-c.js" {
			continue
		}
		assert.Equal(t, content, read(t, root, name), "%s should be unchanged on rerun", name)
	}
	assert.Equal(t, 0, op.Summary().Failed)
	assert.Equal(t, "MZ..CHK=1101..", read(t, root, "tool.bin.old"), "backup stays pristine")
}

func TestApplyOperation_FormatChanged(t *testing.T) {
	files := testFiles()
	files["app-a.js"] = `if(r.headers.get("Accept"))return 1;`
	root := setupRoot(t, files)
	op, ctx := newApply(t, testConfig(root))

	err := op.Execute(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, patch.ErrFormatChanged))
	assert.Equal(t, files["app-a.js"], read(t, root, "app-a.js"))
	assert.Equal(t, files["app-b.js"], read(t, root, "app-b.js"), "scan stops at the mismatch")
	assert.Equal(t, files["tool.bin"], read(t, root, "tool.bin"), "later rules do not run")
}

func TestApplyOperation_MissingIndex(t *testing.T) {
	files := testFiles()
	delete(files, "index.js")
	root := setupRoot(t, files)
	op, ctx := newApply(t, testConfig(root))

	err := op.Execute(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, patch.ErrRequiredFileMissing))
	assert.Equal(t, files["app-a.js"], read(t, root, "app-a.js"), "nothing runs after the missing file")
}

func TestApplyOperation_UnknownBinary(t *testing.T) {
	files := testFiles()
	files["tool.bin"] = "MZ..some other build.."
	root := setupRoot(t, files)
	op, ctx := newApply(t, testConfig(root))

	err := op.Execute(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPatchFailed))
	assert.Equal(t, 1, op.Summary().Failed)
	assert.Equal(t, files["tool.bin"], read(t, root, "tool.bin"))
	assert.Equal(t, "/*0.3.0*/lib();", read(t, root, "vendor-1.js"), "text rules still ran")
}

func TestApplyOperation_Unmatched(t *testing.T) {
	files := testFiles()
	files["app-b.js"] = "nothing"
	files["app-c.js"] = "nothing"
	root := setupRoot(t, files)
	op, ctx := newApply(t, testConfig(root))

	require.NoError(t, op.Execute(ctx))
	assert.Equal(t, []string{"fetch"}, op.Summary().Unmatched)
}

func TestRestoreOperation(t *testing.T) {
	root := setupRoot(t, testFiles())
	cfg := testConfig(root)
	apply, ctx := newApply(t, cfg)

	restoreOp, err := NewRestoreOperation(Options{
		Config:   cfg,
		Selector: selector.New(root),
		Logger:   log.NewWithZerolog(io.Discard, zerolog.Nop()),
	})
	require.NoError(t, err)

	require.NoError(t, restoreOp.Execute(ctx))
	assert.Empty(t, restoreOp.Restored(), "no backup yet")

	require.NoError(t, NewRunner().Run(ctx, apply, restoreOp))
	assert.Equal(t, []string{"checksum"}, restoreOp.Restored())
	assert.Equal(t, "MZ..CHK=1101..", read(t, root, "tool.bin"))
}

func TestNewApplyOperation_Validation(t *testing.T) {
	_, err := NewApplyOperation(Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config is required")

	_, err = NewRestoreOperation(Options{Config: &config.Config{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "selector is required")
}
