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


package selector

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(f), 0o644))
	}
	return root
}

func TestSelector_Select(t *testing.T) {
	root := setupTree(t,
		"app-b.js",
		"app-a.js",
		"vendor/vendor-1.js",
		"static/app-c.js",
		"index.js",
	)
	require.NoError(t, os.Mkdir(filepath.Join(root, "app-dir.js"), 0o755))

	tests := []struct {
		name     string
		patterns []string
		want     []string
		wantErr  string
	}{
		{
			name:     "top_level_sorted",
			patterns: []string{"app-*.js"},
			want:     []string{"app-a.js", "app-b.js"},
		},
		{
			name:     "recursive",
			patterns: []string{"**/app-*.js"},
			want:     []string{"app-a.js", "app-b.js", "static/app-c.js"},
		},
		{
			name:     "pattern_order_and_dedup",
			patterns: []string{"vendor/*.js", "app-b.js", "app-*.js"},
			want:     []string{"vendor/vendor-1.js", "app-b.js", "app-a.js"},
		},
		{
			name:     "no_match",
			patterns: []string{"*.css"},
		},
		{
			name:     "invalid_pattern",
			patterns: []string{"[a-"},
			wantErr:  "invalid pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(root).Select(context.Background(), tt.patterns...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			var want []string
			for _, w := range tt.want {
				want = append(want, filepath.Join(root, filepath.FromSlash(w)))
			}
			assert.Equal(t, want, got)
		})
	}
}
