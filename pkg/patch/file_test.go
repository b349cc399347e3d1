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


package patch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func devModeRule() *FileRule {
	return &FileRule{
		Name: "index",
		Path: "index.js",
		From: "if(cfg.debug)",
		To:   "if(process.argv.includes('--debug'))",
	}
}

func TestApplyFile(t *testing.T) {
	tests := []struct {
		name        string
		content     *string
		wantOutcome Outcome
		wantErr     error
		want        string
	}{
		{
			name:        "rewrites_fragment",
			content:     ptr("a();if(cfg.debug)open();"),
			wantOutcome: OutcomePatched,
			want:        "a();if(process.argv.includes('--debug'))open();",
		},
		{
			name:        "already_rewritten",
			content:     ptr("a();if(process.argv.includes('--debug'))open();"),
			wantOutcome: OutcomeAlreadyPatched,
			want:        "a();if(process.argv.includes('--debug'))open();",
		},
		{
			name:        "fragment_absent",
			content:     ptr("a();"),
			wantOutcome: OutcomeSkipped,
			want:        "a();",
		},
		{
			name:        "file_missing",
			wantOutcome: OutcomeFatalMissing,
			wantErr:     ErrRequiredFileMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			path := filepath.Join(root, "index.js")
			if tt.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.content), 0o644))
			}

			res, err := ApplyFile(testContext(), root, devModeRule())
			assert.Equal(t, tt.wantOutcome, res.Outcome)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, readFile(t, path))
		})
	}
}

func TestApplyFile_DirectoryIsMissing(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "index.js"), 0o755))

	res, err := ApplyFile(testContext(), root, devModeRule())
	require.Error(t, err)
	assert.Equal(t, OutcomeFatalMissing, res.Outcome)
}

func ptr(s string) *string { return &s }
