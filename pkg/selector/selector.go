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


// Package selector enumerates candidate files under an extraction root.
package selector

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📂 Selector yields candidate files for a set of glob patterns
type Selector struct {
	root string
	fsys fs.FS
}

// 🏭 New creates a selector rooted at root
func New(root string) *Selector {
	return &Selector{root: root, fsys: os.DirFS(root)}
}

// Root returns the directory patterns are resolved against.
func (s *Selector) Root() string {
	return s.root
}

// 🔍 Select returns the regular files matching any of patterns. Matches keep
// pattern order, then directory listing order within a pattern. A file
// matched by more than one pattern is returned once.
func (s *Selector) Select(ctx context.Context, patterns ...string) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	seen := map[string]bool{}
	var out []string
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid pattern %q", pattern)
		}

		matches, err := doublestar.Glob(s.fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("globbing %q: %w", pattern, err)
		}

		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true
			out = append(out, filepath.Join(s.root, filepath.FromSlash(m)))
		}
	}

	logger.Debug().Strs("patterns", patterns).Int("matches", len(out)).Msg("selected candidates")
	return out, nil
}
