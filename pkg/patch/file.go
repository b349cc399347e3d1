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
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/bundlepatch/pkg/match"
	"github.com/walteh/bundlepatch/pkg/text"
)

// 📌 FileRule rewrites one literal fragment in a single fixed file
type FileRule struct {
	Name string
	Path string // Relative to the extraction root
	From string
	To   string
}

// ApplyFile applies a FileRule under root. A missing file is fatal, and so is
// any read or write error.
func ApplyFile(ctx context.Context, root string, rule *FileRule) (Result, error) {
	logger := zerolog.Ctx(ctx)
	path := filepath.Join(root, rule.Path)

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		res := Result{
			Rule:    rule.Name,
			Path:    path,
			Outcome: OutcomeFatalMissing,
			Reason:  "the application version may not be supported",
			Err:     errors.WithDetails(ErrRequiredFileMissing, "path", path),
		}
		return res, errors.Errorf("%s: %w", rule.Name, res.Err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Result{Rule: rule.Name, Path: path, Outcome: OutcomeFailed, Err: err}, errors.Errorf("reading %s: %w", path, err)
	}
	content := string(data)

	if !match.ContainsText(content, rule.From) {
		if match.ContainsText(content, rule.To) {
			return Result{Rule: rule.Name, Path: path, Outcome: OutcomeAlreadyPatched}, nil
		}
		logger.Warn().Str("rule", rule.Name).Str("file", path).Msg("fragment not present, nothing to rewrite")
		return skipped(rule.Name, path, "fragment not present", nil), nil
	}

	result, err := text.ReplaceExact(content, rule.From, rule.To)
	if err != nil {
		return Result{Rule: rule.Name, Path: path, Outcome: OutcomeFailed, Err: err}, errors.Errorf("rewriting %s: %w", path, err)
	}

	if err := writeFile(path, []byte(result.ModifiedContent)); err != nil {
		return Result{Rule: rule.Name, Path: path, Outcome: OutcomeFailed, Err: err}, err
	}

	return Result{
		Rule:         rule.Name,
		Path:         path,
		Outcome:      OutcomePatched,
		Replacements: result.ReplacementCount,
	}, nil
}
