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
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/bundlepatch/pkg/match"
	"github.com/walteh/bundlepatch/pkg/text"
)

// Options maps option names to the values substituted into templates.
type Options map[string]string

// 🧩 TextRule is a rule applied to a set of candidate text files
type TextRule interface {
	// RuleName identifies the rule in logs and results
	RuleName() string
	// Mode says whether the scan stops at the first hit
	Mode() ScanMode
	// Apply runs the rule against a single file
	Apply(ctx context.Context, path string, opts Options) Result
}

// 🔄 ReplaceRule swaps an exact target for rendered template text in the first
// file that contains Trigger
type ReplaceRule struct {
	Name        string
	Trigger     string        // Substring that marks the right file
	Target      string        // Exact text that must be present and is rewritten
	Replacement text.Template // Text written in place of Target
	Scan        ScanMode
}

// ⬆️ PrependRule puts rendered template text at the start of a file
type PrependRule struct {
	Name    string
	Trigger string // Optional; when empty every readable candidate qualifies
	Snippet text.Template
	Scan    ScanMode
}

// ➕ InsertRule inserts literal text right after an anchor
type InsertRule struct {
	Name   string
	Anchor string // Doubles as the trigger
	Insert string
	Scan   ScanMode
}

func (r *ReplaceRule) RuleName() string { return r.Name }
func (r *PrependRule) RuleName() string { return r.Name }
func (r *InsertRule) RuleName() string  { return r.Name }

func (r *ReplaceRule) Mode() ScanMode { return modeOr(r.Scan, ScanFirst) }
func (r *PrependRule) Mode() ScanMode { return modeOr(r.Scan, ScanFirst) }
func (r *InsertRule) Mode() ScanMode  { return modeOr(r.Scan, ScanAll) }

func modeOr(m, def ScanMode) ScanMode {
	if m == "" {
		return def
	}
	return m
}

// Apply implements TextRule. A file with the trigger but without the exact
// target yields OutcomeFatalMismatch and is left untouched.
func (r *ReplaceRule) Apply(ctx context.Context, path string, opts Options) Result {
	content, res, ok := readText(r.Name, path)
	if !ok {
		return res
	}

	if !match.ContainsText(content, r.Trigger) {
		return skipped(r.Name, path, "trigger not present", nil)
	}

	replacement := r.Replacement.Render(opts)
	result, err := text.ReplaceExact(content, r.Target, replacement)
	if err != nil {
		if replacement != "" && match.ContainsText(content, replacement) {
			return Result{Rule: r.Name, Path: path, Outcome: OutcomeAlreadyPatched}
		}
		return Result{
			Rule:    r.Name,
			Path:    path,
			Outcome: OutcomeFatalMismatch,
			Reason:  "the application may have been updated",
			Err:     errors.WrapWith(err, ErrFormatChanged),
		}
	}

	return write(r.Name, path, result)
}

// Apply implements TextRule.
func (r *PrependRule) Apply(ctx context.Context, path string, opts Options) Result {
	content, res, ok := readText(r.Name, path)
	if !ok {
		return res
	}

	if r.Trigger != "" && !match.ContainsText(content, r.Trigger) {
		return skipped(r.Name, path, "trigger not present", nil)
	}

	result := text.Prepend(content, r.Snippet.Render(opts))
	if !result.WasModified {
		return Result{Rule: r.Name, Path: path, Outcome: OutcomeAlreadyPatched}
	}

	return write(r.Name, path, result)
}

// Apply implements TextRule.
func (r *InsertRule) Apply(ctx context.Context, path string, opts Options) Result {
	content, res, ok := readText(r.Name, path)
	if !ok {
		return res
	}

	if !match.ContainsText(content, r.Anchor) {
		return skipped(r.Name, path, "anchor not present", nil)
	}

	result := text.InsertAfter(content, r.Anchor, r.Insert)
	if !result.WasModified {
		return Result{Rule: r.Name, Path: path, Outcome: OutcomeAlreadyPatched}
	}

	return write(r.Name, path, result)
}

// 🚀 ApplyText runs a text rule over the candidates in order.
func ApplyText(ctx context.Context, rule TextRule, candidates []string, opts Options) (*Report, error) {
	return Scan(ctx, rule.Mode(), candidates, func(ctx context.Context, path string) Result {
		return rule.Apply(ctx, path, opts)
	})
}

func readText(rule, path string) (string, Result, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", skipped(rule, path, "reading candidate", errors.Errorf("reading %s: %w", path, err)), false
	}
	if !utf8.Valid(data) {
		return "", skipped(rule, path, "reading candidate", errors.Errorf("%s is not valid UTF-8", path)), false
	}
	return string(data), Result{}, true
}

func write(rule, path string, result *text.Result) Result {
	if err := writeFile(path, []byte(result.ModifiedContent)); err != nil {
		return skipped(rule, path, "writing candidate", err)
	}
	return Result{
		Rule:         rule,
		Path:         path,
		Outcome:      OutcomePatched,
		Replacements: result.ReplacementCount,
	}
}

// writeFile overwrites path in place, keeping its permissions.
func writeFile(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return errors.Errorf("writing %s: %w", path, err)
	}
	return nil
}
