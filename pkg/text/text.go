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


// Package text holds the pure string transforms behind the text patches.
// Nothing in here touches the filesystem.
package text

import (
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/bundlepatch/pkg/match"
)

// ErrTargetMissing is returned when the exact text a rule expects to rewrite is absent.
var ErrTargetMissing = errors.Base("exact target text not present")

// 📝 Template is replacement text with named {param} placeholders
type Template struct {
	Text   string   // Raw template text
	Params []string // Placeholder names substituted on Render
}

// 🎨 Render substitutes each declared {param} with its value from opts.
// A param with no value becomes the empty string.
func (t Template) Render(opts map[string]string) string {
	out := t.Text
	for _, p := range t.Params {
		out = strings.ReplaceAll(out, "{"+p+"}", opts[p])
	}
	return out
}

// 📊 Result describes what a transform did to a buffer
type Result struct {
	WasModified      bool   // Whether the content changed
	ReplacementCount int    // Number of spots rewritten
	OriginalContent  string // Content before the transform
	ModifiedContent  string // Content after the transform
}

func unchanged(content string) *Result {
	return &Result{OriginalContent: content, ModifiedContent: content}
}

// 🔄 ReplaceExact replaces every occurrence of target with replacement.
// It returns ErrTargetMissing when target does not occur at all.
func ReplaceExact(content, target, replacement string) (*Result, error) {
	count := strings.Count(content, target)
	if target == "" || count == 0 {
		return nil, errors.WithDetails(ErrTargetMissing, "target", target)
	}

	modified := strings.ReplaceAll(content, target, replacement)
	return &Result{
		WasModified:      modified != content,
		ReplacementCount: count,
		OriginalContent:  content,
		ModifiedContent:  modified,
	}, nil
}

// ⬆️ Prepend puts snippet in front of content unless content already starts with it.
func Prepend(content, snippet string) *Result {
	if snippet == "" || strings.HasPrefix(content, snippet) {
		return unchanged(content)
	}
	return &Result{
		WasModified:      true,
		ReplacementCount: 1,
		OriginalContent:  content,
		ModifiedContent:  snippet + content,
	}
}

// ➕ InsertAfter inserts insert directly after every occurrence of anchor.
// Occurrences already followed by insert are left alone, so applying it twice
// gives the same text as applying it once.
func InsertAfter(content, anchor, insert string) *Result {
	if match.IndexText(content, anchor) == match.NotFound || insert == "" {
		return unchanged(content)
	}

	parts := strings.Split(content, anchor)
	var b strings.Builder
	b.Grow(len(content) + len(parts)*len(insert))
	b.WriteString(parts[0])

	count := 0
	for _, part := range parts[1:] {
		b.WriteString(anchor)
		if !strings.HasPrefix(part, insert) {
			b.WriteString(insert)
			count++
		}
		b.WriteString(part)
	}

	if count == 0 {
		return unchanged(content)
	}
	return &Result{
		WasModified:      true,
		ReplacementCount: count,
		OriginalContent:  content,
		ModifiedContent:  b.String(),
	}
}
