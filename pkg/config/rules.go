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


package config

import (
	"github.com/walteh/bundlepatch/pkg/patch"
	"github.com/walteh/bundlepatch/pkg/text"
)

func (t Template) toTemplate() text.Template {
	return text.Template{Text: t.Text, Params: t.Params}
}

// ToRule converts the config entry into a patch rule.
func (r ReplaceRule) ToRule() *patch.ReplaceRule {
	return &patch.ReplaceRule{
		Name:        r.Name,
		Trigger:     r.Trigger,
		Target:      r.Target,
		Replacement: r.Replacement.toTemplate(),
		Scan:        patch.ScanMode(r.Scan),
	}
}

// ToRule converts the config entry into a patch rule.
func (r PrependRule) ToRule() *patch.PrependRule {
	return &patch.PrependRule{
		Name:    r.Name,
		Trigger: r.Trigger,
		Snippet: r.Snippet.toTemplate(),
		Scan:    patch.ScanMode(r.Scan),
	}
}

// ToRule converts the config entry into a patch rule.
func (r InsertRule) ToRule() *patch.InsertRule {
	return &patch.InsertRule{
		Name:   r.Name,
		Anchor: r.Anchor,
		Insert: r.Insert,
		Scan:   patch.ScanMode(r.Scan),
	}
}

// ToRule converts the config entry into a patch rule.
func (r FileRule) ToRule() *patch.FileRule {
	return &patch.FileRule{Name: r.Name, Path: r.Path, From: r.From, To: r.To}
}

// ToRule converts the config entry into a patch rule. An empty dir falls back to root.
func (r BinaryRule) ToRule(root string) (*patch.BinaryRule, error) {
	return r.toRule(root)
}

func (r BinaryRule) toRule(root string) (*patch.BinaryRule, error) {
	original, err := decodeMarker(r.Name, "original", r.Original)
	if err != nil {
		return nil, err
	}
	patched, err := decodeMarker(r.Name, "patched", r.Patched)
	if err != nil {
		return nil, err
	}

	dir := r.Dir
	if dir == "" {
		dir = root
	}

	return &patch.BinaryRule{
		Name:     r.Name,
		Dir:      dir,
		Target:   r.Target,
		Backup:   r.Backup,
		Original: original,
		Patched:  patched,
	}, nil
}
