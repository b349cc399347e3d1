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
	"context"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📝 Template is replacement text given inline or loaded from a file
type Template struct {
	Text   string   `json:"text,omitempty" yaml:"text,omitempty"`     // Inline template text
	File   string   `json:"file,omitempty" yaml:"file,omitempty"`     // Template file, relative to the config file
	Params []string `json:"params,omitempty" yaml:"params,omitempty"` // Placeholder names
}

// 📦 Bundle names a set of glob patterns under the root
type Bundle struct {
	Name     string   `json:"name" yaml:"name"`
	Patterns []string `json:"patterns" yaml:"patterns"`
}

// 🔄 ReplaceRule swaps an exact target in the first file holding the trigger
type ReplaceRule struct {
	Name        string   `json:"name" yaml:"name"`
	Bundle      string   `json:"bundle" yaml:"bundle"`
	Trigger     string   `json:"trigger" yaml:"trigger"`
	Target      string   `json:"target" yaml:"target"`
	Replacement Template `json:"replacement" yaml:"replacement"`
	Scan        string   `json:"scan,omitempty" yaml:"scan,omitempty"`
}

// ⬆️ PrependRule puts a snippet at the start of a bundle file
type PrependRule struct {
	Name    string   `json:"name" yaml:"name"`
	Bundle  string   `json:"bundle" yaml:"bundle"`
	Trigger string   `json:"trigger,omitempty" yaml:"trigger,omitempty"`
	Snippet Template `json:"snippet" yaml:"snippet"`
	Scan    string   `json:"scan,omitempty" yaml:"scan,omitempty"`
}

// ➕ InsertRule inserts literal text right after an anchor
type InsertRule struct {
	Name   string `json:"name" yaml:"name"`
	Bundle string `json:"bundle" yaml:"bundle"`
	Anchor string `json:"anchor" yaml:"anchor"`
	Insert string `json:"insert" yaml:"insert"`
	Scan   string `json:"scan,omitempty" yaml:"scan,omitempty"`
}

// 📌 FileRule rewrites a fragment in one fixed file
type FileRule struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// 🔧 BinaryRule swaps a hex encoded marker in a binary
type BinaryRule struct {
	Name     string `json:"name" yaml:"name"`
	Dir      string `json:"dir,omitempty" yaml:"dir,omitempty"`
	Target   string `json:"target" yaml:"target"`
	Backup   string `json:"backup,omitempty" yaml:"backup,omitempty"`
	Original string `json:"original" yaml:"original"`
	Patched  string `json:"patched" yaml:"patched"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Root     string            `json:"root" yaml:"root"`
	Options  map[string]string `json:"options,omitempty" yaml:"options,omitempty"`
	Bundles  []Bundle          `json:"bundles,omitempty" yaml:"bundles,omitempty"`
	Replace  []ReplaceRule     `json:"replace,omitempty" yaml:"replace,omitempty"`
	Prepend  []PrependRule     `json:"prepend,omitempty" yaml:"prepend,omitempty"`
	Insert   []InsertRule      `json:"insert,omitempty" yaml:"insert,omitempty"`
	Files    []FileRule        `json:"files,omitempty" yaml:"files,omitempty"`
	Binaries []BinaryRule      `json:"binaries,omitempty" yaml:"binaries,omitempty"`

	location string
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	cfg.location = path
	if err := cfg.resolve(filepath.Dir(path)); err != nil {
		return nil, errors.Errorf("resolving config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Location returns the file the config was loaded from.
func (cfg *Config) Location() string {
	return cfg.location
}

// resolve makes paths absolute against dir and reads template files.
func (cfg *Config) resolve(dir string) error {
	cfg.Root = resolvePath(dir, cfg.Root)
	for i := range cfg.Binaries {
		cfg.Binaries[i].Dir = resolvePath(dir, cfg.Binaries[i].Dir)
	}

	load := func(t *Template) error {
		if t.File == "" {
			return nil
		}
		data, err := os.ReadFile(resolvePath(dir, t.File))
		if err != nil {
			return errors.Errorf("reading template %s: %w", t.File, err)
		}
		t.Text = string(data)
		return nil
	}

	for i := range cfg.Replace {
		if err := load(&cfg.Replace[i].Replacement); err != nil {
			return errors.Errorf("replace %q: %w", cfg.Replace[i].Name, err)
		}
	}
	for i := range cfg.Prepend {
		if err := load(&cfg.Prepend[i].Snippet); err != nil {
			return errors.Errorf("prepend %q: %w", cfg.Prepend[i].Name, err)
		}
	}
	return nil
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if cfg.Root == "" {
		return errors.Errorf("root is required")
	}
	if cfg.RuleCount() == 0 {
		return errors.Errorf("at least one rule is required")
	}

	bundles := map[string]bool{}
	for _, b := range cfg.Bundles {
		if b.Name == "" {
			return errors.Errorf("bundle: name is required")
		}
		if bundles[b.Name] {
			return errors.Errorf("bundle %q: defined twice", b.Name)
		}
		if len(b.Patterns) == 0 {
			return errors.Errorf("bundle %q: at least one pattern is required", b.Name)
		}
		bundles[b.Name] = true
	}

	names := map[string]bool{}
	checkName := func(kind, name string) error {
		if name == "" {
			return errors.Errorf("%s: name is required", kind)
		}
		if names[name] {
			return errors.Errorf("%s %q: rule name used twice", kind, name)
		}
		names[name] = true
		return nil
	}
	checkBundle := func(kind, name, bundle string) error {
		if !bundles[bundle] {
			return errors.Errorf("%s %q: unknown bundle %q", kind, name, bundle)
		}
		return nil
	}

	for _, r := range cfg.Replace {
		if err := checkName("replace", r.Name); err != nil {
			return err
		}
		if err := checkBundle("replace", r.Name, r.Bundle); err != nil {
			return err
		}
		if r.Trigger == "" || r.Target == "" {
			return errors.Errorf("replace %q: trigger and target are required", r.Name)
		}
		if err := checkScan("replace", r.Name, r.Scan); err != nil {
			return err
		}
	}

	for _, r := range cfg.Prepend {
		if err := checkName("prepend", r.Name); err != nil {
			return err
		}
		if err := checkBundle("prepend", r.Name, r.Bundle); err != nil {
			return err
		}
		if r.Snippet.Text == "" {
			return errors.Errorf("prepend %q: snippet is required", r.Name)
		}
		if err := checkScan("prepend", r.Name, r.Scan); err != nil {
			return err
		}
	}

	for _, r := range cfg.Insert {
		if err := checkName("insert", r.Name); err != nil {
			return err
		}
		if err := checkBundle("insert", r.Name, r.Bundle); err != nil {
			return err
		}
		if r.Anchor == "" || r.Insert == "" {
			return errors.Errorf("insert %q: anchor and insert are required", r.Name)
		}
		if err := checkScan("insert", r.Name, r.Scan); err != nil {
			return err
		}
	}

	for _, r := range cfg.Files {
		if err := checkName("file", r.Name); err != nil {
			return err
		}
		if r.Path == "" || r.From == "" || r.To == "" {
			return errors.Errorf("file %q: path, from and to are required", r.Name)
		}
	}

	for _, r := range cfg.Binaries {
		if err := checkName("binary", r.Name); err != nil {
			return err
		}
		rule, err := r.toRule(cfg.Root)
		if err != nil {
			return err
		}
		if err := rule.Validate(); err != nil {
			return errors.Errorf("binary %q: %w", r.Name, err)
		}
	}

	return nil
}

func checkScan(kind, name, scan string) error {
	switch scan {
	case "", "first", "all":
		return nil
	default:
		return errors.Errorf("%s %q: scan must be \"first\" or \"all\", got %q", kind, name, scan)
	}
}

// RuleCount returns the number of rules of every kind.
func (cfg *Config) RuleCount() int {
	return len(cfg.Replace) + len(cfg.Prepend) + len(cfg.Insert) + len(cfg.Files) + len(cfg.Binaries)
}

// BundlePatterns returns the patterns of the named bundle.
func (cfg *Config) BundlePatterns(name string) []string {
	for _, b := range cfg.Bundles {
		if b.Name == name {
			return b.Patterns
		}
	}
	return nil
}

func decodeMarker(name, field, value string) ([]byte, error) {
	clean := strings.NewReplacer(" ", "", ":", "", "\n", "", "\t", "").Replace(value)
	b, err := hex.DecodeString(clean)
	if err != nil {
		return nil, errors.Errorf("binary %q: %s is not valid hex: %w", name, field, err)
	}
	return b, nil
}
