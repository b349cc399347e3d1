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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

type hclTemplate struct {
	Text   string   `hcl:"text,optional"`
	File   string   `hcl:"file,optional"`
	Params []string `hcl:"params,optional"`
}

func (t hclTemplate) model() Template {
	return Template{Text: t.Text, File: t.File, Params: t.Params}
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "bundlepatch.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	// Define HCL schema
	type hclConfig struct {
		Root    string            `hcl:"root"`
		Options map[string]string `hcl:"options,optional"`
		Bundles []struct {
			Name     string   `hcl:"name,label"`
			Patterns []string `hcl:"patterns"`
		} `hcl:"bundle,block"`
		Replace []struct {
			Name        string      `hcl:"name,label"`
			Bundle      string      `hcl:"bundle"`
			Trigger     string      `hcl:"trigger"`
			Target      string      `hcl:"target"`
			Scan        string      `hcl:"scan,optional"`
			Replacement hclTemplate `hcl:"replacement,block"`
		} `hcl:"replace,block"`
		Prepend []struct {
			Name    string      `hcl:"name,label"`
			Bundle  string      `hcl:"bundle"`
			Trigger string      `hcl:"trigger,optional"`
			Scan    string      `hcl:"scan,optional"`
			Snippet hclTemplate `hcl:"snippet,block"`
		} `hcl:"prepend,block"`
		Insert []struct {
			Name   string `hcl:"name,label"`
			Bundle string `hcl:"bundle"`
			Anchor string `hcl:"anchor"`
			Insert string `hcl:"insert"`
			Scan   string `hcl:"scan,optional"`
		} `hcl:"insert,block"`
		Files []struct {
			Name string `hcl:"name,label"`
			Path string `hcl:"path"`
			From string `hcl:"from"`
			To   string `hcl:"to"`
		} `hcl:"file,block"`
		Binaries []struct {
			Name     string `hcl:"name,label"`
			Dir      string `hcl:"dir,optional"`
			Target   string `hcl:"target"`
			Backup   string `hcl:"backup,optional"`
			Original string `hcl:"original"`
			Patched  string `hcl:"patched"`
		} `hcl:"binary,block"`
	}

	// Decode HCL
	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		Root:    hclCfg.Root,
		Options: hclCfg.Options,
	}
	for _, b := range hclCfg.Bundles {
		cfg.Bundles = append(cfg.Bundles, Bundle{Name: b.Name, Patterns: b.Patterns})
	}
	for _, r := range hclCfg.Replace {
		cfg.Replace = append(cfg.Replace, ReplaceRule{
			Name:        r.Name,
			Bundle:      r.Bundle,
			Trigger:     r.Trigger,
			Target:      r.Target,
			Replacement: r.Replacement.model(),
			Scan:        r.Scan,
		})
	}
	for _, r := range hclCfg.Prepend {
		cfg.Prepend = append(cfg.Prepend, PrependRule{
			Name:    r.Name,
			Bundle:  r.Bundle,
			Trigger: r.Trigger,
			Snippet: r.Snippet.model(),
			Scan:    r.Scan,
		})
	}
	for _, r := range hclCfg.Insert {
		cfg.Insert = append(cfg.Insert, InsertRule{
			Name:   r.Name,
			Bundle: r.Bundle,
			Anchor: r.Anchor,
			Insert: r.Insert,
			Scan:   r.Scan,
		})
	}
	for _, r := range hclCfg.Files {
		cfg.Files = append(cfg.Files, FileRule{Name: r.Name, Path: r.Path, From: r.From, To: r.To})
	}
	for _, r := range hclCfg.Binaries {
		cfg.Binaries = append(cfg.Binaries, BinaryRule{
			Name:     r.Name,
			Dir:      r.Dir,
			Target:   r.Target,
			Backup:   r.Backup,
			Original: r.Original,
			Patched:  r.Patched,
		})
	}

	return cfg, nil
}
