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


package opts

import (
	"context"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/bundlepatch/pkg/config"
	"github.com/walteh/bundlepatch/pkg/log"
	"github.com/walteh/bundlepatch/pkg/operation"
	"github.com/walteh/bundlepatch/pkg/patch"
	"github.com/walteh/bundlepatch/pkg/selector"
)

// VersionOption is the template option filled with the tool version unless set.
const VersionOption = "version"

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile string            // Rule set to load
	Root       string            // Overrides the config root when set
	Values     map[string]string // Overrides config options
	Debug      bool
	Version    string
	Console    io.Writer
}

// Operation builds operation options from the flags and the config file.
func (o *RootOpts) Operation(ctx context.Context) (operation.Options, error) {
	cfg, err := config.Load(ctx, o.ConfigFile)
	if err != nil {
		return operation.Options{}, errors.Errorf("loading config: %w", err)
	}

	if o.Root != "" {
		abs, err := filepath.Abs(o.Root)
		if err != nil {
			return operation.Options{}, errors.Errorf("resolving root: %w", err)
		}
		cfg.Root = abs
	}

	return operation.Options{
		Config:   cfg,
		Selector: selector.New(cfg.Root),
		Logger:   log.NewWithZerolog(o.Console, *zerolog.Ctx(ctx)),
		Values:   o.mergeValues(cfg.Options),
	}, nil
}

func (o *RootOpts) mergeValues(fromConfig map[string]string) patch.Options {
	values := patch.Options{}
	for k, v := range fromConfig {
		values[k] = v
	}
	for k, v := range o.Values {
		values[k] = v
	}
	if _, ok := values[VersionOption]; !ok {
		values[VersionOption] = o.Version
	}
	return values
}
