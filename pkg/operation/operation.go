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


package operation

import (
	"context"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/bundlepatch/pkg/config"
	"github.com/walteh/bundlepatch/pkg/log"
	"github.com/walteh/bundlepatch/pkg/patch"
	"github.com/walteh/bundlepatch/pkg/selector"
)

// ErrPatchFailed is returned when at least one binary could not be patched.
var ErrPatchFailed = errors.Base("patch failed")

// 🎯 Operation is a unit of work run by the Runner
type Operation interface {
	// Name identifies the operation in logs
	Name() string
	// Execute runs the operation
	Execute(ctx context.Context) error
}

// 🔧 Options contains what an operation needs
type Options struct {
	// Config is the loaded rule set
	Config *config.Config
	// Selector yields candidate files under the root
	Selector *selector.Selector
	// Logger reports per-file results
	Logger *log.Logger
	// Values are substituted into templates
	Values patch.Options
}

func (o Options) validate() error {
	if o.Config == nil {
		return errors.Errorf("config is required")
	}
	if o.Selector == nil {
		return errors.Errorf("selector is required")
	}
	if o.Logger == nil {
		return errors.Errorf("logger is required")
	}
	return nil
}

// 📊 Summary counts outcomes across a run
type Summary struct {
	Patched        int
	AlreadyPatched int
	Skipped        int
	Failed         int
	Unmatched      []string // First-match rules that found no file
}

func (s *Summary) add(res patch.Result) {
	switch res.Outcome {
	case patch.OutcomePatched:
		s.Patched++
	case patch.OutcomeAlreadyPatched:
		s.AlreadyPatched++
	case patch.OutcomeSkipped:
		s.Skipped++
	default:
		s.Failed++
	}
}
