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

	"github.com/walteh/bundlepatch/pkg/patch"
)

// 🔙 RestoreOperation copies every binary backup back over its target
type RestoreOperation struct {
	opts     Options
	restored []string
}

// 🏭 NewRestoreOperation creates a restore operation
func NewRestoreOperation(opts Options) (*RestoreOperation, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &RestoreOperation{opts: opts}, nil
}

// Name implements Operation.
func (o *RestoreOperation) Name() string { return "restore" }

// Restored returns the rules whose binaries were restored.
func (o *RestoreOperation) Restored() []string { return o.restored }

// Execute implements Operation. Text rules have no backup and are not touched.
func (o *RestoreOperation) Execute(ctx context.Context) error {
	cfg := o.opts.Config
	logger := o.opts.Logger
	o.restored = nil

	logger.Header("restoring binaries")

	for _, r := range cfg.Binaries {
		rule, err := r.ToRule(cfg.Root)
		if err != nil {
			return errors.Errorf("binary rule %q: %w", r.Name, err)
		}

		ok, err := patch.Restore(ctx, rule)
		if err != nil {
			return errors.Errorf("restoring %q: %w", r.Name, err)
		}
		if !ok {
			logger.Warningf("%s: no backup at %s", r.Name, rule.BackupPath())
			continue
		}
		o.restored = append(o.restored, r.Name)
		logger.Successf("%s: restored %s", r.Name, rule.TargetPath())
	}

	return nil
}
