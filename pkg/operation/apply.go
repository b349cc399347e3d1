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

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/bundlepatch/pkg/log"
	"github.com/walteh/bundlepatch/pkg/patch"
)

// 🚀 ApplyOperation applies every rule in the config
type ApplyOperation struct {
	opts    Options
	summary Summary
	rows    []log.SummaryRow
}

// 🏭 NewApplyOperation creates an apply operation
func NewApplyOperation(opts Options) (*ApplyOperation, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &ApplyOperation{opts: opts}, nil
}

// Name implements Operation.
func (o *ApplyOperation) Name() string { return "apply" }

// Summary returns the counts gathered by the last Execute.
func (o *ApplyOperation) Summary() Summary { return o.summary }

// Rows returns one summary row per rule run by the last Execute.
func (o *ApplyOperation) Rows() []log.SummaryRow { return o.rows }

type textStep struct {
	kind   string
	bundle string
	rule   patch.TextRule
}

// Execute implements Operation.
func (o *ApplyOperation) Execute(ctx context.Context) error {
	cfg := o.opts.Config
	logger := o.opts.Logger
	o.summary = Summary{}
	o.rows = nil

	logger.Header("applying patches")

	for _, r := range cfg.Files {
		logger.StartRuleOperation(ctx, log.RuleOperation{Name: r.Name, Kind: "file", Candidates: 1})
		res, err := patch.ApplyFile(ctx, cfg.Root, r.ToRule())
		o.record(ctx, "file", res)
		o.endRule(ctx, r.Name, "file")
		if err != nil {
			return errors.Errorf("applying file rule %q: %w", r.Name, err)
		}
	}

	var steps []textStep
	for _, r := range cfg.Replace {
		steps = append(steps, textStep{kind: "replace", bundle: r.Bundle, rule: r.ToRule()})
	}
	for _, r := range cfg.Insert {
		steps = append(steps, textStep{kind: "insert", bundle: r.Bundle, rule: r.ToRule()})
	}
	for _, r := range cfg.Prepend {
		steps = append(steps, textStep{kind: "prepend", bundle: r.Bundle, rule: r.ToRule()})
	}

	for _, step := range steps {
		if err := o.applyText(ctx, step); err != nil {
			return err
		}
	}

	var failed []string
	for _, r := range cfg.Binaries {
		rule, err := r.ToRule(cfg.Root)
		if err != nil {
			return errors.Errorf("binary rule %q: %w", r.Name, err)
		}

		logger.StartRuleOperation(ctx, log.RuleOperation{Name: r.Name, Kind: "binary", Candidates: 1})
		res, err := patch.ApplyBinary(ctx, rule)
		o.record(ctx, "binary", res)
		o.endRule(ctx, r.Name, "binary")
		if err != nil {
			return errors.Errorf("applying binary rule %q: %w", r.Name, err)
		}
		if res.Outcome == patch.OutcomeFailed {
			failed = append(failed, r.Name)
		}
	}

	if err := logger.Summary(o.rows); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("rendering summary")
	}

	if len(failed) > 0 {
		logger.Errorf("%d binary rule(s) failed: %v", len(failed), failed)
		return errors.WithDetails(ErrPatchFailed, "rules", failed)
	}

	logger.Successf("%d patched, %d already patched", o.summary.Patched, o.summary.AlreadyPatched)
	return nil
}

func (o *ApplyOperation) applyText(ctx context.Context, step textStep) error {
	logger := o.opts.Logger
	name := step.rule.RuleName()

	candidates, err := o.opts.Selector.Select(ctx, o.opts.Config.BundlePatterns(step.bundle)...)
	if err != nil {
		return errors.Errorf("selecting %s candidates for %q: %w", step.bundle, name, err)
	}

	logger.StartRuleOperation(ctx, log.RuleOperation{Name: name, Kind: step.kind, Candidates: len(candidates)})
	report, err := patch.ApplyText(ctx, step.rule, candidates, o.opts.Values)
	for _, res := range report.Results {
		o.record(ctx, step.kind, res)
	}
	o.endRule(ctx, name, step.kind)

	if err != nil {
		return errors.Errorf("applying %s rule %q: %w", step.kind, name, err)
	}

	if !report.Found() {
		o.summary.Unmatched = append(o.summary.Unmatched, name)
		logger.Warningf("%s: no %s file matched", name, step.bundle)
	}
	return nil
}

// endRule closes the rule on the logger and folds its results into one summary row.
func (o *ApplyOperation) endRule(ctx context.Context, name, kind string) {
	ops := o.opts.Logger.EndRuleOperation(ctx)

	outcome := patch.OutcomeSkipped
	files := 0
	for _, op := range ops {
		if op.Result.Outcome == patch.OutcomeSkipped {
			continue
		}
		files++
		if rank(op.Result.Outcome) > rank(outcome) {
			outcome = op.Result.Outcome
		}
	}
	o.rows = append(o.rows, log.SummaryRow{Rule: name, Kind: kind, Outcome: outcome.String(), Files: files})
}

func rank(o patch.Outcome) int {
	switch o {
	case patch.OutcomeAlreadyPatched:
		return 1
	case patch.OutcomePatched:
		return 2
	case patch.OutcomeSkipped:
		return 0
	default:
		return 3
	}
}

func (o *ApplyOperation) record(ctx context.Context, kind string, res patch.Result) {
	o.summary.add(res)
	o.opts.Logger.LogPatchOperation(ctx, log.PatchOperation{Path: res.Path, Kind: kind, Result: res})
	zerolog.Ctx(ctx).Debug().Str("rule", res.Rule).Stringer("outcome", res.Outcome).Msg("recorded result")
}
