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

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔁 ScanMode controls when a scan over candidates stops
type ScanMode string

const (
	ScanFirst ScanMode = "first" // Stop after the first file that is patched or already patched
	ScanAll   ScanMode = "all"   // Visit every candidate
)

// Visitor applies one rule to one candidate.
type Visitor func(ctx context.Context, path string) Result

// 📋 Report collects every result of a scan
type Report struct {
	Results []Result
}

// Patched returns the results where a file was rewritten.
func (r *Report) Patched() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Outcome == OutcomePatched {
			out = append(out, res)
		}
	}
	return out
}

// Found reports whether any candidate was patched or already patched.
func (r *Report) Found() bool {
	for _, res := range r.Results {
		if res.Outcome.Done() {
			return true
		}
	}
	return false
}

// 🔍 Scan visits candidates in order. In ScanFirst mode it stops on the first
// candidate whose outcome is Done. It always stops on a fatal outcome and
// returns its error.
func Scan(ctx context.Context, mode ScanMode, candidates []string, visit Visitor) (*Report, error) {
	logger := zerolog.Ctx(ctx)
	report := &Report{}

	for _, path := range candidates {
		res := visit(ctx, path)
		report.Results = append(report.Results, res)

		if res.Outcome.Fatal() {
			return report, errors.Errorf("%s: %s: %w", res.Rule, path, res.Err)
		}

		if res.Outcome == OutcomeSkipped && res.Err != nil {
			logger.Warn().Err(res.Err).Str("rule", res.Rule).Str("file", path).Msg(res.Reason)
			continue
		}

		logger.Debug().Str("rule", res.Rule).Str("file", path).Stringer("outcome", res.Outcome).Msg("visited candidate")

		if mode != ScanAll && res.Outcome.Done() {
			break
		}
	}

	return report, nil
}
