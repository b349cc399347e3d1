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
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrFormatChanged means a file matched a rule's trigger but not its exact target.
	ErrFormatChanged = errors.Base("target format changed")
	// ErrRequiredFileMissing means a fixed-path file a rule needs does not exist.
	ErrRequiredFileMissing = errors.Base("required file missing")
	// ErrMarkerNotFound means neither binary marker was found in the target.
	ErrMarkerNotFound = errors.Base("binary marker not found")
)

// 📊 Outcome is the tagged result of applying one rule to one file
type Outcome int

const (
	OutcomeSkipped        Outcome = iota // File did not qualify or could not be read/written
	OutcomePatched                       // File was rewritten
	OutcomeAlreadyPatched                // File already carries the patch
	OutcomeFatalMismatch                 // Trigger matched but exact target absent
	OutcomeFatalMissing                  // Required file absent
	OutcomeFailed                        // Binary not recognized
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomePatched:
		return "patched"
	case OutcomeAlreadyPatched:
		return "already patched"
	case OutcomeFatalMismatch:
		return "format changed"
	case OutcomeFatalMissing:
		return "missing"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Fatal reports whether the outcome must abort the whole run.
func (o Outcome) Fatal() bool {
	return o == OutcomeFatalMismatch || o == OutcomeFatalMissing
}

// Done reports whether the rule found its file, patched or not.
func (o Outcome) Done() bool {
	return o == OutcomePatched || o == OutcomeAlreadyPatched
}

// 📄 Result is what happened when a rule visited one file
type Result struct {
	Rule         string  // Rule name
	Path         string  // File visited
	Outcome      Outcome // Tagged outcome
	Reason       string  // Human readable reason, mostly for skips
	Replacements int     // Spots rewritten
	Err          error   // Underlying error, if any
}

func skipped(rule, path, reason string, err error) Result {
	return Result{Rule: rule, Path: path, Outcome: OutcomeSkipped, Reason: reason, Err: err}
}
