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
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/bundlepatch/pkg/match"
)

// DefaultBackupSuffix is appended to the target name when no backup name is set.
const DefaultBackupSuffix = ".old"

// 💾 BackupState says whether a pristine copy of the binary exists
type BackupState int

const (
	StateUnbackuped BackupState = iota // No backup on disk yet
	StateBackuped                      // Backup exists and holds the pristine bytes
)

// String returns a string representation of BackupState
func (s BackupState) String() string {
	if s == StateBackuped {
		return "backuped"
	}
	return "unbackuped"
}

// 🔧 BinaryRule overwrites an original marker with a same-length replacement marker
type BinaryRule struct {
	Name     string
	Dir      string // Directory holding the binary
	Target   string // Binary file name
	Backup   string // Backup file name, defaults to Target + DefaultBackupSuffix
	Original []byte // Marker present in the pristine binary
	Patched  []byte // Marker written over Original
}

// TargetPath returns the full path of the binary.
func (r *BinaryRule) TargetPath() string {
	return filepath.Join(r.Dir, r.Target)
}

// BackupPath returns the full path of the backup copy.
func (r *BinaryRule) BackupPath() string {
	name := r.Backup
	if name == "" {
		name = r.Target + DefaultBackupSuffix
	}
	return filepath.Join(r.Dir, name)
}

// Validate checks the markers can be swapped in place.
func (r *BinaryRule) Validate() error {
	if r.Target == "" {
		return errors.Errorf("%s: target is required", r.Name)
	}
	if len(r.Original) == 0 {
		return errors.Errorf("%s: original marker is required", r.Name)
	}
	if len(r.Original) != len(r.Patched) {
		return errors.Errorf("%s: markers differ in length (%d != %d)", r.Name, len(r.Original), len(r.Patched))
	}
	if bytes.Equal(r.Original, r.Patched) {
		return errors.Errorf("%s: markers are identical", r.Name)
	}
	return nil
}

// 🔍 PatchBuffer checks buf for the patched marker first, then the original.
// On OutcomePatched the returned slice is a copy of buf with exactly
// len(Original) bytes changed at the marker offset.
func PatchBuffer(buf []byte, original, patched []byte) ([]byte, int, Outcome) {
	if pos, ok := match.FindWindow(buf, patched); ok {
		return buf, pos, OutcomeAlreadyPatched
	}

	pos, ok := match.FindWindow(buf, original)
	if !ok {
		return buf, match.NotFound, OutcomeFailed
	}

	out := make([]byte, len(buf))
	copy(out, buf)
	copy(out[pos:pos+len(patched)], patched)
	return out, pos, OutcomePatched
}

// 🚀 ApplyBinary backs up or restores the binary, then patches it.
//
// The backup is written only when none exists, so it always holds the pristine
// bytes. When it exists and the target already carries the patched marker the
// run is a no-op. Otherwise the backup is copied over the target before
// scanning, so a damaged or half-written target never gets patched.
func ApplyBinary(ctx context.Context, rule *BinaryRule) (Result, error) {
	logger := zerolog.Ctx(ctx).With().Str("rule", rule.Name).Str("file", rule.TargetPath()).Logger()

	if err := rule.Validate(); err != nil {
		return Result{Rule: rule.Name, Path: rule.TargetPath(), Outcome: OutcomeFailed, Err: err}, err
	}

	if done, err := patchedSinceBackup(rule); err != nil {
		return Result{Rule: rule.Name, Path: rule.TargetPath(), Outcome: OutcomeFailed, Err: err}, err
	} else if done {
		logger.Info().Msg("binary already patched")
		return Result{Rule: rule.Name, Path: rule.TargetPath(), Outcome: OutcomeAlreadyPatched}, nil
	}

	state, err := Prepare(ctx, rule)
	if err != nil {
		return Result{Rule: rule.Name, Path: rule.TargetPath(), Outcome: OutcomeFailed, Err: err}, err
	}
	logger.Debug().Stringer("state", state).Msg("binary prepared")

	buf, err := os.ReadFile(rule.TargetPath())
	if err != nil {
		err = errors.Errorf("reading %s: %w", rule.TargetPath(), err)
		return Result{Rule: rule.Name, Path: rule.TargetPath(), Outcome: OutcomeFailed, Err: err}, err
	}

	out, pos, outcome := PatchBuffer(buf, rule.Original, rule.Patched)
	res := Result{Rule: rule.Name, Path: rule.TargetPath(), Outcome: outcome}

	switch outcome {
	case OutcomeAlreadyPatched:
		logger.Info().Int("offset", pos).Msg("binary already patched")
		return res, nil
	case OutcomeFailed:
		res.Reason = "binary format not recognized"
		res.Err = errors.WithDetails(ErrMarkerNotFound, "path", rule.TargetPath())
		logger.Error().Msg(res.Reason)
		return res, nil
	}

	if err := writeFile(rule.TargetPath(), out); err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err
		return res, err
	}

	res.Replacements = 1
	logger.Info().Int("offset", pos).Msg("binary patched")
	return res, nil
}

// patchedSinceBackup reports whether a backup exists and the target already
// carries the patched marker.
func patchedSinceBackup(rule *BinaryRule) (bool, error) {
	if _, err := os.Stat(rule.BackupPath()); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Errorf("checking backup: %w", err)
	}
	buf, err := os.ReadFile(rule.TargetPath())
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Errorf("reading %s: %w", rule.TargetPath(), err)
	}
	_, ok := match.FindWindow(buf, rule.Patched)
	return ok, nil
}

// Prepare makes sure a backup exists and the target holds pristine bytes.
func Prepare(ctx context.Context, rule *BinaryRule) (BackupState, error) {
	_, err := os.Stat(rule.BackupPath())
	switch {
	case err == nil:
		if err := copyFile(rule.BackupPath(), rule.TargetPath()); err != nil {
			return StateBackuped, errors.Errorf("restoring from backup: %w", err)
		}
		return StateBackuped, nil
	case os.IsNotExist(err):
		if err := copyFile(rule.TargetPath(), rule.BackupPath()); err != nil {
			return StateUnbackuped, errors.Errorf("creating backup: %w", err)
		}
		return StateUnbackuped, nil
	default:
		return StateUnbackuped, errors.Errorf("checking backup: %w", err)
	}
}

// 🔙 Restore copies the backup over the target. It reports false when there
// is no backup to restore from.
func Restore(ctx context.Context, rule *BinaryRule) (bool, error) {
	if _, err := os.Stat(rule.BackupPath()); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Errorf("checking backup: %w", err)
	}
	if err := copyFile(rule.BackupPath(), rule.TargetPath()); err != nil {
		return false, errors.Errorf("restoring from backup: %w", err)
	}
	zerolog.Ctx(ctx).Info().Str("rule", rule.Name).Str("file", rule.TargetPath()).Msg("binary restored")
	return true, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return errors.Errorf("stat %s: %w", src, err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return errors.Errorf("creating %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Errorf("copying %s to %s: %w", src, dst, err)
	}
	return out.Close()
}
