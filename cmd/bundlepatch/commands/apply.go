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


package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/bundlepatch/cmd/bundlepatch/opts"
	"github.com/walteh/bundlepatch/pkg/operation"
)

// NewApplyCmd creates a new apply command
func NewApplyCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply the configured patches to an extracted bundle",
		Long: `Apply runs every rule in the config against the extraction root.
It will:
1. Rewrite fixed-path files, aborting if one is missing
2. Scan each bundle's files for text rules, stopping at the first match
3. Back up or restore each binary, then swap its marker
Running it again is safe: patched files are detected and left alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "apply").Logger().WithContext(cmd.Context())

			opOpts, err := opts.Operation(ctx)
			if err != nil {
				return err
			}

			op, err := operation.NewApplyOperation(opOpts)
			if err != nil {
				return errors.Errorf("creating apply operation: %w", err)
			}

			return operation.NewRunner().Run(ctx, op)
		},
	}

	return cmd
}
