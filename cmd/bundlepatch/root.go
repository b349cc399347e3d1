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


package main

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/walteh/bundlepatch/cmd/bundlepatch/commands"
	"github.com/walteh/bundlepatch/cmd/bundlepatch/opts"
)

// newRootCmd builds the command tree around shared options
func newRootCmd(console io.Writer) *cobra.Command {
	rootOpts := &opts.RootOpts{
		Version: GetVersionInfo().Version,
		Console: console,
	}

	rootCmd := &cobra.Command{
		Use:   "bundlepatch",
		Short: "Apply find-and-replace patches to an extracted application bundle",
		Long: `bundlepatch applies a config-driven set of text and binary patches to the
files of an extracted application bundle. Every rule checks that its exact
target is present before it writes, and binaries are backed up first.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd, rootOpts.Debug)
		},
	}

	addRootFlags(rootCmd, rootOpts)

	rootCmd.AddCommand(
		commands.NewApplyCmd(rootOpts),
		commands.NewRestoreCmd(rootOpts),
		newVersionCmd(),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", "bundlepatch.hcl", "config file path")
	cmd.PersistentFlags().StringVarP(&o.Root, "root", "r", "", "override the extraction root from the config")
	cmd.PersistentFlags().StringToStringVarP(&o.Values, "option", "o", nil, "template option as key=value (repeatable)")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags and stores it on the command context
func setupLogging(cmd *cobra.Command, debug bool) {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	cmd.SetContext(logger.WithContext(cmd.Context()))
}
