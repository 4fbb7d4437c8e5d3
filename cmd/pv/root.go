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
	"github.com/spf13/cobra"
	"github.com/walteh/pipeviewer/pkg/config"
	"github.com/walteh/pipeviewer/pkg/log"
	"github.com/walteh/pipeviewer/pkg/stream"
)

// rootOpts holds the values bound to the root command's flags
type rootOpts struct {
	flags       config.Flags
	debug       bool
	strictReads bool
}

// newRootCommand creates the pv command bound to the given streams and environment
func newRootCommand(std stream.Std, env config.Env) *cobra.Command {
	opts := &rootOpts{}

	cmd := &cobra.Command{
		Use:   "pv [infile]",
		Short: "Copy input to output and report the byte count",
		Long: `pv copies bytes from a file (or stdin) to a file (or stdout) unchanged.
When it finishes it writes the number of bytes copied to stderr,
unless --silent is given or PV_SILENT is set to a non-empty value.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.flags.Input = args[0]
			}

			logger := log.NewLogger(std.Err, opts.debug)
			ctx := logger.WithContext(cmd.Context())

			return run(ctx, std, opts, env)
		},
	}

	cmd.SetIn(std.In)
	cmd.SetOut(std.Out)
	cmd.SetErr(std.Err)

	addRootFlags(cmd, opts)

	setupVersion(cmd)

	return cmd
}

// addRootFlags adds the root command's flags
func addRootFlags(cmd *cobra.Command, opts *rootOpts) {
	cmd.Flags().StringVarP(&opts.flags.Output, "outfile", "o", "", "write output to a file instead of stdout")
	cmd.Flags().BoolVarP(&opts.flags.Silent, "silent", "s", false, "do not report the byte count")
	cmd.Flags().StringVarP(&opts.flags.ConfigFile, "config", "c", "", "config file path (.yaml, .yml, .json or .hcl)")
	cmd.Flags().BoolVarP(&opts.debug, "debug", "d", false, "enable debug logging")
	cmd.Flags().BoolVar(&opts.strictReads, "strict-reads", false, "fail on read errors instead of treating them as end of input")
}
