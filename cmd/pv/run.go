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
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/pipeviewer/pkg/config"
	"github.com/walteh/pipeviewer/pkg/copier"
	"github.com/walteh/pipeviewer/pkg/log"
	"github.com/walteh/pipeviewer/pkg/stream"
	"gitlab.com/tozd/go/errors"
)

// run resolves the configuration, opens both streams, copies and reports.
// The count is only reported when the copy ended normally.
func run(ctx context.Context, std stream.Std, opts *rootOpts, env config.Env) error {
	logger := zerolog.Ctx(ctx)

	cfg, err := config.Resolve(ctx, opts.flags, env)
	if err != nil {
		return err
	}

	src, err := stream.OpenSource(ctx, cfg.Input, std)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := stream.OpenSink(ctx, cfg.Output, std)
	if err != nil {
		return err
	}

	var copts []copier.Option
	if opts.strictReads {
		copts = append(copts, copier.WithStrictReads())
	}

	res, err := copier.New(copts...).Copy(ctx, dst, src)
	if err != nil {
		dst.Close()
		return err
	}

	if err := dst.Close(); err != nil && !copier.IsBrokenPipe(err) {
		return errors.Errorf("closing output: %w", err)
	}

	logger.Debug().
		Int64("bytes", res.Bytes).
		Int("chunks", res.Chunks).
		Stringer("outcome", res.Outcome).
		AnErr("read_error", res.ReadErr).
		Msg("transfer finished")

	return log.NewReporter(std.Err, cfg.Silent).Report(res.Bytes)
}
