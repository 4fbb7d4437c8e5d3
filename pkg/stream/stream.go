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

// Package stream selects the source and sink of a copy: a named file or one
// of the injected standard streams.
package stream

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Std holds the process streams so callers can substitute in-memory ones
type Std struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// OS returns the real process streams
func OS() Std {
	return Std{
		In:  os.Stdin,
		Out: os.Stdout,
		Err: os.Stderr,
	}
}

// 📥 OpenSource opens path for reading, or wraps std.In when path is empty.
// Closing the result never closes std.In.
func OpenSource(ctx context.Context, path string, std Std) (io.ReadCloser, error) {
	logger := zerolog.Ctx(ctx)
	if path == "" {
		logger.Debug().Str("source", "stdin").Msg("selected input")
		return io.NopCloser(std.In), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf("opening input: %w", err)
	}
	logger.Debug().Str("source", path).Msg("selected input")
	return f, nil
}

// 📤 OpenSink creates or truncates path for writing, or wraps std.Out when
// path is empty. Closing the result never closes std.Out.
func OpenSink(ctx context.Context, path string, std Std) (io.WriteCloser, error) {
	logger := zerolog.Ctx(ctx)
	if path == "" {
		logger.Debug().Str("sink", "stdout").Msg("selected output")
		return nopWriteCloser{std.Out}, nil
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, errors.Errorf("opening output: %w", err)
	}
	logger.Debug().Str("sink", path).Msg("selected output")
	return f, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}
