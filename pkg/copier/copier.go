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

// Package copier streams bytes from a reader to a writer in fixed-size chunks
// and counts what the writer accepted.
package copier

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📦 ChunkSize is the capacity of the single reusable copy buffer.
const ChunkSize = 16 * 1024

// 🏁 Outcome records how a copy reached its normal end.
type Outcome int

const (
	OutcomeEOF        Outcome = iota // source reported end of stream
	OutcomeReadError                 // source failed and the failure was swallowed
	OutcomeBrokenPipe                // sink's reader went away
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeEOF:
		return "eof"
	case OutcomeReadError:
		return "read_error"
	case OutcomeBrokenPipe:
		return "broken_pipe"
	default:
		return "unknown"
	}
}

// 📊 Result is the final transfer state of a completed copy.
type Result struct {
	Bytes   int64   // bytes the sink accepted
	Chunks  int     // fully written chunks
	Outcome Outcome // how the loop ended
	ReadErr error   // swallowed read error, only set for OutcomeReadError
}

// 🔧 Option configures a Copier
type Option func(*Copier)

// WithStrictReads makes read failures other than io.EOF fatal instead of
// ending the copy as if the source were exhausted.
func WithStrictReads() Option {
	return func(c *Copier) {
		c.treatReadErrorsAsEOF = false
	}
}

// 🎯 Copier owns one buffer and is not safe for concurrent use.
type Copier struct {
	buf                  []byte
	treatReadErrorsAsEOF bool
}

// 🏭 New creates a copier with the lenient read policy unless overridden.
func New(opts ...Option) *Copier {
	c := &Copier{
		buf:                  make([]byte, ChunkSize),
		treatReadErrorsAsEOF: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TreatReadErrorsAsEOF reports whether read failures end the copy silently.
func (c *Copier) TreatReadErrorsAsEOF() bool {
	return c.treatReadErrorsAsEOF
}

// 🔄 Copy moves src to dst until end of stream, a read failure, or a broken
// pipe on dst. Any other write failure is returned and the result must not
// be reported.
func (c *Copier) Copy(ctx context.Context, dst io.Writer, src io.Reader) (Result, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Int("chunk_size", len(c.buf)).Bool("lenient_reads", c.treatReadErrorsAsEOF).Msg("starting copy")

	var res Result
	for {
		n, rerr := src.Read(c.buf)
		if n > 0 {
			written, werr := writeChunk(dst, c.buf[:n])
			res.Bytes += int64(written)
			if werr != nil {
				if IsBrokenPipe(werr) {
					res.Outcome = OutcomeBrokenPipe
					logger.Debug().Err(werr).Int64("bytes", res.Bytes).Msg("output closed by reader")
					return res, nil
				}
				logger.Debug().Err(werr).Int64("bytes", res.Bytes).Msg("write failed")
				return res, errors.Errorf("writing output: %w", werr)
			}
			res.Chunks++
		}

		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				break
			}
			if !c.treatReadErrorsAsEOF {
				return res, errors.Errorf("reading input: %w", rerr)
			}
			res.Outcome = OutcomeReadError
			res.ReadErr = rerr
			logger.Debug().Err(rerr).Int64("bytes", res.Bytes).Msg("read failed, treating as end of input")
			return res, nil
		}

		if n == 0 {
			break
		}
	}

	res.Outcome = OutcomeEOF
	logger.Debug().Int64("bytes", res.Bytes).Int("chunks", res.Chunks).Msg("copy complete")
	return res, nil
}

var errInvalidWrite = errors.New("invalid write result")

// writeChunk writes p in a single call; a short write without an error is io.ErrShortWrite.
func writeChunk(w io.Writer, p []byte) (int, error) {
	n, err := w.Write(p)
	if n < 0 || n > len(p) {
		n = 0
		if err == nil {
			err = errInvalidWrite
		}
	}
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	return n, err
}
