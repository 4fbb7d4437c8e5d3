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
	"bytes"
	"context"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/pipeviewer/pkg/config"
	"github.com/walteh/pipeviewer/pkg/copier"
	"github.com/walteh/pipeviewer/pkg/stream"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("no space left on device")
}

func randomBytes(t *testing.T, size int) []byte {
	t.Helper()
	data := make([]byte, size)
	_, err := rand.New(rand.NewSource(42)).Read(data)
	require.NoError(t, err, "generating test data")
	return data
}

// 🧪 execute runs the root command against in-memory streams
func execute(t *testing.T, std stream.Std, env config.Env, args ...string) error {
	t.Helper()
	cmd := newRootCommand(std, env)
	cmd.SetArgs(append([]string{}, args...))
	return cmd.ExecuteContext(context.Background())
}

func TestRunScenarios(t *testing.T) {
	tests := []struct {
		name       string
		input      []byte
		env        config.Env
		args       []string
		wantStderr string
	}{
		{
			name:       "copies_128_bytes",
			input:      randomBytes(t, 128),
			env:        config.Env{},
			wantStderr: "\r128\n",
		},
		{
			name:       "empty_input",
			input:      nil,
			env:        config.Env{},
			wantStderr: "\r0\n",
		},
		{
			name:       "env_silences_report",
			input:      randomBytes(t, 128),
			env:        config.Env{config.EnvSilent: "1"},
			wantStderr: "",
		},
		{
			name:       "short_silent_flag",
			input:      randomBytes(t, 128),
			env:        config.Env{},
			args:       []string{"-s"},
			wantStderr: "",
		},
		{
			name:       "long_silent_flag_with_env",
			input:      randomBytes(t, 128),
			env:        config.Env{config.EnvSilent: "yes"},
			args:       []string{"--silent"},
			wantStderr: "",
		},
		{
			name:       "multi_chunk",
			input:      randomBytes(t, 3*copier.ChunkSize+1),
			env:        config.Env{},
			wantStderr: "\r49153\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout := &bytes.Buffer{}
			stderr := &bytes.Buffer{}
			std := stream.Std{In: bytes.NewReader(tt.input), Out: stdout, Err: stderr}

			require.NoError(t, execute(t, std, tt.env, tt.args...))

			assert.Equal(t, tt.input, stdout.Bytes(), "stdout should receive the input unchanged")
			assert.Equal(t, tt.wantStderr, stderr.String())
		})
	}
}

func TestRunSilenceDoesNotChangeOutput(t *testing.T) {
	input := randomBytes(t, copier.ChunkSize+17)

	var outputs [][]byte
	for _, tc := range []struct {
		env  config.Env
		args []string
	}{
		{env: config.Env{}},
		{env: config.Env{}, args: []string{"-s"}},
		{env: config.Env{config.EnvSilent: "1"}},
		{env: config.Env{config.EnvSilent: "1"}, args: []string{"-s"}},
	} {
		stdout := &bytes.Buffer{}
		std := stream.Std{In: bytes.NewReader(input), Out: stdout, Err: io.Discard}
		require.NoError(t, execute(t, std, tc.env, tc.args...))
		outputs = append(outputs, stdout.Bytes())
	}

	for i, out := range outputs {
		assert.Equal(t, input, out, "output %d should match input", i)
	}
}

func TestRunFiles(t *testing.T) {
	dir := t.TempDir()
	input := randomBytes(t, 2*copier.ChunkSize)
	inPath := filepath.Join(dir, "in.bin")
	outPath := filepath.Join(dir, "out.bin")
	require.NoError(t, os.WriteFile(inPath, input, 0644))
	require.NoError(t, os.WriteFile(outPath, []byte("stale content that must be truncated"), 0644))

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	std := stream.Std{In: strings.NewReader("unused"), Out: stdout, Err: stderr}

	require.NoError(t, execute(t, std, config.Env{}, inPath, "--outfile", outPath))

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, input, got)
	assert.Empty(t, stdout.String(), "stdout should be untouched when an outfile is given")
	assert.Equal(t, "\r32768\n", stderr.String())
}

func TestRunConfigFile(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "captured.bin")
	cfgPath := filepath.Join(dir, "pv.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output: "+outPath+"\nsilent: true\n"), 0644))

	stderr := &bytes.Buffer{}
	std := stream.Std{In: strings.NewReader("hello"), Out: &bytes.Buffer{}, Err: stderr}

	require.NoError(t, execute(t, std, config.Env{}, "-c", cfgPath))

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
	assert.Empty(t, stderr.String(), "silent in config file should suppress the report")
}

func TestRunOpenErrors(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.bin")

	t.Run("missing_input", func(t *testing.T) {
		stderr := &bytes.Buffer{}
		std := stream.Std{In: strings.NewReader(""), Out: &bytes.Buffer{}, Err: stderr}

		err := execute(t, std, config.Env{}, filepath.Join(dir, "missing.bin"), "-o", outPath)
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.Contains(t, err.Error(), "opening input")
		assert.Empty(t, stderr.String(), "no count on failure")
		assert.NoFileExists(t, outPath, "output must not be created when the input cannot be opened")
	})

	t.Run("unwritable_output", func(t *testing.T) {
		std := stream.Std{In: strings.NewReader("data"), Out: &bytes.Buffer{}, Err: &bytes.Buffer{}}

		err := execute(t, std, config.Env{}, "-o", filepath.Join(dir, "no", "such", "dir", "out.bin"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "opening output")
	})

	t.Run("bad_config", func(t *testing.T) {
		std := stream.Std{In: strings.NewReader("data"), Out: &bytes.Buffer{}, Err: &bytes.Buffer{}}

		err := execute(t, std, config.Env{config.EnvConfig: filepath.Join(dir, "pv.toml")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loading config")
	})

	t.Run("too_many_args", func(t *testing.T) {
		std := stream.Std{In: strings.NewReader(""), Out: &bytes.Buffer{}, Err: &bytes.Buffer{}}
		require.Error(t, execute(t, std, config.Env{}, "a.bin", "b.bin"))
	})
}

func TestRunWriteErrors(t *testing.T) {
	t.Run("fatal_write_error", func(t *testing.T) {
		stderr := &bytes.Buffer{}
		std := stream.Std{In: bytes.NewReader(randomBytes(t, 128)), Out: failingWriter{}, Err: stderr}

		err := execute(t, std, config.Env{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no space left on device")
		assert.Empty(t, stderr.String(), "count must not be reported after a fatal write error")
	})

	t.Run("broken_pipe_reports_partial_count", func(t *testing.T) {
		input := randomBytes(t, 4*copier.ChunkSize)
		pr, pw := io.Pipe()

		var g errgroup.Group
		got := make([]byte, copier.ChunkSize+10)
		g.Go(func() error {
			if _, err := io.ReadFull(pr, got); err != nil {
				return err
			}
			return pr.Close()
		})

		stderr := &bytes.Buffer{}
		std := stream.Std{In: bytes.NewReader(input), Out: pw, Err: stderr}

		require.NoError(t, execute(t, std, config.Env{}), "broken pipe should exit cleanly")
		require.NoError(t, g.Wait())

		assert.Equal(t, input[:len(got)], got)
		assert.Equal(t, "\r16394\n", stderr.String())
	})
}

func TestRunReadErrors(t *testing.T) {
	errBoom := errors.New("input device failed")
	input := randomBytes(t, 128)

	t.Run("lenient_by_default", func(t *testing.T) {
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		src := io.MultiReader(bytes.NewReader(input), iotest.ErrReader(errBoom))
		std := stream.Std{In: src, Out: stdout, Err: stderr}

		require.NoError(t, execute(t, std, config.Env{}))
		assert.Equal(t, input, stdout.Bytes())
		assert.Equal(t, "\r128\n", stderr.String())
	})

	t.Run("strict_reads", func(t *testing.T) {
		stderr := &bytes.Buffer{}
		src := io.MultiReader(bytes.NewReader(input), iotest.ErrReader(errBoom))
		std := stream.Std{In: src, Out: &bytes.Buffer{}, Err: stderr}

		err := execute(t, std, config.Env{}, "--strict-reads")
		require.Error(t, err)
		assert.ErrorIs(t, err, errBoom)
		assert.Empty(t, stderr.String())
	})
}

func TestRunDebugLogging(t *testing.T) {
	stderr := &bytes.Buffer{}
	std := stream.Std{In: bytes.NewReader(randomBytes(t, 128)), Out: &bytes.Buffer{}, Err: stderr}

	require.NoError(t, execute(t, std, config.Env{}, "--debug"))

	assert.Contains(t, stderr.String(), "transfer finished")
	assert.True(t, strings.HasSuffix(stderr.String(), "\r128\n"), "count should be the last thing written")
}

func TestVersionFlag(t *testing.T) {
	for _, flag := range []string{"--version", "-V"} {
		t.Run(flag, func(t *testing.T) {
			stdout := &bytes.Buffer{}
			stderr := &bytes.Buffer{}
			std := stream.Std{In: strings.NewReader("unread"), Out: stdout, Err: stderr}

			require.NoError(t, execute(t, std, config.Env{}, flag))

			assert.Contains(t, stdout.String(), "Version")
			assert.Contains(t, stdout.String(), runtime.Version())
			assert.NotContains(t, stdout.String(), "unread")
			assert.Empty(t, stderr.String())
		})
	}
}

func TestRunInfileNamedVersion(t *testing.T) {
	dir := t.TempDir()
	data := randomBytes(t, 300)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "version"), data, 0o644))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	std := stream.Std{In: strings.NewReader(""), Out: stdout, Err: stderr}

	require.NoError(t, execute(t, std, config.Env{}, "version"))

	assert.Equal(t, data, stdout.Bytes())
	assert.Equal(t, "\r300\n", stderr.String())
}

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.NotEmpty(t, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}
