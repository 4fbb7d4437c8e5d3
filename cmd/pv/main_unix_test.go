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

//go:build unix

package main

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/pipeviewer/pkg/config"
)

const envRunMain = "PV_TEST_RUN_MAIN"

// TestMainClosedStdout runs the real binary entry point with fd 1 bound to
// a pipe whose reader is gone, so the first write raises SIGPIPE.
func TestMainClosedStdout(t *testing.T) {
	if os.Getenv(envRunMain) != "" {
		os.Args = []string{"pv", os.Getenv(envRunMain)}
		main()
		os.Exit(0)
	}

	input := filepath.Join(t.TempDir(), "in.bin")
	require.NoError(t, os.WriteFile(input, randomBytes(t, 3*16384), 0o644))

	r, w, err := os.Pipe()
	require.NoError(t, err)
	require.NoError(t, r.Close())
	defer w.Close()

	stderr := &bytes.Buffer{}
	cmd := exec.Command(os.Args[0], "-test.run=^TestMainClosedStdout$")
	cmd.Env = append(os.Environ(),
		envRunMain+"="+input,
		config.EnvSilent+"=",
		config.EnvConfig+"=",
	)
	cmd.Stdin = bytes.NewReader(nil)
	cmd.Stdout = w
	cmd.Stderr = stderr

	err = cmd.Run()
	require.NoError(t, err, "pv must exit 0 when stdout's reader is gone; stderr: %q", stderr.String())
	assert.Equal(t, "\r0\n", stderr.String())
}
