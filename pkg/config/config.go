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

package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const (
	// EnvSilent suppresses the byte count report when set to any non-empty value
	EnvSilent = "PV_SILENT"
	// EnvConfig names a config file when --config is not given
	EnvConfig = "PV_CONFIG"
)

// 📚 Config is the resolved, immutable input to a run
type Config struct {
	Input  string // source path, empty means standard input
	Output string // sink path, empty means standard output
	Silent bool   // suppress the byte count report
}

// 🚩 Flags holds the raw command line values
type Flags struct {
	Input      string
	Output     string
	Silent     bool
	ConfigFile string
}

// 🌍 Env is a snapshot of the process environment
type Env map[string]string

// EnvFromOS snapshots os.Environ
func EnvFromOS() Env {
	env := Env{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = v
	}
	return env
}

// 🎯 Resolve merges the config file (if any), the environment and the flags.
// Flags win over file values; silence is enabled if any layer asks for it.
func Resolve(ctx context.Context, flags Flags, env Env) (*Config, error) {
	logger := zerolog.Ctx(ctx)

	cfg := &Config{}

	path := flags.ConfigFile
	if path == "" {
		path = env[EnvConfig]
	}
	if path != "" {
		file, err := LoadFile(ctx, path, env)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		cfg.Input = file.Input
		cfg.Output = file.Output
		cfg.Silent = file.Silent
	}

	if flags.Input != "" {
		cfg.Input = flags.Input
	}
	if flags.Output != "" {
		cfg.Output = flags.Output
	}
	if flags.Silent || env[EnvSilent] != "" {
		cfg.Silent = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().
		Str("input", cfg.Input).
		Str("output", cfg.Output).
		Bool("silent", cfg.Silent).
		Str("config_file", path).
		Msg("resolved configuration")

	return cfg, nil
}

// 🔍 Validate rejects an output that would truncate the input before it is read.
// Existing files are compared by identity so links to the input are caught.
func (cfg *Config) Validate() error {
	if cfg.Input == "" || cfg.Output == "" {
		return nil
	}
	inInfo, inErr := os.Stat(cfg.Input)
	outInfo, outErr := os.Stat(cfg.Output)
	if inErr == nil && outErr == nil {
		if os.SameFile(inInfo, outInfo) {
			return errors.Errorf("input and output are the same file: %s", cfg.Input)
		}
		return nil
	}
	in, err := filepath.Abs(cfg.Input)
	if err != nil {
		return errors.Errorf("resolving input path: %w", err)
	}
	out, err := filepath.Abs(cfg.Output)
	if err != nil {
		return errors.Errorf("resolving output path: %w", err)
	}
	if in == out {
		return errors.Errorf("input and output are the same file: %s", cfg.Input)
	}
	return nil
}
