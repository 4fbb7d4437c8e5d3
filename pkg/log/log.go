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

package log

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// 🎯 Console prints user-facing failures to the error stream
type Console struct {
	console io.Writer
	red     *color.Color
	mu      sync.Mutex
}

// 🏭 NewConsole creates a console that colors only when console is a terminal.
// fatih/color decides from stdout, which is usually the pipe being fed.
func NewConsole(console io.Writer) *Console {
	red := color.New(color.FgRed)
	if isTerminal(console) && os.Getenv("NO_COLOR") == "" && os.Getenv("TERM") != "dumb" {
		red.EnableColor()
	} else {
		red.DisableColor()
	}
	return &Console{
		console: console,
		red:     red,
	}
}

// 📝 Error logs an error message
func (c *Console) Error(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.console, "❌ %s\n", c.red.Sprint(msg))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// 🔧 NewLogger builds the diagnostic logger. It is disabled unless debug is
// set so the error stream carries nothing but the count report.
func NewLogger(w io.Writer, debug bool) zerolog.Logger {
	if !debug {
		return zerolog.New(w).Level(zerolog.Disabled)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}
