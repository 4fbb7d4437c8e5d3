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

	"gitlab.com/tozd/go/errors"
)

// 📊 Reporter writes the final byte count to the error stream
type Reporter struct {
	w      io.Writer
	silent bool
}

// 🏭 NewReporter creates a reporter; a silent reporter never writes
func NewReporter(w io.Writer, silent bool) *Reporter {
	return &Reporter{
		w:      w,
		silent: silent,
	}
}

// Report writes "\r<total>\n". The leading carriage return lets the count
// overwrite a partially drawn terminal line.
func (r *Reporter) Report(total int64) error {
	if r.silent {
		return nil
	}
	if _, err := fmt.Fprintf(r.w, "\r%d\n", total); err != nil {
		return errors.Errorf("reporting byte count: %w", err)
	}
	return nil
}
