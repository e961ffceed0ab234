// SPDX-License-Identifier: Apache-2.0

// Package admission implements the Admission Driver: it reads update
// triples from an input stream, dispatches each into the policy engine, and
// aggregates the accept/reject verdict for the whole push.
package admission

import (
	"fmt"
	"io"
)

// Reporter writes the gate's diagnostic protocol: every line prefixed with
// "*** ". It is kept independent of the ambient slog-based debug
// tracing because these lines are the hook's actual
// contract with its caller, not operator-facing log noise.
type Reporter struct {
	w io.Writer
}

// NewReporter returns a Reporter writing to w.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Line writes one "*** "-prefixed diagnostic line.
func (r *Reporter) Line(format string, args ...any) {
	fmt.Fprintf(r.w, "*** %s\n", fmt.Sprintf(format, args...))
}
