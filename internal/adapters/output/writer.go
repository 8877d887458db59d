// Package output provides adapters for writing application output.
package output

import (
	"fmt"
	"io"
	"os"
)

// Decision tokens written to the output destination.
const (
	DecisionBuild = "build"
	DecisionSkip  = "skip"
)

// Writer writes the build decision to the configured output destination.
// By default, it writes to stdout.
type Writer struct {
	out io.Writer
}

// NewWriter creates a new Writer that writes to stdout.
func NewWriter() *Writer {
	return &Writer{out: os.Stdout}
}

// NewWriterWithOutput creates a new Writer with a custom output destination.
// This is useful for testing.
func NewWriterWithOutput(out io.Writer) *Writer {
	return &Writer{out: out}
}

// WriteDecision writes the decision to the output destination as a single
// line: "build" when a build should trigger, "skip" otherwise.
func (w *Writer) WriteDecision(build bool) error {
	decision := DecisionSkip
	if build {
		decision = DecisionBuild
	}
	_, err := fmt.Fprintln(w.out, decision)
	return err
}
