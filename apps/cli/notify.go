package main

import (
	"fmt"
	"io"

	"github.com/trezcool/darasa/core"
)

// consoleNotifier renders transient notifications as plain console lines.
type consoleNotifier struct {
	out io.Writer
}

var _ core.Notifier = (*consoleNotifier)(nil)

func newConsoleNotifier(out io.Writer) *consoleNotifier {
	return &consoleNotifier{out: out}
}

func (n *consoleNotifier) Success(msg string) {
	_, _ = fmt.Fprintln(n.out, msg)
}

func (n *consoleNotifier) Error(msg string) {
	_, _ = fmt.Fprintln(n.out, "error:", msg)
}
