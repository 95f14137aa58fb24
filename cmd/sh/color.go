package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

// stderrIsTTY gates ANSI-colored diagnostics: color only when stderr is
// a real terminal, plain text otherwise (e.g. piped in conformance
// tests) — the same isatty.IsTerminal/IsCygwinTerminal idiom the teacher
// repo uses in internal/evaluator/builtins_term.go to decide print
// styling.
func stderrIsTTY() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

const (
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiReset  = "\x1b[0m"
)

func warnf(format string, args ...interface{}) {
	printDiag(ansiYellow, format, args...)
}

func errorf(format string, args ...interface{}) {
	printDiag(ansiRed, format, args...)
}

func printDiag(color, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if stderrIsTTY() {
		os.Stderr.WriteString(color + msg + ansiReset + "\n")
		return
	}
	os.Stderr.WriteString(msg + "\n")
}
