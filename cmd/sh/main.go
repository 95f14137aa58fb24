// Command sh is the conformance CLI of spec.md §6.6: parse/match/infer
// subcommands over pkg/sh, with the teacher's os.Args-based manual
// subcommand dispatch (cmd/funxy/main.go) rather than a flag-framework
// dependency.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:]))
}

// Exit codes, spec.md §6.6: 0 success, 1 parse/compile error, 2 runtime
// error, 3 cancelled.
const (
	exitOK        = 0
	exitCompile   = 1
	exitRuntime   = 2
	exitCancelled = 3
)

func run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		usage()
		return exitCompile
	}
	switch args[0] {
	case "parse":
		return runParse(ctx, args[1:])
	case "match":
		return runMatch(ctx, args[1:])
	case "infer":
		return runInfer(ctx, args[1:])
	default:
		usage()
		return exitCompile
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: sh <parse|match|infer> [flags] args...")
	fmt.Fprintln(os.Stderr, "  sh parse [--classifier-rules path.yaml] <tokens-file|->")
	fmt.Fprintln(os.Stderr, "  sh match <pattern> <input.sh>")
	fmt.Fprintln(os.Stderr, "  sh infer <rules.sh> <input.sh>")
}
