package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/brianmills2718/semantic-hypergraph/internal/classifier"
	"github.com/brianmills2718/semantic-hypergraph/internal/codec"
	shlib "github.com/brianmills2718/semantic-hypergraph/pkg/sh"
)

// runParse implements `sh parse [--classifier-rules path.yaml]
// <tokens-file|->` (spec.md §6.6): one already-tokenized/dependency-
// annotated sentence per input line (pkg/sh.ParseSentenceLine's
// surface/POS/DEP/headIndex encoding), one printed edge per line of
// output.
func runParse(ctx context.Context, args []string) int {
	var rulesPath string
	var positional []string
	for i := 0; i < len(args); i++ {
		if args[i] == "--classifier-rules" && i+1 < len(args) {
			rulesPath = args[i+1]
			i++
			continue
		}
		positional = append(positional, args[i])
	}
	if len(positional) != 1 {
		usage()
		return exitCompile
	}

	clf, err := loadClassifier(rulesPath)
	if err != nil {
		errorf("parse: %v", err)
		return exitCompile
	}

	r, closeFn, err := openInput(positional[0])
	if err != nil {
		errorf("parse: %v", err)
		return exitCompile
	}
	defer closeFn()

	sys := shlib.New(clf)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		select {
		case <-ctx.Done():
			return exitCancelled
		default:
		}

		tree, err := shlib.ParseSentenceLine(line)
		if err != nil {
			errorf("parse: %v", err)
			return exitCompile
		}

		edge, alphaErrs, err := sys.Parse(ctx, tree)
		for _, ae := range alphaErrs {
			warnf("parse: %s", ae.Error())
		}
		if err != nil {
			warnf("parse: sentence marked Malformed: %v", err)
			continue
		}
		fmt.Println(codec.Print(edge))
	}
	if err := scanner.Err(); err != nil {
		errorf("parse: %v", err)
		return exitRuntime
	}
	return exitOK
}

func loadClassifier(path string) (*classifier.RuleTable, error) {
	if path == "" {
		return nil, fmt.Errorf("parse requires --classifier-rules path.yaml (spec.md §6.7: the reference classifier's rule table is a CLI flag, not an environment variable)")
	}
	return classifier.LoadFile(path)
}

func openInput(path string) (io.Reader, func() error, error) {
	if path == "-" {
		return os.Stdin, func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
