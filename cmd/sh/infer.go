package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/brianmills2718/semantic-hypergraph/internal/codec"
	"github.com/brianmills2718/semantic-hypergraph/internal/pattern"
	"github.com/brianmills2718/semantic-hypergraph/internal/rules"
	shlib "github.com/brianmills2718/semantic-hypergraph/pkg/sh"
)

// runInfer implements `sh infer <rules.sh> <input.sh>` (spec.md §6.6):
// seeds the KB with one hyperedge per line of input.sh, runs the rule
// file to a fixed point, and prints the resulting KB as canonical SH
// text, one edge per line, in the KB's deterministic sorted order.
func runInfer(ctx context.Context, args []string) int {
	if len(args) != 2 {
		usage()
		return exitCompile
	}
	rulesPath, inputPath := args[0], args[1]

	ruleText, err := os.ReadFile(rulesPath)
	if err != nil {
		errorf("infer: %v", err)
		return exitCompile
	}
	f, err := os.Open(inputPath)
	if err != nil {
		errorf("infer: %v", err)
		return exitCompile
	}
	defer f.Close()

	sys := shlib.New(nil)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		h, err := codec.Parse(line)
		if err != nil {
			errorf("infer: %v", err)
			return exitCompile
		}
		sys.Insert(h)
	}
	if err := scanner.Err(); err != nil {
		errorf("infer: %v", err)
		return exitCompile
	}

	if err := sys.Infer(ctx, string(ruleText)); err != nil {
		if _, cancelled := err.(*rules.Cancelled); cancelled {
			return exitCancelled
		}
		errorf("infer: %v", err)
		switch err.(type) {
		case *rules.Error, *pattern.Error:
			return exitCompile
		}
		return exitRuntime
	}

	for _, id := range sys.Store.SortedIDs() {
		h, ok := sys.Store.Get(id)
		if !ok {
			continue
		}
		fmt.Println(codec.Print(h))
	}
	return exitOK
}
