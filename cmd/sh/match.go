package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/brianmills2718/semantic-hypergraph/internal/codec"
	shlib "github.com/brianmills2718/semantic-hypergraph/pkg/sh"
)

// runMatch implements `sh match <pattern> <input.sh>` (spec.md §6.6):
// prints every binding as a JSON array of {name: "printed hyperedge"}
// objects.
func runMatch(_ context.Context, args []string) int {
	if len(args) != 2 {
		usage()
		return exitCompile
	}
	patText, inputPath := args[0], args[1]

	data, err := os.ReadFile(inputPath)
	if err != nil {
		errorf("match: %v", err)
		return exitCompile
	}
	target, err := codec.Parse(string(data))
	if err != nil {
		errorf("match: %v", err)
		return exitCompile
	}

	sys := shlib.New(nil)
	bindings, err := sys.Match(patText, target)
	if err != nil {
		errorf("match: %v", err)
		return exitCompile
	}

	out := make([]map[string]string, 0, len(bindings))
	for _, b := range bindings {
		row := make(map[string]string, len(b))
		for name, h := range b {
			row[name] = codec.Print(h)
		}
		out = append(out, row)
	}

	enc := json.NewEncoder(os.Stdout)
	if err := enc.Encode(out); err != nil {
		errorf("match: %v", err)
		return exitRuntime
	}
	return exitOK
}
