package sh

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/brianmills2718/semantic-hypergraph/internal/deptree"
)

// ParseSentenceLine decodes one conformance-CLI input line. spec.md §6.6
// names a `parse <text>` command but leaves the raw encoding of
// tokenizer/dependency-parser output up to the embedder (§6.1 draws that
// boundary and excludes tokenization itself from the core); this is the
// concrete line encoding cmd/sh accepts: space-separated tokens of the
// form `surface/POS/DEP/headIndex`, headIndex being the 0-based index of
// the token's head (a root token is its own head). HeadPOS/HeadDep are
// derived by looking up each token's head after the line is decoded
// rather than asking the caller to repeat them redundantly.
func ParseSentenceLine(line string) (*deptree.Tree, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("sh: empty sentence line")
	}

	tokens := make([]deptree.Token, 0, len(fields))
	for i, f := range fields {
		parts := strings.Split(f, "/")
		if len(parts) != 4 {
			return nil, fmt.Errorf("sh: malformed token %q, expected surface/POS/DEP/headIndex", f)
		}
		head, err := strconv.ParseUint(parts[3], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("sh: malformed head index in %q: %w", f, err)
		}
		tokens = append(tokens, deptree.Token{
			Surface:   parts[0],
			POS:       parts[1],
			Dep:       parts[2],
			Index:     uint32(i),
			HeadIndex: uint32(head),
		})
	}

	for i := range tokens {
		if int(tokens[i].HeadIndex) >= len(tokens) {
			return nil, fmt.Errorf("sh: token %d has out-of-range head index %d", i, tokens[i].HeadIndex)
		}
		head := tokens[tokens[i].HeadIndex]
		tokens[i].HeadPOS = head.POS
		tokens[i].HeadDep = head.Dep
	}

	return deptree.New(tokens)
}
