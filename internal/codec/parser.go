package codec

import (
	"fmt"
	"strings"

	"github.com/brianmills2718/semantic-hypergraph/internal/diagnostics"
	"github.com/brianmills2718/semantic-hypergraph/internal/hgtype"
	"github.com/brianmills2718/semantic-hypergraph/internal/hyperedge"
)

// SyntaxError is spec.md §4.3's parse failure: "for adversarial input it
// returns SyntaxError{position, expected}".
type SyntaxError struct {
	Position diagnostics.Position
	Expected string
	Got      string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: syntax error: expected %s, got %q", e.Position.Line, e.Position.Column, e.Expected, e.Got)
}

func syntaxErr(tok token, expected string) error {
	return &SyntaxError{
		Position: diagnostics.Position{Line: tok.line, Column: tok.column, Offset: tok.offset},
		Expected: expected,
		Got:      tok.text,
	}
}

type parser struct {
	lex  *lexer
	cur  token
	peek token
}

func newParser(input string) *parser {
	p := &parser{lex: newLexer(input)}
	p.cur = p.lex.next()
	p.peek = p.lex.next()
	return p
}

func (p *parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.next()
}

// Parse is spec.md §4.3's `parse(str) → Hyperedge`. It is total on any
// string produced by Print (P1, round-trip) and returns a *SyntaxError for
// adversarial input.
func Parse(input string) (hyperedge.Hyperedge, error) {
	p := newParser(input)
	h, err := p.parseEdge()
	if err != nil {
		return nil, err
	}
	if p.cur.typ != tEOF {
		return nil, syntaxErr(p.cur, "end of input")
	}
	return h, nil
}

func (p *parser) parseEdge() (hyperedge.Hyperedge, error) {
	switch p.cur.typ {
	case tAtomText:
		return p.parseAtom()
	case tLParen:
		return p.parseCompound()
	default:
		return nil, syntaxErr(p.cur, "atom or '('")
	}
}

func (p *parser) parseAtom() (hyperedge.Hyperedge, error) {
	tok := p.cur
	label, quoted, typ, role, err := splitAtomText(tok.text)
	if err != nil {
		return nil, &SyntaxError{
			Position: diagnostics.Position{Line: tok.line, Column: tok.column, Offset: tok.offset},
			Expected: "label/TYPE[.role]",
			Got:      tok.text,
		}
	}
	p.advance()
	var atom *hyperedge.Atom
	var verr error
	if quoted {
		atom, verr = hyperedge.NewAtomRaw(label, typ, role)
	} else {
		atom, verr = hyperedge.NewAtom(label, typ, role)
	}
	if verr != nil {
		return nil, verr
	}
	return atom, nil
}

func (p *parser) parseCompound() (hyperedge.Hyperedge, error) {
	open := p.cur
	p.advance() // consume '('

	var children []hyperedge.Hyperedge
	for p.cur.typ != tRParen {
		if p.cur.typ == tEOF {
			return nil, syntaxErr(open, "matching ')'")
		}
		child, err := p.parseEdge()
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	p.advance() // consume ')'

	if len(children) == 0 {
		return nil, syntaxErr(open, "at least one element inside '(' ')'")
	}
	edge, err := hyperedge.NewEdge(children)
	if err != nil {
		return nil, err
	}
	return edge, nil
}

// splitAtomText parses the grammar's `atom := label "/" type ("." role)?`
// out of one contiguous lexer span.
func splitAtomText(text string) (label string, quoted bool, typ hgtype.Code, role hgtype.Role, err error) {
	if text == "" {
		return "", false, "", "", fmt.Errorf("empty atom text")
	}

	var labelPart, rest string
	if text[0] == '"' {
		quoted = true
		end := strings.Index(text[1:], `"`)
		if end < 0 {
			return "", false, "", "", fmt.Errorf("unterminated quoted label")
		}
		end += 1 // index relative to text
		labelPart = unescapeQuoted(text[1:end])
		rest = text[end+1:]
	} else {
		idx := strings.IndexByte(text, '/')
		if idx < 0 {
			return "", false, "", "", fmt.Errorf("missing '/' before type code")
		}
		labelPart = text[:idx]
		rest = text[idx:]
	}

	if !strings.HasPrefix(rest, "/") {
		return "", false, "", "", fmt.Errorf("missing '/' before type code")
	}
	rest = rest[1:]

	if rest == "" {
		return "", false, "", "", fmt.Errorf("missing type code")
	}

	var typeStr, roleStr string
	if dot := strings.IndexByte(rest, '.'); dot >= 0 {
		typeStr = rest[:dot]
		roleStr = rest[dot+1:]
	} else {
		typeStr = rest
	}

	if len(typeStr) != 1 {
		return "", false, "", "", fmt.Errorf("type code must be a single letter, got %q", typeStr)
	}
	typ = hgtype.Code(strings.ToUpper(typeStr))
	switch typ {
	case hgtype.Concept, hgtype.Predicate, hgtype.Modifier, hgtype.Builder,
		hgtype.Trigger, hgtype.Conjunction, hgtype.Relation, hgtype.Specifier:
	default:
		return "", false, "", "", fmt.Errorf("unknown type code %q", typeStr)
	}

	if roleStr != "" {
		if len(roleStr) != 1 {
			return "", false, "", "", fmt.Errorf("role code must be a single letter, got %q", roleStr)
		}
		role = hgtype.Role(strings.ToLower(roleStr))
	}

	return labelPart, quoted, typ, role, nil
}

func unescapeQuoted(s string) string {
	return strings.ReplaceAll(s, `\"`, `"`)
}
