package pattern

import (
	"strings"

	"github.com/brianmills2718/semantic-hypergraph/internal/hgtype"
)

// Parse compiles pattern text into a *Node, returning *Error for
// anything malformed (spec.md §4.6: construction-time failure only;
// Match itself never errors).
func Parse(text string) (*Node, error) {
	p := &patParser{src: text}
	p.skipSpace()
	n, err := p.parseNode()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, &Error{Reason: "trailing input after pattern"}
	}
	return n, nil
}

type patParser struct {
	src string
	pos int
}

func (p *patParser) skipSpace() {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			p.pos++
			continue
		}
		if c == ';' {
			for p.pos < len(p.src) && p.src[p.pos] != '\n' {
				p.pos++
			}
			continue
		}
		break
	}
}

func (p *patParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

// parseNode parses one pattern element: wildcard, variable, compound, or
// literal atom. "..." and "{ }" are only valid as direct children of a
// compound and are parsed by parseCompoundChildren, not here.
func (p *patParser) parseNode() (*Node, error) {
	switch p.peek() {
	case 0:
		return nil, &Error{Reason: "unexpected end of pattern"}
	case '(':
		return p.parseCompound()
	case '*':
		return p.parseWildcard()
	case '$':
		return p.parseVariable()
	default:
		return p.parseLiteral()
	}
}

func (p *patParser) parseCompound() (*Node, error) {
	p.pos++ // consume '('
	var children []*Node
	for {
		p.skipSpace()
		if p.peek() == ')' {
			p.pos++
			break
		}
		if p.pos >= len(p.src) {
			return nil, &Error{Reason: "unterminated compound pattern: missing ')'"}
		}
		child, err := p.parseCompoundChild()
		if err != nil {
			return nil, err
		}
		children = append(children, child)
		p.skipSpace()
	}
	if len(children) == 0 {
		return nil, &Error{Reason: "compound pattern must have at least one element"}
	}
	return &Node{Kind: KindCompound, Children: children}, nil
}

// parseCompoundChild parses one element inside "( … )", where "..." and
// "{ … }" are additionally legal.
func (p *patParser) parseCompoundChild() (*Node, error) {
	if strings.HasPrefix(p.src[p.pos:], "...") {
		p.pos += 3
		return &Node{Kind: KindEllipsis}, nil
	}
	if p.peek() == '{' {
		return p.parseSet()
	}
	return p.parseNode()
}

func (p *patParser) parseSet() (*Node, error) {
	p.pos++ // consume '{'
	var children []*Node
	for {
		p.skipSpace()
		if p.peek() == '}' {
			p.pos++
			break
		}
		if p.pos >= len(p.src) {
			return nil, &Error{Reason: "unterminated set pattern: missing '}'"}
		}
		if p.peek() == '{' || strings.HasPrefix(p.src[p.pos:], "...") {
			return nil, &Error{Reason: "nested sets and ellipsis are not allowed inside a set pattern"}
		}
		child, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		children = append(children, child)
		p.skipSpace()
	}
	if len(children) == 0 {
		return nil, &Error{Reason: "set pattern must have at least one element"}
	}
	return &Node{Kind: KindSet, Children: children}, nil
}

func (p *patParser) parseWildcard() (*Node, error) {
	p.pos++ // consume '*'
	typ, err := p.parseOptionalType()
	if err != nil {
		return nil, err
	}
	return &Node{Kind: KindWildcard, Type: typ}, nil
}

func (p *patParser) parseVariable() (*Node, error) {
	p.pos++ // consume '$'
	start := p.pos
	for p.pos < len(p.src) && isIdentRune(p.src[p.pos]) {
		p.pos++
	}
	name := p.src[start:p.pos]
	if name == "" {
		return nil, &Error{Reason: "variable name must not be empty"}
	}
	typ, err := p.parseOptionalType()
	if err != nil {
		return nil, err
	}
	var role hgtype.Role
	if p.peek() == ':' {
		p.pos++
		rstart := p.pos
		for p.pos < len(p.src) && isIdentRune(p.src[p.pos]) {
			p.pos++
		}
		roleStr := p.src[rstart:p.pos]
		if len(roleStr) != 1 {
			return nil, &Error{Reason: "role constraint must be a single letter, got " + roleStr}
		}
		role = hgtype.Role(strings.ToLower(roleStr))
		if !hgtype.IsKnownRole(role) {
			return nil, &Error{Reason: "unknown role constraint " + roleStr}
		}
	}
	return &Node{Kind: KindVariable, Name: name, Type: typ, Role: role}, nil
}

func (p *patParser) parseOptionalType() (hgtype.Code, error) {
	if p.peek() != '/' {
		return "", nil
	}
	p.pos++
	start := p.pos
	for p.pos < len(p.src) && isIdentRune(p.src[p.pos]) {
		p.pos++
	}
	typeStr := p.src[start:p.pos]
	if len(typeStr) != 1 {
		return "", &Error{Reason: "type constraint must be a single letter, got " + typeStr}
	}
	typ := hgtype.Code(strings.ToUpper(typeStr))
	if !validTypeCode(typ) {
		return "", &Error{Reason: "unknown type code " + typeStr}
	}
	return typ, nil
}

func (p *patParser) parseLiteral() (*Node, error) {
	start := p.pos
	var label string
	var quoted bool
	if p.peek() == '"' {
		quoted = true
		p.pos++
		qstart := p.pos
		for p.pos < len(p.src) && p.src[p.pos] != '"' {
			if p.src[p.pos] == '\\' && p.pos+1 < len(p.src) {
				p.pos++
			}
			p.pos++
		}
		if p.pos >= len(p.src) {
			return nil, &Error{Reason: "unterminated quoted label"}
		}
		label = strings.ReplaceAll(p.src[qstart:p.pos], `\"`, `"`)
		p.pos++ // consume closing quote
	} else {
		for p.pos < len(p.src) && isAtomLabelRune(p.src[p.pos]) {
			p.pos++
		}
		label = p.src[start:p.pos]
		if label == "" {
			return nil, &Error{Reason: "expected a pattern element"}
		}
	}

	if p.peek() != '/' {
		return nil, &Error{Reason: "literal atom pattern missing '/TYPE'"}
	}
	p.pos++
	tstart := p.pos
	for p.pos < len(p.src) && isIdentRune(p.src[p.pos]) {
		p.pos++
	}
	typeStr := p.src[tstart:p.pos]
	if len(typeStr) != 1 {
		return nil, &Error{Reason: "type code must be a single letter, got " + typeStr}
	}
	typ := hgtype.Code(strings.ToUpper(typeStr))
	if !validTypeCode(typ) {
		return nil, &Error{Reason: "unknown type code " + typeStr}
	}

	var role hgtype.Role
	if p.peek() == '.' {
		p.pos++
		rstart := p.pos
		for p.pos < len(p.src) && isIdentRune(p.src[p.pos]) {
			p.pos++
		}
		roleStr := p.src[rstart:p.pos]
		if len(roleStr) != 1 {
			return nil, &Error{Reason: "role code must be a single letter, got " + roleStr}
		}
		role = hgtype.Role(strings.ToLower(roleStr))
	}

	if !quoted {
		label = strings.ToLower(label)
	}
	return &Node{Kind: KindLiteral, Label: label, LiteralType: typ, LiteralRole: role}, nil
}

func isIdentRune(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

func isAtomLabelRune(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '(', ')', '{', '}', '/', ';':
		return false
	default:
		return true
	}
}

func validTypeCode(c hgtype.Code) bool {
	switch c {
	case hgtype.Concept, hgtype.Predicate, hgtype.Modifier, hgtype.Builder,
		hgtype.Trigger, hgtype.Conjunction, hgtype.Relation, hgtype.Specifier:
		return true
	default:
		return false
	}
}
