// Package css implements the CSS subset this engine's style engine
// consumes: selectors (tag, descendant, :focus), declarations, cascade
// priority, and prefers-color-scheme media gating. Grounded in
// _examples/original_source/css.py's CSSParser.
package css

import "strings"

// Selector matches a document node. Node is intentionally an interface
// (rather than *dom.Node) so this package has no dependency on dom,
// avoiding a css↔dom cycle; internal/style adapts *dom.Node to it.
type Selector interface {
	Matches(n MatchNode) bool
	Priority() int
}

// MatchNode is the minimal view of a document node a selector needs.
type MatchNode interface {
	TagName() string
	Focused() bool
	ParentNode() (MatchNode, bool)
}

// TagSelector matches a single tag name, case-folded.
type TagSelector struct{ Tag string }

func (s TagSelector) Matches(n MatchNode) bool { return strings.EqualFold(n.TagName(), s.Tag) }
func (s TagSelector) Priority() int             { return 1 }

// DescendantSelector matches n against Right, then searches n's ancestor
// chain for a match against Left.
type DescendantSelector struct {
	Left, Right Selector
}

func (s DescendantSelector) Matches(n MatchNode) bool {
	if !s.Right.Matches(n) {
		return false
	}
	cur, ok := n.ParentNode()
	for ok {
		if s.Left.Matches(cur) {
			return true
		}
		cur, ok = cur.ParentNode()
	}
	return false
}

func (s DescendantSelector) Priority() int { return s.Left.Priority() + s.Right.Priority() }

// PseudoclassSelector matches Base AND, for ":focus", the node's Focused
// state.
type PseudoclassSelector struct {
	Base  Selector
	Class string
}

func (s PseudoclassSelector) Matches(n MatchNode) bool {
	if !s.Base.Matches(n) {
		return false
	}
	switch s.Class {
	case "focus":
		return n.Focused()
	default:
		return true
	}
}

func (s PseudoclassSelector) Priority() int { return s.Base.Priority() }

// Rule is one parsed CSS rule: a selector, its declarations in source
// order, and an optional prefers-color-scheme gate.
type Rule struct {
	Selector     Selector
	Declarations []Declaration
	// Media is "", "light" or "dark"; "" means the rule always applies.
	Media string
}

type Declaration struct {
	Property string
	Value    string
}

// CascadePriority is the sort key style application uses: rules are
// applied in ascending priority, inline style last (spec §4.2).
func CascadePriority(r Rule) int { return r.Selector.Priority() }

// Parser parses a CSS stylesheet body into a list of Rules.
type Parser struct {
	s   string
	pos int
}

func NewParser(s string) *Parser { return &Parser{s: s} }

func (p *Parser) whitespace() {
	for p.pos < len(p.s) && isSpace(p.s[p.pos]) {
		p.pos++
	}
}

func isSpace(b byte) bool { return b == ' ' || b == '\n' || b == '\t' || b == '\r' }

func (p *Parser) literal(lit byte) bool {
	if p.pos < len(p.s) && p.s[p.pos] == lit {
		p.pos++
		return true
	}
	return false
}

// word reads a run of identifier-ish characters (letters, digits, and
// CSS value punctuation), matching css.py's permissive `word()`.
func (p *Parser) word() string {
	start := p.pos
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		if isWordChar(c) {
			p.pos++
		} else {
			break
		}
	}
	return p.s[start:p.pos]
}

func isWordChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case strings.ContainsRune("#-.%()\"'", rune(c)):
		return true
	}
	return false
}

// pair parses "prop: value" and returns it as a Declaration. The value
// runs up to the next ';' or '}' (so "opacity 0.33s" stays whole).
func (p *Parser) pair() (Declaration, bool) {
	prop := p.word()
	p.whitespace()
	if !p.literal(':') {
		return Declaration{}, false
	}
	p.whitespace()
	start := p.pos
	for p.pos < len(p.s) && p.s[p.pos] != ';' && p.s[p.pos] != '}' {
		p.pos++
	}
	val := strings.TrimSpace(p.s[start:p.pos])
	return Declaration{Property: strings.ToLower(prop), Value: val}, prop != ""
}

// ParseDeclarations parses a standalone declaration list with no
// enclosing braces, e.g. an inline style="..." attribute value.
func (p *Parser) ParseDeclarations() []Declaration {
	var decls []Declaration
	p.whitespace()
	for p.pos < len(p.s) {
		d, ok := p.pair()
		p.whitespace()
		p.literal(';')
		p.whitespace()
		if ok {
			decls = append(decls, d)
		} else {
			break
		}
	}
	return decls
}

func (p *Parser) body() []Declaration {
	var decls []Declaration
	for p.pos < len(p.s) && p.s[p.pos] != '}' {
		p.whitespace()
		if p.pos >= len(p.s) || p.s[p.pos] == '}' {
			break
		}
		d, ok := p.pair()
		p.whitespace()
		p.literal(';')
		p.whitespace()
		if ok {
			decls = append(decls, d)
		} else {
			// Skip the malformed declaration's remainder rather than the
			// whole rule (spec §7: a CSS parse error skips the rule/
			// declaration, not the stylesheet).
			for p.pos < len(p.s) && p.s[p.pos] != ';' && p.s[p.pos] != '}' {
				p.pos++
			}
			p.literal(';')
		}
	}
	return decls
}

func (p *Parser) simpleSelector() Selector {
	p.whitespace()
	tag := p.word()
	var sel Selector = TagSelector{Tag: strings.ToLower(tag)}
	for p.pos < len(p.s) && p.s[p.pos] == ':' {
		p.pos++
		cls := p.word()
		sel = PseudoclassSelector{Base: sel, Class: strings.ToLower(cls)}
	}
	return sel
}

func (p *Parser) selector() Selector {
	sel := p.simpleSelector()
	p.whitespace()
	for p.pos < len(p.s) && p.s[p.pos] != '{' && p.s[p.pos] != ',' {
		next := p.simpleSelector()
		sel = DescendantSelector{Left: sel, Right: next}
		p.whitespace()
	}
	return sel
}

// ParseSelector parses a single selector string (used by querySelectorAll
// in the script bridge, spec §6).
func ParseSelector(s string) Selector {
	p := NewParser(s)
	return p.selector()
}

// Parse parses a full stylesheet, including @media prefers-color-scheme
// blocks (spec §4.2).
func (p *Parser) Parse() []Rule {
	var rules []Rule
	media := ""
	for {
		p.whitespace()
		if p.pos >= len(p.s) {
			break
		}
		if strings.HasPrefix(p.s[p.pos:], "@media") {
			p.pos += len("@media")
			p.whitespace()
			// expect: (prefers-color-scheme: dark) {
			rest := p.s[p.pos:]
			if strings.Contains(rest, "dark") {
				media = "dark"
			} else if strings.Contains(rest, "light") {
				media = "light"
			}
			for p.pos < len(p.s) && p.s[p.pos] != '{' {
				p.pos++
			}
			p.literal('{')
			continue
		}
		if p.literal('}') {
			media = ""
			continue
		}
		sel := p.selector()
		p.whitespace()
		if !p.literal('{') {
			break
		}
		decls := p.body()
		p.literal('}')
		rules = append(rules, Rule{Selector: sel, Declarations: decls, Media: media})
	}
	return rules
}
