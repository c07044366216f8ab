// internal/css/parser.go
package css

import (
	"fmt"
	"sort"
	"strings"
)

// Parser holds the state of the CSS parser. It understands rule sets made of
// comma-separated simple selectors; anything else is skipped and recorded in
// Errors.
type Parser struct {
	input  string
	pos    int
	errors []error
}

func NewParser(input string) *Parser {
	return &Parser{input: input, pos: 0}
}

// Parse is a convenience wrapper that parses input and discards diagnostics.
func Parse(input string) Stylesheet {
	return NewParser(input).Parse()
}

// Errors returns the diagnostics for rules, selectors and declarations that
// were skipped during Parse.
func (p *Parser) Errors() []error {
	return p.errors
}

func (p *Parser) skipped(format string, args ...any) {
	p.errors = append(p.errors, fmt.Errorf("offset %d: "+format, append([]any{p.pos}, args...)...))
}

// Parse analyzes the input CSS string and builds a Stylesheet.
func (p *Parser) Parse() Stylesheet {
	var rules []Rule
	for {
		p.consumeWhitespace()
		if p.eof() {
			break
		}
		if p.startsWith("/*") {
			p.skipComment()
			continue
		}
		if p.currentChar() == '@' {
			p.skipped("at-rules are not supported")
			p.skipAtRule()
			continue
		}

		selectors := p.parseSelectors()
		if p.eof() || p.currentChar() != '{' {
			p.skipped("expected '{' after selectors")
			p.skipTo('{')
		}
		declarations, err := p.parseDeclarations()
		if err != nil {
			p.errors = append(p.errors, err)
			continue
		}
		if len(selectors) == 0 {
			p.skipped("rule has no supported selectors")
			continue
		}
		if len(declarations) > 0 {
			rules = append(rules, Rule{Selectors: selectors, Declarations: declarations})
		}
	}
	return Stylesheet{Rules: rules}
}

// parseSelectors parses a comma-separated list of simple selectors, most
// specific first. Compound selectors are dropped.
func (p *Parser) parseSelectors() []SimpleSelector {
	var selectors []SimpleSelector
	for {
		p.consumeWhitespace()
		if p.eof() || p.currentChar() == '{' {
			break
		}
		start := p.pos
		selector, ok := p.parseSimpleSelector()
		p.consumeWhitespace()
		if !p.eof() && p.currentChar() != ',' && p.currentChar() != '{' {
			// Anything after the simple selector is a combinator or an
			// unsupported component.
			p.skipTo(',', '{')
			ok = false
		}
		if ok {
			selectors = append(selectors, selector)
		} else {
			p.skipped("unsupported selector %q", strings.TrimSpace(p.input[start:p.pos]))
		}
		if !p.eof() && p.currentChar() == ',' {
			p.consumeChar()
			continue
		}
		break
	}
	sort.SliceStable(selectors, func(i, j int) bool {
		return selectors[j].Specificity().Less(selectors[i].Specificity())
	})
	return selectors
}

// parseSimpleSelector parses a single selector component (e.g., div#id.class1.class2).
func (p *Parser) parseSimpleSelector() (SimpleSelector, bool) {
	selector := SimpleSelector{}
	parsedSomething := false

	if !p.eof() {
		ch := p.currentChar()
		if ch == '*' {
			p.consumeChar()
			parsedSomething = true
		} else if isValidIdentifierStart(ch) {
			selector.TagName = strings.ToLower(p.parseIdentifier())
			parsedSomething = true
		}
	}

	for !p.eof() {
		switch p.currentChar() {
		case '#':
			p.consumeChar()
			selector.ID = p.parseIdentifier()
			if selector.ID == "" {
				return selector, false
			}
		case '.':
			p.consumeChar()
			class := p.parseIdentifier()
			if class == "" {
				return selector, false
			}
			selector.Classes = append(selector.Classes, class)
		default:
			return selector, parsedSomething
		}
		parsedSomething = true
	}
	return selector, parsedSomething
}

// parseDeclarations parses the content within { ... }.
func (p *Parser) parseDeclarations() ([]Declaration, error) {
	p.consumeWhitespace()
	if p.eof() || p.currentChar() != '{' {
		return nil, fmt.Errorf("offset %d: expected '{' at start of declarations", p.pos)
	}
	p.consumeChar() // Consume '{'

	var declarations []Declaration
	for {
		p.consumeWhitespace()
		if p.eof() || p.currentChar() == '}' {
			break
		}

		if p.startsWith("/*") {
			p.skipComment()
			continue
		}

		name, raw := p.parseDeclaration()
		if name == "" || raw == "" {
			continue
		}
		decls, err := expandDeclaration(strings.ToLower(name), raw)
		if err != nil {
			p.skipped("declaration %q: %v", name, err)
			continue
		}
		declarations = append(declarations, decls...)
	}

	if !p.eof() && p.currentChar() == '}' {
		p.consumeChar() // Consume '}'
	}
	return declarations, nil
}

// parseDeclaration parses a single 'property: value;' pair.
func (p *Parser) parseDeclaration() (prop, val string) {
	if !isValidIdentifierStart(p.currentChar()) {
		p.skipTo(';', '}')
		if !p.eof() && p.currentChar() == ';' {
			p.consumeChar()
		}
		return
	}
	prop = p.parseIdentifier()
	p.consumeWhitespace()

	if p.eof() || p.currentChar() != ':' {
		p.skipTo(';', '}')
		if !p.eof() && p.currentChar() == ';' {
			p.consumeChar()
		}
		return "", ""
	}
	p.consumeChar()
	p.consumeWhitespace()

	val = p.parseValue()

	p.consumeWhitespace()
	if !p.eof() && p.currentChar() == ';' {
		p.consumeChar()
	}
	return
}

// parseValue reads a CSS value until a delimiter.
func (p *Parser) parseValue() string {
	start := p.pos
	for !p.eof() {
		ch := p.currentChar()
		if ch == ';' || ch == '}' {
			break
		}
		if ch == '"' || ch == '\'' {
			p.skipQuotedString(ch)
			continue
		}
		if ch == '(' {
			p.consumeChar()
			p.skipBlock('(', ')')
			continue
		}
		p.pos++
	}
	return strings.TrimSpace(p.input[start:p.pos])
}

// sideShorthands lists the properties that expand into per-side longhands
// (top, right, bottom, left).
var sideShorthands = map[string][4]string{
	"margin":       {"margin-top", "margin-right", "margin-bottom", "margin-left"},
	"padding":      {"padding-top", "padding-right", "padding-bottom", "padding-left"},
	"border-width": {"border-top-width", "border-right-width", "border-bottom-width", "border-left-width"},
}

// expandDeclaration converts raw declaration text into typed declarations.
// Side shorthands always expand into per-side longhands so they compete with
// longhands from other rules; a single-component shorthand is also kept as is
// for lookups that fall back to it.
func expandDeclaration(name, raw string) ([]Declaration, error) {
	if strings.HasSuffix(strings.ToLower(raw), "!important") {
		return nil, fmt.Errorf("!important is not supported")
	}
	parts := strings.Fields(raw)
	sides, ok := sideShorthands[name]
	if len(parts) == 1 {
		v, err := ParseValue(parts[0])
		if err != nil {
			return nil, err
		}
		decls := []Declaration{{Name: name, Value: v}}
		if ok {
			decls = append(decls, sideDeclarations(sides, v, v, v, v)...)
		}
		return decls, nil
	}

	if !ok || len(parts) > 4 {
		return nil, fmt.Errorf("multi-component value %q is not supported", raw)
	}
	values := make([]Value, len(parts))
	for i, part := range parts {
		v, err := ParseValue(part)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}

	var top, right, bottom, left Value
	switch len(values) {
	case 2:
		top, right, bottom, left = values[0], values[1], values[0], values[1]
	case 3:
		top, right, bottom, left = values[0], values[1], values[2], values[1]
	case 4:
		top, right, bottom, left = values[0], values[1], values[2], values[3]
	}
	return sideDeclarations(sides, top, right, bottom, left), nil
}

func sideDeclarations(sides [4]string, top, right, bottom, left Value) []Declaration {
	return []Declaration{
		{Name: sides[0], Value: top},
		{Name: sides[1], Value: right},
		{Name: sides[2], Value: bottom},
		{Name: sides[3], Value: left},
	}
}

// --- Lexer-like Helpers ---

func (p *Parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *Parser) currentChar() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *Parser) consumeChar() byte {
	ch := p.currentChar()
	if !p.eof() {
		p.pos++
	}
	return ch
}

func (p *Parser) consumeWhitespace() {
	for !p.eof() && isWhitespace(p.currentChar()) {
		p.pos++
	}
}

func (p *Parser) startsWith(s string) bool {
	if p.pos+len(s) > len(p.input) {
		return false
	}
	return p.input[p.pos:p.pos+len(s)] == s
}

func (p *Parser) skipComment() {
	p.pos += 2
	endIndex := strings.Index(p.input[p.pos:], "*/")
	if endIndex == -1 {
		p.pos = len(p.input)
	} else {
		p.pos += endIndex + 2
	}
}

func (p *Parser) skipTo(targets ...byte) {
	for !p.eof() {
		ch := p.currentChar()
		for _, target := range targets {
			if ch == target {
				return
			}
		}
		p.pos++
	}
}

// skipBlock consumes input up to and including the close byte matching an
// already consumed open byte.
func (p *Parser) skipBlock(open, close byte) {
	depth := 1
	for !p.eof() {
		c := p.consumeChar()
		if c == open {
			depth++
		} else if c == close {
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

func (p *Parser) skipQuotedString(quote byte) {
	p.consumeChar() // Consume opening quote
	for !p.eof() {
		ch := p.consumeChar()
		if ch == '\\' {
			p.consumeChar()
		} else if ch == quote {
			return
		}
	}
}

func (p *Parser) skipAtRule() {
	p.consumeChar() // Consume '@'
	_ = p.parseIdentifier()
	p.consumeWhitespace()
	for !p.eof() {
		ch := p.currentChar()
		if ch == '{' {
			p.consumeChar()
			p.skipBlock('{', '}')
			return
		}
		if ch == ';' {
			p.consumeChar()
			return
		}
		p.pos++
	}
}

func (p *Parser) parseIdentifier() string {
	start := p.pos
	for !p.eof() && isValidIdentifierChar(p.currentChar()) {
		p.pos++
	}
	return p.input[start:p.pos]
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isValidIdentifierStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '-'
}

func isValidIdentifierChar(ch byte) bool {
	return isValidIdentifierStart(ch) || (ch >= '0' && ch <= '9')
}
