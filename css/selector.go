package css

import (
	"strings"

	"github.com/chrisuehlinger/selectron/dom"
)

// Selector represents a parsed selector list.
type Selector struct {
	// A selector is a list of complex selectors separated by commas
	ComplexSelectors []*ComplexSelector
}

// ComplexSelector is a chain of compound selectors separated by combinators.
type ComplexSelector struct {
	Compounds []*CompoundSelector
}

// CompoundSelector is a sequence of simple selectors.
type CompoundSelector struct {
	TypeName          string // "" when absent, "*" for universal
	IDSelectors       []string
	ClassSelectors    []string
	AttributeMatchers []*AttributeMatcher
	PseudoClasses     []*PseudoClassSelector
	Combinator        CombinatorType // Combinator following this compound selector
}

// CombinatorType represents the type of combinator.
type CombinatorType int

const (
	CombinatorNone              CombinatorType = iota
	CombinatorDescendant                       // (whitespace)
	CombinatorChild                            // >
	CombinatorNextSibling                      // +
	CombinatorSubsequentSibling                // ~
)

// AttributeMatcher represents an attribute selector.
type AttributeMatcher struct {
	Name            string
	Operator        AttributeOperator
	Value           string
	CaseInsensitive bool
}

// AttributeOperator represents the operator in an attribute selector.
type AttributeOperator int

const (
	AttrExists    AttributeOperator = iota // [attr]
	AttrEquals                             // [attr=value]
	AttrIncludes                           // [attr~=value]
	AttrDashMatch                          // [attr|=value]
	AttrPrefix                             // [attr^=value]
	AttrSuffix                             // [attr$=value]
	AttrSubstring                          // [attr*=value]
)

// PseudoClassSelector represents a structural pseudo-class.
type PseudoClassSelector struct {
	Name     string
	Selector *Selector // argument of :not() and :is()
}

// SelectorParser parses selectors.
type SelectorParser struct {
	tokens []Token
	pos    int
}

// ParseSelector parses a selector string.
func ParseSelector(input string) (*Selector, error) {
	tokens := NewTokenizer(input).TokenizeAll()
	p := &SelectorParser{tokens: tokens}
	sel, err := p.parseSelector()
	if err != nil {
		return nil, err
	}
	if p.current().Type != TokenEOF {
		return nil, dom.ErrSyntax("unexpected token in selector " + quote(input))
	}
	if len(sel.ComplexSelectors) == 0 {
		return nil, dom.ErrSyntax("empty selector")
	}
	return sel, nil
}

// MustParseSelector is like ParseSelector but panics on error. It is meant
// for selectors known at compile time.
func MustParseSelector(input string) *Selector {
	sel, err := ParseSelector(input)
	if err != nil {
		panic(err)
	}
	return sel
}

func (p *SelectorParser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *SelectorParser) consume() Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *SelectorParser) skipWhitespace() bool {
	skipped := false
	for p.current().Type == TokenWhitespace {
		p.consume()
		skipped = true
	}
	return skipped
}

func (p *SelectorParser) isDelim(r rune) bool {
	tok := p.current()
	return tok.Type == TokenDelim && tok.Delim == r
}

// parseSelector parses a selector list.
func (p *SelectorParser) parseSelector() (*Selector, error) {
	selector := &Selector{}
	p.skipWhitespace()

	for {
		complex, err := p.parseComplexSelector()
		if err != nil {
			return nil, err
		}
		if complex == nil {
			return nil, dom.ErrSyntax("expected selector")
		}
		selector.ComplexSelectors = append(selector.ComplexSelectors, complex)

		p.skipWhitespace()
		if p.current().Type != TokenComma {
			return selector, nil
		}
		p.consume()
		p.skipWhitespace()
	}
}

// parseComplexSelector parses compound selectors joined by combinators.
func (p *SelectorParser) parseComplexSelector() (*ComplexSelector, error) {
	complex := &ComplexSelector{}

	for {
		compound, err := p.parseCompoundSelector()
		if err != nil {
			return nil, err
		}
		if compound == nil {
			if len(complex.Compounds) > 0 {
				return nil, dom.ErrSyntax("dangling combinator")
			}
			return nil, nil
		}
		complex.Compounds = append(complex.Compounds, compound)

		hadWhitespace := p.skipWhitespace()
		tok := p.current()
		switch {
		case tok.Type == TokenDelim && tok.Delim == '>':
			compound.Combinator = CombinatorChild
		case tok.Type == TokenDelim && tok.Delim == '+':
			compound.Combinator = CombinatorNextSibling
		case tok.Type == TokenDelim && tok.Delim == '~':
			compound.Combinator = CombinatorSubsequentSibling
		case tok.Type == TokenEOF, tok.Type == TokenComma, tok.Type == TokenCloseParen:
			return complex, nil
		case hadWhitespace:
			compound.Combinator = CombinatorDescendant
			continue
		default:
			return complex, nil
		}
		p.consume()
		p.skipWhitespace()
	}
}

// parseCompoundSelector parses a compound selector, returning nil when none starts here.
func (p *SelectorParser) parseCompoundSelector() (*CompoundSelector, error) {
	compound := &CompoundSelector{}
	hasContent := false

	switch tok := p.current(); {
	case tok.Type == TokenIdent:
		compound.TypeName = strings.ToLower(p.consume().Value)
		hasContent = true
	case tok.Type == TokenDelim && tok.Delim == '*':
		p.consume()
		compound.TypeName = "*"
		hasContent = true
	}

	for {
		tok := p.current()
		switch {
		case tok.Type == TokenHash:
			p.consume()
			compound.IDSelectors = append(compound.IDSelectors, tok.Value)
		case tok.Type == TokenDelim && tok.Delim == '.':
			p.consume()
			if p.current().Type != TokenIdent {
				return nil, dom.ErrSyntax("expected class name after '.'")
			}
			compound.ClassSelectors = append(compound.ClassSelectors, p.consume().Value)
		case tok.Type == TokenOpenSquare:
			attr, err := p.parseAttributeSelector()
			if err != nil {
				return nil, err
			}
			compound.AttributeMatchers = append(compound.AttributeMatchers, attr)
		case tok.Type == TokenColon:
			pc, err := p.parsePseudoClass()
			if err != nil {
				return nil, err
			}
			compound.PseudoClasses = append(compound.PseudoClasses, pc)
		default:
			if !hasContent {
				return nil, nil
			}
			return compound, nil
		}
		hasContent = true
	}
}

// parseAttributeSelector parses an attribute selector.
func (p *SelectorParser) parseAttributeSelector() (*AttributeMatcher, error) {
	p.consume() // [
	p.skipWhitespace()

	if p.current().Type != TokenIdent {
		return nil, dom.ErrSyntax("expected attribute name")
	}
	attr := &AttributeMatcher{Name: strings.ToLower(p.consume().Value)}
	p.skipWhitespace()

	if p.current().Type == TokenCloseSquare {
		p.consume()
		attr.Operator = AttrExists
		return attr, nil
	}

	if p.isDelim('=') {
		p.consume()
		attr.Operator = AttrEquals
	} else {
		ops := map[rune]AttributeOperator{
			'~': AttrIncludes,
			'|': AttrDashMatch,
			'^': AttrPrefix,
			'$': AttrSuffix,
			'*': AttrSubstring,
		}
		tok := p.current()
		op, ok := ops[tok.Delim]
		if tok.Type != TokenDelim || !ok {
			return nil, dom.ErrSyntax("invalid attribute operator")
		}
		p.consume()
		if !p.isDelim('=') {
			return nil, dom.ErrSyntax("invalid attribute operator")
		}
		p.consume()
		attr.Operator = op
	}

	p.skipWhitespace()
	tok := p.current()
	if tok.Type != TokenString && tok.Type != TokenIdent {
		return nil, dom.ErrSyntax("expected attribute value")
	}
	attr.Value = p.consume().Value
	p.skipWhitespace()

	if tok := p.current(); tok.Type == TokenIdent && strings.EqualFold(tok.Value, "i") {
		attr.CaseInsensitive = true
		p.consume()
		p.skipWhitespace()
	}

	if p.current().Type != TokenCloseSquare {
		return nil, dom.ErrSyntax("unterminated attribute selector")
	}
	p.consume()
	return attr, nil
}

// parsePseudoClass parses a pseudo-class selector.
func (p *SelectorParser) parsePseudoClass() (*PseudoClassSelector, error) {
	p.consume() // :
	tok := p.consume()
	switch tok.Type {
	case TokenIdent:
		name := strings.ToLower(tok.Value)
		switch name {
		case "first-child", "last-child", "only-child", "empty":
			return &PseudoClassSelector{Name: name}, nil
		}
		return nil, dom.ErrSyntax("unsupported pseudo-class :" + name)
	case TokenFunction:
		name := strings.ToLower(tok.Value)
		if name != "not" && name != "is" {
			return nil, dom.ErrSyntax("unsupported pseudo-class :" + name + "()")
		}
		inner, err := p.parseSelector()
		if err != nil {
			return nil, err
		}
		p.skipWhitespace()
		if p.current().Type != TokenCloseParen {
			return nil, dom.ErrSyntax("unterminated :" + name + "()")
		}
		p.consume()
		return &PseudoClassSelector{Name: name, Selector: inner}, nil
	}
	return nil, dom.ErrSyntax("expected pseudo-class name")
}

func quote(s string) string {
	return "\"" + s + "\""
}
