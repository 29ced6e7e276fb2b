package parser

// Options adjusts the grammar checks.
type Options struct {
	// StrictWildcard requires a '?' element to be closed with </?>.
	// By default the closing name of a wildcard element is parsed but not checked.
	StrictWildcard bool
}

// Parser consumes tokens produced by the lexer and builds the parse tree.
// The cursor only moves forward; peek and peek2 never consume.
type Parser struct {
	tokens  []Token
	current int
	opts    Options
}

// NewParser creates a new Parser over tokens, which must end with TokenEOF.
func NewParser(tokens []Token, opts Options) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != TokenEOF {
		tokens = append(tokens, Token{Type: TokenEOF})
	}
	return &Parser{
		tokens:  tokens,
		current: 0,
		opts:    opts,
	}
}

// Parse parses src as exactly one mixin declaration. A single trailing ';'
// is allowed; anything else after the root element is an error.
func Parse(src string, opts Options) (*Mixin, error) {
	tokens, err := NewLexer(src).Tokenize()
	if err != nil {
		return nil, err
	}
	p := NewParser(tokens, opts)
	m, err := p.ParseMixin()
	if err != nil {
		return nil, err
	}
	if p.peekIs(TokenSemicolon) {
		p.next()
	}
	if !p.peekIs(TokenEOF) {
		return nil, newUnexpected(p.peek(), "declaration", TokenEOF)
	}
	return m, nil
}

// ParseFile parses a sequence of mixin declarations separated by ';'.
// A syntax error aborts only the declaration it occurs in: the parser skips
// to the next ';' and carries on. All successfully parsed declarations are
// returned together with an ErrorList of the failures.
func ParseFile(src string, opts Options) ([]*Mixin, error) {
	tokens, err := NewLexer(src).Tokenize()
	if err != nil {
		return nil, err
	}

	p := NewParser(tokens, opts)
	var (
		mixins []*Mixin
		errs   ErrorList
	)
	for !p.peekIs(TokenEOF) {
		if p.peekIs(TokenSemicolon) {
			p.next() // empty declaration
			continue
		}
		m, err := p.ParseMixin()
		if err == nil && !p.peekIs(TokenSemicolon) && !p.peekIs(TokenEOF) {
			err = newUnexpected(p.peek(), "declaration", TokenSemicolon, TokenEOF)
		}
		if err != nil {
			errs = append(errs, err)
			p.synchronize()
			continue
		}
		mixins = append(mixins, m)
	}
	return mixins, errs.Err()
}

// synchronize skips past the next ';' so parsing can resume at the
// following declaration.
func (p *Parser) synchronize() {
	for !p.peekIs(TokenEOF) {
		if p.next().Type == TokenSemicolon {
			return
		}
	}
}

// ParseMixin parses `name ( params ) , <root element>`. Tokens after the
// root element are left for the caller.
func (p *Parser) ParseMixin() (*Mixin, error) {
	name, err := p.expect(TokenIdent, "mixin declaration")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLParen, "mixin declaration"); err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenComma, "mixin declaration"); err != nil {
		return nil, err
	}
	root, err := p.parseElement()
	if err != nil {
		return nil, err
	}
	return &Mixin{
		Name:    name.Value,
		NamePos: name.Pos,
		Params:  params,
		Root:    root,
	}, nil
}

// parseParams parses a possibly empty, comma separated identifier list and
// the closing ')'. A trailing comma is accepted.
func (p *Parser) parseParams() ([]Param, error) {
	params := make([]Param, 0)
	for !p.peekIs(TokenRParen) {
		id, err := p.expect(TokenIdent, "parameter list")
		if err != nil {
			return nil, err
		}
		params = append(params, Param{Name: id.Value, Pos: id.Pos})

		if !p.peekIs(TokenComma) {
			break
		}
		p.next()
	}
	if _, err := p.expect(TokenRParen, "parameter list"); err != nil {
		return nil, err
	}
	return params, nil
}

// parseElement parses `< TagName Attr* Body >`.
func (p *Parser) parseElement() (*Element, error) {
	open, err := p.expect(TokenLAngle, "element")
	if err != nil {
		return nil, err
	}
	name, err := p.parseTagName("element")
	if err != nil {
		return nil, err
	}
	attrs, err := p.parseAttrs()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBody(name)
	if err != nil {
		return nil, err
	}
	// the '>' closing the whole construct
	if _, err := p.expect(TokenRAngle, "element"); err != nil {
		return nil, err
	}
	return &Element{
		Name:  name,
		Attrs: attrs,
		Body:  body,
		pos:   open.Pos,
	}, nil
}

// parseBody parses either '/' or `> Element* < / TagName`.
func (p *Parser) parseBody(open TagName) (Body, error) {
	if p.peekIs(TokenSlash) {
		p.next()
		return Body{SelfClosing: true}, nil
	}

	if _, err := p.expect(TokenRAngle, "element", TokenSlash); err != nil {
		return Body{}, err
	}

	children := make([]*Element, 0)
	for !p.peek2(TokenLAngle, TokenSlash) {
		child, err := p.parseElement()
		if err != nil {
			return Body{}, err
		}
		children = append(children, child)
	}
	p.next() // '<'
	p.next() // '/'

	closing, err := p.parseTagName("closing tag")
	if err != nil {
		return Body{}, err
	}
	if err := p.checkClosing(open, closing); err != nil {
		return Body{}, err
	}
	return Body{Children: children, Closing: closing}, nil
}

func (p *Parser) checkClosing(open, closing TagName) error {
	if open.Any {
		if p.opts.StrictWildcard && !closing.Any {
			return &ClosingTagMismatchError{Open: open, Close: closing}
		}
		return nil
	}
	if closing.String() != open.String() {
		return &ClosingTagMismatchError{Open: open, Close: closing}
	}
	return nil
}

func (p *Parser) parseTagName(context string) (TagName, error) {
	tok := p.peek()
	switch tok.Type {
	case TokenAny:
		p.next()
		return TagName{Any: true, Pos: tok.Pos}, nil
	case TokenIdent:
		p.next()
		return TagName{Name: tok.Value, Pos: tok.Pos}, nil
	default:
		return TagName{}, newUnexpected(tok, context, TokenIdent, TokenAny)
	}
}

// parseAttrs consumes attributes while the lookahead is a '~' or '+' marker.
func (p *Parser) parseAttrs() ([]*Attr, error) {
	attrs := make([]*Attr, 0)
	for p.peekIs(TokenTilde) || p.peekIs(TokenPlus) {
		attr, err := p.parseAttr()
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, attr)
	}
	return attrs, nil
}

func (p *Parser) parseAttr() (*Attr, error) {
	marker := p.next()
	prefix := PrefixAdd
	if marker.Type == TokenTilde {
		prefix = PrefixMatch
	}

	var key Key
	switch tok := p.peek(); tok.Type {
	case TokenIdent:
		key = Key{Name: tok.Value, Pos: tok.Pos}
	case TokenString:
		key = Key{Name: tok.Value, Quoted: true, Pos: tok.Pos}
	default:
		return nil, newUnexpected(tok, "attribute", TokenIdent, TokenString)
	}
	p.next()

	if _, err := p.expect(TokenAssign, "attribute"); err != nil {
		return nil, err
	}
	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	return &Attr{Prefix: prefix, Key: key, Value: value, pos: marker.Pos}, nil
}

// parseValue parses a string literal or a {{name}} placeholder.
func (p *Parser) parseValue() (Value, error) {
	tok := p.peek()
	switch tok.Type {
	case TokenString:
		p.next()
		return Value{Literal: tok.Value, Pos: tok.Pos}, nil
	case TokenLBrace:
		return p.parseVar()
	default:
		return Value{}, newUnexpected(tok, "attribute value", TokenString, TokenLBrace)
	}
}

func (p *Parser) parseVar() (Value, error) {
	open := p.next()
	if !p.peekIs(TokenLBrace) {
		return Value{}, &MalformedVariableError{Pos: p.peek().Pos, Msg: "expected '{{' but found single '{'"}
	}
	p.next()

	name := p.peek()
	if name.Type != TokenIdent {
		return Value{}, &MalformedVariableError{Pos: name.Pos, Msg: "missing parameter name, found " + name.String()}
	}
	p.next()

	for i := 0; i < 2; i++ {
		if !p.peekIs(TokenRBrace) {
			return Value{}, &MalformedVariableError{Pos: p.peek().Pos, Msg: "expected '}}' after " + name.Value}
		}
		p.next()
	}
	return Value{Var: name.Value, IsVar: true, Pos: open.Pos}, nil
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	return p.peekN(0)
}

func (p *Parser) peekN(n int) Token {
	if p.current+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.current+n]
}

func (p *Parser) peekIs(tt TokenType) bool {
	return p.peek().Type == tt
}

// peek2 reports whether the next two tokens are a followed by b.
func (p *Parser) peek2(a, b TokenType) bool {
	return p.peekN(0).Type == a && p.peekN(1).Type == b
}

// next consumes and returns the current token. EOF is never consumed.
func (p *Parser) next() Token {
	tok := p.peek()
	if tok.Type != TokenEOF {
		p.current++
	}
	return tok
}

// expect consumes a token of type tt or fails without consuming.
// also lists extra alternatives for the error message only.
func (p *Parser) expect(tt TokenType, context string, also ...TokenType) (Token, error) {
	tok := p.peek()
	if tok.Type != tt {
		return tok, newUnexpected(tok, context, append(also, tt)...)
	}
	return p.next(), nil
}
