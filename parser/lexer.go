package parser

import (
	"strconv"
	"unicode"
)

// Lexer is responsible for scanning the input string and producing tokens.
type Lexer struct {
	input    string // the entire input to tokenize
	position int    // current reading position in input
	line     int
	col      int
	tokens   []Token
}

// NewLexer returns a new Lexer with the given input and initializes state.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		line:   1,
		col:    1,
		tokens: make([]Token, 0),
	}
}

// Tokenize processes the entire input and produces the list of tokens,
// always terminated by a TokenEOF.
func (l *Lexer) Tokenize() ([]Token, error) {
	for l.position < len(l.input) {
		c := l.input[l.position]
		switch {
		case isWhitespace(c):
			l.advance()

		// line comment
		case c == '/' && l.peekByte(1) == '/':
			for l.position < len(l.input) && l.input[l.position] != '\n' {
				l.advance()
			}

		case c == '"':
			if err := l.lexString(); err != nil {
				return nil, err
			}

		case isIdentifierStart(c):
			l.lexIdent()

		default:
			tt, ok := punctuation[c]
			if !ok {
				return nil, &LexError{Pos: l.pos(), Msg: "unexpected character " + strconv.QuoteRune(l.runeAt())}
			}
			start := l.pos()
			l.advance()
			l.addToken(tt, string(c), start)
		}
	}

	// At the end, add an EOF token to indicate we're done.
	l.addToken(TokenEOF, "", l.pos())
	return l.tokens, nil
}

// lexIdent scans [A-Za-z_][A-Za-z0-9_]*.
func (l *Lexer) lexIdent() {
	start := l.pos()
	for l.position < len(l.input) && isIdentifierChar(l.input[l.position]) {
		l.advance()
	}
	l.addToken(TokenIdent, l.input[start.Offset:l.position], start)
}

// lexString scans a double quoted string using Go escape rules.
func (l *Lexer) lexString() error {
	start := l.pos()
	l.advance() // opening quote
	for {
		if l.position >= len(l.input) {
			return &LexError{Pos: start, Msg: "string literal not terminated"}
		}
		c := l.input[l.position]
		if c == '\n' {
			return &LexError{Pos: start, Msg: "newline in string literal"}
		}
		if c == '\\' {
			l.advance()
			if l.position >= len(l.input) {
				return &LexError{Pos: start, Msg: "string literal not terminated"}
			}
			l.advance()
			continue
		}
		l.advance()
		if c == '"' {
			break
		}
	}

	raw := l.input[start.Offset:l.position]
	value, err := strconv.Unquote(raw)
	if err != nil {
		return &LexError{Pos: start, Msg: "invalid string literal " + raw}
	}
	l.addToken(TokenString, value, start)
	return nil
}

func (l *Lexer) advance() {
	if l.input[l.position] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.position++
}

func (l *Lexer) peekByte(n int) byte {
	if l.position+n >= len(l.input) {
		return 0
	}
	return l.input[l.position+n]
}

func (l *Lexer) runeAt() rune {
	for _, r := range l.input[l.position:] {
		return r
	}
	return 0
}

func (l *Lexer) pos() Pos {
	return Pos{Offset: l.position, Line: l.line, Col: l.col}
}

// addToken is a helper to append a new token to the lexer's token list.
// The token ends at the current position.
func (l *Lexer) addToken(tokenType TokenType, value string, start Pos) {
	l.tokens = append(l.tokens, Token{
		Type:  tokenType,
		Value: value,
		Pos:   start,
		End:   l.pos(),
	})
}

func isWhitespace(c byte) bool {
	return unicode.IsSpace(rune(c))
}

func isIdentifierStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentifierChar(c byte) bool {
	return isIdentifierStart(c) || ('0' <= c && c <= '9')
}
