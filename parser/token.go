package parser

import "fmt"

// Pos is a location in the source text.
type Pos struct {
	Offset int // byte offset, 0-based
	Line   int // 1-based
	Col    int // 1-based, in bytes
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// IsValid reports whether p was set by the lexer.
func (p Pos) IsValid() bool { return p.Line > 0 }

// TokenType defines the type of a token.
type TokenType int

const (
	TokenEOF       TokenType = iota // end of input
	TokenIdent                      // tag, key, parameter or mixin name
	TokenString                     // "double quoted"
	TokenLAngle                     // '<'
	TokenRAngle                     // '>'
	TokenSlash                      // '/'
	TokenAny                        // '?'
	TokenTilde                      // '~' match marker
	TokenPlus                       // '+' add marker
	TokenAssign                     // '='
	TokenLParen                     // '('
	TokenRParen                     // ')'
	TokenComma                      // ','
	TokenSemicolon                  // ';'
	TokenLBrace                     // '{'
	TokenRBrace                     // '}'
)

var tokenNames = [...]string{
	TokenEOF:       "EOF",
	TokenIdent:     "identifier",
	TokenString:    "string",
	TokenLAngle:    "'<'",
	TokenRAngle:    "'>'",
	TokenSlash:     "'/'",
	TokenAny:       "'?'",
	TokenTilde:     "'~'",
	TokenPlus:      "'+'",
	TokenAssign:    "'='",
	TokenLParen:    "'('",
	TokenRParen:    "')'",
	TokenComma:     "','",
	TokenSemicolon: "';'",
	TokenLBrace:    "'{'",
	TokenRBrace:    "'}'",
}

func (t TokenType) String() string {
	if t >= 0 && int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return "Unknown"
}

var punctuation = map[byte]TokenType{
	'<': TokenLAngle,
	'>': TokenRAngle,
	'/': TokenSlash,
	'?': TokenAny,
	'~': TokenTilde,
	'+': TokenPlus,
	'=': TokenAssign,
	'(': TokenLParen,
	')': TokenRParen,
	',': TokenComma,
	';': TokenSemicolon,
	'{': TokenLBrace,
	'}': TokenRBrace,
}

// Token represents a single lexical token.
type Token struct {
	Type TokenType
	// Value is the identifier name or the unquoted string contents.
	// For punctuation it is the character itself.
	Value string
	Pos   Pos
	End   Pos
}

func (t Token) String() string {
	switch t.Type {
	case TokenIdent:
		return fmt.Sprintf("identifier %q", t.Value)
	case TokenString:
		return fmt.Sprintf("string %q", t.Value)
	default:
		return t.Type.String()
	}
}
