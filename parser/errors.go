package parser

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// PosError is implemented by every compile error that points at the source.
type PosError interface {
	error
	Position() Pos
	// Kind is a short, stable name for the error class, e.g. "closing-tag-mismatch".
	Kind() string
}

var (
	_ PosError = (*LexError)(nil)
	_ PosError = (*UnexpectedTokenError)(nil)
	_ PosError = (*ClosingTagMismatchError)(nil)
	_ PosError = (*MalformedVariableError)(nil)
)

// LexError is returned for input the lexer cannot split into tokens.
type LexError struct {
	Pos Pos
	Msg string
}

func (e *LexError) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Msg) }
func (e *LexError) Position() Pos { return e.Pos }
func (e *LexError) Kind() string  { return "invalid-token" }

// UnexpectedTokenError is returned when a required token is absent.
// Expected lists the alternatives that would have been accepted.
type UnexpectedTokenError struct {
	Found    Token
	Expected []TokenType
	// Context names the construct being parsed, e.g. "attribute".
	Context string
}

func newUnexpected(found Token, context string, expected ...TokenType) *UnexpectedTokenError {
	return &UnexpectedTokenError{Found: found, Expected: expected, Context: context}
}

func (e *UnexpectedTokenError) Error() string {
	var names []string
	for _, tt := range e.Expected {
		names = append(names, tt.String())
	}
	// join the last two with "or"
	if n := len(names); n >= 2 {
		names[n-2] = names[n-2] + " or " + names[n-1]
		names = names[:n-1]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: unexpected %s", e.Found.Pos, e.Found)
	if e.Context != "" {
		fmt.Fprintf(&sb, " in %s", e.Context)
	}
	if len(names) > 0 {
		fmt.Fprintf(&sb, ", expected %s", strings.Join(names, ", "))
	}
	return sb.String()
}

func (e *UnexpectedTokenError) Position() Pos { return e.Found.Pos }
func (e *UnexpectedTokenError) Kind() string  { return "unexpected-token" }

// ClosingTagMismatchError is returned when a concrete element is closed
// with a different name than it was opened with.
type ClosingTagMismatchError struct {
	Open  TagName
	Close TagName
}

func (e *ClosingTagMismatchError) Error() string {
	return fmt.Sprintf("%s: expected </%s> found </%s>", e.Close.Pos, e.Open, e.Close)
}

func (e *ClosingTagMismatchError) Position() Pos { return e.Close.Pos }
func (e *ClosingTagMismatchError) Kind() string  { return "closing-tag-mismatch" }

// MalformedVariableError is returned for a '{' that does not start a
// well-formed {{name}} placeholder.
type MalformedVariableError struct {
	Pos Pos
	Msg string
}

func (e *MalformedVariableError) Error() string {
	return fmt.Sprintf("%s: malformed variable reference: %s", e.Pos, e.Msg)
}

func (e *MalformedVariableError) Position() Pos { return e.Pos }
func (e *MalformedVariableError) Kind() string  { return "malformed-variable" }

// ErrorList collects the errors of independent declarations in one file.
type ErrorList []error

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	msgs := make([]string, len(l))
	for i, err := range l {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", msgs[0], len(l)-1) + "\n" + strings.Join(msgs[1:], "\n")
}

func (l ErrorList) Unwrap() []error { return l }

// Sort orders the list by source position. Errors without a position keep
// their relative order after the positioned ones.
func (l ErrorList) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		pi, iok := errorPos(l[i])
		pj, jok := errorPos(l[j])
		if iok != jok {
			return iok
		}
		return iok && pi.Offset < pj.Offset
	})
}

func errorPos(err error) (Pos, bool) {
	var pe PosError
	if errors.As(err, &pe) && pe.Position().IsValid() {
		return pe.Position(), true
	}
	return Pos{}, false
}

// Err returns nil for an empty list.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}
