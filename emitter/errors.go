package emitter

import (
	"fmt"

	"github.com/gnolang/mxml/parser"
)

var (
	_ parser.PosError = (*UnresolvedParamError)(nil)
	_ parser.PosError = (*DuplicateParamError)(nil)
)

// UnresolvedParamError is returned when a {{name}} placeholder names a
// parameter the mixin does not declare.
type UnresolvedParamError struct {
	Mixin string
	Name  string
	Pos   parser.Pos
}

func (e *UnresolvedParamError) Error() string {
	return fmt.Sprintf("%s: mixin %s has no parameter %q", e.Pos, e.Mixin, e.Name)
}

func (e *UnresolvedParamError) Position() parser.Pos { return e.Pos }
func (e *UnresolvedParamError) Kind() string         { return "unresolved-parameter" }

// DuplicateParamError is returned when a parameter name is declared twice.
type DuplicateParamError struct {
	Mixin string
	Name  string
	Pos   parser.Pos
	First parser.Pos
}

func (e *DuplicateParamError) Error() string {
	return fmt.Sprintf("%s: parameter %q of mixin %s already declared at %s", e.Pos, e.Name, e.Mixin, e.First)
}

func (e *DuplicateParamError) Position() parser.Pos { return e.Pos }
func (e *DuplicateParamError) Kind() string         { return "duplicate-parameter" }

// ArgCountError is returned by Template.Generate for a wrong number of arguments.
type ArgCountError struct {
	Mixin string
	Want  int
	Got   int
}

func (e *ArgCountError) Error() string {
	return fmt.Sprintf("mixin %s expects %d arguments, got %d", e.Mixin, e.Want, e.Got)
}
