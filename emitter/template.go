// Package emitter turns a parsed mixin declaration into the find/match/edit
// structure consumed by the mixin engine, either directly (Template.Generate)
// or as Go source for a factory function (GoFile).
package emitter

import (
	"fmt"

	"github.com/gnolang/mxml/fme"
	"github.com/gnolang/mxml/parser"
)

// Value is an attribute value in the compiled template: a literal, or the
// index of the declared parameter it is bound to.
type Value struct {
	Literal string
	Param   string
	Index   int // position in Template.Params, -1 for literals
}

func literal(s string) Value { return Value{Literal: s, Index: -1} }

func (v Value) IsParam() bool { return v.Index >= 0 }

func (v Value) String() string {
	if v.IsParam() {
		return "{{" + v.Param + "}}"
	}
	return fmt.Sprintf("%q", v.Literal)
}

// resolve returns the concrete string for v given the arguments.
func (v Value) resolve(args []string) string {
	if v.IsParam() {
		return args[v.Index]
	}
	return v.Literal
}

// Predicate is a match predicate whose value may still be a parameter.
type Predicate struct {
	Kind  fme.MatchKind
	Key   string
	Value Value
}

// Op is an edit operation whose value may still be a parameter.
type Op struct {
	Kind  fme.EditKind
	Key   string
	Value Value
}

// Node is the compiled form of one element pattern.
type Node struct {
	Match    []Predicate
	Edit     []Op
	Children []*Node
}

// Template is a compiled mixin: a generator taking one string per parameter.
type Template struct {
	Name   string
	Params []string
	Root   *Node
}

// Compile validates m and builds its template. Duplicate parameters and
// placeholders naming undeclared parameters are errors; all of them are
// reported in a parser.ErrorList and no template is produced.
func Compile(m *parser.Mixin) (*Template, error) {
	index, errs := checkParams(m)
	errs = append(errs, checkVars(m, index)...)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	return &Template{
		Name:   m.Name,
		Params: m.ParamNames(),
		Root:   buildNode(m.Root, index),
	}, nil
}

func checkParams(m *parser.Mixin) (map[string]int, parser.ErrorList) {
	var errs parser.ErrorList
	index := make(map[string]int, len(m.Params))
	first := make(map[string]parser.Pos, len(m.Params))
	for i, p := range m.Params {
		if pos, ok := first[p.Name]; ok {
			errs = append(errs, &DuplicateParamError{Mixin: m.Name, Name: p.Name, Pos: p.Pos, First: pos})
			continue
		}
		first[p.Name] = p.Pos
		index[p.Name] = i
	}
	return index, errs
}

func checkVars(m *parser.Mixin, index map[string]int) parser.ErrorList {
	var errs parser.ErrorList
	parser.Walk(m.Root, func(e *parser.Element) bool {
		for _, a := range e.Attrs {
			if !a.Value.IsVar {
				continue
			}
			if _, ok := index[a.Value.Var]; !ok {
				errs = append(errs, &UnresolvedParamError{Mixin: m.Name, Name: a.Value.Var, Pos: a.Value.Pos})
			}
		}
		return true
	})
	return errs
}

// buildNode classifies the attributes of e: the tag predicate (unless e is a
// wildcard) and '~' attributes become match predicates, '+' attributes become
// edits, both in source order.
func buildNode(e *parser.Element, index map[string]int) *Node {
	n := &Node{
		Match:    make([]Predicate, 0, len(e.Attrs)+1),
		Edit:     make([]Op, 0, len(e.Attrs)),
		Children: make([]*Node, 0, len(e.Body.Children)),
	}
	if !e.Name.Any {
		n.Match = append(n.Match, Predicate{Kind: fme.HasTag, Value: literal(e.Name.Name)})
	}
	for _, a := range e.Attrs {
		v := literal(a.Value.Literal)
		if a.Value.IsVar {
			v = Value{Param: a.Value.Var, Index: index[a.Value.Var]}
		}
		if a.IsMatch() {
			n.Match = append(n.Match, Predicate{Kind: fme.HasAttributeValue, Key: a.Key.Name, Value: v})
		} else {
			n.Edit = append(n.Edit, Op{Kind: fme.AddAttribute, Key: a.Key.Name, Value: v})
		}
	}
	// self-closing elements have no children
	for _, c := range e.Body.Children {
		n.Children = append(n.Children, buildNode(c, index))
	}
	return n
}

// Generate binds args to the parameters in declared order and returns the
// nested spec.
func (t *Template) Generate(args ...string) (*fme.Spec, error) {
	if len(args) != len(t.Params) {
		return nil, &ArgCountError{Mixin: t.Name, Want: len(t.Params), Got: len(args)}
	}
	return t.Root.spec(args), nil
}

// Args orders named values by the declared parameters. Every parameter must
// have a value; names that are not parameters are rejected.
func (t *Template) Args(values map[string]string) ([]string, error) {
	args := make([]string, len(t.Params))
	for i, p := range t.Params {
		v, ok := values[p]
		if !ok {
			return nil, fmt.Errorf("mixin %s: missing value for parameter %q", t.Name, p)
		}
		args[i] = v
	}
	if len(values) > len(t.Params) {
		for name := range values {
			if !t.hasParam(name) {
				return nil, fmt.Errorf("mixin %s: unknown parameter %q", t.Name, name)
			}
		}
	}
	return args, nil
}

func (t *Template) hasParam(name string) bool {
	for _, p := range t.Params {
		if p == name {
			return true
		}
	}
	return false
}

func (n *Node) spec(args []string) *fme.Spec {
	s := &fme.Spec{
		Root: fme.Rule{
			Find:  fme.FindElement{Find: []fme.Find{}},
			Match: fme.MatchElement{When: make([]fme.Match, 0, len(n.Match))},
			Edit:  fme.EditElement{Edit: make([]fme.Edit, 0, len(n.Edit))},
		},
	}
	for _, p := range n.Match {
		s.Root.Match.When = append(s.Root.Match.When, fme.Match{Kind: p.Kind, Key: p.Key, Value: p.Value.resolve(args)})
	}
	for _, op := range n.Edit {
		s.Root.Edit.Edit = append(s.Root.Edit.Edit, fme.Edit{Kind: op.Kind, Key: op.Key, Value: op.Value.resolve(args)})
	}
	for _, c := range n.Children {
		s.Children = append(s.Children, c.spec(args))
	}
	return s
}
