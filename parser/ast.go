package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// NodeType defines different node types of the parse tree.
type NodeType int

const (
	NodeMixin NodeType = iota
	NodeElement
	NodeAttr
)

// Node is an interface that any parse tree node must implement.
type Node interface {
	Type() NodeType // returns the node type
	String() string // debugging or printing purpose
	Position() Pos  // where the node starts in the input
}

var (
	_ Node = (*Mixin)(nil)
	_ Node = (*Element)(nil)
	_ Node = (*Attr)(nil)
)

// Prefix classifies an attribute as a match predicate or an edit.
type Prefix int

const (
	PrefixMatch Prefix = iota // ~key=value
	PrefixAdd                 // +key=value
)

func (p Prefix) String() string {
	if p == PrefixMatch {
		return "~"
	}
	return "+"
}

// Key is an attribute name, written bare or quoted.
type Key struct {
	Name   string
	Quoted bool
	Pos    Pos
}

func (k Key) String() string {
	if k.Quoted {
		return strconv.Quote(k.Name)
	}
	return k.Name
}

// Value is either a string literal or a {{name}} reference to a parameter
// of the enclosing mixin.
type Value struct {
	Literal string
	Var     string
	IsVar   bool
	Pos     Pos
}

func (v Value) String() string {
	if v.IsVar {
		return "{{" + v.Var + "}}"
	}
	return strconv.Quote(v.Literal)
}

// Attr is one prefixed key=value entry of an element.
type Attr struct {
	Prefix Prefix
	Key    Key
	Value  Value
	pos    Pos
}

func (a *Attr) Type() NodeType { return NodeAttr }
func (a *Attr) Position() Pos  { return a.pos }
func (a *Attr) IsMatch() bool  { return a.Prefix == PrefixMatch }
func (a *Attr) String() string { return a.Prefix.String() + a.Key.String() + "=" + a.Value.String() }

// TagName is an element name or the '?' wildcard.
type TagName struct {
	Name string
	Any  bool
	Pos  Pos
}

func (t TagName) String() string {
	if t.Any {
		return "?"
	}
	return t.Name
}

// Body is the part of an element after its attributes. A full body owns its
// children and records the name written in the closing tag.
type Body struct {
	SelfClosing bool
	Children    []*Element
	Closing     TagName
}

// Element is a tag pattern: name, attributes and body.
type Element struct {
	Name  TagName
	Attrs []*Attr
	Body  Body
	pos   Pos
}

func (e *Element) Type() NodeType { return NodeElement }
func (e *Element) Position() Pos  { return e.pos }

func (e *Element) String() string {
	result := fmt.Sprintf("Element(%s", e.Name)
	for _, a := range e.Attrs {
		result += " " + a.String()
	}
	if e.Body.SelfClosing {
		return result + " /)"
	}
	result += fmt.Sprintf(", %d children):\n", len(e.Body.Children))
	for i, child := range e.Body.Children {
		// apply indentation for children node
		childStr := strings.ReplaceAll(child.String(), "\n", "\n  ")
		result += fmt.Sprintf("  %d: %s\n", i, childStr)
	}
	return strings.TrimRight(result, "\n")
}

// Param is a declared parameter of a mixin.
type Param struct {
	Name string
	Pos  Pos
}

// Mixin is a named, parameterized root element pattern.
type Mixin struct {
	Name    string
	NamePos Pos
	Params  []Param
	Root    *Element
}

func (m *Mixin) Type() NodeType { return NodeMixin }
func (m *Mixin) Position() Pos  { return m.NamePos }

func (m *Mixin) String() string {
	root := strings.ReplaceAll(m.Root.String(), "\n", "\n  ")
	return fmt.Sprintf("Mixin(%s(%s)):\n  %s", m.Name, strings.Join(m.ParamNames(), ", "), root)
}

// ParamNames returns the parameter names in declared order.
func (m *Mixin) ParamNames() []string {
	names := make([]string, len(m.Params))
	for i, p := range m.Params {
		names[i] = p.Name
	}
	return names
}

// Walk calls fn for e and every descendant in document order. Returning
// false from fn skips the children of that element.
func Walk(e *Element, fn func(*Element) bool) {
	if e == nil || !fn(e) {
		return
	}
	for _, c := range e.Body.Children {
		Walk(c, fn)
	}
}
