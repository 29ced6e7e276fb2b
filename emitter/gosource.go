package emitter

import (
	"bytes"
	"fmt"
	"go/token"
	"strconv"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/gnolang/mxml/fme"
)

const fmeImport = "github.com/gnolang/mxml/fme"

// generator writes indented Go source.
type generator struct {
	bytes.Buffer
	indent int
}

func (g *generator) line(format string, args ...any) {
	for i := 0; i < g.indent; i++ {
		g.WriteByte('\t')
	}
	fmt.Fprintf(g, format, args...)
	g.WriteByte('\n')
}

// GoSource returns a Go file declaring the factory function of t.
func (t *Template) GoSource(pkg string) ([]byte, error) {
	return GoFile(pkg, "", t)
}

// GoFile returns a gofmt'd Go file in package pkg declaring one factory
// function per template:
//
//	func Tooltip(message string) *fme.Spec
//
// source, if set, is named in the generated header.
func GoFile(pkg, source string, templates ...*Template) ([]byte, error) {
	if !token.IsIdentifier(pkg) {
		return nil, fmt.Errorf("invalid package name %q", pkg)
	}

	seen := make(map[string]bool, len(templates))
	for _, t := range templates {
		if err := t.checkGoNames(pkg); err != nil {
			return nil, err
		}
		if seen[t.Name] {
			return nil, fmt.Errorf("mixin %s declared more than once", t.Name)
		}
		seen[t.Name] = true
	}

	g := &generator{}
	if source != "" {
		g.line("// Code generated by mxml from %s. DO NOT EDIT.", source)
	} else {
		g.line("// Code generated by mxml. DO NOT EDIT.")
	}
	g.line("")
	g.line("package %s", pkg)
	g.line("")
	g.line("import %q", fmeImport)
	for _, t := range templates {
		g.line("")
		t.writeFunc(g)
	}

	out, err := imports.Process(source+".go", g.Bytes(), &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		return nil, fmt.Errorf("formatting generated source: %w", err)
	}
	return out, nil
}

// reservedNames are identifiers the generated file refers to at package
// scope. A function declared with one of them breaks the file.
var reservedNames = map[string]bool{
	"fme":    true,
	"string": true,
}

// checkGoNames rejects names that cannot appear in the generated function.
func (t *Template) checkGoNames(pkg string) error {
	if !token.IsIdentifier(t.Name) || t.Name == "init" || (pkg == "main" && t.Name == "main") {
		return fmt.Errorf("mixin name %q is not a valid Go function name", t.Name)
	}
	if reservedNames[t.Name] {
		return fmt.Errorf("mixin name %q shadows an identifier used by generated code", t.Name)
	}
	for _, p := range t.Params {
		if !token.IsIdentifier(p) || p == "_" {
			return fmt.Errorf("mixin %s: parameter %q is not a valid Go identifier", t.Name, p)
		}
		if p == "fme" {
			return fmt.Errorf("mixin %s: parameter %q shadows the fme package", t.Name, p)
		}
	}
	return nil
}

func (t *Template) writeFunc(g *generator) {
	params := ""
	if len(t.Params) > 0 {
		params = strings.Join(t.Params, ", ") + " string"
	}
	g.line("// %s builds the find/match/edit spec of the %s mixin.", t.Name, t.Name)
	g.line("func %s(%s) *fme.Spec {", t.Name, params)
	g.indent++
	g.line("return &fme.Spec{")
	g.indent++
	t.Root.writeFields(g)
	g.indent--
	g.line("}")
	g.indent--
	g.line("}")
}

func (n *Node) writeFields(g *generator) {
	g.line("Root: fme.Rule{")
	g.indent++
	g.line("Find: fme.FindElement{Find: []fme.Find{}},")

	g.line("Match: fme.MatchElement{When: []fme.Match{")
	g.indent++
	for _, p := range n.Match {
		if p.Kind == fme.HasTag {
			g.line("fme.MatchTag(%s),", p.Value.goExpr())
		} else {
			g.line("fme.MatchAttr(%s, %s),", strconv.Quote(p.Key), p.Value.goExpr())
		}
	}
	g.indent--
	g.line("}},")

	g.line("Edit: fme.EditElement{Edit: []fme.Edit{")
	g.indent++
	for _, op := range n.Edit {
		g.line("fme.SetAttr(%s, %s),", strconv.Quote(op.Key), op.Value.goExpr())
	}
	g.indent--
	g.line("}},")
	g.indent--
	g.line("},")

	if len(n.Children) == 0 {
		return
	}
	g.line("Children: []*fme.Spec{")
	g.indent++
	for _, c := range n.Children {
		g.line("{")
		g.indent++
		c.writeFields(g)
		g.indent--
		g.line("},")
	}
	g.indent--
	g.line("},")
}

func (v Value) goExpr() string {
	if v.IsParam() {
		return v.Param
	}
	return strconv.Quote(v.Literal)
}
