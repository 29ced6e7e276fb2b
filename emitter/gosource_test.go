package emitter

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sourceImporter serves the fme package from a type-checked copy of its
// source and everything else from the default importer.
type sourceImporter struct {
	fme *types.Package
	std types.Importer
}

func (i sourceImporter) Import(path string) (*types.Package, error) {
	if path == fmeImport {
		return i.fme, nil
	}
	return i.std.Import(path)
}

// typeCheck reports the type errors of a generated file.
func typeCheck(t *testing.T, src []byte) error {
	t.Helper()
	fset := token.NewFileSet()
	std := importer.Default()

	fmeFile, err := parser.ParseFile(fset, filepath.Join("..", "fme", "fme.go"), nil, 0)
	require.NoError(t, err)
	conf := types.Config{Importer: std}
	fmePkg, err := conf.Check(fmeImport, fset, []*ast.File{fmeFile}, nil)
	require.NoError(t, err)

	file, err := parser.ParseFile(fset, "generated.go", src, parser.AllErrors)
	if err != nil {
		return err
	}
	conf = types.Config{Importer: sourceImporter{fme: fmePkg, std: std}}
	_, err = conf.Check("example.com/generated", fset, []*ast.File{file}, nil)
	return err
}

func TestGoSource(t *testing.T) {
	t.Parallel()
	tmpl := compile(t, `tooltip(message), <? +"data-toggle"="tooltip" +title={{message}}><p ~class="x"/></?>`)

	src, err := tmpl.GoSource("views")
	require.NoError(t, err)
	out := string(src)

	assert.Contains(t, out, "// Code generated by mxml. DO NOT EDIT.")
	assert.Contains(t, out, "package views")
	assert.Contains(t, out, `import "github.com/gnolang/mxml/fme"`)
	assert.Contains(t, out, "func tooltip(message string) *fme.Spec {")
	assert.Contains(t, out, `fme.SetAttr("data-toggle", "tooltip"),`)
	assert.Contains(t, out, `fme.SetAttr("title", message),`)
	assert.Contains(t, out, `fme.MatchTag("p"),`)
	assert.Contains(t, out, `fme.MatchAttr("class", "x"),`)
	assert.Contains(t, out, "Children: []*fme.Spec{")

	assert.NoError(t, typeCheck(t, src))
}

func TestGoFile(t *testing.T) {
	t.Parallel()
	a := compile(t, `card(), <div ~class="card"/>`)
	b := compile(t, `link(href, label), <a +href={{href}} +"aria-label"={{label}}/>`)

	src, err := GoFile("mixins", "views.mixin", a, b)
	require.NoError(t, err)
	out := string(src)

	assert.Contains(t, out, "// Code generated by mxml from views.mixin. DO NOT EDIT.")
	assert.Contains(t, out, "func card() *fme.Spec {")
	assert.Contains(t, out, "func link(href, label string) *fme.Spec {")
	assert.Contains(t, out, `fme.SetAttr("aria-label", label),`)
	assert.Less(t, strings.Index(out, "func card"), strings.Index(out, "func link"))

	assert.NoError(t, typeCheck(t, src))
}

func TestGoFileTypeChecks(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		pkg  string
		src  []string
	}{
		{"no params", "views", []string{`card(), <div/>`}},
		{"wildcard root", "views", []string{`tip(msg), <? +title={{msg}}/>`}},
		{"param named like a type", "views", []string{`m(string, int), <p +a={{string}} +b={{int}}/>`}},
		{"param named like another mixin", "views", []string{`a(), <p/>`, `b(a), <p +k={{a}}/>`}},
		{"blank mixin", "views", []string{`_(), <p/>`}},
		{"main outside package main", "views", []string{`main(), <p/>`}},
		{"deep nesting", "main", []string{`m(x), <a><b><c +k={{x}}/></b><d ~k="v"/></a>`}},
	}

	for _, tt := range tests {
		templates := make([]*Template, len(tt.src))
		for i, src := range tt.src {
			templates[i] = compile(t, src)
		}
		out, err := GoFile(tt.pkg, "", templates...)
		require.NoError(t, err, tt.name)
		assert.NoError(t, typeCheck(t, out), tt.name)
	}
}

func TestGoFileErrors(t *testing.T) {
	t.Parallel()
	ok := compile(t, `m(), <p/>`)

	tests := []struct {
		name      string
		pkg       string
		templates []*Template
		message   string
	}{
		{
			name:      "invalid package",
			pkg:       "my-views",
			templates: []*Template{ok},
			message:   `invalid package name "my-views"`,
		},
		{
			name:      "keyword package",
			pkg:       "func",
			templates: []*Template{ok},
			message:   `invalid package name "func"`,
		},
		{
			name:      "duplicate mixin",
			pkg:       "views",
			templates: []*Template{ok, ok},
			message:   "mixin m declared more than once",
		},
		{
			name:      "keyword parameter",
			pkg:       "views",
			templates: []*Template{compile(t, `m(type), <p +t={{type}}/>`)},
			message:   `parameter "type" is not a valid Go identifier`,
		},
		{
			name:      "parameter shadows import",
			pkg:       "views",
			templates: []*Template{compile(t, `m(fme), <p +t={{fme}}/>`)},
			message:   `parameter "fme" shadows the fme package`,
		},
		{
			name:      "mixin shadows import",
			pkg:       "views",
			templates: []*Template{compile(t, `fme(), <p/>`)},
			message:   `mixin name "fme" shadows an identifier used by generated code`,
		},
		{
			name:      "mixin shadows string",
			pkg:       "views",
			templates: []*Template{ok, compile(t, `string(), <p/>`)},
			message:   `mixin name "string" shadows an identifier used by generated code`,
		},
		{
			name:      "main in package main",
			pkg:       "main",
			templates: []*Template{compile(t, `main(), <p/>`)},
			message:   `mixin name "main" is not a valid Go function name`,
		},
		{
			name:      "blank parameter",
			pkg:       "views",
			templates: []*Template{compile(t, `m(_), <p +k={{_}}/>`)},
			message:   `parameter "_" is not a valid Go identifier`,
		},
		{
			name:      "init mixin",
			pkg:       "views",
			templates: []*Template{compile(t, `init(), <p/>`)},
			message:   `mixin name "init" is not a valid Go function name`,
		},
	}

	for _, tt := range tests {
		_, err := GoFile(tt.pkg, "", tt.templates...)
		assert.ErrorContains(t, err, tt.message, tt.name)
	}
}
