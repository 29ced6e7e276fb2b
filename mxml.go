// Package mxml compiles mixin declarations, written in a small XML-like
// pattern language, into find/match/edit specs for the mixin engine.
//
// A declaration names a mixin, its string parameters and one element
// pattern:
//
//	tooltip(message),
//	<p ~class="has-tip" +title={{message}}/>
//
// Attributes prefixed with '~' must already be present on the target
// element; attributes prefixed with '+' are added to it. The tag name '?'
// matches any element.
//
//	t := mxml.MustCompile(`tooltip(message), <p ~class="has-tip" +title={{message}}/>`)
//	spec, err := t.Generate("Hello")
package mxml

import (
	"github.com/gnolang/mxml/emitter"
	"github.com/gnolang/mxml/parser"
)

// Options tunes parsing.
type Options = parser.Options

// Compile parses and compiles a single mixin declaration. Anything after the
// declaration other than one ';' is an error.
func Compile(src string) (*emitter.Template, error) {
	m, err := parser.Parse(src, Options{})
	if err != nil {
		return nil, err
	}
	return emitter.Compile(m)
}

// CompileFile compiles every declaration of a mixin file. All syntax and
// validation errors are reported together as a parser.ErrorList in source
// order; templates
// are only returned when every declaration compiled.
func CompileFile(src string, opts Options) ([]*emitter.Template, error) {
	mixins, err := parser.ParseFile(src, opts)
	errs, ok := err.(parser.ErrorList)
	if err != nil && !ok {
		return nil, err
	}

	templates := make([]*emitter.Template, 0, len(mixins))
	for _, m := range mixins {
		t, err := emitter.Compile(m)
		if err != nil {
			if list, ok := err.(parser.ErrorList); ok {
				errs = append(errs, list...)
			} else {
				errs = append(errs, err)
			}
			continue
		}
		templates = append(templates, t)
	}
	if err := errs.Err(); err != nil {
		errs.Sort()
		return nil, err
	}
	return templates, nil
}

// MustCompile is like Compile but panics on error. It is meant for
// declarations known at build time.
func MustCompile(src string) *emitter.Template {
	t, err := Compile(src)
	if err != nil {
		panic("mxml: Compile(" + src + "): " + err.Error())
	}
	return t
}
