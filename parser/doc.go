/*
Package parser provides the lexer and the recursive-descent parser for mixin
declarations, a tag syntax describing which elements to find in markup and
which attributes to add to them.

# Syntax

A declaration names the mixin, lists its parameters and gives one root
element pattern:

	Tooltip(message),
	<? +"data-toggle"="tooltip" +title={{message}}/>

The grammar:

	MixinDecl   := Ident "(" [Ident ("," Ident)*] ")" "," Element
	Element     := "<" TagName Attr* Body ">"
	TagName     := Ident | "?"
	Attr        := ("~" | "+") (Ident | StringLit) "=" Value
	Value       := StringLit | "{" "{" Ident "}" "}"
	Body        := "/" | ">" Element* "<" "/" TagName

An attribute prefixed with '~' is a match predicate: the target element must
already carry that attribute with that value. A '+' attribute is an edit: it
is added to the target, overwriting any existing value. The '?' tag matches
any element name.

Elements nest. A concrete element must be closed with its own name; the
closing name of a '?' element is parsed but not compared unless
Options.StrictWildcard is set.

Files may hold several declarations separated by ';' and may contain
// line comments.

# Usage

	m, err := parser.Parse(src, parser.Options{})
	if err != nil {
		var mismatch *parser.ClosingTagMismatchError
		if errors.As(err, &mismatch) {
			// mismatch.Open, mismatch.Close
		}
	}

Every error returned by this package implements PosError.
*/
package parser
