package parser

import (
	"strings"
)

const indent = "  "

// Format prints m back in the mixin syntax, one element per line with
// children indented. Parsing the output yields an equivalent tree.
func Format(m *Mixin) string {
	var sb strings.Builder
	sb.WriteString(m.Name)
	sb.WriteByte('(')
	sb.WriteString(strings.Join(m.ParamNames(), ", "))
	sb.WriteString("),\n")
	writeElement(&sb, m.Root, 0)
	return sb.String()
}

// FormatElement prints a single element pattern.
func FormatElement(e *Element) string {
	var sb strings.Builder
	writeElement(&sb, e, 0)
	return sb.String()
}

func writeElement(sb *strings.Builder, e *Element, depth int) {
	pad := strings.Repeat(indent, depth)
	sb.WriteString(pad)
	sb.WriteByte('<')
	sb.WriteString(e.Name.String())
	for _, a := range e.Attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.String())
	}

	if e.Body.SelfClosing {
		sb.WriteString("/>\n")
		return
	}

	sb.WriteString(">\n")
	for _, c := range e.Body.Children {
		writeElement(sb, c, depth+1)
	}
	sb.WriteString(pad)
	sb.WriteString("</")
	sb.WriteString(e.Body.Closing.String())
	sb.WriteString(">\n")
}
