package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/fatih/color"
)

const tabWidth = 8

var (
	errorStyle      = color.New(color.FgRed, color.Bold)
	ruleStyle       = color.New(color.FgYellow, color.Bold)
	fileStyle       = color.New(color.FgCyan, color.Bold)
	lineStyle       = color.New(color.FgHiBlue, color.Bold)
	messageStyle    = color.New(color.FgRed, color.Bold)
	suggestionStyle = color.New(color.FgGreen, color.Bold)
)

const issueTemplate = `{{header .Rule .MaxLineNumWidth .Filename .StartLine .StartColumn -}}
{{snippet .SnippetLines .StartLine .MaxLineNumWidth .Padding -}}
{{underlineAndMessage .Message .Padding .StartLine .StartColumn .EndColumn .SnippetLines -}}
{{suggestion .Suggestion .Padding -}}
{{note .Note}}
`

var issueTmpl = template.Must(template.New("issue").Funcs(template.FuncMap{
	"header":              header,
	"snippet":             codeSnippet,
	"underlineAndMessage": underlineAndMessage,
	"suggestion":          suggestion,
	"note":                note,
}).Parse(issueTemplate))

type IssueData struct {
	Rule            string
	Filename        string
	Padding         string
	StartLine       int
	StartColumn     int
	EndColumn       int
	MaxLineNumWidth int
	Message         string
	Suggestion      string
	Note            string
	SnippetLines    []string
}

// GenerateFormattedIssue formats a slice of issues into a human-readable string.
func GenerateFormattedIssue(issues []Issue, snippet *SourceCode) string {
	var builder strings.Builder
	for _, issue := range issues {
		builder.WriteString(buildIssue(issue, snippet))
	}
	return builder.String()
}

func buildIssue(issue Issue, snippet *SourceCode) string {
	maxLineNumWidth := calculateMaxLineNumWidth(issue.Start.Line)
	endColumn := issue.End.Col
	if issue.End.Line != issue.Start.Line || endColumn <= issue.Start.Col {
		endColumn = issue.Start.Col + 1
	}

	data := IssueData{
		Rule:            issue.Rule,
		Filename:        issue.Filename,
		StartLine:       issue.Start.Line,
		StartColumn:     issue.Start.Col,
		EndColumn:       endColumn,
		MaxLineNumWidth: maxLineNumWidth,
		Padding:         strings.Repeat(" ", maxLineNumWidth+1),
		Message:         issue.Message,
		Suggestion:      issue.Suggestion,
		Note:            issue.Note,
		SnippetLines:    snippet.Lines,
	}

	var buf bytes.Buffer
	if err := issueTmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting issue: %v", err)
	}
	return buf.String()
}

// utils functions used in the text template

func header(rule string, maxLineNumWidth int, filename string, startLine int, startColumn int) string {
	endString := errorStyle.Sprint("error: ")
	endString += ruleStyle.Sprintf("%s\n", rule)

	padding := strings.Repeat(" ", maxLineNumWidth)
	endString += lineStyle.Sprintf("%s--> ", padding)
	endString += fileStyle.Sprintf("%s:%d:%d", filename, startLine, startColumn)
	return endString + "\n"
}

func codeSnippet(snippetLines []string, line int, maxLineNumWidth int, padding string) string {
	endString := lineStyle.Sprintf("%s|\n", padding)
	if line-1 < 0 || line-1 >= len(snippetLines) {
		return endString
	}
	lineNum := fmt.Sprintf("%*d", maxLineNumWidth, line)
	endString += lineStyle.Sprintf("%s | ", lineNum)
	endString += expandTabs(snippetLines[line-1]) + "\n"
	return endString
}

func underlineAndMessage(message string, padding string, line int, startColumn int, endColumn int, snippetLines []string) string {
	endString := lineStyle.Sprintf("%s| ", padding)

	if line <= 0 || line > len(snippetLines) {
		endString += messageStyle.Sprintf("%s\n", message)
		return endString
	}

	src := snippetLines[line-1]
	underlineStart := calculateVisualColumn(src, startColumn)
	underlineLength := calculateVisualColumn(src, endColumn) - underlineStart
	if underlineLength < 1 {
		underlineLength = 1
	}

	endString += strings.Repeat(" ", underlineStart)
	endString += messageStyle.Sprintf("%s\n", strings.Repeat("~", underlineLength))

	endString += lineStyle.Sprintf("%s= ", padding)
	endString += messageStyle.Sprintf("%s\n", message)
	return endString
}

func suggestion(suggestion string, padding string) string {
	if suggestion == "" {
		return ""
	}
	endString := lineStyle.Sprintf("%s= ", padding)
	endString += suggestionStyle.Sprint("help: ")
	return endString + suggestion + "\n"
}

func note(note string) string {
	if note == "" {
		return ""
	}
	return suggestionStyle.Sprint("Note: ") + note + "\n"
}

func calculateMaxLineNumWidth(line int) int {
	return len(fmt.Sprintf("%d", line))
}

// calculateVisualColumn returns the 0-based visual offset of the 1-based
// byte column in line, expanding tabs and counting one cell per rune as
// expandTabs does. Columns past the end of the line keep counting one cell
// per byte.
func calculateVisualColumn(line string, column int) int {
	if column < 1 {
		return 0
	}
	visualColumn := 0
	for i := 0; i < column-1; i++ {
		switch {
		case i >= len(line):
			visualColumn++
		case line[i] == '\t':
			visualColumn += tabWidth - (visualColumn % tabWidth)
		case utf8.RuneStart(line[i]):
			visualColumn++
		}
	}
	return visualColumn
}

// expandTabs replaces tab characters with spaces, considering a tab width of 8
func expandTabs(line string) string {
	var expanded strings.Builder
	column := 0
	for _, ch := range line {
		if ch == '\t' {
			spaceCount := tabWidth - (column % tabWidth)
			expanded.WriteString(strings.Repeat(" ", spaceCount))
			column += spaceCount
		} else {
			expanded.WriteRune(ch)
			column++
		}
	}
	return expanded.String()
}
