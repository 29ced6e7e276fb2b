package formatter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gnolang/mxml/emitter"
	"github.com/gnolang/mxml/parser"
)

// SourceCode stores the content of a source file split into lines.
type SourceCode struct {
	Lines []string
}

func NewSourceCode(src string) *SourceCode {
	return &SourceCode{Lines: strings.Split(src, "\n")}
}

// Issue is one compile error located in a source file.
type Issue struct {
	Rule       string
	Filename   string
	Message    string
	Suggestion string
	Note       string
	Start      parser.Pos
	End        parser.Pos
}

// IssuesFromError flattens err (which may join several declaration errors)
// into issues. Errors without a source position are reported at line 0 and
// are rendered without a snippet.
func IssuesFromError(filename string, err error) []Issue {
	if err == nil {
		return nil
	}
	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		var issues []Issue
		for _, e := range multi.Unwrap() {
			issues = append(issues, IssuesFromError(filename, e)...)
		}
		return issues
	}

	var perr parser.PosError
	if !errors.As(err, &perr) {
		return []Issue{{Rule: "error", Filename: filename, Message: err.Error()}}
	}

	issue := Issue{
		Rule:     perr.Kind(),
		Filename: filename,
		Message:  trimPosition(perr),
		Start:    perr.Position(),
		End:      perr.Position(),
	}

	var (
		unexpected *parser.UnexpectedTokenError
		mismatch   *parser.ClosingTagMismatchError
		unresolved *emitter.UnresolvedParamError
		duplicate  *emitter.DuplicateParamError
	)
	switch {
	case errors.As(err, &unexpected):
		issue.End = unexpected.Found.End
	case errors.As(err, &mismatch):
		issue.End.Col += len(mismatch.Close.String())
		issue.Note = fmt.Sprintf("<%s> opened at %s", mismatch.Open, mismatch.Open.Pos)
	case errors.As(err, &unresolved):
		issue.End.Col += len(unresolved.Name) + 4
		issue.Suggestion = fmt.Sprintf("add %q to the parameter list of %s", unresolved.Name, unresolved.Mixin)
	case errors.As(err, &duplicate):
		issue.End.Col += len(duplicate.Name)
		issue.Note = fmt.Sprintf("first declared at %s", duplicate.First)
	}
	return []Issue{issue}
}

// trimPosition drops the "line:col: " prefix the error already carries.
func trimPosition(err parser.PosError) string {
	return strings.TrimPrefix(err.Error(), err.Position().String()+": ")
}

// FormatError renders err against src the way the CLI prints diagnostics.
func FormatError(filename, src string, err error) string {
	return GenerateFormattedIssue(IssuesFromError(filename, err), NewSourceCode(src))
}
