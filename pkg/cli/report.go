package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/streampad/cli/pkg/console"
	"github.com/streampad/cli/pkg/validation"
)

// FormatResult renders one run's findings grouped by file, errors before
// warnings and positions in document order. The returned string is empty
// when the run had no findings.
func FormatResult(res *validation.Result) string {
	files := append([]*validation.FileEntries(nil), res.Files()...)
	if len(files) == 0 {
		return ""
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	var b strings.Builder
	for _, group := range files {
		b.WriteString(console.StylePath(console.ToRelativePath(group.Path)))
		b.WriteString("\n")

		entries := sortedEntries(group.Entries)
		width := locationWidth(entries)
		for _, entry := range entries {
			position := "-"
			if entry.Location != nil {
				position = fmt.Sprintf("%d:%d", entry.Location.Line, entry.Location.Column)
			}
			severity := fmt.Sprintf("%-7s", entry.Severity.String())
			b.WriteString(fmt.Sprintf("  %s  %s  %s\n",
				console.StyleMuted(fmt.Sprintf("%-*s", width, position)),
				styleSeverity(entry.Severity, severity),
				entry.Message))
			if entry.Suggestion != "" {
				indent := strings.Repeat(" ", 2+width+2)
				b.WriteString(indent)
				b.WriteString(console.StyleHint("↳ " + entry.Suggestion))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(summaryLine(res))
	b.WriteString("\n")
	return b.String()
}

func styleSeverity(s validation.Severity, text string) string {
	if s == validation.SeverityWarning {
		return console.StyleWarning(text)
	}
	return console.StyleError(text)
}

// sortedEntries orders errors before warnings, then by position. Entries
// without a location describe the file as a whole and sort first.
func sortedEntries(entries []validation.Entry) []validation.Entry {
	out := append([]validation.Entry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Severity != b.Severity {
			return a.Severity < b.Severity
		}
		aLine, aCol := entryPosition(a)
		bLine, bCol := entryPosition(b)
		if aLine != bLine {
			return aLine < bLine
		}
		if aCol != bCol {
			return aCol < bCol
		}
		return a.Message < b.Message
	})
	return out
}

func entryPosition(e validation.Entry) (int, int) {
	if e.Location == nil {
		return 0, 0
	}
	return e.Location.Line, e.Location.Column
}

func locationWidth(entries []validation.Entry) int {
	width := 1
	for _, e := range entries {
		if e.Location == nil {
			continue
		}
		if n := len(fmt.Sprintf("%d:%d", e.Location.Line, e.Location.Column)); n > width {
			width = n
		}
	}
	return width
}

// summaryLine condenses the counts into one closing line.
func summaryLine(res *validation.Result) string {
	var parts []string
	if res.ErrorCount() > 0 {
		parts = append(parts, plural(res.ErrorCount(), "error"))
	}
	if res.WarningCount() > 0 {
		parts = append(parts, plural(res.WarningCount(), "warning"))
	}
	text := strings.Join(parts, ", ")
	if res.ErrorCount() > 0 {
		return console.FormatErrorMessage(text)
	}
	return console.FormatWarningMessage(text)
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
