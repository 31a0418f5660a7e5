// Package validation runs the rule pipeline over a loaded plugin context
// and collects located diagnostics into a result.
package validation

import (
	"github.com/streampad/cli/pkg/document"
)

// Severity ranks a diagnostic. Errors fail the run; warnings do not.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Entry is one diagnostic. Location is nil for file-level problems that
// have no position, such as a missing file. Suggestion is an optional
// actionable hint rendered beneath the message.
type Entry struct {
	Severity   Severity
	Message    string
	Location   *document.Location
	Suggestion string
}

// FileEntries groups the entries of one file path.
type FileEntries struct {
	Path    string
	Entries []Entry
}

// Result is the append-only sink the rules write to. Entries are grouped
// by file path in first-touch order; a critical entry additionally sets the
// halt flag the pipeline checks after every rule.
type Result struct {
	files    []*FileEntries
	byPath   map[string]*FileEntries
	errors   int
	warnings int
	halted   bool
}

// NewResult returns an empty sink.
func NewResult() *Result {
	return &Result{byPath: make(map[string]*FileEntries)}
}

// Error records an error entry for path.
func (r *Result) Error(path string, e Entry) {
	e.Severity = SeverityError
	r.errors++
	r.append(path, e)
}

// Warning records a warning entry for path.
func (r *Result) Warning(path string, e Entry) {
	e.Severity = SeverityWarning
	r.warnings++
	r.append(path, e)
}

// Critical records an error entry for path and halts the pipeline after the
// current rule finishes.
func (r *Result) Critical(path string, e Entry) {
	r.halted = true
	r.Error(path, e)
}

// Halted reports whether a critical entry was recorded.
func (r *Result) Halted() bool {
	return r.halted
}

// Files returns the grouped entries in first-touch order. The slice is
// shared with the sink; callers must treat it as read-only.
func (r *Result) Files() []*FileEntries {
	return r.files
}

// ErrorCount returns the number of error entries, criticals included.
func (r *Result) ErrorCount() int {
	return r.errors
}

// WarningCount returns the number of warning entries.
func (r *Result) WarningCount() int {
	return r.warnings
}

// Success reports whether the run produced no errors. Warnings alone do not
// fail a run.
func (r *Result) Success() bool {
	return r.errors == 0
}

func (r *Result) append(path string, e Entry) {
	group, ok := r.byPath[path]
	if !ok {
		group = &FileEntries{Path: path}
		r.byPath[path] = group
		r.files = append(r.files, group)
	}
	group.Entries = append(group.Entries, e)
}
