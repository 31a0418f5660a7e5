package validation

import (
	"testing"

	"github.com/streampad/cli/pkg/document"
)

func TestResultCounts(t *testing.T) {
	res := NewResult()
	if !res.Success() {
		t.Error("empty result should be a success")
	}
	if res.ErrorCount() != 0 || res.WarningCount() != 0 {
		t.Errorf("empty result counts = %d errors, %d warnings", res.ErrorCount(), res.WarningCount())
	}

	res.Error("a.json", Entry{Message: "broken"})
	res.Warning("a.json", Entry{Message: "suspicious"})
	res.Error("b.json", Entry{Message: "also broken"})

	if got := res.ErrorCount(); got != 2 {
		t.Errorf("ErrorCount = %d, want 2", got)
	}
	if got := res.WarningCount(); got != 1 {
		t.Errorf("WarningCount = %d, want 1", got)
	}
	if res.Success() {
		t.Error("result with errors should not be a success")
	}
	if res.Halted() {
		t.Error("plain errors should not halt the pipeline")
	}
}

func TestResultWarningsDoNotFail(t *testing.T) {
	res := NewResult()
	res.Warning("a.json", Entry{Message: "minor"})
	if !res.Success() {
		t.Error("warnings alone should leave the run successful")
	}
}

func TestResultSinkSetsSeverity(t *testing.T) {
	res := NewResult()
	res.Error("a.json", Entry{Message: "x", Severity: SeverityWarning})
	res.Warning("a.json", Entry{Message: "y", Severity: SeverityError})

	entries := res.Files()[0].Entries
	if entries[0].Severity != SeverityError {
		t.Errorf("Error sink recorded severity %v", entries[0].Severity)
	}
	if entries[1].Severity != SeverityWarning {
		t.Errorf("Warning sink recorded severity %v", entries[1].Severity)
	}
}

func TestResultGroupsByFirstTouch(t *testing.T) {
	res := NewResult()
	res.Error("b.json", Entry{Message: "one"})
	res.Error("a.json", Entry{Message: "two"})
	res.Warning("b.json", Entry{Message: "three"})

	files := res.Files()
	if len(files) != 2 {
		t.Fatalf("got %d file groups, want 2", len(files))
	}
	if files[0].Path != "b.json" || files[1].Path != "a.json" {
		t.Errorf("group order = %q, %q; want b.json first", files[0].Path, files[1].Path)
	}
	if len(files[0].Entries) != 2 {
		t.Fatalf("b.json has %d entries, want 2", len(files[0].Entries))
	}
	if files[0].Entries[1].Message != "three" {
		t.Errorf("later entry for b.json = %q, want %q", files[0].Entries[1].Message, "three")
	}
}

func TestResultCriticalHalts(t *testing.T) {
	res := NewResult()
	res.Critical("a.json", Entry{Message: "fatal"})

	if !res.Halted() {
		t.Error("critical entry should set the halt flag")
	}
	if res.ErrorCount() != 1 {
		t.Errorf("ErrorCount = %d, want 1", res.ErrorCount())
	}
	if got := res.Files()[0].Entries[0].Severity; got != SeverityError {
		t.Errorf("critical entry severity = %v, want error", got)
	}
}

func TestResultKeepsLocationAndSuggestion(t *testing.T) {
	loc := document.Location{Line: 3, Column: 7, Pointer: "/Name"}
	res := NewResult()
	res.Error("a.json", Entry{Message: "m", Location: &loc, Suggestion: "fix it"})

	entry := res.Files()[0].Entries[0]
	if entry.Location == nil || *entry.Location != loc {
		t.Errorf("location = %+v, want %+v", entry.Location, loc)
	}
	if entry.Suggestion != "fix it" {
		t.Errorf("suggestion = %q", entry.Suggestion)
	}
}

func TestSeverityString(t *testing.T) {
	if got := SeverityError.String(); got != "error" {
		t.Errorf("SeverityError.String() = %q", got)
	}
	if got := SeverityWarning.String(); got != "warning" {
		t.Errorf("SeverityWarning.String() = %q", got)
	}
}
