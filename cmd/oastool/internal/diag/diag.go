// Package diag collects diagnostics produced while running a subcommand and
// maps the accumulated set to the tool's process exit code, so a single
// run reports everything wrong rather than stopping at the first problem.
package diag

import (
	"fmt"
	"io"
	"sort"
)

// Category partitions diagnostics the way this tool reasons about them: not
// a type hierarchy, just the buckets a user needs to tell at a glance
// whether a run failed because their input was malformed, because the spec
// itself is invalid, or because of something the tool could not safely
// reconcile.
type Category int

const (
	// CategoryUsage is a command-line usage error (exit 2).
	CategoryUsage Category = iota
	// CategoryInput is malformed YAML/JSON or an unreadable file (exit 5, I/O failure).
	CategoryInput
	// CategoryValidation is an OAS-level rule violation (exit 3).
	CategoryValidation
	// CategoryResolution is an unresolved or cyclic $ref (exit 3).
	CategoryResolution
	// CategoryMapping is an OAS construct with no representation in the
	// target type system (exit 3).
	CategoryMapping
	// CategoryPatchConflict is an existing declaration the patcher cannot
	// safely reconcile with the IR (exit 4).
	CategoryPatchConflict
	// CategoryIO is a fatal I/O failure (exit 5).
	CategoryIO
)

func (c Category) String() string {
	switch c {
	case CategoryUsage:
		return "usage"
	case CategoryInput:
		return "input"
	case CategoryValidation:
		return "validation"
	case CategoryResolution:
		return "resolution"
	case CategoryMapping:
		return "mapping"
	case CategoryPatchConflict:
		return "patch conflict"
	case CategoryIO:
		return "I/O"
	default:
		return "unknown"
	}
}

// Diagnostic is one reported problem.
type Diagnostic struct {
	Category Category
	Message  string
	File     string
	Rule     string // validation rule ID, if this diagnostic came from one
}

// Report accumulates diagnostics across a command run.
type Report struct {
	diagnostics []Diagnostic
}

// Add records one diagnostic.
func (r *Report) Add(category Category, format string, args ...any) {
	r.diagnostics = append(r.diagnostics, Diagnostic{Category: category, Message: fmt.Sprintf(format, args...)})
}

// AddFile records one diagnostic attributed to a source file.
func (r *Report) AddFile(category Category, file, format string, args ...any) {
	r.diagnostics = append(r.diagnostics, Diagnostic{Category: category, File: file, Message: fmt.Sprintf(format, args...)})
}

// AddRule records one validation diagnostic attributed to a rule ID.
func (r *Report) AddRule(rule, format string, args ...any) {
	r.diagnostics = append(r.diagnostics, Diagnostic{Category: CategoryValidation, Rule: rule, Message: fmt.Sprintf(format, args...)})
}

// Empty reports whether no diagnostics were recorded.
func (r *Report) Empty() bool {
	return len(r.diagnostics) == 0
}

// Diagnostics returns every recorded diagnostic, sorted by category then by
// file so output is deterministic across runs of the same input.
func (r *Report) Diagnostics() []Diagnostic {
	sorted := make([]Diagnostic, len(r.diagnostics))
	copy(sorted, r.diagnostics)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Category != sorted[j].Category {
			return sorted[i].Category < sorted[j].Category
		}
		return sorted[i].File < sorted[j].File
	})
	return sorted
}

// ExitCode maps the most severe category recorded to the documented process
// exit code: 0 success; 2 usage error; 3 validation/resolution/mapping
// failure; 4 patch conflict; 5 I/O failure.
func (r *Report) ExitCode() int {
	if r.Empty() {
		return 0
	}
	worst := 0
	for _, d := range r.diagnostics {
		if code := exitCodeFor(d.Category); code > worst {
			worst = code
		}
	}
	return worst
}

func exitCodeFor(c Category) int {
	switch c {
	case CategoryUsage:
		return 2
	case CategoryValidation, CategoryResolution, CategoryMapping:
		return 3
	case CategoryPatchConflict:
		return 4
	case CategoryInput, CategoryIO:
		return 5
	default:
		return 1
	}
}

// Print writes every diagnostic to w, grouped by category, in the same
// deterministic order ExitCode and Diagnostics use.
func (r *Report) Print(w io.Writer) {
	for _, d := range r.Diagnostics() {
		if d.Rule != "" {
			fmt.Fprintf(w, "[%s:%s] %s", d.Category, d.Rule, d.Message)
		} else {
			fmt.Fprintf(w, "[%s] %s", d.Category, d.Message)
		}
		if d.File != "" {
			fmt.Fprintf(w, " (%s)", d.File)
		}
		fmt.Fprintln(w)
	}
}
