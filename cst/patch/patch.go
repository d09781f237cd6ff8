// Package patch applies byte-range edits to Go source text without
// reformatting anything outside the edited ranges, so files this tool
// doesn't touch come back unchanged and re-running sync on an up-to-date
// tree is a no-op.
package patch

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"

	"github.com/speakeasy-api/oastool/cst"
	"github.com/speakeasy-api/oastool/errors"
)

// ErrPatchConflict is returned when two edits in the same Apply call overlap.
const ErrPatchConflict = errors.Error("overlapping patch edits")

// Edit replaces the bytes in [Range.Start, Range.End) with Replacement.
// An empty Range with Start == End is an insertion at that offset.
type Edit struct {
	Range       cst.ByteRange
	Replacement []byte
}

// Apply splices edits into src and returns the result. Edits are applied in
// ascending order of start offset, writing each untouched gap followed by its
// replacement and advancing a cursor past the consumed range; overlapping
// edits are rejected with ErrPatchConflict rather than silently corrupting
// the file.
func Apply(src []byte, edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return src, nil
	}

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Range.Start < sorted[j].Range.Start
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Range.Start < sorted[i-1].Range.End {
			return nil, fmt.Errorf("%w: edit at [%d,%d) overlaps edit at [%d,%d)",
				ErrPatchConflict, sorted[i].Range.Start, sorted[i].Range.End,
				sorted[i-1].Range.Start, sorted[i-1].Range.End)
		}
	}

	var out bytes.Buffer
	cursor := 0
	for _, e := range sorted {
		if e.Range.Start < cursor || e.Range.Start > len(src) || e.Range.End > len(src) {
			return nil, fmt.Errorf("%w: edit range [%d,%d) out of bounds", ErrPatchConflict, e.Range.Start, e.Range.End)
		}
		out.Write(src[cursor:e.Range.Start])
		out.Write(e.Replacement)
		cursor = e.Range.End
	}
	out.Write(src[cursor:])

	return out.Bytes(), nil
}

// FormatSnippet runs go/format.Source over a standalone snippet (e.g. a
// single struct field or function) before it is spliced into a larger file.
// Patch never reformats a whole file: only text this tool is inserting.
func FormatSnippet(snippet []byte) ([]byte, error) {
	// go/format.Source requires a syntactically complete file or a
	// declaration-list fragment; wrap bare statements/fields in a throwaway
	// struct so single-field insertions still format correctly.
	wrapped := append([]byte("package p\ntype _ struct {\n"), snippet...)
	wrapped = append(wrapped, []byte("\n}\n")...)

	formatted, err := format.Source(wrapped)
	if err != nil {
		// Not every snippet is a struct field (e.g. a full function decl);
		// fall back to formatting it as a standalone file body.
		return formatTopLevel(snippet)
	}

	return unwrapStructField(formatted), nil
}

func formatTopLevel(snippet []byte) ([]byte, error) {
	wrapped := append([]byte("package p\n\n"), snippet...)
	formatted, err := format.Source(wrapped)
	if err != nil {
		return nil, fmt.Errorf("formatting snippet: %w", err)
	}
	return bytes.TrimPrefix(formatted, []byte("package p\n\n")), nil
}

func unwrapStructField(formatted []byte) []byte {
	start := bytes.Index(formatted, []byte("struct {\n"))
	end := bytes.LastIndex(formatted, []byte("\n}\n"))
	if start < 0 || end < 0 || end <= start {
		return formatted
	}
	inner := formatted[start+len("struct {\n") : end+1]
	return inner
}
