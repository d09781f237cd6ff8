package oasvalidate

import "strings"

// Conflict records two path templates that can both match the same concrete
// request URL.
type Conflict struct {
	A, B string
}

// FindConflicts returns every pair of path templates in paths whose
// segment shapes overlap: same segment count, at every position either
// the literal segments are equal or at least one side is a template
// ("{param}"), and at least one position where both sides are templates.
// Two different templated siblings ("/users/{id}" vs
// "/users/{name}") are a conflict; a templated and literal sibling
// ("/users/{id}" vs "/users/me") are not, since the literal always wins at
// routing time.
func FindConflicts(paths []string) []Conflict {
	var conflicts []Conflict
	for i := 0; i < len(paths); i++ {
		for j := i + 1; j < len(paths); j++ {
			if paths[i] == paths[j] {
				continue
			}
			if conflictsWith(paths[i], paths[j]) {
				conflicts = append(conflicts, Conflict{A: paths[i], B: paths[j]})
			}
		}
	}
	return conflicts
}

func conflictsWith(a, b string) bool {
	segsA := splitPath(a)
	segsB := splitPath(b)
	if len(segsA) != len(segsB) {
		return false
	}

	sawTemplateClash := false
	for i := range segsA {
		sa, ta := segsA[i], isTemplated(segsA[i])
		sb, tb := segsB[i], isTemplated(segsB[i])

		switch {
		case ta && tb:
			sawTemplateClash = true
		case ta != tb:
			// One side is a concrete literal segment; it always takes priority
			// over the templated sibling at routing time, so this segment
			// position does not itself cause ambiguity.
		default:
			if sa != sb {
				return false
			}
		}
	}

	return sawTemplateClash
}

func isTemplated(segment string) bool {
	return strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}")
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
