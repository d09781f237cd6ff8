// Package testsynth synthesizes and runs black-box HTTP tests directly from
// an IR document: mock request values, OAS parameter-style serialization,
// request execution against a handler, response schema validation, and
// runtime-expression resolution for following HATEOAS links between
// operations.
package testsynth

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/speakeasy-api/oastool/ir"
)

// Mock produces a JSON-compatible value (map[string]any, []any, string,
// float64, bool, or nil) satisfying schema id's shape well enough to drive a
// request or seed a fixture. It never consults an external example or seed
// value; every leaf is synthesized from the schema's kind/format/enum alone,
// which keeps it deterministic and independent of document content.
//
// Self- and mutually-recursive schemas are cut off after maxMockDepth levels
// by returning nil rather than recursing forever; maxMockDepth is generous
// enough that legitimate nesting (a handful of levels) never gets cut.
func Mock(doc *ir.Document, id ir.SchemaID) any {
	return mock(doc, id, 0)
}

const maxMockDepth = 12

func mock(doc *ir.Document, id ir.SchemaID, depth int) any {
	if depth > maxMockDepth {
		return nil
	}
	s := doc.Schema(id)

	if s.Nullable && depth > 0 && depth%3 == 0 {
		// Occasionally exercise the nullable branch rather than always
		// synthesizing a concrete value, so generated tests don't all assume
		// a non-null payload.
		return nil
	}

	switch s.Kind {
	case ir.KindRef:
		return mock(doc, s.ResolvedRef, depth+1)
	case ir.KindBoolean:
		return s.BoolValue
	case ir.KindPrimitive:
		return mockPrimitive(s)
	case ir.KindSequence:
		if s.Items == 0 {
			return []any{}
		}
		return []any{mock(doc, s.Items, depth+1)}
	case ir.KindObject:
		out := map[string]any{}
		for _, f := range s.Fields {
			out[f.Name] = mock(doc, f.Schema, depth+1)
		}
		if apID, ok := s.AdditionalProperties.GetRight(); ok && apID != 0 {
			out["extra"] = mock(doc, apID, depth+1)
		}
		return out
	case ir.KindAllOf:
		out := map[string]any{}
		for _, m := range s.Members {
			v := mock(doc, m, depth+1)
			if mv, ok := v.(map[string]any); ok {
				for k, fv := range mv {
					out[k] = fv
				}
			}
		}
		for _, f := range s.Fields {
			out[f.Name] = mock(doc, f.Schema, depth+1)
		}
		return out
	case ir.KindOneOf, ir.KindAnyOf:
		if len(s.Members) == 0 {
			return nil
		}
		return mock(doc, s.Members[0], depth+1)
	default:
		return nil
	}
}

func mockPrimitive(s *ir.Schema) any {
	if len(s.Enum) > 0 {
		return s.Enum[0]
	}

	switch s.Primitive {
	case ir.PrimitiveString:
		return mockString(s.Format)
	case ir.PrimitiveInteger:
		return float64(7)
	case ir.PrimitiveNumber:
		return 3.14
	case ir.PrimitiveBoolean:
		return true
	case ir.PrimitiveNull:
		return nil
	default:
		return nil
	}
}

func mockString(format string) string {
	switch format {
	case "uuid":
		return uuid.UUID{}.String()
	case "date-time":
		return "2024-01-15T09:30:00Z"
	case "date":
		return "2024-01-15"
	case "email":
		return "test@example.com"
	case "password":
		return "hunter2"
	case "uri", "url":
		return "https://example.test/resource"
	case "byte":
		return "aGVsbG8="
	case "":
		return "mock-string"
	default:
		return fmt.Sprintf("mock-%s", format)
	}
}
