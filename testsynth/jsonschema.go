package testsynth

import "github.com/speakeasy-api/oastool/ir"

// toRawSchema renders the schema at id as a plain JSON Schema document
// (map[string]any), the form github.com/santhosh-tekuri/jsonschema/v6
// compiles from directly. It's a separate, simpler projection from
// ir/emit.go's ToOASSchema: that one round-trips back to an OAS document
// node tree, this one only needs to be valid input to a JSON Schema
// compiler, so $refs are always inlined rather than preserved, sidestepping
// the need to register every named schema as its own compiler resource.
func toRawSchema(doc *ir.Document, id ir.SchemaID) map[string]any {
	return rawSchema(doc, id, map[ir.SchemaID]bool{})
}

func rawSchema(doc *ir.Document, id ir.SchemaID, inlining map[ir.SchemaID]bool) map[string]any {
	s := doc.Schema(id)
	out := map[string]any{}
	if s.Description != "" {
		out["description"] = s.Description
	}

	switch s.Kind {
	case ir.KindRef:
		if inlining[s.ResolvedRef] {
			// Cut a cyclic $ref off with an unconstrained schema rather than
			// recursing forever; the cycle has already been captured once.
			return map[string]any{}
		}
		inlining[s.ResolvedRef] = true
		return rawSchema(doc, s.ResolvedRef, inlining)
	case ir.KindBoolean:
		return map[string]any{"const": s.BoolValue}
	case ir.KindPrimitive:
		out["type"] = primitiveJSONType(s.Primitive)
		if len(s.Enum) > 0 {
			out["enum"] = s.Enum
		}
		return withNullable(out, s)
	case ir.KindSequence:
		out["type"] = "array"
		if s.Items != 0 {
			out["items"] = rawSchema(doc, s.Items, inlining)
		}
		return withNullable(out, s)
	case ir.KindObject:
		out["type"] = "object"
		props := map[string]any{}
		var required []string
		for _, f := range s.Fields {
			props[f.Name] = rawSchema(doc, f.Schema, inlining)
			if f.Required {
				required = append(required, f.Name)
			}
		}
		out["properties"] = props
		if len(required) > 0 {
			out["required"] = required
		}
		if b, ok := s.AdditionalProperties.GetLeft(); ok {
			out["additionalProperties"] = b
		} else if apID, ok := s.AdditionalProperties.GetRight(); ok {
			out["additionalProperties"] = rawSchema(doc, apID, inlining)
		}
		return withNullable(out, s)
	case ir.KindAllOf:
		var all []any
		for _, m := range s.Members {
			all = append(all, rawSchema(doc, m, inlining))
		}
		out["allOf"] = all
		return withNullable(out, s)
	case ir.KindOneOf:
		var all []any
		for _, m := range s.Members {
			all = append(all, rawSchema(doc, m, inlining))
		}
		out["oneOf"] = all
		return withNullable(out, s)
	case ir.KindAnyOf:
		var all []any
		for _, m := range s.Members {
			all = append(all, rawSchema(doc, m, inlining))
		}
		out["anyOf"] = all
		return withNullable(out, s)
	default:
		return out
	}
}

func withNullable(out map[string]any, s *ir.Schema) map[string]any {
	if !s.Nullable {
		return out
	}
	if t, ok := out["type"]; ok {
		out["type"] = []any{t, "null"}
	}
	return out
}

func primitiveJSONType(p ir.Primitive) string {
	switch p {
	case ir.PrimitiveString:
		return "string"
	case ir.PrimitiveInteger:
		return "integer"
	case ir.PrimitiveNumber:
		return "number"
	case ir.PrimitiveBoolean:
		return "boolean"
	case ir.PrimitiveNull:
		return "null"
	default:
		return "string"
	}
}
