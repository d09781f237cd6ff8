// Package typemap maps between OpenAPI/JSON Schema types (as produced by
// the ir package) and the Go types this tool reads and writes in the
// synchronized source tree.
package typemap

import "github.com/speakeasy-api/oastool/ir"

// GoType names a Go type reference together with the import it requires,
// if any (ImportPath is "" for builtins, which need no import).
type GoType struct {
	Expr       string // e.g. "string", "*time.Time", "uuid.UUID"
	ImportPath string
	ImportName string // local package identifier the Expr uses, e.g. "uuid"
}

// formatRule maps one (format, primitive) pair to its Go equivalent. Rules
// are tried in order; the first matching formatRule wins, and a bare
// primitive fallback (no format) always matches last.
var formatRules = []struct {
	primitive ir.Primitive
	format    string
	goType    GoType
}{
	{ir.PrimitiveString, "uuid", GoType{Expr: "uuid.UUID", ImportPath: "github.com/google/uuid", ImportName: "uuid"}},
	{ir.PrimitiveString, "date-time", GoType{Expr: "time.Time", ImportPath: "time"}},
	{ir.PrimitiveString, "date", GoType{Expr: "oastypes.Date", ImportPath: "github.com/speakeasy-api/oastool/oastypes", ImportName: "oastypes"}},
	{ir.PrimitiveString, "password", GoType{Expr: "oastypes.Secret", ImportPath: "github.com/speakeasy-api/oastool/oastypes", ImportName: "oastypes"}},
	{ir.PrimitiveString, "byte", GoType{Expr: "[]byte"}},
	{ir.PrimitiveString, "binary", GoType{Expr: "[]byte"}},
	{ir.PrimitiveNumber, "decimal", GoType{Expr: "decimal.Decimal", ImportPath: "github.com/shopspring/decimal", ImportName: "decimal"}},
}

// ForPrimitive returns the Go type a primitive schema node with the given
// format maps to. An unrecognized format falls back to the primitive's
// default Go type.
func ForPrimitive(primitive ir.Primitive, format string) GoType {
	if format != "" {
		for _, r := range formatRules {
			if r.primitive == primitive && r.format == format {
				return r.goType
			}
		}
	}

	switch primitive {
	case ir.PrimitiveString:
		return GoType{Expr: "string"}
	case ir.PrimitiveInteger:
		if format == "int32" {
			return GoType{Expr: "int32"}
		}
		return GoType{Expr: "int64"}
	case ir.PrimitiveNumber:
		if format == "float" {
			return GoType{Expr: "float32"}
		}
		return GoType{Expr: "float64"}
	case ir.PrimitiveBoolean:
		return GoType{Expr: "bool"}
	case ir.PrimitiveNull:
		return GoType{Expr: "any"}
	default:
		return GoType{Expr: "any"}
	}
}

// OASFormat returns the (type, format) pair a Go type expression maps back
// to, the inverse of ForPrimitive, used when a schema must be synthesized
// from an existing Go struct field that has no OAS counterpart yet. ok is
// false for Go types this tool has no OAS mapping for (the caller should
// fall back to treating the field as an opaque "object").
func OASFormat(goExpr string) (primitive ir.Primitive, format string, ok bool) {
	switch goExpr {
	case "string":
		return ir.PrimitiveString, "", true
	case "[]byte":
		return ir.PrimitiveString, "byte", true
	case "uuid.UUID":
		return ir.PrimitiveString, "uuid", true
	case "time.Time", "*time.Time":
		return ir.PrimitiveString, "date-time", true
	case "oastypes.Date", "*oastypes.Date":
		return ir.PrimitiveString, "date", true
	case "oastypes.Secret", "*oastypes.Secret":
		return ir.PrimitiveString, "password", true
	case "decimal.Decimal", "*decimal.Decimal":
		return ir.PrimitiveNumber, "decimal", true
	case "int", "int64":
		return ir.PrimitiveInteger, "", true
	case "int32":
		return ir.PrimitiveInteger, "int32", true
	case "float64":
		return ir.PrimitiveNumber, "", true
	case "float32":
		return ir.PrimitiveNumber, "float", true
	case "bool":
		return ir.PrimitiveBoolean, "", true
	default:
		return 0, "", false
	}
}
