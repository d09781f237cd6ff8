// Package reflectgo builds an IR document by reading a tree of Go source
// files rather than an OpenAPI document — the inverse direction of
// ir.Build, used by schema-gen to derive an OpenAPI document from a source
// tree that has no document yet.
package reflectgo

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/speakeasy-api/oastool/cst"
	"github.com/speakeasy-api/oastool/ir"
	"github.com/speakeasy-api/oastool/ir/typemap"
)

// Build walks every .go file directly under dir (recursing into
// subdirectories, skipping _test.go files), reserves one IR schema per
// exported struct type it finds, then populates each schema's fields from
// the struct's fields — a Go field's json tag (or, absent one, its
// identifier) becomes the OAS property name, and its type maps to an OAS
// type/format via typemap.OASFormat. A field whose type is itself one of
// the structs found in the same walk points at that struct's reserved
// schema ID (through a KindRef node when the field is a pointer) rather
// than at a rebuilt duplicate, mirroring how ir.Build resolves $refs
// against a two-phase reserve-then-populate arena.
func Build(dir string) (*ir.Document, error) {
	b := &builder{ir: ir.NewDocument(), structs: map[string]*parsedStruct{}}

	if err := b.collect(dir); err != nil {
		return nil, err
	}
	b.reserve()
	if err := b.populate(); err != nil {
		return nil, err
	}

	return b.ir, nil
}

type parsedStruct struct {
	name   string
	file   *cst.File
	decl   *cst.Decl
	fields []cst.Field
}

type builder struct {
	ir      *ir.Document
	structs map[string]*parsedStruct
	order   []string
}

func (b *builder) collect(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		file, err := cst.Read(path, src)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}

		for i := range file.Decls {
			decl := &file.Decls[i]
			if decl.Kind != cst.DeclStruct || !isExported(decl.Name) {
				continue
			}
			fields, err := file.StructFields(decl)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if _, dup := b.structs[decl.Name]; dup {
				continue // first declaration found wins; duplicate type names across packages aren't disambiguated here
			}
			b.structs[decl.Name] = &parsedStruct{name: decl.Name, file: file, decl: decl, fields: fields}
			b.order = append(b.order, decl.Name)
		}
		return nil
	})
}

// reserve allocates every struct's schema ID up front, the same
// reserve-then-populate split ir.Build uses for components.schemas, so a
// field referencing a struct declared later in file-walk order still
// resolves to a stable SchemaID instead of requiring a fixup pass.
func (b *builder) reserve() {
	sort.Strings(b.order)
	for _, name := range b.order {
		b.ir.AddSchema(ir.Schema{Name: name})
	}
}

func (b *builder) populate() error {
	for _, name := range b.order {
		ps := b.structs[name]
		id, ok := b.ir.SchemaByName(name)
		if !ok {
			continue
		}

		schema := ir.Schema{Name: name, Kind: ir.KindObject, Source: &ir.SourceStruct{
			File:    ps.file.Path,
			Package: ps.file.AST.Name.Name,
			Name:    ps.name,
			Range:   ps.decl.Range,
		}}

		for _, f := range ps.fields {
			if f.Embedded || !isExported(f.Name) {
				continue
			}
			propName, required := jsonPropertyName(f)
			if propName == "-" {
				continue
			}
			fieldSchemaID, err := b.fieldSchema(f.Type)
			if err != nil {
				return fmt.Errorf("%s.%s: %w", name, f.Name, err)
			}
			schema.Fields = append(schema.Fields, ir.ObjectField{
				Name:     propName,
				Schema:   fieldSchemaID,
				Required: required,
			})
		}

		*b.ir.Schema(id) = schema
		b.ir.Schema(id).ID = id
	}
	return nil
}

// fieldSchema maps a Go type expression (as rendered by cst.StructFields) to
// a schema ID, building a fresh anonymous schema for scalar/slice shapes and
// reusing a reserved ID directly for a reference to another local struct.
func (b *builder) fieldSchema(goType string) (ir.SchemaID, error) {
	nullable := false
	t := goType
	if strings.HasPrefix(t, "*") {
		nullable = true
		t = t[1:]
	}

	if strings.HasPrefix(t, "[]") {
		itemID, err := b.fieldSchema(t[2:])
		if err != nil {
			return 0, err
		}
		return b.ir.AddSchema(ir.Schema{Kind: ir.KindSequence, Items: itemID, Nullable: nullable}), nil
	}

	if refID, ok := b.ir.SchemaByName(localTypeName(t)); ok {
		if nullable {
			return b.ir.AddSchema(ir.Schema{Kind: ir.KindRef, Ref: t, ResolvedRef: refID, Nullable: true}), nil
		}
		return refID, nil
	}

	primitive, format, ok := typemap.OASFormat(t)
	if !ok {
		// No known mapping (e.g. a map type, an interface, an unexported
		// helper type): fall back to an untyped object rather than failing
		// the whole walk over one field shape reflection doesn't cover yet.
		return b.ir.AddSchema(ir.Schema{Kind: ir.KindObject, Nullable: nullable}), nil
	}
	return b.ir.AddSchema(ir.Schema{Kind: ir.KindPrimitive, Primitive: primitive, Format: format, Nullable: nullable}), nil
}

// localTypeName strips a package qualifier so "models.Widget" and "Widget"
// both match a struct found under the same name in the walked tree; this
// tool only reflects a single source tree, so cross-package ambiguity isn't
// a concern it needs to resolve.
func localTypeName(t string) string {
	if idx := strings.LastIndex(t, "."); idx >= 0 {
		return t[idx+1:]
	}
	return t
}

// jsonPropertyName derives the OAS property name and required-ness from a
// struct field's json tag, falling back to the field's own identifier when
// there's no tag. "-" mirrors encoding/json's own convention for excluding
// a field entirely.
func jsonPropertyName(f cst.Field) (name string, required bool) {
	if f.Tag == "" {
		return f.Name, true
	}
	tag := reflect.StructTag(strings.Trim(f.Tag, "`"))
	jsonTag := tag.Get("json")
	if jsonTag == "" {
		return f.Name, true
	}
	parts := strings.Split(jsonTag, ",")
	name = parts[0]
	if name == "" {
		name = f.Name
	}
	omitempty := false
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitempty = true
		}
	}
	return name, name != "-" && !omitempty
}

func isExported(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}
