package ir

import (
	"github.com/speakeasy-api/oastool/oasdoc"
	"github.com/speakeasy-api/oastool/pointer"
	"github.com/speakeasy-api/oastool/sequencedmap"
)

// ToOASSchema converts the schema at id (and everything it transitively
// references) into an oasdoc.Schema tree. A ref into a named component
// schema is emitted as a $ref string rather than being inlined again, so a
// document built this way round-trips through Build without growing.
func (d *Document) ToOASSchema(id SchemaID) *oasdoc.Schema {
	s := d.Schema(id)

	switch s.Kind {
	case KindBoolean:
		return &oasdoc.Schema{IsBool: true, BoolValue: s.BoolValue}
	case KindRef:
		target := d.Schema(s.ResolvedRef)
		if target.Name != "" {
			return &oasdoc.Schema{Ref: "#/components/schemas/" + target.Name}
		}
		return d.ToOASSchema(s.ResolvedRef)
	case KindPrimitive:
		return &oasdoc.Schema{
			Type:        []string{primitiveTypeName(s.Primitive)},
			Format:      s.Format,
			Description: s.Description,
			Deprecated:  s.Deprecated,
			Nullable:    s.Nullable,
			Enum:        s.Enum,
		}
	case KindSequence:
		return &oasdoc.Schema{
			Type:        []string{"array"},
			Description: s.Description,
			Items:       d.ToOASSchema(s.Items),
		}
	case KindObject:
		out := &oasdoc.Schema{
			Type:        []string{"object"},
			Description: s.Description,
			Deprecated:  s.Deprecated,
		}
		d.fillObjectFields(out, s)
		d.fillAdditionalProperties(out, s)
		return out
	case KindOneOf, KindAnyOf, KindAllOf:
		out := &oasdoc.Schema{Description: s.Description}
		members := make([]*oasdoc.Schema, 0, len(s.Members))
		for _, m := range s.Members {
			members = append(members, d.ToOASSchema(m))
		}
		switch s.Kind {
		case KindOneOf:
			out.OneOf = members
		case KindAnyOf:
			out.AnyOf = members
		case KindAllOf:
			out.AllOf = members
			d.fillObjectFields(out, s)
		}
		if s.Discriminator != nil {
			out.Discriminator = d.toOASDiscriminator(s.Discriminator)
		}
		return out
	default:
		return &oasdoc.Schema{}
	}
}

func (d *Document) fillObjectFields(out *oasdoc.Schema, s *Schema) {
	if len(s.Fields) == 0 {
		return
	}
	elems := make([]*sequencedmap.Element[string, *oasdoc.Schema], 0, len(s.Fields))
	for _, f := range s.Fields {
		elems = append(elems, sequencedmap.NewElem(f.Name, d.ToOASSchema(f.Schema)))
		if f.Required {
			out.Required = append(out.Required, f.Name)
		}
	}
	out.Properties = sequencedmap.New(elems...)
}

func (d *Document) fillAdditionalProperties(out *oasdoc.Schema, s *Schema) {
	if b, ok := s.AdditionalProperties.GetLeft(); ok {
		out.AdditionalPropertiesBool = pointer.From(b)
	} else if sid, ok := s.AdditionalProperties.GetRight(); ok {
		out.AdditionalProperties = d.ToOASSchema(sid)
	}
}

func (d *Document) toOASDiscriminator(disc *Discriminator) *oasdoc.Discriminator {
	out := &oasdoc.Discriminator{PropertyName: disc.PropertyName}
	if len(disc.Mapping) > 0 {
		elems := make([]*sequencedmap.Element[string, string], 0, len(disc.Mapping))
		for key, id := range disc.Mapping {
			elems = append(elems, sequencedmap.NewElem(key, "#/components/schemas/"+d.Schema(id).Name))
		}
		out.Mapping = sequencedmap.New(elems...)
	}
	if disc.DefaultMapping != 0 {
		out.DefaultMapping = "#/components/schemas/" + d.Schema(disc.DefaultMapping).Name
	}
	return out
}

func primitiveTypeName(p Primitive) string {
	switch p {
	case PrimitiveInteger:
		return "integer"
	case PrimitiveNumber:
		return "number"
	case PrimitiveBoolean:
		return "boolean"
	case PrimitiveNull:
		return "null"
	default:
		return "string"
	}
}

// ToComponents builds an oasdoc.Components populated with every named
// schema in the arena, in arena (declaration) order, suitable for embedding
// in an emitted document.
func (d *Document) ToComponents() *oasdoc.Components {
	elems := make([]*sequencedmap.Element[string, *oasdoc.Schema], 0, len(d.Schemas))
	for i := range d.Schemas {
		s := &d.Schemas[i]
		if s.Name == "" {
			continue
		}
		elems = append(elems, sequencedmap.NewElem(s.Name, d.ToOASSchema(s.ID)))
	}
	return &oasdoc.Components{Schemas: sequencedmap.New(elems...)}
}
