package ir

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/speakeasy-api/oastool/oasdoc"
	"github.com/speakeasy-api/oastool/sequencedmap"
)

// Build walks a parsed OpenAPI document and produces the arena-based IR this
// tool synchronizes against a Go source tree and a database schema. $refs
// inside components.schemas resolve to the SchemaID already reserved for
// that component, so cyclic schemas become SchemaID cycles rather than
// requiring a second resolution pass.
func Build(ctx context.Context, doc *oasdoc.Document) (*Document, error) {
	b := &builder{ctx: ctx, doc: doc, ir: NewDocument()}

	if err := b.reserveComponentSchemas(); err != nil {
		return nil, err
	}
	if err := b.buildComponentSchemas(); err != nil {
		return nil, err
	}
	if err := b.buildSecuritySchemes(); err != nil {
		return nil, err
	}
	if err := b.buildRoutes(); err != nil {
		return nil, err
	}

	return b.ir, nil
}

type builder struct {
	ctx context.Context
	doc *oasdoc.Document
	ir  *Document
}

// reserveComponentSchemas allocates a SchemaID for every named
// components.schemas entry up front, before any are populated, so that a
// $ref to any one of them (including forward and self references) resolves
// to a stable ID during the populate pass below.
func (b *builder) reserveComponentSchemas() error {
	if b.doc.Components == nil || b.doc.Components.Schemas == nil {
		return nil
	}
	for name := range b.doc.Components.Schemas.All() {
		b.ir.AddSchema(Schema{Name: name})
	}
	return nil
}

func (b *builder) buildComponentSchemas() error {
	if b.doc.Components == nil || b.doc.Components.Schemas == nil {
		return nil
	}
	for name, s := range b.doc.Components.Schemas.All() {
		id, ok := b.ir.SchemaByName(name)
		if !ok {
			return fmt.Errorf("internal error: component schema %q was not reserved", name)
		}
		built, err := b.buildSchema(s)
		if err != nil {
			return fmt.Errorf("building component schema %q: %w", name, err)
		}
		built.ID = id
		built.Name = name
		*b.ir.Schema(id) = built
	}
	return nil
}

// buildSchema converts one oasdoc.Schema node into an IR Schema. For inline
// nested schemas (object properties, array items, oneOf members, ...) it
// recursively allocates new arena entries; for a $ref into
// components.schemas it reuses the ID reserved by reserveComponentSchemas
// instead of re-building the target, which is what makes self- and
// mutually-recursive schemas safe.
func (b *builder) buildSchema(s *oasdoc.Schema) (Schema, error) {
	if s == nil {
		return Schema{Kind: KindPrimitive, Primitive: PrimitiveString}, nil
	}

	switch s.SchemaKind() {
	case oasdoc.KindBoolean:
		return Schema{Kind: KindBoolean, BoolValue: s.BoolValue}, nil
	case oasdoc.KindRef:
		refID, err := b.resolveSchemaRef(s.Ref)
		if err != nil {
			return Schema{}, err
		}
		return Schema{Kind: KindRef, Ref: s.Ref, ResolvedRef: refID}, nil
	default:
		return b.buildInlineSchema(s)
	}
}

// resolveSchemaRef resolves a schema $ref to a SchemaID. A reference into
// this document's own components.schemas reuses the ID reserved up front;
// anything else (an external document, or a ref into some other section
// that happens to point at a schema) is resolved and built fresh since it
// has no reserved slot of its own.
func (b *builder) resolveSchemaRef(ref string) (SchemaID, error) {
	const localPrefix = "#/components/schemas/"
	if strings.HasPrefix(ref, localPrefix) {
		name := strings.TrimPrefix(ref, localPrefix)
		if id, ok := b.ir.SchemaByName(name); ok {
			return id, nil
		}
	}

	resolved, err := oasdoc.ResolveRef[oasdoc.Schema](b.ctx, b.doc, ref)
	if err != nil {
		return 0, fmt.Errorf("resolving schema ref %q: %w", ref, err)
	}
	built, err := b.buildSchema(resolved)
	if err != nil {
		return 0, err
	}
	return b.ir.AddSchema(built), nil
}

func (b *builder) buildInlineSchema(s *oasdoc.Schema) (Schema, error) {
	out := Schema{
		Description: s.Description,
		Deprecated:  s.Deprecated,
		Format:      s.Format,
		Enum:        s.Enum,
	}

	nullable := s.Nullable
	types := make([]string, 0, len(s.Type))
	for _, t := range s.Type {
		if t == "null" {
			nullable = true
			continue
		}
		types = append(types, t)
	}
	out.Nullable = nullable

	switch {
	case len(s.OneOf) > 0:
		out.Kind = KindOneOf
		if err := b.buildMembers(&out, s.OneOf); err != nil {
			return Schema{}, err
		}
		if s.Discriminator != nil {
			disc, err := b.buildDiscriminator(s.Discriminator)
			if err != nil {
				return Schema{}, err
			}
			out.Discriminator = disc
		}
		return out, nil
	case len(s.AnyOf) > 0:
		out.Kind = KindAnyOf
		if err := b.buildMembers(&out, s.AnyOf); err != nil {
			return Schema{}, err
		}
		return out, nil
	case len(s.AllOf) > 0:
		out.Kind = KindAllOf
		if err := b.buildMembers(&out, s.AllOf); err != nil {
			return Schema{}, err
		}
		// allOf composition of object schemas also carries its own
		// properties/required alongside the merged members.
		if s.Properties != nil {
			if err := b.buildObjectFields(&out, s); err != nil {
				return Schema{}, err
			}
		}
		return out, nil
	}

	switch {
	case len(types) == 1 && types[0] == "array", s.Items != nil && len(types) == 0:
		out.Kind = KindSequence
		items, err := b.buildSchema(s.Items)
		if err != nil {
			return Schema{}, fmt.Errorf("building array items: %w", err)
		}
		out.Items = b.ir.AddSchema(items)
		return out, nil
	case len(types) == 1 && types[0] == "object", s.Properties != nil && len(types) == 0, isObjectLike(s, types):
		out.Kind = KindObject
		if err := b.buildObjectFields(&out, s); err != nil {
			return Schema{}, err
		}
		return out, nil
	default:
		out.Kind = KindPrimitive
		out.Primitive = primitiveFor(types)
		return out, nil
	}
}

func isObjectLike(s *oasdoc.Schema, types []string) bool {
	if len(types) != 0 {
		return false
	}
	return s.Properties != nil || s.AdditionalProperties != nil || s.AdditionalPropertiesBool != nil
}

func primitiveFor(types []string) Primitive {
	if len(types) == 0 {
		return PrimitiveString
	}
	switch types[0] {
	case "integer":
		return PrimitiveInteger
	case "number":
		return PrimitiveNumber
	case "boolean":
		return PrimitiveBoolean
	case "null":
		return PrimitiveNull
	default:
		return PrimitiveString
	}
}

func (b *builder) buildMembers(out *Schema, members []*oasdoc.Schema) error {
	for _, m := range members {
		built, err := b.buildSchema(m)
		if err != nil {
			return err
		}
		out.Members = append(out.Members, b.ir.AddSchema(built))
	}
	return nil
}

func (b *builder) buildObjectFields(out *Schema, s *oasdoc.Schema) error {
	required := map[string]bool{}
	for _, r := range s.Required {
		required[r] = true
	}

	if s.Properties != nil {
		for name, propSchema := range s.Properties.All() {
			built, err := b.buildSchema(propSchema)
			if err != nil {
				return fmt.Errorf("building property %q: %w", name, err)
			}
			out.Fields = append(out.Fields, ObjectField{
				Name:     name,
				Schema:   b.ir.AddSchema(built),
				Required: required[name],
			})
		}
	}

	switch {
	case s.AdditionalPropertiesBool != nil:
		out.AdditionalProperties = Left[bool, SchemaID](*s.AdditionalPropertiesBool)
	case s.AdditionalProperties != nil:
		built, err := b.buildSchema(s.AdditionalProperties)
		if err != nil {
			return fmt.Errorf("building additionalProperties: %w", err)
		}
		out.AdditionalProperties = Right[bool, SchemaID](b.ir.AddSchema(built))
	}

	return nil
}

func (b *builder) buildDiscriminator(d *oasdoc.Discriminator) (*Discriminator, error) {
	out := &Discriminator{PropertyName: d.PropertyName, Mapping: map[string]SchemaID{}}
	if d.Mapping != nil {
		for key, ref := range d.Mapping.All() {
			id, err := b.resolveSchemaRef(ref)
			if err != nil {
				return nil, fmt.Errorf("resolving discriminator mapping %q: %w", key, err)
			}
			out.Mapping[key] = id
		}
	}
	if d.DefaultMapping != "" {
		id, err := b.resolveSchemaRef(d.DefaultMapping)
		if err != nil {
			return nil, fmt.Errorf("resolving discriminator defaultMapping: %w", err)
		}
		out.DefaultMapping = id
	}
	return out, nil
}

func (b *builder) buildSecuritySchemes() error {
	if b.doc.Components == nil || b.doc.Components.SecuritySchemes == nil {
		return nil
	}
	for name, s := range b.doc.Components.SecuritySchemes.All() {
		scheme := SecurityScheme{Name: name, Scheme: s.Scheme, Header: s.Name}
		switch s.Type {
		case "http":
			scheme.Kind = SecuritySchemeHTTP
		case "oauth2":
			scheme.Kind = SecuritySchemeOAuth2
		case "openIdConnect":
			scheme.Kind = SecuritySchemeOpenIDConnect
		default:
			scheme.Kind = SecuritySchemeAPIKey
		}
		switch s.In {
		case "header":
			scheme.In = ParamHeader
		case "cookie":
			scheme.In = ParamCookie
		default:
			scheme.In = ParamQuery
		}
		b.ir.SecuritySchemes[name] = scheme
	}
	return nil
}

func (b *builder) buildRoutes() error {
	if b.doc.Paths == nil {
		return nil
	}
	for path, item := range b.doc.Paths.All() {
		for _, mo := range item.Operations() {
			route, err := b.buildRoute(path, mo.Method, item, mo.Operation)
			if err != nil {
				return fmt.Errorf("building route %s %s: %w", mo.Method, path, err)
			}
			b.ir.AddRoute(route)
		}
	}
	return nil
}

func (b *builder) buildRoute(path, method string, item *oasdoc.PathItem, op *oasdoc.Operation) (Route, error) {
	route := Route{
		Method:      method,
		Path:        path,
		OperationID: op.OperationID,
		Summary:     op.Summary,
		Deprecated:  op.Deprecated,
	}

	merged := mergeParameters(item.Parameters, op.Parameters)
	for _, p := range merged {
		param, err := b.buildParam(p)
		if err != nil {
			return Route{}, err
		}
		route.Params = append(route.Params, param)
	}

	if op.RequestBody != nil && op.RequestBody.Content != nil {
		bodies, err := b.buildBodies(op.RequestBody.Content, op.RequestBody.Required)
		if err != nil {
			return Route{}, fmt.Errorf("building request body: %w", err)
		}
		route.RequestBody = bodies
	}

	if op.Responses != nil {
		for status, resp := range op.Responses.All() {
			r, err := b.buildResponse(status, resp)
			if err != nil {
				return Route{}, fmt.Errorf("building response %q: %w", status, err)
			}
			route.Responses = append(route.Responses, r)
		}
		sort.Slice(route.Responses, func(i, j int) bool { return route.Responses[i].StatusCode < route.Responses[j].StatusCode })
	}

	sec := op.Security
	if sec == nil {
		sec = b.doc.Security
	}
	for _, req := range sec {
		out := SecurityRequirement{Schemes: map[string][]string{}}
		if req.Schemes != nil {
			for name, scopes := range req.Schemes.All() {
				out.Schemes[name] = scopes
			}
		}
		route.Security = append(route.Security, out)
	}

	return route, nil
}

// mergeParameters applies OAS parameter inheritance: an operation-level
// parameter with the same (name, in) as a path-level one overrides it
// entirely, otherwise the path-level parameter also applies.
func mergeParameters(pathLevel, opLevel []*oasdoc.Parameter) []*oasdoc.Parameter {
	type key struct{ name, in string }
	override := map[key]bool{}
	for _, p := range opLevel {
		override[key{p.Name, p.In}] = true
	}
	merged := make([]*oasdoc.Parameter, 0, len(pathLevel)+len(opLevel))
	for _, p := range pathLevel {
		if !override[key{p.Name, p.In}] {
			merged = append(merged, p)
		}
	}
	merged = append(merged, opLevel...)
	return merged
}

func (b *builder) buildParam(p *oasdoc.Parameter) (Param, error) {
	built, err := b.buildSchema(p.Schema)
	if err != nil {
		return Param{}, fmt.Errorf("building parameter %q schema: %w", p.Name, err)
	}
	var loc ParamLocation
	switch p.In {
	case "path":
		loc = ParamPath
	case "header":
		loc = ParamHeader
	case "cookie":
		loc = ParamCookie
	default:
		loc = ParamQuery
	}
	return Param{
		Name:     p.Name,
		Location: loc,
		Schema:   b.ir.AddSchema(built),
		Required: p.Required || loc == ParamPath,
		Style:    string(p.DefaultStyle()),
		Explode:  p.DefaultExplode(),
	}, nil
}

func (b *builder) buildBodies(content *sequencedmap.Map[string, *oasdoc.MediaType], required bool) ([]Body, error) {
	var bodies []Body
	for mt, media := range content.All() {
		built, err := b.buildMediaSchema(media)
		if err != nil {
			return nil, fmt.Errorf("building media type %q: %w", mt, err)
		}
		bodies = append(bodies, Body{
			MediaType: mt,
			Schema:    b.ir.AddSchema(built),
			Required:  required,
		})
	}
	sort.Slice(bodies, func(i, j int) bool { return bodies[i].MediaType < bodies[j].MediaType })
	return bodies, nil
}

// buildMediaSchema builds the schema a MediaType's body actually carries. A
// 3.2 sequential media type (itemSchema set, schema unset) describes a
// stream of independently-validated items rather than one value of its own,
// so it maps to a sequence of the item schema rather than falling through to
// buildSchema's untyped-string default.
func (b *builder) buildMediaSchema(media *oasdoc.MediaType) (Schema, error) {
	if media.Schema == nil && media.ItemSchema != nil {
		item, err := b.buildSchema(media.ItemSchema)
		if err != nil {
			return Schema{}, fmt.Errorf("building itemSchema: %w", err)
		}
		return Schema{Kind: KindSequence, Items: b.ir.AddSchema(item)}, nil
	}
	return b.buildSchema(media.Schema)
}

func (b *builder) buildResponse(status string, resp *oasdoc.Response) (Response, error) {
	out := Response{StatusCode: status}
	if resp.Content != nil {
		bodies, err := b.buildBodies(resp.Content, false)
		if err != nil {
			return Response{}, err
		}
		out.Bodies = bodies
	}
	if resp.Headers != nil {
		for name, h := range resp.Headers.All() {
			built, err := b.buildSchema(h.Schema)
			if err != nil {
				return Response{}, fmt.Errorf("building header %q: %w", name, err)
			}
			out.Headers = append(out.Headers, Param{
				Name:     name,
				Location: ParamHeader,
				Schema:   b.ir.AddSchema(built),
				Required: h.Required,
				Style:    string(h.Style),
			})
		}
		sort.Slice(out.Headers, func(i, j int) bool { return out.Headers[i].Name < out.Headers[j].Name })
	}
	if resp.Links != nil {
		for name, l := range resp.Links.All() {
			link := Link{Name: name, OperationID: l.OperationID, Description: l.Description}
			if l.Parameters != nil {
				link.Parameters = map[string]string{}
				for k, v := range l.Parameters {
					if s, ok := v.(string); ok {
						link.Parameters[k] = s
					}
				}
			}
			if s, ok := l.RequestBody.(string); ok {
				link.RequestBody = s
			}
			out.Links = append(out.Links, link)
		}
		sort.Slice(out.Links, func(i, j int) bool { return out.Links[i].Name < out.Links[j].Name })
	}
	return out, nil
}
