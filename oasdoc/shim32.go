package oasdoc

import (
	"strings"

	"github.com/speakeasy-api/oastool/references"
)

// applyShim32 normalizes the handful of OAS 3.2 constructs that this tool
// represents differently internally than the raw document shape:
//
//   - `$self` is recorded on Document.Self and used as the base URI in place
//     of the document's file location when resolving relative $refs, per the
//     3.2 Self-Reference convention.
//   - discriminator.mapping values are canonicalized: a mapping value that is a
//     relative reference ("Cat") is expanded to the fully qualified schema
//     $ref ("#/components/schemas/Cat") when it isn't already a $ref or URI.
//
// additionalOperations (3.2's way of registering custom HTTP methods) is
// intentionally NOT expanded here: this tool only targets the fixed verb set
// net/http's ServeMux understands, so additionalOperations is surfaced as a
// validation error (oasvalidate.RuleUnsupportedAdditionalOperations) instead.
func applyShim32(doc *Document) {
	if doc.Self != "" {
		if abs, err := references.ResolveAbsoluteReference(references.Reference(doc.Self), doc.location); err == nil {
			doc.location = abs.AbsoluteReference
		}
	}

	if doc.Components == nil || doc.Components.Schemas == nil {
		return
	}

	for _, schema := range doc.Components.Schemas.All() {
		canonicalizeDiscriminatorMapping(schema)
	}

	if doc.Paths != nil {
		for _, item := range doc.Paths.All() {
			for _, mo := range item.Operations() {
				canonicalizeOperationSchemas(mo.Operation)
			}
		}
	}
}

func canonicalizeOperationSchemas(op *Operation) {
	if op == nil {
		return
	}
	for _, p := range op.Parameters {
		canonicalizeDiscriminatorMapping(p.Schema)
	}
	if op.RequestBody != nil && op.RequestBody.Content != nil {
		for _, mt := range op.RequestBody.Content.All() {
			canonicalizeDiscriminatorMapping(mt.Schema)
		}
	}
}

func canonicalizeDiscriminatorMapping(s *Schema) {
	if s == nil || s.Discriminator == nil || s.Discriminator.Mapping == nil {
		return
	}
	for key, target := range s.Discriminator.Mapping.All() {
		if strings.HasPrefix(target, "#/") || strings.Contains(target, "://") || strings.HasPrefix(target, "./") || strings.HasPrefix(target, "../") {
			continue
		}
		s.Discriminator.Mapping.Set(key, "#/components/schemas/"+target)
	}
}
