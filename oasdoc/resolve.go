package oasdoc

import (
	"context"
	"fmt"

	"github.com/speakeasy-api/oastool/references"
	"gopkg.in/yaml.v3"
)

func unmarshalValue[T any](_ context.Context, node *yaml.Node, _ bool) (*T, []error, error) {
	var v T
	if err := node.Decode(&v); err != nil {
		return nil, nil, fmt.Errorf("decoding referenced %T: %w", v, err)
	}
	return &v, nil, nil
}

// ResolveRef resolves a single $ref string against doc, returning the
// referenced object of type T. It supports local ("#/...") and file-relative
// references; network references are never fetched.
func ResolveRef[T any](ctx context.Context, doc *Document, ref string) (*T, error) {
	r := references.Reference(ref)

	result, validationErrs, err := references.Resolve[T](ctx, r, unmarshalValue[T], references.ResolveOptions{
		RootDocument:   doc,
		TargetLocation: doc.Location(),
		TargetDocument: doc,
	})
	if err != nil {
		return nil, ErrUnresolvedRef.Wrap(err)
	}
	if len(validationErrs) > 0 {
		return nil, ErrUnresolvedRef.Wrap(validationErrs[0])
	}

	return result.Object, nil
}

// Resolve returns the schema this node points to, following $ref chains until
// an inline or boolean schema is reached. It is a no-op (returns s) for
// non-ref schemas. Chains that revisit a reference they started from return
// ErrCyclicRef rather than recursing forever.
func (s *Schema) Resolve(ctx context.Context, doc *Document) (*Schema, error) {
	visiting := map[string]bool{}
	cur := s

	for cur.Ref != "" {
		absResult, err := references.ResolveAbsoluteReference(references.Reference(cur.Ref), doc.Location())
		if err != nil {
			return nil, fmt.Errorf("resolving reference %q: %w", cur.Ref, err)
		}
		if visiting[absResult.AbsoluteReference] {
			return nil, ErrCyclicRef.Wrap(fmt.Errorf("%q", cur.Ref))
		}
		visiting[absResult.AbsoluteReference] = true

		next, err := ResolveRef[Schema](ctx, doc, cur.Ref)
		if err != nil {
			return nil, err
		}
		cur = next
	}

	return cur, nil
}
