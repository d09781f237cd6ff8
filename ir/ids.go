// Package ir holds the intermediate representation this tool synchronizes
// between an OpenAPI document, a typed Go source tree, and a relational
// database schema. Entities are arena-held and referenced by integer ID
// rather than by pointer, so that cyclic schemas (a struct that references
// itself) are bounded index cycles instead of unbounded pointer graphs.
package ir

// SchemaID indexes into Document.Schemas. The zero value is never a valid ID;
// IDs start at 1 so a zero SchemaID field unambiguously means "unset".
type SchemaID int

// RouteID indexes into Document.Routes.
type RouteID int
