// Package oasdoc provides a typed, in-memory model of an OpenAPI 3.0/3.1/3.2
// document, together with local $ref resolution built on top of the
// references and jsonpointer packages.
package oasdoc

import (
	"context"
	"fmt"

	"github.com/speakeasy-api/oastool/errors"
	"github.com/speakeasy-api/oastool/references"
	"github.com/speakeasy-api/oastool/sequencedmap"
	"gopkg.in/yaml.v3"
)

// ErrCyclicRef is returned when a $ref chain revisits a reference it has
// already started resolving.
const ErrCyclicRef = errors.Error("cyclic reference")

// ErrUnresolvedRef is returned when a $ref cannot be located in the document.
const ErrUnresolvedRef = errors.Error("unresolved reference")

// Document is the root of a parsed OpenAPI document.
type Document struct {
	OpenAPI      string                                  `yaml:"openapi" key:"openapi"`
	Self         string                                  `yaml:"$self,omitempty" key:"$self"`
	Info         *Info                                   `yaml:"info" key:"info"`
	JSONSchemaDialect string                             `yaml:"jsonSchemaDialect,omitempty" key:"jsonSchemaDialect"`
	Servers      []*Server                                `yaml:"servers,omitempty" key:"servers"`
	Paths        *sequencedmap.Map[string, *PathItem]     `yaml:"paths,omitempty" key:"paths"`
	Webhooks     *sequencedmap.Map[string, *PathItem]     `yaml:"webhooks,omitempty" key:"webhooks"`
	Components   *Components                             `yaml:"components,omitempty" key:"components"`
	Security     []*SecurityRequirement                   `yaml:"security,omitempty" key:"security"`
	Tags         []*Tag                                   `yaml:"tags,omitempty" key:"tags"`
	ExternalDocs *ExternalDocs                             `yaml:"externalDocs,omitempty" key:"externalDocs"`

	// location is the absolute location (file path or URL) this document was loaded from,
	// replaced by the document's $self resolved against it when $self is set.
	// It is the base URI all relative $refs in this document resolve against.
	location string

	cache *refCache
}

type refCache struct {
	objects   map[string]any
	documents map[string][]byte
}

var _ references.ResolutionTarget = (*Document)(nil)

// InitCache implements references.ResolutionTarget.
func (d *Document) InitCache() {
	if d.cache == nil {
		d.cache = &refCache{
			objects:   make(map[string]any),
			documents: make(map[string][]byte),
		}
	}
}

// GetCachedReferencedObject implements references.ResolutionTarget.
func (d *Document) GetCachedReferencedObject(key string) (any, bool) {
	if d.cache == nil {
		return nil, false
	}
	obj, ok := d.cache.objects[key]
	return obj, ok
}

// StoreReferencedObjectInCache implements references.ResolutionTarget.
func (d *Document) StoreReferencedObjectInCache(key string, obj any) {
	d.InitCache()
	d.cache.objects[key] = obj
}

// GetCachedReferenceDocument implements references.ResolutionTarget.
func (d *Document) GetCachedReferenceDocument(key string) ([]byte, bool) {
	if d.cache == nil {
		return nil, false
	}
	doc, ok := d.cache.documents[key]
	return doc, ok
}

// StoreReferenceDocumentInCache implements references.ResolutionTarget.
func (d *Document) StoreReferenceDocumentInCache(key string, doc []byte) {
	d.InitCache()
	d.cache.documents[key] = doc
}

// Location returns the document's base URI: its $self resolved against the
// location it was parsed from when $self is set, otherwise that location.
func (d *Document) Location() string {
	return d.location
}

// Parse reads and parses an OpenAPI document from data, which must be valid
// YAML (a superset of JSON). location must be the absolute path or URL the
// document was loaded from; it becomes the base URI for $ref resolution
// (a declared $self is resolved against it and takes its place).
func Parse(ctx context.Context, data []byte, location string) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	var doc Document
	if err := root.Content[0].Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding openapi document: %w", err)
	}
	doc.location = location
	doc.InitCache()

	applyShim32(&doc)

	return &doc, nil
}

// Info is the OAS Info Object.
type Info struct {
	Title          string   `yaml:"title" key:"title"`
	Summary        string   `yaml:"summary,omitempty" key:"summary"`
	Description    string   `yaml:"description,omitempty" key:"description"`
	TermsOfService string   `yaml:"termsOfService,omitempty" key:"termsOfService"`
	Contact        *Contact `yaml:"contact,omitempty" key:"contact"`
	License        *License `yaml:"license,omitempty" key:"license"`
	Version        string   `yaml:"version" key:"version"`
}

type Contact struct {
	Name  string `yaml:"name,omitempty" key:"name"`
	URL   string `yaml:"url,omitempty" key:"url"`
	Email string `yaml:"email,omitempty" key:"email"`
}

type License struct {
	Name       string `yaml:"name" key:"name"`
	Identifier string `yaml:"identifier,omitempty" key:"identifier"`
	URL        string `yaml:"url,omitempty" key:"url"`
}

type Server struct {
	URL         string                             `yaml:"url" key:"url"`
	Description string                             `yaml:"description,omitempty" key:"description"`
	Variables   *sequencedmap.Map[string, *ServerVariable] `yaml:"variables,omitempty" key:"variables"`
}

type ServerVariable struct {
	Enum        []string `yaml:"enum,omitempty" key:"enum"`
	Default     string   `yaml:"default" key:"default"`
	Description string   `yaml:"description,omitempty" key:"description"`
}

type Tag struct {
	Name         string        `yaml:"name" key:"name"`
	Summary      string        `yaml:"summary,omitempty" key:"summary"`
	Description  string        `yaml:"description,omitempty" key:"description"`
	ExternalDocs *ExternalDocs `yaml:"externalDocs,omitempty" key:"externalDocs"`
	Parent       string        `yaml:"parent,omitempty" key:"parent"`
	Kind         string        `yaml:"kind,omitempty" key:"kind"`
}

type ExternalDocs struct {
	Description string `yaml:"description,omitempty" key:"description"`
	URL         string `yaml:"url" key:"url"`
}

// PathItem is the OAS Path Item Object. Besides the named fields required
// for round-tripping, Operations lists the operations that are set, each
// paired with its uppercase HTTP method.
type PathItem struct {
	Ref         string     `yaml:"$ref,omitempty" key:"$ref"`
	Summary     string     `yaml:"summary,omitempty" key:"summary"`
	Description string     `yaml:"description,omitempty" key:"description"`
	Get         *Operation `yaml:"get,omitempty" key:"get"`
	Put         *Operation `yaml:"put,omitempty" key:"put"`
	Post        *Operation `yaml:"post,omitempty" key:"post"`
	Delete      *Operation `yaml:"delete,omitempty" key:"delete"`
	Options     *Operation `yaml:"options,omitempty" key:"options"`
	Head        *Operation `yaml:"head,omitempty" key:"head"`
	Patch       *Operation `yaml:"patch,omitempty" key:"patch"`
	Trace       *Operation `yaml:"trace,omitempty" key:"trace"`
	Query       *Operation `yaml:"query,omitempty" key:"query"`
	Servers     []*Server  `yaml:"servers,omitempty" key:"servers"`
	Parameters  []*Parameter `yaml:"parameters,omitempty" key:"parameters"`

	// AdditionalOperations holds any `additionalOperations` map from 3.2 docs,
	// rejected per shim32.go since this tool only targets fixed HTTP verbs.
	AdditionalOperations *sequencedmap.Map[string, *Operation] `yaml:"additionalOperations,omitempty" key:"additionalOperations"`
}

// Operations returns the path item's operations keyed by uppercase HTTP method,
// in a fixed, deterministic order.
func (p *PathItem) Operations() []MethodOperation {
	var ops []MethodOperation
	add := func(method string, op *Operation) {
		if op != nil {
			ops = append(ops, MethodOperation{Method: method, Operation: op})
		}
	}
	add("GET", p.Get)
	add("PUT", p.Put)
	add("POST", p.Post)
	add("DELETE", p.Delete)
	add("OPTIONS", p.Options)
	add("HEAD", p.Head)
	add("PATCH", p.Patch)
	add("TRACE", p.Trace)
	add("QUERY", p.Query)
	return ops
}

type MethodOperation struct {
	Method    string
	Operation *Operation
}

type Operation struct {
	Tags         []string                                   `yaml:"tags,omitempty" key:"tags"`
	Summary      string                                      `yaml:"summary,omitempty" key:"summary"`
	Description  string                                      `yaml:"description,omitempty" key:"description"`
	ExternalDocs *ExternalDocs                               `yaml:"externalDocs,omitempty" key:"externalDocs"`
	OperationID  string                                      `yaml:"operationId,omitempty" key:"operationId"`
	Parameters   []*Parameter                                `yaml:"parameters,omitempty" key:"parameters"`
	RequestBody  *RequestBody                                `yaml:"requestBody,omitempty" key:"requestBody"`
	Responses    *sequencedmap.Map[string, *Response]        `yaml:"responses,omitempty" key:"responses"`
	Callbacks    *sequencedmap.Map[string, *sequencedmap.Map[string, *PathItem]] `yaml:"callbacks,omitempty" key:"callbacks"`
	Deprecated   bool                                        `yaml:"deprecated,omitempty" key:"deprecated"`
	Security     []*SecurityRequirement                      `yaml:"security,omitempty" key:"security"`
	Servers      []*Server                                   `yaml:"servers,omitempty" key:"servers"`
}

type Components struct {
	Schemas         *sequencedmap.Map[string, *Schema]         `yaml:"schemas,omitempty" key:"schemas"`
	Responses       *sequencedmap.Map[string, *Response]       `yaml:"responses,omitempty" key:"responses"`
	Parameters      *sequencedmap.Map[string, *Parameter]      `yaml:"parameters,omitempty" key:"parameters"`
	Examples        *sequencedmap.Map[string, *Example]        `yaml:"examples,omitempty" key:"examples"`
	RequestBodies   *sequencedmap.Map[string, *RequestBody]    `yaml:"requestBodies,omitempty" key:"requestBodies"`
	Headers         *sequencedmap.Map[string, *Header]         `yaml:"headers,omitempty" key:"headers"`
	SecuritySchemes *sequencedmap.Map[string, *SecurityScheme] `yaml:"securitySchemes,omitempty" key:"securitySchemes"`
	Links           *sequencedmap.Map[string, *Link]           `yaml:"links,omitempty" key:"links"`
	PathItems       *sequencedmap.Map[string, *PathItem]       `yaml:"pathItems,omitempty" key:"pathItems"`
}
