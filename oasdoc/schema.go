package oasdoc

import (
	"fmt"

	"github.com/speakeasy-api/oastool/sequencedmap"
	"gopkg.in/yaml.v3"
)

// Schema models a JSON Schema / OAS Schema Object node. A schema node is one
// of: a boolean schema (`true`/`false`), a $ref, or an inline schema object;
// IsBool and Ref distinguish the first two cases, all other fields are only
// meaningful for inline schemas (or are overlaid on top of a resolved $ref
// per allOf-flattening rules applied by the ir package).
type Schema struct {
	IsBool   bool
	BoolValue bool

	Ref string `yaml:"$ref,omitempty" key:"$ref"`

	Type                 []string                           `yaml:"-" key:"type"`
	Format               string                             `yaml:"format,omitempty" key:"format"`
	Title                string                             `yaml:"title,omitempty" key:"title"`
	Description          string                             `yaml:"description,omitempty" key:"description"`
	Default              any                                `yaml:"default,omitempty" key:"default"`
	Deprecated           bool                               `yaml:"deprecated,omitempty" key:"deprecated"`
	ReadOnly             bool                               `yaml:"readOnly,omitempty" key:"readOnly"`
	WriteOnly            bool                               `yaml:"writeOnly,omitempty" key:"writeOnly"`
	Nullable             bool                               `yaml:"nullable,omitempty" key:"nullable"` // 3.0 only; 3.1+ use `type: [T, "null"]`

	Enum    []any `yaml:"enum,omitempty" key:"enum"`
	Const   any   `yaml:"const,omitempty" key:"const"`

	// Numeric
	MultipleOf       *float64 `yaml:"multipleOf,omitempty" key:"multipleOf"`
	Maximum          *float64 `yaml:"maximum,omitempty" key:"maximum"`
	ExclusiveMaximum *float64 `yaml:"exclusiveMaximum,omitempty" key:"exclusiveMaximum"`
	Minimum          *float64 `yaml:"minimum,omitempty" key:"minimum"`
	ExclusiveMinimum *float64 `yaml:"exclusiveMinimum,omitempty" key:"exclusiveMinimum"`

	// String
	MaxLength *int64 `yaml:"maxLength,omitempty" key:"maxLength"`
	MinLength *int64 `yaml:"minLength,omitempty" key:"minLength"`
	Pattern   string `yaml:"pattern,omitempty" key:"pattern"`

	// Array / sequence
	Items       *Schema `yaml:"items,omitempty" key:"items"`
	PrefixItems []*Schema `yaml:"prefixItems,omitempty" key:"prefixItems"`
	MaxItems    *int64  `yaml:"maxItems,omitempty" key:"maxItems"`
	MinItems    *int64  `yaml:"minItems,omitempty" key:"minItems"`
	UniqueItems bool    `yaml:"uniqueItems,omitempty" key:"uniqueItems"`

	// Object
	Properties           *sequencedmap.Map[string, *Schema] `yaml:"properties,omitempty" key:"properties"`
	Required             []string                           `yaml:"required,omitempty" key:"required"`
	AdditionalProperties *Schema                            `yaml:"-" key:"additionalProperties"`
	AdditionalPropertiesBool *bool                          `yaml:"-" key:"-"`
	MaxProperties        *int64                             `yaml:"maxProperties,omitempty" key:"maxProperties"`
	MinProperties        *int64                             `yaml:"minProperties,omitempty" key:"minProperties"`

	// Polymorphism
	OneOf         []*Schema      `yaml:"oneOf,omitempty" key:"oneOf"`
	AnyOf         []*Schema      `yaml:"anyOf,omitempty" key:"anyOf"`
	AllOf         []*Schema      `yaml:"allOf,omitempty" key:"allOf"`
	Not           *Schema        `yaml:"not,omitempty" key:"not"`
	Discriminator *Discriminator `yaml:"discriminator,omitempty" key:"discriminator"`

	// Media (OAS-specific vendor fields on Schema, used for binary/serialized values)
	XML          *XML  `yaml:"xml,omitempty" key:"xml"`
	Example      any   `yaml:"example,omitempty" key:"example"`
	ExternalDocs *ExternalDocs `yaml:"externalDocs,omitempty" key:"externalDocs"`
}

type XML struct {
	Name      string `yaml:"name,omitempty" key:"name"`
	Namespace string `yaml:"namespace,omitempty" key:"namespace"`
	Prefix    string `yaml:"prefix,omitempty" key:"prefix"`
	Attribute bool   `yaml:"attribute,omitempty" key:"attribute"`
	Wrapped   bool   `yaml:"wrapped,omitempty" key:"wrapped"`
}

// Discriminator models discriminator-based oneOf/anyOf dispatch, including the
// 3.2 defaultMapping addition.
type Discriminator struct {
	PropertyName   string                             `yaml:"propertyName" key:"propertyName"`
	Mapping        *sequencedmap.Map[string, string]  `yaml:"mapping,omitempty" key:"mapping"`
	DefaultMapping string                             `yaml:"defaultMapping,omitempty" key:"defaultMapping"`
}

// Kind classifies a Schema node for the purposes of IR building.
type Kind int

const (
	KindInline Kind = iota
	KindRef
	KindBoolean
)

// SchemaKind returns the discriminant for this schema node.
func (s *Schema) SchemaKind() Kind {
	switch {
	case s.IsBool:
		return KindBoolean
	case s.Ref != "":
		return KindRef
	default:
		return KindInline
	}
}

// schemaFields is a plain alias of Schema used to decode the mapping-node case
// without recursing back into Schema.UnmarshalYAML.
type schemaFields Schema

// UnmarshalYAML implements yaml.v3's Unmarshaler, handling the three schema
// node shapes: boolean, $ref, and inline object. additionalProperties is
// decoded by hand since it may be a boolean or a schema object.
func (s *Schema) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var b bool
		if err := node.Decode(&b); err != nil {
			return fmt.Errorf("scalar schema node must be a boolean: %w", err)
		}
		s.IsBool = true
		s.BoolValue = b
		return nil
	case yaml.MappingNode:
		var fields schemaFields
		if err := node.Decode(&fields); err != nil {
			return fmt.Errorf("decoding schema: %w", err)
		}
		*s = Schema(fields)

		typeNode, _ := mapValueNode(node, "type")
		if typeNode != nil {
			if typeNode.Kind == yaml.ScalarNode {
				s.Type = []string{typeNode.Value}
			} else if typeNode.Kind == yaml.SequenceNode {
				for _, c := range typeNode.Content {
					s.Type = append(s.Type, c.Value)
				}
			}
		}

		apNode, _ := mapValueNode(node, "additionalProperties")
		if apNode != nil {
			if apNode.Kind == yaml.ScalarNode && (apNode.Tag == "!!bool") {
				var b bool
				if err := apNode.Decode(&b); err != nil {
					return err
				}
				s.AdditionalPropertiesBool = &b
			} else {
				var sub Schema
				if err := apNode.Decode(&sub); err != nil {
					return fmt.Errorf("decoding additionalProperties: %w", err)
				}
				s.AdditionalProperties = &sub
			}
		}

		return nil
	default:
		return fmt.Errorf("schema node must be a scalar boolean or a mapping, got kind %d", node.Kind)
	}
}

// MarshalYAML implements yaml.v3's Marshaler.
func (s *Schema) MarshalYAML() (any, error) {
	if s.IsBool {
		return s.BoolValue, nil
	}
	if s.Ref != "" {
		return map[string]any{"$ref": s.Ref}, nil
	}

	fields := schemaFields(*s)
	node := &yaml.Node{}
	if err := node.Encode(fields); err != nil {
		return nil, err
	}

	if len(s.Type) == 1 {
		node.Content = append(node.Content, stringKey("type"), scalarNode(s.Type[0]))
	} else if len(s.Type) > 1 {
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, t := range s.Type {
			seq.Content = append(seq.Content, scalarNode(t))
		}
		node.Content = append(node.Content, stringKey("type"), seq)
	}

	if s.AdditionalPropertiesBool != nil {
		node.Content = append(node.Content, stringKey("additionalProperties"), boolNode(*s.AdditionalPropertiesBool))
	} else if s.AdditionalProperties != nil {
		var apNode yaml.Node
		if err := apNode.Encode(s.AdditionalProperties); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, stringKey("additionalProperties"), &apNode)
	}

	return node, nil
}

func mapValueNode(node *yaml.Node, key string) (*yaml.Node, int) {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1], i
		}
	}
	return nil, -1
}

func stringKey(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func scalarNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func boolNode(b bool) *yaml.Node {
	v := "false"
	if b {
		v = "true"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: v}
}
