package oasdoc

import (
	"github.com/speakeasy-api/oastool/sequencedmap"
	"gopkg.in/yaml.v3"
)

// ParameterStyle enumerates the OAS `style` values used for parameter
// serialization, shared between Parameter and Header.
type ParameterStyle string

const (
	StyleMatrix         ParameterStyle = "matrix"
	StyleLabel          ParameterStyle = "label"
	StyleForm           ParameterStyle = "form"
	StyleSimple         ParameterStyle = "simple"
	StyleSpaceDelimited ParameterStyle = "spaceDelimited"
	StylePipeDelimited  ParameterStyle = "pipeDelimited"
	StyleDeepObject     ParameterStyle = "deepObject"
)

type Parameter struct {
	Name            string                                    `yaml:"name" key:"name"`
	In              string                                     `yaml:"in" key:"in"`
	Description     string                                     `yaml:"description,omitempty" key:"description"`
	Required        bool                                       `yaml:"required,omitempty" key:"required"`
	Deprecated      bool                                       `yaml:"deprecated,omitempty" key:"deprecated"`
	AllowEmptyValue bool                                       `yaml:"allowEmptyValue,omitempty" key:"allowEmptyValue"`
	Style           ParameterStyle                             `yaml:"style,omitempty" key:"style"`
	Explode         *bool                                      `yaml:"explode,omitempty" key:"explode"`
	AllowReserved   bool                                       `yaml:"allowReserved,omitempty" key:"allowReserved"`
	Schema          *Schema                                    `yaml:"schema,omitempty" key:"schema"`
	Content         *sequencedmap.Map[string, *MediaType]      `yaml:"content,omitempty" key:"content"`
	Example         any                                        `yaml:"example,omitempty" key:"example"`
	Examples        *sequencedmap.Map[string, *Example]        `yaml:"examples,omitempty" key:"examples"`
}

// DefaultExplode returns the effective explode value for this parameter,
// applying the per-style defaults from the OAS spec when Explode is unset.
func (p *Parameter) DefaultExplode() bool {
	if p.Explode != nil {
		return *p.Explode
	}
	return p.DefaultStyle() == StyleForm
}

// DefaultStyle returns the effective style for this parameter, applying the
// per-location default ("form" for query/cookie, "simple" for path/header)
// when Style is unset.
func (p *Parameter) DefaultStyle() ParameterStyle {
	if p.Style != "" {
		return p.Style
	}
	switch p.In {
	case "query", "cookie":
		return StyleForm
	default:
		return StyleSimple
	}
}

type Header struct {
	Description     string                                `yaml:"description,omitempty" key:"description"`
	Required        bool                                   `yaml:"required,omitempty" key:"required"`
	Deprecated      bool                                   `yaml:"deprecated,omitempty" key:"deprecated"`
	AllowEmptyValue bool                                   `yaml:"allowEmptyValue,omitempty" key:"allowEmptyValue"`
	Style           ParameterStyle                         `yaml:"style,omitempty" key:"style"`
	Explode         *bool                                  `yaml:"explode,omitempty" key:"explode"`
	Schema          *Schema                                `yaml:"schema,omitempty" key:"schema"`
	Content         *sequencedmap.Map[string, *MediaType]  `yaml:"content,omitempty" key:"content"`
	Example         any                                    `yaml:"example,omitempty" key:"example"`
	Examples        *sequencedmap.Map[string, *Example]    `yaml:"examples,omitempty" key:"examples"`
}

type Example struct {
	Summary       string `yaml:"summary,omitempty" key:"summary"`
	Description   string `yaml:"description,omitempty" key:"description"`
	Value         any    `yaml:"value,omitempty" key:"value"`
	ExternalValue string `yaml:"externalValue,omitempty" key:"externalValue"`
}

type RequestBody struct {
	Description string                                 `yaml:"description,omitempty" key:"description"`
	Content     *sequencedmap.Map[string, *MediaType]   `yaml:"content" key:"content"`
	Required    bool                                    `yaml:"required,omitempty" key:"required"`
}

type MediaType struct {
	Schema   *Schema                                  `yaml:"schema,omitempty" key:"schema"`
	Example  any                                      `yaml:"example,omitempty" key:"example"`
	Examples *sequencedmap.Map[string, *Example]      `yaml:"examples,omitempty" key:"examples"`
	Encoding *sequencedmap.Map[string, *Encoding]      `yaml:"encoding,omitempty" key:"encoding"`

	// ItemSchema and ItemEncoding support 3.2 sequential media types
	// (e.g. application/jsonl) where each line/item is validated independently.
	ItemSchema   *Schema                               `yaml:"itemSchema,omitempty" key:"itemSchema"`
	ItemEncoding *sequencedmap.Map[string, *Encoding]  `yaml:"itemEncoding,omitempty" key:"itemEncoding"`
	PrefixEncoding []*Encoding                          `yaml:"prefixEncoding,omitempty" key:"prefixEncoding"`
}

type Encoding struct {
	ContentType   string                                 `yaml:"contentType,omitempty" key:"contentType"`
	Headers       *sequencedmap.Map[string, *Header]     `yaml:"headers,omitempty" key:"headers"`
	Style         ParameterStyle                          `yaml:"style,omitempty" key:"style"`
	Explode       *bool                                   `yaml:"explode,omitempty" key:"explode"`
	AllowReserved bool                                    `yaml:"allowReserved,omitempty" key:"allowReserved"`
}

type Response struct {
	Description string                                   `yaml:"description" key:"description"`
	Headers     *sequencedmap.Map[string, *Header]        `yaml:"headers,omitempty" key:"headers"`
	Content     *sequencedmap.Map[string, *MediaType]      `yaml:"content,omitempty" key:"content"`
	Links       *sequencedmap.Map[string, *Link]           `yaml:"links,omitempty" key:"links"`
}

type Link struct {
	OperationRef string          `yaml:"operationRef,omitempty" key:"operationRef"`
	OperationID  string          `yaml:"operationId,omitempty" key:"operationId"`
	Parameters   map[string]any  `yaml:"parameters,omitempty" key:"parameters"`
	RequestBody  any             `yaml:"requestBody,omitempty" key:"requestBody"`
	Description  string          `yaml:"description,omitempty" key:"description"`
	Server       *Server         `yaml:"server,omitempty" key:"server"`
}

type SecurityRequirement struct {
	// Schemes maps a security scheme name to its list of required scopes.
	// Keys are rendered deterministically in the order keys were declared.
	Schemes *sequencedmap.Map[string, []string]
}

func (s *SecurityRequirement) UnmarshalYAML(node *yaml.Node) error {
	m := sequencedmap.New[string, []string]()
	if err := node.Decode(m); err != nil {
		return err
	}
	s.Schemes = m
	return nil
}

func (s *SecurityRequirement) MarshalYAML() (any, error) {
	if s.Schemes == nil {
		return sequencedmap.New[string, []string](), nil
	}
	return s.Schemes, nil
}

type SecurityScheme struct {
	Type             string       `yaml:"type" key:"type"`
	Description      string       `yaml:"description,omitempty" key:"description"`
	Name             string       `yaml:"name,omitempty" key:"name"`
	In               string       `yaml:"in,omitempty" key:"in"`
	Scheme           string       `yaml:"scheme,omitempty" key:"scheme"`
	BearerFormat     string       `yaml:"bearerFormat,omitempty" key:"bearerFormat"`
	Flows            *OAuthFlows  `yaml:"flows,omitempty" key:"flows"`
	OpenIDConnectURL string       `yaml:"openIdConnectUrl,omitempty" key:"openIdConnectUrl"`
}

type OAuthFlows struct {
	Implicit          *OAuthFlow `yaml:"implicit,omitempty" key:"implicit"`
	Password          *OAuthFlow `yaml:"password,omitempty" key:"password"`
	ClientCredentials *OAuthFlow `yaml:"clientCredentials,omitempty" key:"clientCredentials"`
	AuthorizationCode *OAuthFlow `yaml:"authorizationCode,omitempty" key:"authorizationCode"`
}

type OAuthFlow struct {
	AuthorizationURL string                         `yaml:"authorizationUrl,omitempty" key:"authorizationUrl"`
	TokenURL         string                         `yaml:"tokenUrl,omitempty" key:"tokenUrl"`
	RefreshURL       string                         `yaml:"refreshUrl,omitempty" key:"refreshUrl"`
	Scopes           *sequencedmap.Map[string, string] `yaml:"scopes,omitempty" key:"scopes"`
}
