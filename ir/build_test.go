package ir

import (
	"context"
	"testing"

	"github.com/speakeasy-api/oastool/oasdoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cyclicDoc = `
openapi: 3.1.0
info:
  title: Test
  version: "1.0"
paths:
  /nodes/{id}:
    get:
      operationId: getNode
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Node"
components:
  schemas:
    Node:
      type: object
      required: [name]
      properties:
        name:
          type: string
        parent:
          $ref: "#/components/schemas/Node"
    Widget:
      oneOf:
        - $ref: "#/components/schemas/Node"
      discriminator:
        propertyName: kind
        mapping:
          node: "#/components/schemas/Node"
  securitySchemes:
    apiKey:
      type: apiKey
      in: header
      name: X-API-Key
security:
  - apiKey: []
`

func mustParse(t *testing.T) *oasdoc.Document {
	t.Helper()
	doc, err := oasdoc.Parse(context.Background(), []byte(cyclicDoc), "/virtual/openapi.yaml")
	require.NoError(t, err)
	return doc
}

func TestBuild_SelfReferentialSchema_ResolvesToSameID(t *testing.T) {
	t.Parallel()

	doc := mustParse(t)
	irDoc, err := Build(context.Background(), doc)
	require.NoError(t, err)

	nodeID, ok := irDoc.SchemaByName("Node")
	require.True(t, ok)

	node := irDoc.Schema(nodeID)
	require.Equal(t, KindObject, node.Kind)

	var parentField *ObjectField
	for i := range node.Fields {
		if node.Fields[i].Name == "parent" {
			parentField = &node.Fields[i]
		}
	}
	require.NotNil(t, parentField)

	parentRef := irDoc.Schema(parentField.Schema)
	assert.Equal(t, KindRef, parentRef.Kind)
	assert.Equal(t, nodeID, parentRef.ResolvedRef)
}

func TestBuild_RequiredFieldMarkedOnSchema(t *testing.T) {
	t.Parallel()

	doc := mustParse(t)
	irDoc, err := Build(context.Background(), doc)
	require.NoError(t, err)

	nodeID, ok := irDoc.SchemaByName("Node")
	require.True(t, ok)
	node := irDoc.Schema(nodeID)

	for _, f := range node.Fields {
		if f.Name == "name" {
			assert.True(t, f.Required)
		}
		if f.Name == "parent" {
			assert.False(t, f.Required)
		}
	}
}

func TestBuild_DiscriminatorMapping_ResolvesToSchemaID(t *testing.T) {
	t.Parallel()

	doc := mustParse(t)
	irDoc, err := Build(context.Background(), doc)
	require.NoError(t, err)

	widgetID, ok := irDoc.SchemaByName("Widget")
	require.True(t, ok)
	widget := irDoc.Schema(widgetID)

	require.Equal(t, KindOneOf, widget.Kind)
	require.NotNil(t, widget.Discriminator)

	nodeID, ok := irDoc.SchemaByName("Node")
	require.True(t, ok)
	assert.Equal(t, nodeID, widget.Discriminator.Mapping["node"])
}

func TestBuild_RouteParamsAndSecurity(t *testing.T) {
	t.Parallel()

	doc := mustParse(t)
	irDoc, err := Build(context.Background(), doc)
	require.NoError(t, err)

	require.Len(t, irDoc.Routes, 1)
	route := irDoc.Routes[0]

	assert.Equal(t, "GET", route.Method)
	assert.Equal(t, "/nodes/{id}", route.Path)
	assert.Equal(t, "getNode", route.OperationID)
	require.Len(t, route.Params, 1)
	assert.Equal(t, ParamPath, route.Params[0].Location)
	assert.True(t, route.Params[0].Required)

	require.Len(t, route.Security, 1)
	scopes, ok := route.Security[0].Schemes["apiKey"]
	require.True(t, ok)
	assert.Empty(t, scopes)

	require.Len(t, route.Responses, 1)
	assert.Equal(t, "200", route.Responses[0].StatusCode)
	require.Len(t, route.Responses[0].Bodies, 1)
	assert.Equal(t, "application/json", route.Responses[0].Bodies[0].MediaType)
}

func TestBuild_SecuritySchemeKind(t *testing.T) {
	t.Parallel()

	doc := mustParse(t)
	irDoc, err := Build(context.Background(), doc)
	require.NoError(t, err)

	scheme, ok := irDoc.SecuritySchemes["apiKey"]
	require.True(t, ok)
	assert.Equal(t, SecuritySchemeAPIKey, scheme.Kind)
	assert.Equal(t, ParamHeader, scheme.In)
	assert.Equal(t, "X-API-Key", scheme.Header)
}
