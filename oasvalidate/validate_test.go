package oasvalidate

import (
	"context"
	"errors"
	"testing"

	"github.com/speakeasy-api/oastool/oasdoc"
	"github.com/speakeasy-api/oastool/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseDoc(t *testing.T, src string) *oasdoc.Document {
	t.Helper()
	doc, err := oasdoc.Parse(context.Background(), []byte(src), "test.yaml")
	require.NoError(t, err)
	return doc
}

func hasRule(errs []error, rule string) bool {
	for _, e := range errs {
		var verr *validation.Error
		if errors.As(e, &verr) && verr.Rule == rule {
			return true
		}
	}
	return false
}

func TestValidate_DuplicateOperationID(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `openapi: 3.1.0
info:
  title: test
  version: "1.0"
paths:
  /widgets:
    get:
      operationId: getWidget
      responses:
        "200":
          description: ok
  /widgets/{id}:
    get:
      operationId: getWidget
      responses:
        "200":
          description: ok
`)

	errs := Validate(context.Background(), doc)
	assert.True(t, hasRule(errs, RuleOperationIDUnique))
}

func TestValidate_InvalidComponentKey(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `openapi: 3.1.0
info:
  title: test
  version: "1.0"
paths: {}
components:
  schemas:
    "1Invalid!!":
      type: object
`)

	errs := Validate(context.Background(), doc)
	assert.True(t, hasRule(errs, RuleComponentKeyFormat))
}

func TestValidate_UndefinedSecurityScheme(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `openapi: 3.1.0
info:
  title: test
  version: "1.0"
paths: {}
security:
  - missingScheme: []
`)

	errs := Validate(context.Background(), doc)
	assert.True(t, hasRule(errs, RuleSecurityRequirementUndefined))
}

func TestValidate_HandlerNameCollision(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `openapi: 3.1.0
info:
  title: test
  version: "1.0"
paths:
  /a:
    get:
      responses:
        "200":
          description: ok
  /a-:
    get:
      responses:
        "200":
          description: ok
`)

	errs := Validate(context.Background(), doc)
	assert.True(t, hasRule(errs, RuleHandlerNameCollision))
}

func TestValidate_RequestBodyContentEmpty(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `openapi: 3.1.0
info:
  title: test
  version: "1.0"
paths:
  /widgets:
    post:
      operationId: createWidget
      requestBody:
        description: body with no content
        content: {}
      responses:
        "201":
          description: created
`)

	errs := Validate(context.Background(), doc)
	assert.True(t, hasRule(errs, RuleRequestBodyContentEmpty))
}

func TestValidate_CleanDocumentProducesNoFindings(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `openapi: 3.1.0
info:
  title: test
  version: "1.0"
paths:
  /widgets/{id}:
    get:
      operationId: getWidget
      responses:
        "200":
          description: ok
`)

	errs := Validate(context.Background(), doc)
	assert.Empty(t, errs)
}

func TestCheckComponentKeys_SanitizeIdent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Widget", sanitizeIdent("Widget"))
	assert.Equal(t, "", sanitizeIdent("!!!"))
	assert.Equal(t, "_123", sanitizeIdent("123"))
}

func TestHandlerName_PrefersOperationID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "getWidget", handlerName("GET", "/widgets", "getWidget"))
	assert.Equal(t, "GET_widgets", handlerName("GET", "/widgets", ""))
}

func TestValidate_MissingInfo(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `openapi: 3.1.0
paths: {}
`)

	errs := Validate(context.Background(), doc)
	assert.True(t, hasRule(errs, RuleInfoRequired))
}

func TestValidate_MalformedContactEmail(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `openapi: 3.1.0
info:
  title: test
  version: "1.0"
  contact:
    email: "not-an-email"
paths: {}
`)

	errs := Validate(context.Background(), doc)
	assert.True(t, hasRule(errs, RuleContactEmailFormat))
}

func TestValidate_MalformedLicenseURL(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `openapi: 3.1.0
info:
  title: test
  version: "1.0"
  license:
    name: test
    url: "http://example.com/%zz"
paths: {}
`)

	errs := Validate(context.Background(), doc)
	assert.True(t, hasRule(errs, RuleInfoURLFormat))
}

func TestValidate_HeaderStyleNotSimple(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `openapi: 3.1.0
info:
  title: test
  version: "1.0"
paths:
  /widgets:
    get:
      operationId: getWidget
      responses:
        "200":
          description: ok
          headers:
            X-Rate-Limit:
              style: form
              schema:
                type: integer
`)

	errs := Validate(context.Background(), doc)
	assert.True(t, hasRule(errs, RuleHeaderStyle))
}

func TestValidate_HeaderAllowEmptyValue(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `openapi: 3.1.0
info:
  title: test
  version: "1.0"
paths:
  /widgets:
    get:
      operationId: getWidget
      responses:
        "200":
          description: ok
          headers:
            X-Rate-Limit:
              allowEmptyValue: true
              schema:
                type: integer
`)

	errs := Validate(context.Background(), doc)
	assert.True(t, hasRule(errs, RuleHeaderAllowEmptyValue))
}
