package testsynth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/speakeasy-api/oastool/expression"
	"github.com/speakeasy-api/oastool/ir"
	"github.com/speakeasy-api/oastool/jsonpointer"
)

// Exchange is the recorded request/response pair a runtime expression
// resolves against, per the OpenAPI Runtime Expression grammar ($url,
// $method, $statusCode, $request.*, $response.*).
type Exchange struct {
	Request      *http.Request
	RequestBody  []byte
	StatusCode   int
	Response     http.Header
	ResponseBody []byte
}

// ResolveExpression evaluates a single runtime expression (as found in a
// Link Object's parameters map or requestBody field) against ex, returning
// the resolved scalar as a string. It's deliberately narrower than the full
// expression.Expression grammar: Arazzo-only forms ($steps, $workflows,
// $inputs, ...) have no meaning when following an OAS Link between two plain
// HTTP operations and return an error if encountered.
func ResolveExpression(expr string, ex Exchange) (string, error) {
	e := expression.Expression(expr)
	if !e.IsExpression() {
		// Not a runtime expression at all; OAS allows a Link parameter value
		// to be a literal constant.
		return expr, nil
	}

	typ, reference, parts, jp := e.GetParts()
	switch typ {
	case expression.ExpressionTypeURL:
		return ex.Request.URL.String(), nil
	case expression.ExpressionTypeMethod:
		return ex.Request.Method, nil
	case expression.ExpressionTypeStatusCode:
		return strconv.Itoa(ex.StatusCode), nil
	case expression.ExpressionTypeRequest:
		return resolveMessage(reference, parts, jp, ex.Request.Header, ex.RequestBody, func(name string) string {
			return ex.Request.URL.Query().Get(name)
		}, pathParamLookup(ex.Request))
	case expression.ExpressionTypeResponse:
		return resolveMessage(reference, parts, jp, ex.Response, ex.ResponseBody, nil, nil)
	default:
		return "", fmt.Errorf("runtime expression %q is not resolvable against an HTTP exchange", expr)
	}
}

func resolveMessage(reference string, parts []string, jp jsonpointer.JSONPointer, headers http.Header, body []byte, queryLookup func(string) string, pathLookup func(string) (string, bool)) (string, error) {
	switch reference {
	case expression.ReferenceTypeHeader:
		if len(parts) != 1 {
			return "", fmt.Errorf("header reference requires exactly one name")
		}
		return headers.Get(parts[0]), nil
	case expression.ReferenceTypeQuery:
		if len(parts) != 1 || queryLookup == nil {
			return "", fmt.Errorf("query reference is only valid on $request")
		}
		return queryLookup(parts[0]), nil
	case expression.ReferenceTypePath:
		if len(parts) != 1 || pathLookup == nil {
			return "", fmt.Errorf("path reference is only valid on $request")
		}
		v, _ := pathLookup(parts[0])
		return v, nil
	case expression.ReferenceTypeBody:
		return resolveBody(body, jp)
	default:
		return "", fmt.Errorf("unsupported reference %q", reference)
	}
}

func resolveBody(body []byte, jp jsonpointer.JSONPointer) (string, error) {
	if len(body) == 0 {
		return "", nil
	}
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", fmt.Errorf("body is not valid JSON: %w", err)
	}
	if jp == "" {
		return stringifyJSON(doc), nil
	}
	target, err := jsonpointer.GetTarget(doc, jp)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", jp, err)
	}
	return stringifyJSON(target), nil
}

func stringifyJSON(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}

// pathParamLookup recovers path template parameter values from a request
// built by BuildRequest, which stashes the substitutions it made in a
// header this package controls so $request.path.* can resolve them without
// needing the route template at link-resolution time.
func pathParamLookup(req *http.Request) func(string) (string, bool) {
	return func(name string) (string, bool) {
		raw := req.Header.Get(pathParamHeaderPrefix + name)
		if raw == "" {
			return "", false
		}
		return raw, true
	}
}

const pathParamHeaderPrefix = "X-Oastool-Path-Param-"

// ResolveLinkParameters evaluates every runtime expression in link's
// Parameters map against ex, returning the target parameter name -> resolved
// value mapping ready to feed into the next operation's request.
func ResolveLinkParameters(link ir.Link, ex Exchange) (map[string]string, error) {
	out := make(map[string]string, len(link.Parameters))
	for name, expr := range link.Parameters {
		v, err := ResolveExpression(expr, ex)
		if err != nil {
			return nil, fmt.Errorf("link %s, parameter %s: %w", link.Name, name, err)
		}
		out[name] = v
	}
	return out, nil
}

// ResolveLinkRequestBody evaluates link's RequestBody expression, if any.
func ResolveLinkRequestBody(link ir.Link, ex Exchange) (string, bool, error) {
	if link.RequestBody == "" {
		return "", false, nil
	}
	v, err := ResolveExpression(link.RequestBody, ex)
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}
