package testsynth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/speakeasy-api/oastool/ir"
)

// BuildRequest synthesizes an *http.Request for route, substituting mocked
// values for every path/query/header/cookie parameter and, if the route
// declares one, a mocked JSON request body. Path parameter substitutions are
// additionally recorded in a reserved header ($request.path.* runtime
// expressions have no other way to recover them once the template is gone),
// which ResolveExpression reads back via pathParamLookup.
func BuildRequest(doc *ir.Document, route *ir.Route) (*http.Request, []byte, error) {
	return BuildRequestWithOverrides(doc, route, nil)
}

// BuildRequestWithOverrides is BuildRequest, but a parameter named in
// overrides uses that literal string value instead of a mocked one —
// the mechanism a followed link uses to inject a value resolved from the
// prior response (e.g. an id extracted from its body) in place of whatever
// Mock would have synthesized.
func BuildRequestWithOverrides(doc *ir.Document, route *ir.Route, overrides map[string]string) (*http.Request, []byte, error) {
	path := route.Path
	var query []string
	var headers = http.Header{}
	var cookies []*http.Cookie

	for _, p := range route.Params {
		var v any = mock(doc, p.Schema, 0)
		if override, ok := overrides[p.Name]; ok {
			v = override
		}
		switch p.Location {
		case ir.ParamPath:
			serialized := SerializePath(p, v)
			placeholder := "{" + p.Name + "}"
			if !strings.Contains(path, placeholder) {
				return nil, nil, fmt.Errorf("route %s %s has no {%s} segment for declared path parameter", route.Method, route.Path, p.Name)
			}
			path = strings.Replace(path, placeholder, serialized, 1)
			headers.Set(pathParamHeaderPrefix+p.Name, fmt.Sprintf("%v", v))
		case ir.ParamQuery:
			if frag := SerializeQuery(p, v); frag != "" {
				query = append(query, frag)
			}
		case ir.ParamHeader:
			headers.Set(p.Name, SerializeHeader(v))
		case ir.ParamCookie:
			cookies = append(cookies, &http.Cookie{Name: p.Name, Value: SerializeCookie(p, v)})
		}
	}

	url := path
	if len(query) > 0 {
		url += "?" + strings.Join(query, "&")
	}

	var body []byte
	contentType := ""
	if len(route.RequestBody) > 0 {
		b := route.RequestBody[0]
		contentType = b.MediaType
		if strings.Contains(b.MediaType, "json") {
			v := mock(doc, b.Schema, 0)
			encoded, err := json.Marshal(v)
			if err != nil {
				return nil, nil, fmt.Errorf("marshaling request body: %w", err)
			}
			body = encoded
		}
	}

	req := httptest.NewRequest(route.Method, url, bytes.NewReader(body))
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	return req, body, nil
}

// Execute runs req against handler and returns the recorded Exchange. reqBody
// is the exact bytes BuildRequest sent (if any), passed through separately
// since the request's body reader has already been drained by the handler by
// the time ServeHTTP returns.
func Execute(handler http.Handler, req *http.Request, reqBody []byte) Exchange {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return Exchange{
		Request:      req,
		RequestBody:  reqBody,
		StatusCode:   rec.Code,
		Response:     rec.Header(),
		ResponseBody: rec.Body.Bytes(),
	}
}

// ResponseSchemaFor returns the JSON body schema a route documents for
// statusCode (falling back to a "default" response), and false if none
// applies.
func ResponseSchemaFor(route *ir.Route, statusCode int) (ir.SchemaID, bool) {
	code := fmt.Sprintf("%d", statusCode)
	var fallback *ir.Response
	for i := range route.Responses {
		r := &route.Responses[i]
		if r.StatusCode == code {
			return bodySchemaOf(r)
		}
		if r.StatusCode == "default" {
			fallback = r
		}
	}
	if fallback != nil {
		return bodySchemaOf(fallback)
	}
	return 0, false
}

func bodySchemaOf(r *ir.Response) (ir.SchemaID, bool) {
	for _, b := range r.Bodies {
		if strings.Contains(b.MediaType, "json") {
			return b.Schema, true
		}
	}
	return 0, false
}
