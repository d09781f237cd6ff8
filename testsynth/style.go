package testsynth

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/speakeasy-api/oastool/ir"
)

// SerializeQuery renders value as the query-string fragment (no leading "?"
// or "&") for a query parameter using p's style/explode, per the table in
// the OpenAPI Parameter Object: form (default), spaceDelimited,
// pipeDelimited, and deepObject.
func SerializeQuery(p ir.Param, value any) string {
	style := p.Style
	if style == "" {
		style = "form"
	}

	if style == "deepObject" {
		m, ok := value.(map[string]any)
		if !ok {
			return ""
		}
		var parts []string
		for _, k := range sortedKeys(m) {
			parts = append(parts, fmt.Sprintf("%s[%s]=%s", url.QueryEscape(p.Name), url.QueryEscape(k), url.QueryEscape(scalarString(m[k]))))
		}
		return strings.Join(parts, "&")
	}

	if arr, ok := value.([]any); ok {
		sep := ","
		switch style {
		case "spaceDelimited":
			sep = " "
		case "pipeDelimited":
			sep = "|"
		}
		if p.Explode {
			var parts []string
			for _, v := range arr {
				parts = append(parts, fmt.Sprintf("%s=%s", url.QueryEscape(p.Name), url.QueryEscape(scalarString(v))))
			}
			return strings.Join(parts, "&")
		}
		var items []string
		for _, v := range arr {
			items = append(items, scalarString(v))
		}
		return fmt.Sprintf("%s=%s", url.QueryEscape(p.Name), url.QueryEscape(strings.Join(items, sep)))
	}

	if m, ok := value.(map[string]any); ok {
		if p.Explode {
			var parts []string
			for _, k := range sortedKeys(m) {
				parts = append(parts, fmt.Sprintf("%s=%s", url.QueryEscape(k), url.QueryEscape(scalarString(m[k]))))
			}
			return strings.Join(parts, "&")
		}
		var items []string
		for _, k := range sortedKeys(m) {
			items = append(items, k, scalarString(m[k]))
		}
		return fmt.Sprintf("%s=%s", url.QueryEscape(p.Name), url.QueryEscape(strings.Join(items, ",")))
	}

	return fmt.Sprintf("%s=%s", url.QueryEscape(p.Name), url.QueryEscape(scalarString(value)))
}

// SerializePath renders value as the literal text to substitute for a
// "{name}" path template segment, per simple (default), label, and matrix
// styles.
func SerializePath(p ir.Param, value any) string {
	style := p.Style
	if style == "" {
		style = "simple"
	}

	switch v := value.(type) {
	case []any:
		var items []string
		for _, e := range v {
			items = append(items, scalarString(e))
		}
		switch style {
		case "label":
			sep := "."
			if !p.Explode {
				return "." + strings.Join(items, ",")
			}
			return "." + strings.Join(items, sep)
		case "matrix":
			if p.Explode {
				var parts []string
				for _, e := range items {
					parts = append(parts, ";"+p.Name+"="+e)
				}
				return strings.Join(parts, "")
			}
			return ";" + p.Name + "=" + strings.Join(items, ",")
		default: // simple
			return strings.Join(items, ",")
		}
	case map[string]any:
		var items []string
		for _, k := range sortedKeys(v) {
			items = append(items, k, scalarString(v[k]))
		}
		switch style {
		case "label":
			return "." + strings.Join(items, ",")
		case "matrix":
			if p.Explode {
				var parts []string
				for i := 0; i+1 < len(items); i += 2 {
					parts = append(parts, ";"+items[i]+"="+items[i+1])
				}
				return strings.Join(parts, "")
			}
			return ";" + p.Name + "=" + strings.Join(items, ",")
		default:
			return strings.Join(items, ",")
		}
	default:
		s := scalarString(value)
		switch style {
		case "label":
			return "." + s
		case "matrix":
			return ";" + p.Name + "=" + s
		default:
			return s
		}
	}
}

// SerializeHeader renders value for a "simple"-style header parameter, the
// only style the OAS allows for headers.
func SerializeHeader(value any) string {
	switch v := value.(type) {
	case []any:
		var items []string
		for _, e := range v {
			items = append(items, scalarString(e))
		}
		return strings.Join(items, ",")
	case map[string]any:
		var items []string
		for _, k := range sortedKeys(v) {
			items = append(items, k, scalarString(v[k]))
		}
		return strings.Join(items, ",")
	default:
		return scalarString(value)
	}
}

// SerializeCookie renders value for a "form"-style cookie parameter, the
// only style the OAS allows for cookies.
func SerializeCookie(p ir.Param, value any) string {
	if arr, ok := value.([]any); ok {
		var items []string
		for _, v := range arr {
			items = append(items, scalarString(v))
		}
		return strings.Join(items, ",")
	}
	return scalarString(value)
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
