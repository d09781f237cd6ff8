package oasvalidate

import (
	"context"
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"unicode"

	"github.com/speakeasy-api/oastool/oasdoc"
	"github.com/speakeasy-api/oastool/validation"
)

// Validate runs every structural and cross-referential check this tool knows
// about against doc, returning every finding rather than stopping at the
// first. Findings are *validation.Error values, returned already sorted by
// validation.SortValidationErrors.
func Validate(ctx context.Context, doc *oasdoc.Document) []error {
	ctx = validation.ContextWithValidationContext(ctx)

	checkOperationIDs(ctx, doc)
	checkPaths(ctx, doc)
	checkSecurityRequirements(ctx, doc)
	checkComponentKeys(ctx, doc)
	checkHandlerNameCollision(ctx, doc)
	checkInfo(ctx, doc)

	if doc.Paths != nil {
		for path, item := range doc.Paths.All() {
			checkPathItem(ctx, path, item)
		}
	}
	if doc.Components != nil && doc.Components.Schemas != nil {
		for _, schema := range doc.Components.Schemas.All() {
			checkDiscriminatorMapping(ctx, doc, schema)
		}
	}

	errs := validation.GetValidationErrors(ctx)
	validation.SortValidationErrors(errs)
	return errs
}

func add(ctx context.Context, rule string, format string, args ...any) {
	validation.AddValidationError(ctx, &validation.Error{
		UnderlyingError: fmt.Errorf(format, args...),
		Rule:            rule,
	})
}

func checkOperationIDs(ctx context.Context, doc *oasdoc.Document) {
	if doc.Paths == nil {
		return
	}
	seen := map[string]string{} // operationId -> "METHOD path"
	for path, item := range doc.Paths.All() {
		for _, mo := range item.Operations() {
			id := mo.Operation.OperationID
			if id == "" {
				continue
			}
			loc := fmt.Sprintf("%s %s", mo.Method, path)
			if prev, ok := seen[id]; ok {
				add(ctx, RuleOperationIDUnique, "operationId %q used by both %s and %s", id, prev, loc)
				continue
			}
			seen[id] = loc
		}
	}
}

func checkPaths(ctx context.Context, doc *oasdoc.Document) {
	if doc.Paths == nil {
		return
	}
	var paths []string
	for path := range doc.Paths.All() {
		paths = append(paths, path)
	}
	for _, conflict := range FindConflicts(paths) {
		add(ctx, RuleTemplatedPathConflict, "path %q conflicts with %q", conflict.A, conflict.B)
	}
}

// checkInfo validates the document-level info object: that it's present at
// all, that contact.email is a well-formed address, and that contact.url,
// license.url, and termsOfService each parse as a URI.
func checkInfo(ctx context.Context, doc *oasdoc.Document) {
	if doc.Info == nil {
		add(ctx, RuleInfoRequired, "document has no info object")
		return
	}
	if doc.Info.TermsOfService != "" {
		checkURIFormat(ctx, "info.termsOfService", doc.Info.TermsOfService)
	}
	if doc.Info.Contact != nil {
		if doc.Info.Contact.Email != "" {
			if _, err := mail.ParseAddress(doc.Info.Contact.Email); err != nil {
				add(ctx, RuleContactEmailFormat, "info.contact.email %q is not a well-formed email address: %v", doc.Info.Contact.Email, err)
			}
		}
		if doc.Info.Contact.URL != "" {
			checkURIFormat(ctx, "info.contact.url", doc.Info.Contact.URL)
		}
	}
	if doc.Info.License != nil && doc.Info.License.URL != "" {
		checkURIFormat(ctx, "info.license.url", doc.Info.License.URL)
	}
}

func checkURIFormat(ctx context.Context, field, value string) {
	if _, err := url.Parse(value); err != nil {
		add(ctx, RuleInfoURLFormat, "%s %q does not parse as a URI: %v", field, value, err)
	}
}

func checkPathItem(ctx context.Context, path string, item *oasdoc.PathItem) {
	if item.AdditionalOperations != nil && item.AdditionalOperations.Len() > 0 {
		add(ctx, RuleUnsupportedAdditionalOperations, "path %q declares additionalOperations", path)
	}
	for _, p := range item.Parameters {
		checkSchemaXorContent(ctx, p.Schema, p.Content, p.Example, p.Examples)
	}
	for _, mo := range item.Operations() {
		for _, p := range mo.Operation.Parameters {
			checkSchemaXorContent(ctx, p.Schema, p.Content, p.Example, p.Examples)
		}
		if mo.Operation.RequestBody != nil {
			if mo.Operation.RequestBody.Content == nil || mo.Operation.RequestBody.Content.Len() == 0 {
				add(ctx, RuleRequestBodyContentEmpty, "%s %s: request body has no content", mo.Method, path)
			} else {
				for mt, media := range mo.Operation.RequestBody.Content.All() {
					checkMediaType(ctx, path, mt, media)
				}
			}
		}
		if mo.Operation.Responses != nil {
			for status, resp := range mo.Operation.Responses.All() {
				checkResponse(ctx, path, status, resp)
			}
		}
	}
}

var responseKeyPattern = regexp.MustCompile(`^(default|[1-5Xx][0-9Xx][0-9Xx])$`)

func checkResponse(ctx context.Context, path, status string, resp *oasdoc.Response) {
	if !responseKeyPattern.MatchString(status) {
		add(ctx, RuleResponseKeyFormat, "%s: response key %q is not \"default\" or a status code pattern", path, status)
	}
	if resp.Description == "" {
		add(ctx, RuleResponseDescriptionEmpty, "%s %s: response has an empty description", path, status)
	}
	if resp.Content != nil {
		for mt, media := range resp.Content.All() {
			checkMediaType(ctx, path, mt, media)
		}
	}
	if resp.Links != nil {
		for name, link := range resp.Links.All() {
			checkLink(ctx, path, name, link)
		}
	}
	if resp.Headers != nil {
		for name, h := range resp.Headers.All() {
			checkSchemaXorContent(ctx, h.Schema, h.Content, h.Example, h.Examples)
			checkHeaderStyle(ctx, path, name, h)
		}
	}
}

// checkHeaderStyle enforces the Header Object's narrower rules than
// Parameter: style must be simple (or unset) and allowEmptyValue, which only
// applies to query parameters, must not be set.
func checkHeaderStyle(ctx context.Context, path, name string, h *oasdoc.Header) {
	if h.Style != "" && h.Style != oasdoc.StyleSimple {
		add(ctx, RuleHeaderStyle, "%s: header %q declares style %q, only \"simple\" is valid", path, name, h.Style)
	}
	if h.AllowEmptyValue {
		add(ctx, RuleHeaderAllowEmptyValue, "%s: header %q sets allowEmptyValue, which headers do not support", path, name)
	}
}

func checkMediaType(ctx context.Context, path, mediaType string, mt *oasdoc.MediaType) {
	if mt.Example != nil && mt.Examples != nil && mt.Examples.Len() > 0 {
		add(ctx, RuleExampleXorExamples, "%s: media type %q sets both example and examples", path, mediaType)
	}
	if mt.ItemSchema != nil && !isSequentialMediaType(mediaType) {
		add(ctx, RuleItemSchemaMediaType, "%s: media type %q is not sequential but declares itemSchema", path, mediaType)
	}
}

func isSequentialMediaType(mediaType string) bool {
	switch mediaType {
	case "application/jsonl", "application/x-ndjson", "text/event-stream":
		return true
	default:
		return false
	}
}

func checkLink(ctx context.Context, path, name string, link *oasdoc.Link) {
	hasID := link.OperationID != ""
	hasRef := link.OperationRef != ""
	if hasID == hasRef {
		add(ctx, RuleLinkOperationXorRef, "%s: link %q must set exactly one of operationId or operationRef", path, name)
	}
}

func checkSchemaXorContent(ctx context.Context, schema *oasdoc.Schema, content any, example any, examples any) {
	hasSchema := schema != nil
	hasContent := !isNilMap(content)
	if hasSchema && hasContent {
		add(ctx, RuleHeaderSchemaXorContent, "parameter/header sets both schema and content")
	}
	if example != nil && !isNilMap(examples) {
		add(ctx, RuleExampleXorExamples, "parameter/header sets both example and examples")
	}
}

// isNilMap reports whether v is a *sequencedmap.Map with zero entries or a nil
// interface. Used generically since callers pass content/examples maps of
// differing value types.
func isNilMap(v any) bool {
	if v == nil {
		return true
	}
	type lenner interface{ Len() int }
	if l, ok := v.(lenner); ok {
		return l.Len() == 0
	}
	return false
}

func checkSecurityRequirements(ctx context.Context, doc *oasdoc.Document) {
	defined := map[string]bool{}
	if doc.Components != nil && doc.Components.SecuritySchemes != nil {
		for name := range doc.Components.SecuritySchemes.All() {
			defined[name] = true
		}
	}

	checkReqs := func(reqs []*oasdoc.SecurityRequirement, loc string) {
		for _, req := range reqs {
			if req.Schemes == nil {
				continue
			}
			for name := range req.Schemes.All() {
				if !defined[name] {
					add(ctx, RuleSecurityRequirementUndefined, "%s: security scheme %q is not defined", loc, name)
				}
			}
		}
	}

	checkReqs(doc.Security, "document")
	if doc.Paths != nil {
		for path, item := range doc.Paths.All() {
			for _, mo := range item.Operations() {
				checkReqs(mo.Operation.Security, fmt.Sprintf("%s %s", mo.Method, path))
			}
		}
	}
}

func checkDiscriminatorMapping(ctx context.Context, doc *oasdoc.Document, schema *oasdoc.Schema) {
	if schema == nil || schema.Discriminator == nil || schema.Discriminator.Mapping == nil {
		return
	}
	for key, target := range schema.Discriminator.Mapping.All() {
		if doc.Components == nil || doc.Components.Schemas == nil {
			add(ctx, RuleDiscriminatorMappingTarget, "discriminator mapping %q -> %q: no components.schemas defined", key, target)
			continue
		}
		name := target
		if idx := lastSlash(target); idx >= 0 {
			name = target[idx+1:]
		}
		if !doc.Components.Schemas.Has(name) {
			add(ctx, RuleDiscriminatorMappingTarget, "discriminator mapping %q -> %q does not match a defined schema", key, target)
		}
	}
}

func lastSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return i
		}
	}
	return -1
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var componentKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

func checkComponentKeys(ctx context.Context, doc *oasdoc.Document) {
	if doc.Components == nil || doc.Components.Schemas == nil {
		return
	}
	for name := range doc.Components.Schemas.All() {
		if !componentKeyPattern.MatchString(name) {
			add(ctx, RuleComponentKeyFormat, "schema key %q contains characters other than letters, digits, '.', '_' and '-'", name)
		} else if !identPattern.MatchString(sanitizeIdent(name)) {
			add(ctx, RuleComponentKeyFormat, "schema key %q does not convert to a valid Go identifier", name)
		}
	}
}

// sanitizeIdent mirrors the identifier sanitization the type mapper applies
// when turning a component key into a Go type name, letting this check flag
// keys that would still be invalid afterwards (e.g. purely punctuation).
func sanitizeIdent(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return ""
	}
	if unicode.IsDigit(out[0]) {
		out = append([]rune{'_'}, out...)
	}
	return string(out)
}

func checkHandlerNameCollision(ctx context.Context, doc *oasdoc.Document) {
	if doc.Paths == nil {
		return
	}
	seen := map[string]string{}
	for path, item := range doc.Paths.All() {
		for _, mo := range item.Operations() {
			name := handlerName(mo.Method, path, mo.Operation.OperationID)
			loc := fmt.Sprintf("%s %s", mo.Method, path)
			if prev, ok := seen[name]; ok && prev != loc {
				add(ctx, RuleHandlerNameCollision, "handler name %q would be generated for both %s and %s", name, prev, loc)
				continue
			}
			seen[name] = loc
		}
	}
}

// handlerName mirrors the naming the backend strategy uses when synthesizing
// handler function names, so collisions can be caught before code generation.
func handlerName(method, path, operationID string) string {
	if operationID != "" {
		return sanitizeIdent(operationID)
	}
	return sanitizeIdent(method + "_" + path)
}
