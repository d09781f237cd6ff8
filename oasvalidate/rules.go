// Package oasvalidate runs structural and cross-referential checks over a
// parsed OpenAPI document, accumulating findings rather than stopping at the
// first error.
package oasvalidate

import "github.com/speakeasy-api/oastool/validation"

// Rule* constants beyond the generic set already registered by the
// validation package, specific to checks this tool performs over an OAS
// document (path conflicts, operationId uniqueness, component naming, etc).
const (
	RuleTemplatedPathConflict        = "oas-templated-path-conflict"
	RuleOperationIDUnique            = "oas-operation-id-unique"
	RuleComponentKeyFormat           = "oas-component-key-format"
	RuleResponseKeyFormat            = "oas-response-key-format"
	RuleSecurityRequirementUndefined = "oas-security-requirement-undefined"
	RuleResponseDescriptionEmpty     = "oas-response-description-empty"
	RuleRequestBodyContentEmpty      = "oas-request-body-content-empty"
	RuleHeaderSchemaXorContent       = "oas-header-schema-xor-content"
	RuleExampleXorExamples           = "oas-example-xor-examples"
	RuleItemSchemaMediaType          = "oas-item-schema-media-type"
	RuleLinkOperationXorRef          = "oas-link-operation-xor-ref"
	RuleDiscriminatorMappingTarget   = "oas-discriminator-mapping-target"

	// RuleUnsupportedAdditionalOperations fires when a 3.2 document declares
	// additionalOperations, which this tool's net/http-based backend strategy
	// has no way to register (ServeMux only understands the fixed verb set).
	RuleUnsupportedAdditionalOperations = "oas-unsupported-additional-operations"

	// RuleHandlerNameCollision fires when two operations would synthesize the
	// same handler function name in generated Go source.
	RuleHandlerNameCollision = "oas-handler-name-collision"

	// RuleInfoRequired fires when the document has no info object at all.
	RuleInfoRequired = "oas-info-required"

	// RuleInfoURLFormat fires when contact.url, license.url, or
	// termsOfService does not parse as a URI.
	RuleInfoURLFormat = "oas-info-url-format"

	// RuleContactEmailFormat fires when info.contact.email is not a
	// well-formed email address.
	RuleContactEmailFormat = "oas-contact-email-format"

	// RuleHeaderStyle fires when a header declares a style other than
	// simple, the only style the Header Object supports.
	RuleHeaderStyle = "oas-header-style"

	// RuleHeaderAllowEmptyValue fires when a header sets allowEmptyValue,
	// which the Header Object does not support (unlike query parameters).
	RuleHeaderAllowEmptyValue = "oas-header-allow-empty-value"
)

func init() {
	validation.RegisterRuleInfo(RuleTemplatedPathConflict, validation.RuleInfo{
		Summary:     "Templated paths conflict.",
		Description: "Two path templates can match the same request, e.g. \"/users/{id}\" and \"/users/{name}\".",
		HowToFix:    "Rename one of the path segments so the templates no longer overlap.",
	})
	validation.RegisterRuleInfo(RuleOperationIDUnique, validation.RuleInfo{
		Summary:     "Duplicate operationId.",
		Description: "operationId must be unique across the whole document; it becomes the generated handler's name.",
		HowToFix:    "Rename one of the operations.",
	})
	validation.RegisterRuleInfo(RuleComponentKeyFormat, validation.RuleInfo{
		Summary:     "Component key has invalid characters or is not a valid Go identifier once converted.",
		Description: "Component keys may only contain letters, digits, '.', '_' and '-', and become exported Go type names; keys outside that set, or that don't convert to a legal, non-empty identifier, can't be mapped to source.",
		HowToFix:    "Rename the component so it starts with a letter and contains only letters, digits, and underscores.",
	})
	validation.RegisterRuleInfo(RuleResponseKeyFormat, validation.RuleInfo{
		Summary:     "Response status code key is invalid.",
		Description: "Response keys must be \"default\" or a 3-digit status code, optionally with \"X\" wildcards (e.g. \"2XX\").",
		HowToFix:    "Use \"default\" or a valid status code pattern as the key.",
	})
	validation.RegisterRuleInfo(RuleSecurityRequirementUndefined, validation.RuleInfo{
		Summary:     "Security requirement references an undefined scheme.",
		Description: "A security requirement names a scheme not present in components.securitySchemes.",
		HowToFix:    "Define the scheme in components.securitySchemes or fix the requirement's name.",
	})
	validation.RegisterRuleInfo(RuleResponseDescriptionEmpty, validation.RuleInfo{
		Summary:     "Response description is empty.",
		Description: "The OAS Response Object requires a non-empty description.",
		HowToFix:    "Add a description to the response.",
	})
	validation.RegisterRuleInfo(RuleRequestBodyContentEmpty, validation.RuleInfo{
		Summary:     "Request body has no content.",
		Description: "The OAS RequestBody Object requires at least one entry in content.",
		HowToFix:    "Add a media type entry to the request body's content map.",
	})
	validation.RegisterRuleInfo(RuleHeaderSchemaXorContent, validation.RuleInfo{
		Summary:     "Header sets both schema and content.",
		Description: "A Header (and Parameter) Object must define exactly one of schema or content, not both.",
		HowToFix:    "Remove either schema or content so only one is set.",
	})
	validation.RegisterRuleInfo(RuleExampleXorExamples, validation.RuleInfo{
		Summary:     "Both example and examples are set.",
		Description: "example and examples are mutually exclusive on Parameter, Header, and MediaType objects.",
		HowToFix:    "Remove either example or examples.",
	})
	validation.RegisterRuleInfo(RuleItemSchemaMediaType, validation.RuleInfo{
		Summary:     "itemSchema used without a sequential media type.",
		Description: "itemSchema/itemEncoding only apply to 3.2 sequential media types (e.g. application/jsonl).",
		HowToFix:    "Remove itemSchema or change the media type to a sequential one.",
	})
	validation.RegisterRuleInfo(RuleLinkOperationXorRef, validation.RuleInfo{
		Summary:     "Link sets both operationId and operationRef.",
		Description: "A Link Object must define exactly one of operationId or operationRef.",
		HowToFix:    "Remove either operationId or operationRef.",
	})
	validation.RegisterRuleInfo(RuleDiscriminatorMappingTarget, validation.RuleInfo{
		Summary:     "Discriminator mapping target not found.",
		Description: "A discriminator.mapping entry points at a schema that doesn't exist in components.schemas.",
		HowToFix:    "Fix the mapping value or add the missing schema.",
	})
	validation.RegisterRuleInfo(RuleUnsupportedAdditionalOperations, validation.RuleInfo{
		Summary:     "additionalOperations is not supported by the net/http backend strategy.",
		Description: "The default backend strategy can only register the fixed HTTP verb set; additionalOperations requires a custom Strategy implementation.",
		HowToFix:    "Remove additionalOperations, or supply a backend.Strategy that knows how to register custom methods.",
	})
	validation.RegisterRuleInfo(RuleHandlerNameCollision, validation.RuleInfo{
		Summary:     "Two operations synthesize the same handler name.",
		Description: "Generated handler function names are derived from operationId (or method+path); two operations produced the same name.",
		HowToFix:    "Set distinct operationId values on the colliding operations.",
	})
	validation.RegisterRuleInfo(RuleInfoRequired, validation.RuleInfo{
		Summary:     "Document is missing the info object.",
		Description: "The OAS Document Object requires an info object.",
		HowToFix:    "Add an info object with at least title and version.",
	})
	validation.RegisterRuleInfo(RuleInfoURLFormat, validation.RuleInfo{
		Summary:     "A URL field under info does not parse as a URI.",
		Description: "info.contact.url, info.license.url, and info.termsOfService must each be a well-formed URI.",
		HowToFix:    "Fix the malformed URL.",
	})
	validation.RegisterRuleInfo(RuleContactEmailFormat, validation.RuleInfo{
		Summary:     "info.contact.email is not a well-formed email address.",
		Description: "The Contact Object requires email, when set, to be a valid email address.",
		HowToFix:    "Fix the malformed email address.",
	})
	validation.RegisterRuleInfo(RuleHeaderStyle, validation.RuleInfo{
		Summary:     "Header declares a style other than simple.",
		Description: "The Header Object only supports style: simple; other styles are only valid on Parameter objects.",
		HowToFix:    "Remove the style field or set it to simple.",
	})
	validation.RegisterRuleInfo(RuleHeaderAllowEmptyValue, validation.RuleInfo{
		Summary:     "Header sets allowEmptyValue.",
		Description: "allowEmptyValue is only defined for query parameters, not headers.",
		HowToFix:    "Remove allowEmptyValue from the header.",
	})
}
