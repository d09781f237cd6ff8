package validation

const (
	// Spec Validation Rules
	RuleValidationRequiredField           = "validation-required-field"
	RuleValidationTypeMismatch            = "validation-type-mismatch"
	RuleValidationDuplicateKey            = "validation-duplicate-key"
	RuleValidationInvalidFormat           = "validation-invalid-format"
	RuleValidationEmptyValue              = "validation-empty-value"
	RuleValidationInvalidReference        = "validation-invalid-reference"
	RuleValidationInvalidSyntax           = "validation-invalid-syntax"
	RuleValidationInvalidSchema           = "validation-invalid-schema"
	RuleValidationInvalidTarget           = "validation-invalid-target"
	RuleValidationAllowedValues           = "validation-allowed-values"
	RuleValidationMutuallyExclusiveFields = "validation-mutually-exclusive-fields"
	RuleValidationOperationNotFound       = "validation-operation-not-found"
	RuleValidationOperationIdUnique       = "validation-operation-id-unique"
	RuleValidationOperationParameters     = "validation-operation-parameters"
	RuleValidationSchemeNotFound          = "validation-scheme-not-found"
	RuleValidationTagNotFound             = "validation-tag-not-found"
	RuleValidationSupportedVersion        = "validation-supported-version"
	RuleValidationCircularReference       = "validation-circular-reference"
)

// RuleInfo documents a rule ID for use in CLI output and reports.
type RuleInfo struct {
	// Summary is a short, one-line description of the finding.
	Summary string
	// Description explains why the rule exists and what it protects against.
	Description string
	// HowToFix is actionable advice for resolving a finding of this rule.
	HowToFix string
}

var ruleRegistry = map[string]RuleInfo{
	RuleValidationRequiredField: {
		Summary:     "Missing required field.",
		Description: "Required fields must be present in the document. Missing required fields cause validation to fail.",
		HowToFix:    "Provide the required field in the document.",
	},
	RuleValidationTypeMismatch: {
		Summary:     "Type mismatch.",
		Description: "The value's type does not match the type expected at this location.",
		HowToFix:    "Change the value to match the expected type.",
	},
	RuleValidationDuplicateKey: {
		Summary:     "Duplicate key.",
		Description: "Duplicate keys are not allowed in objects. Remove duplicates to avoid parsing ambiguity.",
		HowToFix:    "Remove or rename the duplicate key.",
	},
	RuleValidationInvalidFormat: {
		Summary:     "Invalid format.",
		Description: "The value does not conform to the format declared for this field (e.g. date-time, uuid).",
		HowToFix:    "Correct the value so it matches the declared format.",
	},
	RuleValidationEmptyValue: {
		Summary:     "Empty value.",
		Description: "A value was present but empty where a non-empty value is required.",
		HowToFix:    "Provide a non-empty value or remove the field.",
	},
	RuleValidationInvalidReference: {
		Summary:     "Invalid reference.",
		Description: "A $ref does not resolve to a component defined in the document.",
		HowToFix:    "Fix the $ref target or define the referenced component.",
	},
	RuleValidationInvalidSyntax: {
		Summary:     "Invalid syntax.",
		Description: "The document could not be parsed as valid YAML or JSON.",
		HowToFix:    "Correct the syntax error reported alongside this finding.",
	},
	RuleValidationInvalidSchema: {
		Summary:     "Invalid schema.",
		Description: "The schema node is not a valid JSON Schema or OpenAPI Schema Object.",
		HowToFix:    "Correct the schema so that it conforms to the expected shape.",
	},
	RuleValidationInvalidTarget: {
		Summary:     "Invalid target.",
		Description: "The target of an operation or link does not exist in the document.",
		HowToFix:    "Point the target at an entity that exists in the document.",
	},
	RuleValidationAllowedValues: {
		Summary:     "Value not allowed.",
		Description: "The value is not one of the values permitted at this location.",
		HowToFix:    "Use one of the permitted values.",
	},
	RuleValidationMutuallyExclusiveFields: {
		Summary:     "Mutually exclusive fields set together.",
		Description: "Two or more fields that must not be set together were both present.",
		HowToFix:    "Remove all but one of the mutually exclusive fields.",
	},
	RuleValidationOperationNotFound: {
		Summary:     "Operation not found.",
		Description: "A reference to an operation (by ID or path+method) does not match any operation in the document.",
		HowToFix:    "Fix the operation reference or add the missing operation.",
	},
	RuleValidationOperationIdUnique: {
		Summary:     "Duplicate operationId.",
		Description: "Every operation's operationId must be unique across the whole document.",
		HowToFix:    "Rename one of the operations so operationId values are unique.",
	},
	RuleValidationOperationParameters: {
		Summary:     "Invalid operation parameters.",
		Description: "An operation declares parameters that conflict, duplicate, or are otherwise invalid.",
		HowToFix:    "Review the operation's parameter list for duplicates or conflicting definitions.",
	},
	RuleValidationSchemeNotFound: {
		Summary:     "Security scheme not found.",
		Description: "A security requirement references a scheme that is not defined in components.securitySchemes.",
		HowToFix:    "Define the referenced security scheme or fix the requirement.",
	},
	RuleValidationTagNotFound: {
		Summary:     "Tag not found.",
		Description: "An operation references a tag that is not declared at the document level.",
		HowToFix:    "Add the tag to the document's tags list or fix the reference.",
	},
	RuleValidationSupportedVersion: {
		Summary:     "Unsupported version.",
		Description: "The document declares a version of the specification that is not supported.",
		HowToFix:    "Upgrade or downgrade the document to a supported version.",
	},
	RuleValidationCircularReference: {
		Summary:     "Circular reference.",
		Description: "Schemas must not contain circular references that cannot be resolved. Unresolvable cycles can break validation and tooling.",
		HowToFix:    "Refactor schemas to break the reference cycle.",
	},
}

// RegisterRuleInfo adds or overrides the RuleInfo for a rule ID. Intended for
// packages built on top of validation (e.g. oasvalidate) to document their own
// Rule* constants through the same registry used for CLI/report output.
func RegisterRuleInfo(ruleID string, info RuleInfo) {
	ruleRegistry[ruleID] = info
}

// RuleInfoForID returns the documentation for a rule ID, and whether it was found.
func RuleInfoForID(ruleID string) (RuleInfo, bool) {
	info, ok := ruleRegistry[ruleID]
	return info, ok
}

// RuleSummary returns the summary for a rule ID, or "" if unknown.
func RuleSummary(ruleID string) string {
	return ruleRegistry[ruleID].Summary
}

// RuleDescription returns the description for a rule ID, or "" if unknown.
func RuleDescription(ruleID string) string {
	return ruleRegistry[ruleID].Description
}

// RuleHowToFix returns the how-to-fix advice for a rule ID, or "" if unknown.
func RuleHowToFix(ruleID string) string {
	return ruleRegistry[ruleID].HowToFix
}
