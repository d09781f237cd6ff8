package validation

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Severity indicates how serious a validation finding is.
type Severity int

const (
	// SeverityError indicates the document violates the specification and should be treated as invalid.
	SeverityError Severity = iota
	// SeverityWarning indicates a finding that doesn't invalidate the document but likely indicates a mistake.
	SeverityWarning
)

// CoreModeler is implemented by the core (yaml-backed) half of a model type,
// giving access to the root node the model was parsed from.
type CoreModeler interface {
	GetRootNode() *yaml.Node
}

type valueNodeGetter interface {
	GetValueNodeOrRoot(root *yaml.Node) *yaml.Node
}

type sliceNodeGetter interface {
	GetSliceValueNodeOrRoot(index int, root *yaml.Node) *yaml.Node
}

type mapKeyNodeGetter interface {
	GetMapKeyNodeOrRoot(key string, root *yaml.Node) *yaml.Node
}

type mapValueNodeGetter interface {
	GetMapValueNodeOrRoot(key string, root *yaml.Node) *yaml.Node
}

// Error represents a validation finding located at a specific point in the source document.
type Error struct {
	// UnderlyingError is the error describing what is wrong.
	UnderlyingError error
	// Node is the yaml node the finding is attached to, used to report line/column. May be nil.
	Node *yaml.Node
	// Severity is how serious the finding is.
	Severity Severity
	// Rule is the Rule* constant identifying the kind of finding, used to look up RuleInfo.
	Rule string
	// DocumentLocation is a human-readable location (e.g. file path) of the document the finding came from.
	DocumentLocation string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%d:%d] %s", e.GetLineNumber(), e.GetColumnNumber(), e.UnderlyingError)
}

func (e *Error) Unwrap() error {
	return e.UnderlyingError
}

// GetLineNumber returns the line number the finding occurred on, or -1 if unknown.
func (e *Error) GetLineNumber() int {
	if e.Node == nil {
		return -1
	}
	return e.Node.Line
}

// GetColumnNumber returns the column number the finding occurred on, or -1 if unknown.
func (e *Error) GetColumnNumber() int {
	if e.Node == nil {
		return -1
	}
	return e.Node.Column
}

// NewValidationError wraps err as a validation Error located at node.
func NewValidationError(err error, node *yaml.Node) error {
	return &Error{UnderlyingError: err, Node: node}
}

// NewValueError wraps err as a validation Error located at the value node that nodeGetter
// resolves against core's root node.
func NewValueError(err error, core CoreModeler, nodeGetter valueNodeGetter) error {
	var node *yaml.Node
	if root := core.GetRootNode(); root != nil {
		node = nodeGetter.GetValueNodeOrRoot(root)
	}
	return &Error{UnderlyingError: err, Node: node}
}

// NewSliceError wraps err as a validation Error located at the index-th element that
// nodeGetter resolves against core's root node.
func NewSliceError(err error, core CoreModeler, nodeGetter sliceNodeGetter, index int) error {
	var node *yaml.Node
	if root := core.GetRootNode(); root != nil {
		node = nodeGetter.GetSliceValueNodeOrRoot(index, root)
	}
	return &Error{UnderlyingError: err, Node: node}
}

// NewMapKeyError wraps err as a validation Error located at the key node for key that
// nodeGetter resolves against core's root node.
func NewMapKeyError(err error, core CoreModeler, nodeGetter mapKeyNodeGetter, key string) error {
	var node *yaml.Node
	if root := core.GetRootNode(); root != nil {
		node = nodeGetter.GetMapKeyNodeOrRoot(key, root)
	}
	return &Error{UnderlyingError: err, Node: node}
}

// NewMapValueError wraps err as a validation Error located at the value node for key that
// nodeGetter resolves against core's root node.
func NewMapValueError(err error, core CoreModeler, nodeGetter mapValueNodeGetter, key string) error {
	var node *yaml.Node
	if root := core.GetRootNode(); root != nil {
		node = nodeGetter.GetMapValueNodeOrRoot(key, root)
	}
	return &Error{UnderlyingError: err, Node: node}
}
