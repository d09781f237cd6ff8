package ir

import "github.com/speakeasy-api/oastool/cst"

// SourceStruct ties a Schema to the Go struct type that already implements
// it in the source tree, so a sync pass can patch that struct in place
// instead of regenerating it from scratch.
type SourceStruct struct {
	File    string
	Package string
	Name    string
	Range   cst.ByteRange
}

// SourceFn ties a Route to the Go handler function that already implements
// it, when one exists.
type SourceFn struct {
	File    string
	Package string
	Name    string
	Range   cst.ByteRange
}

// SourceConfigFn ties a Route's configuration (route registration, e.g. a
// mux.Get("/widgets/{id}", handler) call) to its location in source, so a
// new operation can be inserted next to its siblings rather than appended
// at the end of the file.
type SourceConfigFn struct {
	File  string
	Name  string
	Range cst.ByteRange
}
