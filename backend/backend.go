// Package backend defines the narrow interface this tool needs from an HTTP
// routing library in order to read an existing server's registered routes
// and to emit new route registrations that match the style already in use.
//
// backend/nethttp is the one implementation; the sync command's route
// scaffolding constructs it directly and then works only through this
// interface.
package backend

import "github.com/speakeasy-api/oastool/cst"

// RouteRegistration is one method+path registration discovered in (or to be
// emitted into) a source file.
type RouteRegistration struct {
	Method      string
	Path        string
	HandlerName string
	Source      *cst.ByteRange // nil when this registration is being emitted, not read
}

// HandlerSignature describes the parameter and return shape a Strategy
// expects a handler function to have, so the IR builder can check an
// existing handler against it before deciding to patch rather than
// regenerate.
type HandlerSignature struct {
	// Params names, in order, how each handler parameter is
	// populated: "request", "responseWriter", "pathParam:<name>",
	// "queryStruct", "body".
	Params []string
	// ReturnsError reports whether the handler's last return value is an
	// error the Strategy's dispatcher is expected to handle.
	ReturnsError bool
}

// AppFactoryInvocation is one call site that wires a route into the running
// router (e.g. `r.Path("/widgets/{id}").Methods("GET").HandlerFunc(getWidget)`),
// located so a new route can be inserted next to its siblings.
type AppFactoryInvocation struct {
	FuncName string
	Source   cst.ByteRange
}

// Strategy adapts this tool to one HTTP routing library. Implementations
// read a source tree to discover RouteRegistrations already present, and
// generate the registration + handler-signature snippets needed to add,
// remove, or update a route so the emitted code matches the conventions of
// the library in use.
type Strategy interface {
	// Name identifies the routing library this strategy targets (e.g. "nethttp-kasper").
	Name() string

	// DiscoverRoutes scans file for route registrations this strategy
	// recognizes.
	DiscoverRoutes(file *cst.File) ([]RouteRegistration, error)

	// HandlerSignatureFor returns the expected parameter/return shape for a
	// handler of the given method, so a generator can check an existing
	// handler or synthesize a new one with a matching shape.
	HandlerSignatureFor(method, path string) HandlerSignature

	// RenderRegistration returns the source snippet that registers handlerName
	// for method+path, in this strategy's idiom (e.g. a gorilla/kasper-style
	// router.Path(...).Methods(...).HandlerFunc(...) chain).
	RenderRegistration(method, path, handlerName string) ([]byte, error)

	// RenderHandlerStub returns a minimal handler function body satisfying
	// HandlerSignatureFor(method, path), used when no existing handler is
	// found for a new operation.
	RenderHandlerStub(method, path, handlerName string, sig HandlerSignature) ([]byte, error)
}
