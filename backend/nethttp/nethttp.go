// Package nethttp implements backend.Strategy for net/http-based routers in
// the style of vitalvas/kasper's mux package: a fluent
// router.Path(tpl).Methods(verb).HandlerFunc(handler) registration chain,
// with path parameters read via mux.Vars(r) inside the handler.
package nethttp

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/token"
	"sort"
	"strconv"
	"strings"

	"github.com/speakeasy-api/oastool/backend"
	"github.com/speakeasy-api/oastool/cst"
)

// Strategy is the default backend.Strategy, grounded on vitalvas/kasper's
// mux router chain idiom.
type Strategy struct{}

var _ backend.Strategy = Strategy{}

func (Strategy) Name() string { return "nethttp-kasper" }

// DiscoverRoutes walks file's AST for call chains of the shape
// `<router>.Path("/tpl").Methods("GET").HandlerFunc(name)` (the `Methods`
// and `Path` calls may appear in either order, matching how the library
// itself accepts them) and returns one RouteRegistration per match.
func (Strategy) DiscoverRoutes(file *cst.File) ([]backend.RouteRegistration, error) {
	var routes []backend.RouteRegistration

	ast.Inspect(file.AST, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok || (sel.Sel.Name != "HandlerFunc" && sel.Sel.Name != "Handler") {
			return true
		}
		if len(call.Args) != 1 {
			return true
		}
		handlerName := exprIdentName(call.Args[0])
		if handlerName == "" {
			return true
		}

		chain := collectChain(sel.X)
		path, methods := "", []string{}
		for _, c := range chain {
			switch c.name {
			case "Path", "PathPrefix":
				if s, ok := stringArg(c.call, 0); ok {
					path = s
				}
			case "Methods":
				for i := range c.call.Args {
					if s, ok := stringArg(c.call, i); ok {
						methods = append(methods, s)
					}
				}
			}
		}
		if path == "" || len(methods) == 0 {
			return true
		}

		tf := file.FileSet.File(call.Pos())
		rng := cst.ByteRange{Start: tf.Offset(call.Pos()), End: tf.Offset(call.End())}
		for _, m := range methods {
			routes = append(routes, backend.RouteRegistration{
				Method:      strings.ToUpper(m),
				Path:        path,
				HandlerName: handlerName,
				Source:      &rng,
			})
		}
		return true
	})

	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})

	return routes, nil
}

type chainCall struct {
	name string
	call *ast.CallExpr
}

// collectChain walks back through a fluent method-chain expression
// (`r.Path(x).Methods(y)`), returning each call in the chain from outermost
// receiver to innermost, excluding the leaf router identifier itself.
func collectChain(expr ast.Expr) []chainCall {
	var chain []chainCall
	for {
		call, ok := expr.(*ast.CallExpr)
		if !ok {
			break
		}
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok {
			break
		}
		chain = append([]chainCall{{name: sel.Sel.Name, call: call}}, chain...)
		expr = sel.X
	}
	return chain
}

func stringArg(call *ast.CallExpr, i int) (string, bool) {
	if i >= len(call.Args) {
		return "", false
	}
	lit, ok := call.Args[i].(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	v, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}
	return v, true
}

func exprIdentName(expr ast.Expr) string {
	if id, ok := expr.(*ast.Ident); ok {
		return id.Name
	}
	return ""
}

// HandlerSignatureFor returns the signature this strategy expects:
// func(w http.ResponseWriter, r *http.Request), with path parameters read
// from mux.Vars(r) rather than taken as separate handler arguments.
func (Strategy) HandlerSignatureFor(method, path string) backend.HandlerSignature {
	return backend.HandlerSignature{
		Params:       []string{"responseWriter", "request"},
		ReturnsError: false,
	}
}

// RenderRegistration emits a router.Path(...).Methods(...).HandlerFunc(...)
// chain matching the idiom DiscoverRoutes recognizes.
func (Strategy) RenderRegistration(method, path, handlerName string) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "router.Path(%q).Methods(%q).HandlerFunc(%s)\n", path, method, handlerName)
	return buf.Bytes(), nil
}

// RenderHandlerStub emits a minimal net/http handler function body. Path
// parameters are read via mux.Vars(r)[name] per the kasper idiom; the body
// only contains a stub call to keep generated handlers short until a human
// fills in the real implementation.
func (Strategy) RenderHandlerStub(method, path, handlerName string, sig backend.HandlerSignature) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "func %s(w http.ResponseWriter, r *http.Request) {\n", handlerName)
	fmt.Fprintf(&buf, "\t_ = mux.Vars(r)\n")
	fmt.Fprintf(&buf, "\tw.WriteHeader(http.StatusNotImplemented)\n")
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}
