package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/speakeasy-api/oastool/backend"
	"github.com/speakeasy-api/oastool/backend/nethttp"
	"github.com/speakeasy-api/oastool/cache"
	"github.com/speakeasy-api/oastool/cmd/oastool/internal/diag"
	"github.com/speakeasy-api/oastool/cst"
	"github.com/speakeasy-api/oastool/cst/patch"
	"github.com/speakeasy-api/oastool/ir"
	"github.com/speakeasy-api/oastool/oasdoc"
	"github.com/speakeasy-api/oastool/oasvalidate"
	"github.com/speakeasy-api/oastool/overlay/loader"
	"github.com/speakeasy-api/oastool/validation"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	syncSchemaPath  string
	syncModelDir    string
	syncOverlayPath string
	syncRoutesFile  string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Patch a generated Go model tree so its types carry the struct tags the OpenAPI document requires",
	Long: `sync reads an OpenAPI document and a directory of already-generated Go
model structs (the output of a DB-to-struct generator, typically) and patches
each struct's field tags so they match the document, inserting only what's
missing. It never deletes a byte range it didn't insert, and re-running it
against an already-consistent tree is a no-op.`,
	Run: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncSchemaPath, "schema-path", "", "Path to the OpenAPI document")
	syncCmd.Flags().StringVar(&syncModelDir, "model-dir", "", "Directory of generated Go model files to patch")
	syncCmd.Flags().StringVar(&syncOverlayPath, "overlay", "", "Optional Overlay document to apply to the schema before syncing")
	syncCmd.Flags().StringVar(&syncRoutesFile, "routes-file", "", "Optional Go source file holding the router's route registrations, to scaffold missing ones into")
	_ = syncCmd.MarkFlagRequired("schema-path")
	_ = syncCmd.MarkFlagRequired("model-dir")
}

func runSync(cmd *cobra.Command, args []string) {
	var report diag.Report
	ctx := context.Background()

	data, err := os.ReadFile(syncSchemaPath)
	if err != nil {
		report.Add(diag.CategoryIO, "reading %s: %v", syncSchemaPath, err)
		finish(&report)
		return
	}

	if syncOverlayPath != "" {
		data, err = applyOverlay(syncOverlayPath, data)
		if err != nil {
			report.Add(diag.CategoryInput, "applying overlay %s: %v", syncOverlayPath, err)
			finish(&report)
			return
		}
	}

	abs, err := filepath.Abs(syncSchemaPath)
	if err != nil {
		abs = syncSchemaPath
	}
	doc, err := oasdoc.Parse(ctx, data, abs)
	if err != nil {
		report.Add(diag.CategoryInput, "parsing %s: %v", syncSchemaPath, err)
		finish(&report)
		return
	}

	for _, verr := range oasvalidate.Validate(ctx, doc) {
		report.AddRule(ruleOf(verr), "%v", verr)
	}
	if !report.Empty() {
		finish(&report)
		return
	}

	irDoc, err := ir.Build(ctx, doc)
	if err != nil {
		report.Add(diag.CategoryResolution, "building IR: %v", err)
		finish(&report)
		return
	}

	entries, err := os.ReadDir(syncModelDir)
	if err != nil {
		report.Add(diag.CategoryIO, "reading %s: %v", syncModelDir, err)
		finish(&report)
		return
	}

	// Each model file is patched independently (its own read, its own byte
	// edits, its own write), so the directory is fanned out across an
	// errgroup rather than walked one file at a time; a mutex serializes
	// the diagnostics a patch run produces, since Report isn't safe for
	// concurrent writers on its own. A file's patch error never fails the
	// group, so every file still gets a chance to run.
	var g errgroup.Group
	var reportMu sync.Mutex
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".go") {
			continue
		}
		path := filepath.Join(syncModelDir, entry.Name())
		g.Go(func() error {
			if err := syncFile(irDoc, path, &report, &reportMu); err != nil {
				reportMu.Lock()
				report.AddFile(diag.CategoryIO, path, "%v", err)
				reportMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if syncRoutesFile != "" {
		scaffoldRoutes(irDoc, syncRoutesFile, &report)
	}

	finish(&report)
}

// scaffoldRoutes implements spec §4.3's route-registration match algorithm:
// it reads the router's existing registrations out of routesFile, and for
// every IR route with no matching method+path registration, inserts one
// right after the last registration already in the file, in the backend
// strategy's own idiom. The default strategy is nethttp's kasper-style
// router chain; a document with no registration at all to anchor on is
// reported rather than guessed at, since there's no established insertion
// point in an empty config function.
func scaffoldRoutes(irDoc *ir.Document, path string, report *diag.Report) {
	src, err := os.ReadFile(path)
	if err != nil {
		report.AddFile(diag.CategoryIO, path, "reading routes file: %v", err)
		return
	}
	file, err := cst.Read(path, src)
	if err != nil {
		report.AddFile(diag.CategoryIO, path, "parsing routes file: %v", err)
		return
	}

	var strat backend.Strategy = nethttp.Strategy{}
	existing, err := strat.DiscoverRoutes(file)
	if err != nil {
		report.AddFile(diag.CategoryMapping, path, "discovering route registrations: %v", err)
		return
	}

	type key struct{ method, path string }
	registered := map[key]bool{}
	anchor := 0
	for _, r := range existing {
		registered[key{r.Method, r.Path}] = true
		if r.Source != nil && r.Source.End > anchor {
			anchor = r.Source.End
		}
	}
	if anchor == 0 {
		report.AddFile(diag.CategoryMapping, path,
			"no existing %s route registration found to anchor new insertions against; seed at least one registration by hand", strat.Name())
		return
	}

	var buf bytes.Buffer
	for i := range irDoc.Routes {
		route := &irDoc.Routes[i]
		if registered[key{route.Method, route.Path}] {
			continue
		}
		handlerName := route.OperationID
		if handlerName == "" {
			handlerName = exportedName(route.Method) + exportedName(strings.ReplaceAll(route.Path, "/", "_"))
		}
		snippet, err := strat.RenderRegistration(route.Method, route.Path, handlerName)
		if err != nil {
			report.AddFile(diag.CategoryMapping, path, "rendering registration for %s %s: %v", route.Method, route.Path, err)
			continue
		}
		buf.WriteByte('\n')
		buf.Write(bytes.TrimRight(snippet, "\n"))
	}
	if buf.Len() == 0 {
		return
	}

	patched, err := patch.Apply(src, []patch.Edit{{Range: cst.ByteRange{Start: anchor, End: anchor}, Replacement: buf.Bytes()}})
	if err != nil {
		report.AddFile(diag.CategoryIO, path, "patching routes file: %v", err)
		return
	}
	if err := os.WriteFile(path, patched, 0o644); err != nil {
		report.AddFile(diag.CategoryIO, path, "writing routes file: %v", err)
	}
}

// applyOverlay parses the Overlay document at overlayPath and applies its
// actions to the schema bytes, returning the patched YAML. The schema is
// re-marshaled afterward, so comments and formatting in the original file
// are not preserved across an overlay application.
func applyOverlay(overlayPath string, schema []byte) ([]byte, error) {
	ov, err := loader.LoadOverlay(overlayPath)
	if err != nil {
		return nil, fmt.Errorf("parsing overlay: %w", err)
	}
	if err := ov.Validate(); err != nil {
		return nil, fmt.Errorf("overlay %s failed validation: %w", overlayPath, err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(schema, &root); err != nil {
		return nil, fmt.Errorf("parsing schema as YAML: %w", err)
	}
	if err := ov.ApplyTo(&root); err != nil {
		return nil, fmt.Errorf("applying overlay: %w", err)
	}

	return yaml.Marshal(&root)
}

func ruleOf(err error) string {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return verr.Rule
	}
	return ""
}

// syncFile patches one model file in place: for every exported struct whose
// name matches a named IR schema, every object field present in both the
// schema and the struct gets a json tag inserted if it's missing. A field
// whose existing tag already names a different JSON key is left untouched
// and reported, since overwriting it could silently break code relying on
// the old name.
func syncFile(irDoc *ir.Document, path string, report *diag.Report, reportMu *sync.Mutex) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	file, err := cst.Read(path, src)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	var edits []patch.Edit

	for _, decl := range file.Decls {
		if decl.Kind != cst.DeclStruct {
			continue
		}
		schemaID, ok := irDoc.SchemaByName(decl.Name)
		if !ok {
			continue
		}
		schema := irDoc.Schema(schemaID)
		if schema.Kind != ir.KindObject {
			continue
		}

		fields, err := file.StructFields(&decl)
		if err != nil {
			return err
		}
		goFields := map[string]bool{}
		for _, f := range fields {
			goFields[f.Name] = true
		}

		for _, of := range schema.Fields {
			goName := exportedName(of.Name)
			if !goFields[goName] {
				continue // field doesn't exist in the struct yet; additive-only, not synthesized here
			}

			rng, err := file.FieldTagRange(&decl, goName)
			if err != nil {
				continue
			}
			wantTag := fmt.Sprintf("`json:%q`", of.Name)

			if rng.Start == rng.End {
				edits = append(edits, patch.Edit{Range: rng, Replacement: []byte(" " + wantTag)})
				continue
			}

			existing := string(src[rng.Start:rng.End])
			if existing == wantTag {
				continue
			}
			if strings.Contains(existing, `json:"`) {
				reportMu.Lock()
				report.AddFile(diag.CategoryPatchConflict, path,
					"field %s.%s already has tag %s, expected %s; leaving as-is", decl.Name, goName, existing, wantTag)
				reportMu.Unlock()
			}
		}
	}

	if len(edits) == 0 {
		return nil
	}

	patched, err := patch.Apply(src, edits)
	if err != nil {
		return fmt.Errorf("patching %s: %w", path, err)
	}
	return os.WriteFile(path, patched, 0o644)
}

// exportedName converts an OAS property name (typically camelCase or
// snake_case) to the Go exported identifier this tool expects a generated
// model struct to already use.
func exportedName(propName string) string {
	parts := strings.FieldsFunc(propName, func(r rune) bool { return r == '_' || r == '-' })
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	if b.Len() == 0 {
		return strings.ToUpper(propName[:1]) + propName[1:]
	}
	return b.String()
}

// finish prints every diagnostic collected during a subcommand run and exits
// with the code the worst of them maps to. Global reference/URL caches are
// cleared first so repeated in-process invocations (e.g. under a test
// harness that doesn't fork a fresh process per run) don't leak resolved
// state from one document into the next.
func finish(report *diag.Report) {
	cache.ClearAllCaches()
	report.Print(os.Stderr)
	os.Exit(report.ExitCode())
}
