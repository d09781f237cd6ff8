package main

import (
	"fmt"
	"os"
	"runtime/debug"

	iversion "github.com/speakeasy-api/oastool/internal/version"
	"github.com/spf13/cobra"
)

var version = "dev"

// fallbackVersion is what getVersion reports when neither an injected
// version string nor build info is available, e.g. a `go run` invocation.
var fallbackVersion = iversion.New(0, 1, 0)

func getVersion() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return fallbackVersion.String()
}

var rootCmd = &cobra.Command{
	Use:     "oastool",
	Short:   "Synchronize an OpenAPI document, a typed Go source tree, and a database schema",
	Version: getVersion(),
	Long: `oastool keeps three artifacts in lockstep: an OpenAPI document, the
Go handler/route/model source tree that implements it, and a database schema.

- sync patches a generated model tree so its types carry the attributes the
  OpenAPI document requires.
- test-gen reads an OpenAPI document and writes a test file exercising every
  operation against a running app.
- schema-gen reflects an OpenAPI document from an existing Go source tree.`,
}

func init() {
	rootCmd.AddCommand(syncCmd, testGenCmd, schemaGenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
