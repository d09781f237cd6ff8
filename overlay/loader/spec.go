package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadSpecification loads and parses a YAML or JSON document from path. This
// is the base document sync's --overlay flag patches before oastool ever
// sees it; oastool always takes that path explicitly via --schema-path, so
// unlike the Overlay spec itself this loader has no notion of an "extends"
// URL to resolve implicitly.
func LoadSpecification(path string) (*yaml.Node, error) {
	rs, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to open schema from path %q: %w", path, err)
	}
	defer rs.Close()

	var ys yaml.Node
	if err := yaml.NewDecoder(rs).Decode(&ys); err != nil {
		return nil, fmt.Errorf("failed to parse schema at path %q: %w", path, err)
	}

	return &ys, nil
}
