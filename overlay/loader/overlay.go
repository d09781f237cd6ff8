package loader

import (
	"fmt"

	"github.com/speakeasy-api/oastool/overlay"
)

// LoadOverlay loads and parses the Overlay document sync's --overlay flag
// names from the file system.
func LoadOverlay(path string) (*overlay.Overlay, error) {
	o, err := overlay.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse overlay from path %q: %w", path, err)
	}

	return o, nil
}
