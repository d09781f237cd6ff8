package oasdoc

import (
	"net/url"
	"strings"
)

// NormalizeServerURL resolves a server's `url` field (which may be relative,
// e.g. "/v2" or "{scheme}://api.example.com/{version}") against the document's
// base location, returning an absolute URL string where possible. Templated
// variables (`{var}`) are left untouched; callers substitute them using the
// server's Variables map before making requests.
func NormalizeServerURL(doc *Document, raw string) string {
	if raw == "" {
		return raw
	}

	// Leave templated host/scheme segments alone; only resolve the path-relative case.
	if strings.Contains(raw, "://") || !strings.Contains(raw, "{") {
		if u, err := url.Parse(raw); err == nil && !u.IsAbs() {
			if base, err := url.Parse(doc.Location()); err == nil {
				return base.ResolveReference(u).String()
			}
		}
	}

	return raw
}

// EffectiveServers returns the effective list of servers for doc, falling back
// to the implicit single server at "/" the OAS spec mandates when none is declared.
func (d *Document) EffectiveServers() []*Server {
	if len(d.Servers) > 0 {
		return d.Servers
	}
	return []*Server{{URL: "/"}}
}
