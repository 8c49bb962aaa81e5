package svgrender

import (
	"regexp"
	"strings"
)

var (
	keyValueRe = regexp.MustCompile(`\s*([\w-]+)\s*:\s*(.*)`)
	urlRe      = regexp.MustCompile(`url\s*\(\s*#([^\)]+)\)`)
	spacesRe   = regexp.MustCompile(`\s{2,}`)
)

// readStyle merges the presentation attributes of e with
// its inline "style" declarations, the latter taking precedence.
// Only attributes without namespace, or in the SVG or XLink namespaces,
// are considered, keyed by local name.
func readStyle(e *Element) map[string]string {
	style := make(map[string]string, len(e.Attrs))
	for _, a := range e.Attrs {
		if a.Name.Space == "" || a.Name.Space == svgNamespace || isXlink(a.Name.Space) {
			style[a.Name.Local] = a.Value
		}
	}
	if inline, ok := style["style"]; ok {
		for key, value := range parseStyleAttr(inline) {
			style[key] = value
		}
	}
	return style
}

// parseStyleAttr parses CSS like declarations "key: value; key2: value2".
// Malformed declarations are skipped.
func parseStyleAttr(s string) map[string]string {
	out := make(map[string]string)
	for _, part := range strings.Split(s, ";") {
		m := keyValueRe.FindStringSubmatch(part)
		if m == nil {
			continue
		}
		out[m[1]] = strings.TrimSpace(m[2])
	}
	return out
}

// parseURLReference extracts the id of "url(#id)".
func parseURLReference(s string) (string, bool) {
	m := urlRe.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}
