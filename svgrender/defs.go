package svgrender

import (
	"strings"
)

// buildIndex returns the definitions of the document, keyed by id.
// Every descendant of root with a non empty id is registered, in document
// order, the last one winning on duplicates. An element referencing
// an already registered definition through href inherits its children
// and its missing attributes.
func buildIndex(root *Element) map[string]*Element {
	defs := make(map[string]*Element)
	root.walk(func(e *Element) {
		id := strings.TrimSpace(e.attr("id"))
		if id == "" {
			return
		}
		defs[id] = readDefinition(e, defs)
	})
	return defs
}

// readDefinition merges e with the definition it references, if any.
func readDefinition(e *Element, defs map[string]*Element) *Element {
	union := &Element{Name: e.Name, Kind: e.Kind}
	union.Children = cloneNodes(e.Children, union)
	union.Attrs = append(union.Attrs, e.Attrs...)

	ref := lookupHref(e, defs)
	if ref == nil {
		return union
	}
	union.Children = append(union.Children, cloneNodes(ref.Children, union)...)
	for _, a := range ref.Attrs {
		if !union.hasAttr(a.Name) {
			union.Attrs = append(union.Attrs, a)
		}
	}
	return union
}

// lookupHref returns the definition referenced by the href
// attribute of e, or nil.
func lookupHref(e *Element, defs map[string]*Element) *Element {
	href := strings.TrimSpace(e.href())
	if !strings.HasPrefix(href, "#") {
		return nil
	}
	return defs[href[1:]]
}
