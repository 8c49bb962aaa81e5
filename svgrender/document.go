package svgrender

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

const (
	svgNamespace   = "http://www.w3.org/2000/svg"
	xlinkNamespace = "http://www.w3.org/1999/xlink"
)

// Kind is the closed set of element types the interpreter knows about,
// resolved once when loading the document.
type Kind uint8

const (
	KindOther Kind = iota
	KindSVG
	KindGroup
	KindRect
	KindEllipse
	KindCircle
	KindPath
	KindPolygon
	KindPolyline
	KindLine
	KindUse
	KindSwitch
	KindText
	KindTSpan
	KindImage
	KindDefs // also title, desc and description
	KindLinearGradient
	KindRadialGradient
	KindClipPath
	KindStop
)

var kinds = map[string]Kind{
	"svg":            KindSVG,
	"g":              KindGroup,
	"rect":           KindRect,
	"ellipse":        KindEllipse,
	"circle":         KindCircle,
	"path":           KindPath,
	"polygon":        KindPolygon,
	"polyline":       KindPolyline,
	"line":           KindLine,
	"use":            KindUse,
	"switch":         KindSwitch,
	"text":           KindText,
	"tspan":          KindTSpan,
	"image":          KindImage,
	"defs":           KindDefs,
	"title":          KindDefs,
	"desc":           KindDefs,
	"description":    KindDefs,
	"linearGradient": KindLinearGradient,
	"radialGradient": KindRadialGradient,
	"clipPath":       KindClipPath,
	"stop":           KindStop,
}

func kindOf(local string) Kind { return kinds[local] }

// Node is either an *Element or a Text.
type Node interface {
	isNode()
}

// Text is a character data node.
type Text string

// Element is a node of the document tree.
type Element struct {
	Name     xml.Name
	Kind     Kind
	Attrs    []xml.Attr // in document order
	Children []Node

	parent *Element
}

func (*Element) isNode() {}
func (Text) isNode()     {}

// Parent returns the parent element, or nil for the root
// and the definitions.
func (e *Element) Parent() *Element { return e.parent }

// Attr returns the value of the attribute without namespace.
func (e *Element) Attr(local string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Space == "" && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// attr is a shortcut for Attr, ignoring presence
func (e *Element) attr(local string) string {
	v, _ := e.Attr(local)
	return v
}

// hasAttr returns true if an attribute with the given name exists,
// in any namespace.
func (e *Element) hasAttr(name xml.Name) bool {
	for _, a := range e.Attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}

// SetAttr replaces or adds the attribute.
func (e *Element) SetAttr(name xml.Name, value string) {
	for i, a := range e.Attrs {
		if a.Name == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, xml.Attr{Name: name, Value: value})
}

func isXlink(space string) bool { return space == xlinkNamespace || space == "xlink" }

func isHref(name xml.Name) bool {
	return name.Local == "href" && (name.Space == "" || isXlink(name.Space))
}

// href returns the value of the href or xlink:href attribute.
func (e *Element) href() string {
	if v, ok := e.Attr("href"); ok {
		return v
	}
	for _, a := range e.Attrs {
		if a.Name.Local == "href" && isXlink(a.Name.Space) {
			return a.Value
		}
	}
	return ""
}

// Elements returns the child elements, skipping text nodes.
func (e *Element) Elements() []*Element {
	var out []*Element
	for _, c := range e.Children {
		if ce, ok := c.(*Element); ok {
			out = append(out, ce)
		}
	}
	return out
}

// Text returns the concatenation of the descendant text nodes.
func (e *Element) Text() string {
	var b strings.Builder
	var walk func(*Element)
	walk = func(e *Element) {
		for _, c := range e.Children {
			switch c := c.(type) {
			case Text:
				b.WriteString(string(c))
			case *Element:
				walk(c)
			}
		}
	}
	walk(e)
	return b.String()
}

// firstChild returns the first child element with the given local name.
func (e *Element) firstChild(local string) *Element {
	for _, c := range e.Elements() {
		if c.Name.Local == local {
			return c
		}
	}
	return nil
}

// clone returns a deep copy of e, attached to parent.
func (e *Element) clone(parent *Element) *Element {
	out := &Element{
		Name:   e.Name,
		Kind:   e.Kind,
		Attrs:  append([]xml.Attr(nil), e.Attrs...),
		parent: parent,
	}
	out.Children = cloneNodes(e.Children, out)
	return out
}

func cloneNodes(nodes []Node, parent *Element) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		if ce, ok := n.(*Element); ok {
			out[i] = ce.clone(parent)
		} else {
			out[i] = n
		}
	}
	return out
}

// walk calls fn on every descendant of e (excluding e), in document order.
func (e *Element) walk(fn func(*Element)) {
	for _, c := range e.Elements() {
		fn(c)
		c.walk(fn)
	}
}

// Document is a parsed SVG file.
type Document struct {
	Root *Element
	// Namespaces maps the prefixes declared on the root
	// element to their URI. The default namespace has an empty prefix.
	Namespaces map[string]string
}

// Load parses an SVG document. Comments, processing instructions
// and directives are ignored, as well as whitespace-only text nodes.
func Load(r io.Reader) (*Document, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel

	var (
		root  *Element
		stack []*Element
	)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			el := &Element{Name: tok.Name, Kind: kindOf(tok.Name.Local), Attrs: tok.Copy().Attr}
			if len(stack) != 0 {
				parent := stack[len(stack)-1]
				el.parent = parent
				parent.Children = append(parent.Children, el)
			} else if root == nil {
				root = el
			} else {
				return nil, errMultiRoots
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 || strings.TrimSpace(string(tok)) == "" {
				continue
			}
			parent := stack[len(stack)-1]
			// merge with the previous text node, if any (CDATA sections)
			if n := len(parent.Children); n != 0 {
				if prev, ok := parent.Children[n-1].(Text); ok {
					parent.Children[n-1] = prev + Text(tok)
					continue
				}
			}
			parent.Children = append(parent.Children, Text(tok))
		}
	}
	if root == nil {
		return nil, errNoRoot
	}
	if root.Kind != KindSVG {
		return nil, fmt.Errorf("invalid root element <%s>", root.Name.Local)
	}

	doc := &Document{Root: root, Namespaces: map[string]string{}}
	for _, a := range root.Attrs {
		if a.Name.Space == "xmlns" {
			doc.Namespaces[a.Name.Local] = a.Value
		} else if a.Name.Space == "" && a.Name.Local == "xmlns" {
			doc.Namespaces[""] = a.Value
		}
	}
	return doc, nil
}
