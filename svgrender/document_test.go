package svgrender

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/tdewolff/test"
)

func TestLoad(t *testing.T) {
	doc, err := Load(strings.NewReader(`<?xml version="1.0" encoding="ISO-8859-1"?>
<!-- comment -->
<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" version="1.1">
	<title>T&#233;st</title>
	<g id="g1">
		<use xlink:href="#r"/>
		<text>a<![CDATA[ < b]]></text>
	</g>
	<foreignObject/>
</svg>`))
	test.Error(t, err)

	root := doc.Root
	test.T(t, root.Kind, KindSVG)
	test.T(t, doc.Namespaces, map[string]string{"": svgNamespace, "xlink": xlinkNamespace})

	children := root.Elements()
	test.T(t, len(children), 3)
	test.T(t, children[0].Kind, KindDefs)
	test.String(t, children[0].Text(), "Tést")
	test.T(t, children[2].Kind, KindOther)

	g := children[1]
	test.That(t, g.Parent() == root)
	test.T(t, len(g.Children), 2) // whitespace is dropped
	use := g.Elements()[0]
	test.String(t, use.href(), "#r")

	text := g.Elements()[1]
	test.T(t, text.Children, []Node{Text("a < b")})
}

func TestLoadErrors(t *testing.T) {
	for _, input := range []string{
		``,
		`<html></html>`,
		`<svg><g></svg>`,
		`<svg/><svg/>`,
	} {
		_, err := Load(strings.NewReader(input))
		test.That(t, err != nil, input)
	}
}

func TestElementHelpers(t *testing.T) {
	doc, err := Load(strings.NewReader(`<svg><rect id="r" width="10"><title>x</title></rect></svg>`))
	test.Error(t, err)
	rect := doc.Root.Elements()[0]

	clone := rect.clone(nil)
	clone.SetAttr(xml.Name{Local: "width"}, "20")
	clone.SetAttr(xml.Name{Local: "height"}, "5")
	clone.Elements()[0].SetAttr(xml.Name{Local: "lang"}, "fr")

	test.String(t, rect.attr("width"), "10")
	_, ok := rect.Attr("height")
	test.That(t, !ok)
	test.String(t, clone.attr("width"), "20")
	test.String(t, clone.attr("height"), "5")
	test.That(t, clone.Elements()[0].Parent() == clone)
	test.T(t, len(rect.Elements()[0].Attrs), 0)
}

func TestBuildIndex(t *testing.T) {
	doc, err := Load(strings.NewReader(`<svg xmlns:xlink="http://www.w3.org/1999/xlink">
	<defs>
		<linearGradient id="base" x1="1" x2="2"><stop offset="0"/><stop offset="1"/></linearGradient>
		<linearGradient id="derived" xlink:href="#base" x2="0.5"><stop offset="0.5"/></linearGradient>
		<linearGradient id="forward" href="#later"/>
		<rect id="dup" width="1"/>
		<rect id="dup" width="2"/>
		<rect id=" "/>
	</defs>
	<rect id="later"/>
</svg>`))
	test.Error(t, err)
	defs := buildIndex(doc.Root)

	test.T(t, len(defs), 5)
	test.String(t, defs["dup"].attr("width"), "2")

	derived := defs["derived"]
	test.String(t, derived.attr("id"), "derived")
	test.String(t, derived.attr("x1"), "1")
	test.String(t, derived.attr("x2"), "0.5")
	test.T(t, len(derived.Elements()), 3)
	test.String(t, derived.Elements()[0].attr("offset"), "0.5")
	test.That(t, derived.Elements()[0].Parent() == derived)

	// the reference is resolved at indexing time, in document order
	test.T(t, len(defs["forward"].Attrs), 2)
}
