package dom

import (
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// ParseHTML parses an HTML document or fragment and returns its body as a
// detached element tree. html.Parse normalizes any input under
// html/head/body, so the returned element always carries the "body" tag
// with the input's top-level elements as children. Inter-element
// whitespace is dropped; other text becomes the enclosing element's text
// content.
func ParseHTML(r io.Reader) (*Element, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	body := findHTMLNode(doc, "body")
	if body == nil {
		// Parse always synthesizes a body; treat its absence as empty.
		return NewElement("body"), nil
	}
	return fromHTMLNode(body), nil
}

// ParseHTMLString is ParseHTML over a string.
func ParseHTMLString(s string) (*Element, error) {
	return ParseHTML(strings.NewReader(s))
}

// MustParseHTML parses a fragment and panics on error. For fixtures.
func MustParseHTML(s string) *Element {
	e, err := ParseHTMLString(s)
	if err != nil {
		panic(err)
	}
	return e
}

// RenderHTML writes the element tree as HTML markup.
func RenderHTML(w io.Writer, e *Element) error {
	return html.Render(w, toHTMLNode(e))
}

// RenderHTMLString renders the element tree to a string.
func RenderHTMLString(e *Element) (string, error) {
	var b strings.Builder
	if err := RenderHTML(&b, e); err != nil {
		return "", err
	}
	return b.String(), nil
}

func findHTMLNode(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findHTMLNode(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func fromHTMLNode(n *html.Node) *Element {
	e := NewElement(n.Data)
	for _, a := range n.Attr {
		if a.Key == "class" {
			e.AddClass(strings.Fields(a.Val)...)
			continue
		}
		e.SetAttr(a.Key, a.Val)
	}

	var text []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			e.AppendChild(fromHTMLNode(c))
		case html.TextNode:
			if t := strings.TrimSpace(c.Data); t != "" {
				text = append(text, t)
			}
		}
	}
	if len(text) > 0 {
		e.SetText(strings.Join(text, " "))
	}
	return e
}

func toHTMLNode(e *Element) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: e.tag}
	keys := make([]string, 0, len(e.attrs))
	for k := range e.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		n.Attr = append(n.Attr, html.Attribute{Key: k, Val: e.attrs[k]})
	}
	if len(e.classes) > 0 {
		n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: strings.Join(e.classes, " ")})
	}
	if e.text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: e.text})
	}
	for _, c := range e.children {
		n.AppendChild(toHTMLNode(c))
	}
	return n
}
