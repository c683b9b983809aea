// Package a11y builds an accessibility tree from rendered HTML and queries it the
// way assistive technology sees the page: by role, accessible name, accessible
// description and widget state.
//
// The computations follow the WAI-ARIA implicit role table and a reduced form of
// the accessible name algorithm (aria-labelledby, aria-label, content). That is
// enough to verify markup contracts without a browser.
package a11y

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// Node is an element or text node of a parsed document.
type Node struct {
	Tag      string
	Attrs    map[string]string
	Parent   *Node
	Children []*Node

	text string
	doc  *document
}

type document struct {
	byID map[string]*Node
}

// Parse reads an HTML document and returns its root element.
func Parse(r io.Reader) (*Node, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	doc := &document{byID: map[string]*Node{}}
	top := &Node{Tag: "#document", Attrs: map[string]string{}, doc: doc}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if n := convert(c, top, doc); n != nil {
			top.Children = append(top.Children, n)
		}
	}
	return top, nil
}

func convert(h *html.Node, parent *Node, doc *document) *Node {
	switch h.Type {
	case html.TextNode:
		return &Node{Tag: "#text", Parent: parent, text: h.Data, doc: doc}
	case html.ElementNode:
	default:
		return nil
	}

	n := &Node{Tag: h.Data, Attrs: make(map[string]string, len(h.Attr)), Parent: parent, doc: doc}
	for _, a := range h.Attr {
		n.Attrs[a.Key] = a.Val
	}
	if id, ok := n.Attrs["id"]; ok && id != "" {
		if _, dup := doc.byID[id]; !dup {
			doc.byID[id] = n
		}
	}
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		if child := convert(c, n, doc); child != nil {
			n.Children = append(n.Children, child)
		}
	}
	return n
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool { return n.Tag == "#text" }

// Attr returns an attribute value and whether it was present.
func (n *Node) Attr(key string) (string, bool) {
	v, ok := n.Attrs[key]
	return v, ok
}

// ByID looks up an element anywhere in n's document.
func (n *Node) ByID(id string) *Node { return n.doc.byID[id] }

// Text is the element's text content with whitespace collapsed, including
// hidden descendants, like the DOM textContent property.
func (n *Node) Text() string {
	var b strings.Builder
	n.walkText(&b, false)
	return collapse(b.String())
}

func (n *Node) walkText(b *strings.Builder, visualOnly bool) {
	if n.IsText() {
		b.WriteString(n.text)
		return
	}
	if n.Tag == "head" || n.Tag == "script" || n.Tag == "style" || n.Tag == "template" {
		return
	}
	if visualOnly && !n.rendered() {
		return
	}
	for _, c := range n.Children {
		c.walkText(b, visualOnly)
	}
}

// rendered is false for elements that are not painted. aria-hidden content is
// still painted; screen-reader-only content is not.
func (n *Node) rendered() bool {
	if _, ok := n.Attrs["hidden"]; ok {
		return false
	}
	if n.Tag == "input" && n.Attrs["type"] == "hidden" {
		return false
	}
	return !slices.Contains(strings.Fields(n.Attrs["class"]), "sr-only")
}

// Hidden reports whether n is excluded from the accessibility tree, either by
// itself or through an ancestor.
func (n *Node) Hidden() bool {
	for p := n; p != nil; p = p.Parent {
		if p.selfHidden() {
			return true
		}
	}
	return false
}

func (n *Node) selfHidden() bool {
	if n.IsText() {
		return false
	}
	if v, ok := n.Attrs["aria-hidden"]; ok && v != "false" {
		return true
	}
	if _, ok := n.Attrs["hidden"]; ok {
		return true
	}
	switch n.Tag {
	case "head", "script", "style", "template", "title", "meta", "link":
		return true
	case "input":
		return n.Attrs["type"] == "hidden"
	}
	return false
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for p := other; p != nil; p = p.Parent {
		if p == n {
			return true
		}
	}
	return false
}

// Closest returns the nearest ancestor-or-self element with the given tag.
func (n *Node) Closest(tag string) *Node {
	for p := n; p != nil; p = p.Parent {
		if p.Tag == tag {
			return p
		}
	}
	return nil
}

// Elements returns n's element descendants in document order, excluding n.
func (n *Node) Elements() []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(p *Node) {
		for _, c := range p.Children {
			if c.IsText() {
				continue
			}
			out = append(out, c)
			walk(c)
		}
	}
	walk(n)
	return out
}

func (n *Node) String() string {
	if n.IsText() {
		return fmt.Sprintf("%q", n.text)
	}
	var b strings.Builder
	b.WriteString("<" + n.Tag)
	if role := n.Role(); role != "" {
		fmt.Fprintf(&b, " role=%s", role)
	}
	if name := n.Name(); name != "" {
		fmt.Fprintf(&b, " name=%q", name)
	}
	b.WriteString(">")
	return b.String()
}

func collapse(s string) string { return strings.Join(strings.Fields(s), " ") }
