package a11y

import "strings"

var nameFromContent = map[string]bool{
	"button":       true,
	"link":         true,
	"heading":      true,
	"cell":         true,
	"checkbox":     true,
	"columnheader": true,
	"rowheader":    true,
	"menuitem":     true,
	"option":       true,
	"radio":        true,
	"switch":       true,
	"tab":          true,
	"tooltip":      true,
	"treeitem":     true,
}

var block = map[string]bool{
	"address": true, "article": true, "aside": true, "br": true, "div": true,
	"footer": true, "form": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "header": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "section": true, "table": true, "td": true, "th": true,
	"tr": true, "ul": true,
}

// Name computes the accessible name.
func (n *Node) Name() string {
	if n.IsText() {
		return ""
	}
	return collapse(n.name(map[*Node]bool{}, false))
}

// Description computes the accessible description from aria-describedby, falling
// back to aria-description. Referenced ids that do not exist are skipped.
func (n *Node) Description() string {
	if n.IsText() {
		return ""
	}
	if ids := strings.Fields(n.Attrs["aria-describedby"]); len(ids) > 0 {
		parts := make([]string, 0, len(ids))
		for _, id := range ids {
			ref := n.ByID(id)
			if ref == nil {
				continue
			}
			if s := collapse(ref.content(map[*Node]bool{})); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	}
	return collapse(n.Attrs["aria-description"])
}

// DescriptionNodes returns the elements referenced by aria-describedby that exist.
func (n *Node) DescriptionNodes() []*Node {
	var out []*Node
	for _, id := range strings.Fields(n.Attrs["aria-describedby"]) {
		if ref := n.ByID(id); ref != nil {
			out = append(out, ref)
		}
	}
	return out
}

func (n *Node) name(visited map[*Node]bool, traversing bool) string {
	if visited[n] {
		return ""
	}
	visited[n] = true

	if !traversing {
		if ids := strings.Fields(n.Attrs["aria-labelledby"]); len(ids) > 0 {
			parts := make([]string, 0, len(ids))
			for _, id := range ids {
				if ref := n.ByID(id); ref != nil {
					parts = append(parts, ref.content(visited))
				}
			}
			if s := strings.TrimSpace(strings.Join(parts, " ")); s != "" {
				return s
			}
		}
	}
	if s := strings.TrimSpace(n.Attrs["aria-label"]); s != "" {
		return s
	}
	if s := n.nativeName(); s != "" {
		return s
	}
	if traversing || nameFromContent[n.Role()] {
		if s := strings.TrimSpace(n.childContent(visited)); s != "" {
			return s
		}
	}
	return strings.TrimSpace(n.Attrs["title"])
}

func (n *Node) nativeName() string {
	switch n.Tag {
	case "img", "area":
		return n.Attrs["alt"]
	case "input":
		switch n.Attrs["type"] {
		case "submit", "button", "reset":
			return n.Attrs["value"]
		case "image":
			return n.Attrs["alt"]
		}
	}
	return ""
}

// content is the name a referenced element contributes: its own label if it
// has one, else its visible content. The root of a reference is used even when
// hidden; hidden descendants are skipped.
func (n *Node) content(visited map[*Node]bool) string {
	if s := strings.TrimSpace(n.Attrs["aria-label"]); s != "" {
		return s
	}
	return n.childContent(visited)
}

func (n *Node) childContent(visited map[*Node]bool) string {
	var b strings.Builder
	for _, c := range n.Children {
		if c.IsText() {
			b.WriteString(c.text)
			continue
		}
		if c.selfHidden() {
			continue
		}
		if block[c.Tag] {
			b.WriteString(" ")
		}
		b.WriteString(c.name(visited, true))
		if block[c.Tag] {
			b.WriteString(" ")
		}
	}
	return b.String()
}
