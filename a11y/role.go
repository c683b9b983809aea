package a11y

import (
	"strconv"
	"strings"
)

// Role returns the explicit role attribute or the implicit role of the element.
// Elements without a semantic role return "".
func (n *Node) Role() string {
	if n.IsText() {
		return ""
	}
	if r, ok := n.Attrs["role"]; ok {
		if fields := strings.Fields(r); len(fields) > 0 {
			return fields[0]
		}
	}
	return n.implicitRole()
}

func (n *Node) implicitRole() string {
	switch n.Tag {
	case "header":
		if n.inSectioningContent() {
			return ""
		}
		return "banner"
	case "footer":
		if n.inSectioningContent() {
			return ""
		}
		return "contentinfo"
	case "nav":
		return "navigation"
	case "main":
		return "main"
	case "aside":
		return "complementary"
	case "article":
		return "article"
	case "section":
		if n.hasLabel() {
			return "region"
		}
		return ""
	case "form":
		if n.hasLabel() {
			return "form"
		}
		return ""
	case "ul", "ol", "menu":
		return "list"
	case "li":
		return "listitem"
	case "button":
		return "button"
	case "a", "area":
		if _, ok := n.Attrs["href"]; ok {
			return "link"
		}
		return ""
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return "heading"
	case "p":
		return "paragraph"
	case "img":
		if alt, ok := n.Attrs["alt"]; ok && alt == "" {
			return "presentation"
		}
		return "img"
	case "input":
		switch n.Attrs["type"] {
		case "button", "submit", "reset", "image":
			return "button"
		case "checkbox":
			return "checkbox"
		case "radio":
			return "radio"
		case "hidden":
			return ""
		default:
			return "textbox"
		}
	case "textarea":
		return "textbox"
	case "select":
		return "combobox"
	case "time":
		return "time"
	}
	return ""
}

func (n *Node) inSectioningContent() bool {
	for p := n.Parent; p != nil; p = p.Parent {
		switch p.Tag {
		case "article", "aside", "main", "nav", "section":
			return true
		}
	}
	return false
}

func (n *Node) hasLabel() bool {
	if strings.TrimSpace(n.Attrs["aria-label"]) != "" {
		return true
	}
	if strings.TrimSpace(n.Attrs["aria-labelledby"]) != "" {
		return true
	}
	return strings.TrimSpace(n.Attrs["title"]) != ""
}

// Pressed returns the aria-pressed state. ok is false when the element is not
// a toggle button.
func (n *Node) Pressed() (pressed, ok bool) {
	v, has := n.Attrs["aria-pressed"]
	if !has {
		return false, false
	}
	switch v {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// Disabled reports native or ARIA disabled state.
func (n *Node) Disabled() bool {
	if n.IsText() {
		return false
	}
	if v, ok := n.Attrs["aria-disabled"]; ok && v == "true" {
		return true
	}
	switch n.Tag {
	case "button", "input", "select", "textarea", "fieldset", "option":
		if _, ok := n.Attrs["disabled"]; ok {
			return true
		}
	}
	return false
}

// Level returns the heading level, or 0 for non-headings.
func (n *Node) Level() int {
	if n.Role() != "heading" {
		return 0
	}
	if v, ok := n.Attrs["aria-level"]; ok {
		if l, err := strconv.Atoi(v); err == nil {
			return l
		}
	}
	if len(n.Tag) == 2 && n.Tag[0] == 'h' {
		return int(n.Tag[1] - '0')
	}
	return 2
}

// Live returns the aria-live politeness that applies to n, inherited from the
// nearest ancestor that sets it.
func (n *Node) Live() string {
	for p := n; p != nil; p = p.Parent {
		if v, ok := p.Attrs["aria-live"]; ok {
			return v
		}
		switch p.Attrs["role"] {
		case "status", "log":
			return "polite"
		case "alert":
			return "assertive"
		}
	}
	return ""
}
