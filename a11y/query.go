package a11y

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrNotFound      = errors.New("no matching element")
	ErrMultipleFound = errors.New("multiple matching elements")
)

type query struct {
	desc    []string
	name    func(string) bool
	descr   func(string) bool
	pressed *bool
	level   int
	hidden  bool
}

// Option narrows a role query.
type Option func(*query)

// Name matches the accessible name exactly.
func Name(s string) Option {
	return func(q *query) {
		q.name = func(v string) bool { return v == s }
		q.desc = append(q.desc, fmt.Sprintf("name=%q", s))
	}
}

// NameMatches matches the accessible name against a pattern.
func NameMatches(re *regexp.Regexp) Option {
	return func(q *query) {
		q.name = re.MatchString
		q.desc = append(q.desc, fmt.Sprintf("name=/%s/", re))
	}
}

// Description matches the accessible description exactly.
func Description(s string) Option {
	return func(q *query) {
		q.descr = func(v string) bool { return v == s }
		q.desc = append(q.desc, fmt.Sprintf("description=%q", s))
	}
}

// DescriptionMatches matches the accessible description against a pattern.
func DescriptionMatches(re *regexp.Regexp) Option {
	return func(q *query) {
		q.descr = re.MatchString
		q.desc = append(q.desc, fmt.Sprintf("description=/%s/", re))
	}
}

// Pressed matches toggle buttons in the given state.
func Pressed(p bool) Option {
	return func(q *query) {
		q.pressed = &p
		q.desc = append(q.desc, fmt.Sprintf("pressed=%t", p))
	}
}

// Level matches headings of the given level.
func Level(l int) Option {
	return func(q *query) {
		q.level = l
		q.desc = append(q.desc, fmt.Sprintf("level=%d", l))
	}
}

// IncludeHidden also matches elements excluded from the accessibility tree.
func IncludeHidden() Option {
	return func(q *query) { q.hidden = true }
}

func (q *query) match(n *Node, role string) bool {
	if n.Role() != role {
		return false
	}
	if !q.hidden && n.Hidden() {
		return false
	}
	if q.name != nil && !q.name(n.Name()) {
		return false
	}
	if q.descr != nil && !q.descr(n.Description()) {
		return false
	}
	if q.pressed != nil {
		p, ok := n.Pressed()
		if !ok || p != *q.pressed {
			return false
		}
	}
	if q.level != 0 && n.Level() != q.level {
		return false
	}
	return true
}

// AllByRole returns every descendant of n with the role and options, in document order.
func (n *Node) AllByRole(role string, opts ...Option) []*Node {
	q := &query{}
	for _, o := range opts {
		o(q)
	}
	var out []*Node
	for _, el := range n.Elements() {
		if q.match(el, role) {
			out = append(out, el)
		}
	}
	return out
}

// GetByRole returns the single descendant matching role and options.
func (n *Node) GetByRole(role string, opts ...Option) (*Node, error) {
	found := n.AllByRole(role, opts...)
	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return nil, fmt.Errorf("role %q %s: %w", role, describe(opts), ErrNotFound)
	default:
		return nil, fmt.Errorf("role %q %s: %d found: %w", role, describe(opts), len(found), ErrMultipleFound)
	}
}

// AllByText returns the innermost visible elements whose own text equals s.
func (n *Node) AllByText(s string) []*Node {
	var out []*Node
	for _, el := range n.Elements() {
		if el.Hidden() {
			continue
		}
		if collapse(el.ownText()) == s {
			out = append(out, el)
		}
	}
	return out
}

// GetByText is AllByText that requires exactly one match.
func (n *Node) GetByText(s string) (*Node, error) {
	found := n.AllByText(s)
	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return nil, fmt.Errorf("text %q: %w", s, ErrNotFound)
	default:
		return nil, fmt.Errorf("text %q: %d found: %w", s, len(found), ErrMultipleFound)
	}
}

func (n *Node) ownText() string {
	var b strings.Builder
	for _, c := range n.Children {
		if c.IsText() {
			b.WriteString(c.text)
		}
	}
	return b.String()
}

// VisibleText is the text a sighted user reads. Screen-reader-only and unrendered
// subtrees are skipped; aria-hidden decoration is kept.
func (n *Node) VisibleText() string {
	var b strings.Builder
	n.walkText(&b, true)
	return collapse(b.String())
}

func describe(opts []Option) string {
	q := &query{}
	for _, o := range opts {
		o(q)
	}
	return "{" + strings.Join(q.desc, " ") + "}"
}
