package a11y

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
)

const maxRedirects = 10

// ErrNoAction is returned by Click when the element is not wired to any action.
var ErrNoAction = errors.New("element has no click action")

// Screen is a rendered page served by an http.Handler. Clicking submits the
// clicked control's form to the same handler and re-renders the result.
type Screen struct {
	handler http.Handler
	path    string
	root    *Node
}

// Render loads path from h, following redirects.
func Render(h http.Handler, path string) (*Screen, error) {
	s := &Screen{handler: h}
	if err := s.do(http.MethodGet, path, nil); err != nil {
		return nil, err
	}
	return s, nil
}

// Root is the current document.
func (s *Screen) Root() *Node { return s.root }

// Path is the URL path of the current document after redirects.
func (s *Screen) Path() string { return s.path }

// Click activates n. A click on a natively disabled control does nothing, as in
// a browser. aria-disabled does not block the click: the server decides.
func (s *Screen) Click(n *Node) error {
	target := clickable(n)
	if target == nil {
		return fmt.Errorf("click %s: %w", n, ErrNoAction)
	}
	if _, ok := target.Attrs["disabled"]; ok {
		return nil
	}
	if target.Tag == "button" && target.Attrs["type"] != "" && target.Attrs["type"] != "submit" {
		return nil
	}
	form := target.Closest("form")
	if form == nil {
		return fmt.Errorf("click %s: %w", n, ErrNoAction)
	}

	values := url.Values{}
	for _, el := range form.Elements() {
		if el.Tag != "input" {
			continue
		}
		name := el.Attrs["name"]
		if name == "" {
			continue
		}
		if _, off := el.Attrs["disabled"]; off {
			continue
		}
		switch el.Attrs["type"] {
		case "submit", "button", "image", "reset":
			continue
		}
		values.Add(name, el.Attrs["value"])
	}
	if name := target.Attrs["name"]; name != "" {
		values.Add(name, target.Attrs["value"])
	}

	action := form.Attrs["action"]
	if action == "" {
		action = s.path
	}
	method := strings.ToUpper(form.Attrs["method"])
	if method != http.MethodPost {
		sep := "?"
		if strings.Contains(action, "?") {
			sep = "&"
		}
		return s.do(http.MethodGet, action+sep+values.Encode(), nil)
	}
	return s.do(http.MethodPost, action, values)
}

func clickable(n *Node) *Node {
	for p := n; p != nil; p = p.Parent {
		if p.IsText() {
			continue
		}
		if p.Tag == "button" || p.Tag == "input" {
			return p
		}
		if _, ok := p.Attrs["onclick"]; ok {
			return p
		}
		if p.Tag == "form" {
			return nil
		}
	}
	return nil
}

func (s *Screen) do(method, target string, form url.Values) error {
	for range maxRedirects {
		var req *http.Request
		if form != nil {
			req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		} else {
			req = httptest.NewRequest(method, target, nil)
		}
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, req)

		switch {
		case rec.Code >= 300 && rec.Code < 400:
			loc := rec.Header().Get("Location")
			if loc == "" {
				return fmt.Errorf("%s %s: redirect without location", method, target)
			}
			method, target, form = http.MethodGet, loc, nil
			continue
		case rec.Code != http.StatusOK:
			return fmt.Errorf("%s %s: status %d: %s", method, target, rec.Code, strings.TrimSpace(rec.Body.String()))
		}

		root, err := Parse(rec.Body)
		if err != nil {
			return err
		}
		s.root = root
		s.path = req.URL.RequestURI()
		return nil
	}
	return fmt.Errorf("%s %s: too many redirects", method, target)
}
