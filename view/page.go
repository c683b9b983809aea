// Package view renders the item-listing page in its accessible ("good") and
// inaccessible ("bad") variants.
package view

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"slices"

	models "item-listing/model"
	"item-listing/reducer"
)

var (
	ErrUnknownVariant = errors.New("unknown variant")
	ErrUnknownControl = errors.New("unknown control")
)

// Variant selects the markup contract.
type Variant string

const (
	Good Variant = "good"
	Bad  Variant = "bad"
)

func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case Good, Bad:
		return Variant(s), nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownVariant)
}

// ControlKind is one of the two controls on an item card.
type ControlKind string

const (
	AddToCart      ControlKind = "add-to-cart"
	FavoriteToggle ControlKind = "favorite"
)

// Control identifies a control instance: the same item listed in two
// collections has two distinct controls.
type Control struct {
	Collection int
	Item       string
	Kind       ControlKind
}

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Page owns the cart and favorites state for one mounted view. It is not safe
// for concurrent use; callers serialise access.
type Page struct {
	variant     Variant
	collections []models.Collection
	cart        reducer.CartState
	favorites   reducer.FavoriteState
}

// NewPage mounts a page with empty cart and favorites.
func NewPage(variant Variant, collections []models.Collection) *Page {
	return &Page{variant: variant, collections: collections}
}

func (p *Page) Variant() Variant                  { return p.variant }
func (p *Page) Collections() []models.Collection  { return p.collections }
func (p *Page) Cart() reducer.CartState           { return slices.Clone(p.cart) }
func (p *Page) Favorites() reducer.FavoriteState  { return slices.Clone(p.favorites) }
func (p *Page) DispatchCart(a reducer.CartAction) { p.cart = reducer.Cart(p.cart, a) }
func (p *Page) DispatchFavorite(a reducer.FavoriteAction) {
	p.favorites = reducer.Favorite(p.favorites, a)
}

// Dispatch routes an action to the reducer that understands it. Actions
// neither reducer knows leave the page unchanged.
func (p *Page) Dispatch(a reducer.Action) {
	switch v := a.(type) {
	case reducer.Unknown:
	case reducer.CartAction:
		p.DispatchCart(v)
	case reducer.FavoriteAction:
		p.DispatchFavorite(v)
	}
}

// Cards derives one card per item occurrence from the current state. Favorite
// status is looked up by name, so every occurrence of an item agrees.
func (p *Page) Cards() [][]ItemCard {
	out := make([][]ItemCard, len(p.collections))
	for ci, c := range p.collections {
		cards := make([]ItemCard, len(c.Items))
		for ii, it := range c.Items {
			cards[ii] = ItemCard{
				Collection:       ci,
				Index:            ii,
				Item:             it,
				IsFavorite:       p.favorites.Has(it.Name),
				dispatchCart:     p.DispatchCart,
				dispatchFavorite: p.DispatchFavorite,
			}
		}
		out[ci] = cards
	}
	return out
}

// Card finds the card a control belongs to.
func (p *Page) Card(collection int, item string) (ItemCard, error) {
	cards := p.Cards()
	if collection < 0 || collection >= len(cards) {
		return ItemCard{}, fmt.Errorf("collection %d: %w", collection, ErrUnknownControl)
	}
	for _, c := range cards[collection] {
		if c.Item.Name == item {
			return c, nil
		}
	}
	return ItemCard{}, fmt.Errorf("item %q in collection %d: %w", item, collection, ErrUnknownControl)
}

// Click activates a card control. It reports whether an action was dispatched:
// add-to-cart on a sold-out item is swallowed by the card.
func (p *Page) Click(ctl Control) (bool, error) {
	card, err := p.Card(ctl.Collection, ctl.Item)
	if err != nil {
		return false, err
	}
	switch ctl.Kind {
	case AddToCart:
		return card.AddToCart(), nil
	case FavoriteToggle:
		card.ToggleFavorite()
		return true, nil
	}
	return false, fmt.Errorf("kind %q: %w", ctl.Kind, ErrUnknownControl)
}

// Links are the URLs the rendered page posts to.
type Links struct {
	Click string
}

type section struct {
	Index int
	Name  string
	Cards []ItemCard
}

func (s section) HeadingID() string { return fmt.Sprintf("c%d-heading", s.Index) }

type pageData struct {
	Sections  []section
	CartCount int
	Links     Links
}

// Render writes the full HTML document for the page's variant.
func (p *Page) Render(w io.Writer, links Links) error {
	cards := p.Cards()
	data := pageData{CartCount: p.cart.Len(), Links: links}
	for i, c := range p.collections {
		data.Sections = append(data.Sections, section{Index: i, Name: c.Name, Cards: cards[i]})
	}
	return templates.ExecuteTemplate(w, string(p.variant)+".html", data)
}
