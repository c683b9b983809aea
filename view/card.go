package view

import (
	"fmt"

	models "item-listing/model"
	"item-listing/reducer"
)

// ItemCard is one item as rendered inside a collection. It owns no state: the
// favorite flag is handed down by the page and mutations go through the two
// dispatch functions.
type ItemCard struct {
	Collection int
	Index      int
	Item       models.Item
	IsFavorite bool

	dispatchCart     func(reducer.CartAction)
	dispatchFavorite func(reducer.FavoriteAction)
}

// AddToCart dispatches ADD_ITEM unless the item is sold out. The check lives
// here and not only in the markup, so a submitted click on a disabled-looking
// control still cannot add the item. It reports whether anything was dispatched.
func (c ItemCard) AddToCart() bool {
	if c.Item.IsSoldOut {
		return false
	}
	c.dispatchCart(reducer.AddItem{Item: c.Item.Name})
	return true
}

// ToggleFavorite dispatches TOGGLE_FAVORITE.
func (c ItemCard) ToggleFavorite() {
	c.dispatchFavorite(reducer.ToggleFavorite{Item: c.Item.Name})
}

func (c ItemCard) id(part string) string {
	return fmt.Sprintf("c%d-i%d-%s", c.Collection, c.Index, part)
}

// Element ids used for aria-labelledby / aria-describedby.
func (c ItemCard) NameID() string   { return c.id("name") }
func (c ItemCard) StatusID() string { return c.id("status") }
func (c ItemCard) PriceID() string  { return c.id("price") }

// DescribedBy always names the status element; it only exists when sold out.
func (c ItemCard) DescribedBy() string { return c.StatusID() + " " + c.PriceID() }

func (c ItemCard) Price() string     { return FormatPrice(c.Item.Price) }
func (c ItemCard) DateISO() string   { return ISODate(c.Item.UpdatedAt) }
func (c ItemCard) DateHuman() string { return FormatDate(c.Item.UpdatedAt) }
