// Package reducer holds the cart and favorites state machines of the listing page.
//
// Both reducers are pure: they never mutate the state they are given and return
// the input unchanged for actions they do not recognise.
package reducer

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingItem is returned when a cart or favorite action names no item.
var ErrMissingItem = errors.New("action payload has no item")

// Action tags, as they appear on the wire.
const (
	TagAddItem        = "ADD_ITEM"
	TagRemoveItem     = "REMOVE_ITEM"
	TagToggleFavorite = "TOGGLE_FAVORITE"
)

// Action is any message that can be dispatched to a page.
type Action interface {
	Tag() string
}

// CartAction is an action understood by Cart.
type CartAction interface {
	Action
	cartAction()
}

// FavoriteAction is an action understood by Favorite.
type FavoriteAction interface {
	Action
	favoriteAction()
}

// AddItem appends an item to the cart.
type AddItem struct{ Item string }

// RemoveItem drops every cart line for an item.
type RemoveItem struct{ Item string }

// ToggleFavorite flips favorite membership of an item.
type ToggleFavorite struct{ Item string }

// Unknown carries a tag neither reducer handles. Both treat it as a no-op.
type Unknown struct{ Type string }

func (AddItem) Tag() string        { return TagAddItem }
func (RemoveItem) Tag() string     { return TagRemoveItem }
func (ToggleFavorite) Tag() string { return TagToggleFavorite }
func (u Unknown) Tag() string      { return u.Type }

func (AddItem) cartAction()            {}
func (RemoveItem) cartAction()         {}
func (ToggleFavorite) favoriteAction() {}
func (Unknown) cartAction()            {}
func (Unknown) favoriteAction()        {}

type envelope struct {
	Type    string `json:"type"`
	Payload struct {
		Item string `json:"item"`
	} `json:"payload"`
}

// DecodeAction parses `{"type": "...", "payload": {"item": "..."}}`.
// Unrecognised types decode to Unknown rather than failing; known types must
// carry a non-empty item.
func DecodeAction(data []byte) (Action, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode action: %w", err)
	}
	a := newAction(env)
	if _, unknown := a.(Unknown); !unknown && env.Payload.Item == "" {
		return nil, fmt.Errorf("decode %s: %w", env.Type, ErrMissingItem)
	}
	return a, nil
}

// MarshalAction is the inverse of DecodeAction.
func MarshalAction(a Action) ([]byte, error) {
	var env envelope
	env.Type = a.Tag()
	switch v := a.(type) {
	case AddItem:
		env.Payload.Item = v.Item
	case RemoveItem:
		env.Payload.Item = v.Item
	case ToggleFavorite:
		env.Payload.Item = v.Item
	}
	return json.Marshal(env)
}

func newAction(env envelope) Action {
	switch env.Type {
	case TagAddItem:
		return AddItem{Item: env.Payload.Item}
	case TagRemoveItem:
		return RemoveItem{Item: env.Payload.Item}
	case TagToggleFavorite:
		return ToggleFavorite{Item: env.Payload.Item}
	default:
		return Unknown{Type: env.Type}
	}
}
