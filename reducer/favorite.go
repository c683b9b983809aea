package reducer

import "slices"

// FavoriteState is the set of favorite item names, in the order they were marked.
type FavoriteState []string

// Has reports whether item is a favorite.
func (s FavoriteState) Has(item string) bool { return slices.Contains(s, item) }

// Favorite applies a FavoriteAction. Toggling is the only mutation; there is no
// way to force an item on or off.
func Favorite(state FavoriteState, action FavoriteAction) FavoriteState {
	switch a := action.(type) {
	case ToggleFavorite:
		if state.Has(a.Item) {
			return without(state, a.Item)
		}
		next := make(FavoriteState, 0, len(state)+1)
		next = append(next, state...)
		return append(next, a.Item)
	default:
		return state
	}
}
