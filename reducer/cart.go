package reducer

// CartState is one entry per add action. The same name may appear more than once.
type CartState []string

// Len is the number of cart lines.
func (s CartState) Len() int { return len(s) }

// Cart applies a CartAction.
func Cart(state CartState, action CartAction) CartState {
	switch a := action.(type) {
	case AddItem:
		next := make(CartState, 0, len(state)+1)
		next = append(next, state...)
		return append(next, a.Item)
	case RemoveItem:
		return without(state, a.Item)
	default:
		return state
	}
}

func without[S ~[]string](state S, item string) S {
	next := make(S, 0, len(state))
	for _, it := range state {
		if it != item {
			next = append(next, it)
		}
	}
	return next
}
