package model

import "strconv"

// Item is one shopping-list entry as stored by the server.
//
// Deleted items are tombstones: the server keeps them (and may reuse their
// ids for new items) but no client view ever shows them.
type Item struct {
	Singular string `json:"singular"`
	Plural   string `json:"plural"`
	Category string `json:"category"`
	Amount   int    `json:"amount"`
	Done     bool   `json:"done"`
	Deleted  bool   `json:"deleted"`
}

// DisplayName picks the name shown for the item: singular for exactly one,
// plural otherwise, falling back to whichever field is non-empty.
func (it Item) DisplayName() string {
	if it.Amount == 1 {
		if it.Singular != "" {
			return it.Singular
		}
		return it.Plural
	}
	if it.Plural != "" {
		return it.Plural
	}
	return it.Singular
}

// AmountText is the amount column as rendered next to the name.
// Non-positive amounts render as nothing rather than "0".
func (it Item) AmountText() string {
	if it.Amount <= 0 {
		return ""
	}
	return strconv.Itoa(it.Amount)
}

// List is a full snapshot of one shopping list.
//
// The server stamps every mutating write with a new generation; a snapshot is
// immutable once fetched and is superseded wholesale by the next poll
// response, never merged field by field. Items are keyed by their
// server-assigned id.
type List struct {
	Generation int          `json:"generation"`
	Name       string       `json:"name"`
	Deleted    bool         `json:"deleted"`
	Items      map[int]Item `json:"items"`
}

// ListInfo is the list-selector view of a list: everything but the items.
type ListInfo struct {
	Name    string `json:"name"`
	Deleted bool   `json:"deleted"`
}
