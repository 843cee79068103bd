package tui

import (
	"github.com/Birdy2014/einkaufszettel/internal/api"
	"github.com/Birdy2014/einkaufszettel/internal/model"
)

type appView int

const (
	viewSelector appView = iota
	viewList
)

type modalKind int

const (
	modalNone modalKind = iota
	modalItemEdit
	modalNewList
	modalRenameList
	modalDeleteList
	modalRenameCategory
)

// pollEventMsg delivers one poll-loop outcome (snapshot or failure).
// session identifies the poll session that produced the event; an event
// from a torn-down session must never reach the current list's state.
type pollEventMsg struct {
	session int
	event   api.Event
}

// listsMsg delivers the list-selector data.
type listsMsg struct {
	lists map[int]model.ListInfo
	err   error
}

// itemCreatedMsg reports the id of a freshly created item. The item itself
// arrives with the next snapshot; the id lets the view open its editor then.
type itemCreatedMsg struct {
	id  int
	err error
}

// listCreatedMsg reports the id of a freshly created list.
type listCreatedMsg struct {
	id  int
	err error
}
