package tui

import (
	"context"
	"sort"
	"strconv"

	"github.com/Birdy2014/einkaufszettel/internal/api"
	"github.com/Birdy2014/einkaufszettel/internal/model"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type appModel struct {
	client *api.Client

	width  int
	height int

	view  appView
	modal modalKind

	// List selector.
	selector     list.Model
	selectorErr  error
	selectorInit bool

	// Open list session. The poll loop is the sole writer of snapshot; it
	// runs until pollCancel fires on teardown or when switching lists.
	// pollSession counts sessions so an event buffered by an old poller
	// cannot be installed after the user left or switched lists.
	listID      int
	snapshot    model.List
	listName    string // title display; updated optimistically on rename
	haveList    bool
	events      chan api.Event
	pollSession int
	pollCancel  context.CancelFunc

	// Live view tree and cursor.
	tree       *tree
	selectedID int // item id the cursor follows across renders; -1 when none

	// Search filter; applied live, never sent to the server.
	search    textinput.Model
	searching bool

	// Item editor state is pinned to the node (see itemNode); editingID
	// only records which node currently owns the modal.
	editingID     int
	pendingEditID int

	// Shared input for the list/category modals.
	input          textinput.Model
	renameOldLabel string // category being renamed (original name)

	showError bool
	statusMsg string
}

type selectorEntry struct {
	id   int
	info model.ListInfo
}

func (e selectorEntry) FilterValue() string { return e.info.Name }
func (e selectorEntry) Title() string       { return e.info.Name }
func (e selectorEntry) Description() string { return "list " + strconv.Itoa(e.id) }

func newAppModel(client *api.Client, listID int) appModel {
	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "search"

	m := appModel{
		client:        client,
		view:          viewSelector,
		selector:      newSelectorList(),
		tree:          newTree(),
		selectedID:    -1,
		editingID:     -1,
		pendingEditID: -1,
		search:        search,
	}
	if listID > 0 {
		m.view = viewList
		m.listID = listID
	}
	return m
}

func newSelectorList() list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Einkaufszettel"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("list", "lists")
	// Bubble list defaults to quitting on ESC; here ESC is "back/cancel".
	l.KeyMap.Quit.SetKeys("q")
	return l
}

func (m appModel) Init() tea.Cmd {
	if m.view == viewList {
		return m.startPolling()
	}
	return m.fetchLists()
}

func (m *appModel) fetchLists() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		lists, err := client.Lists(context.Background())
		return listsMsg{lists: lists, err: err}
	}
}

// startPolling spins up the poll loop for the current list. Exactly one
// request is in flight at a time; the loop is torn down via pollCancel.
func (m *appModel) startPolling() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.pollCancel = cancel
	m.pollSession++
	m.events = make(chan api.Event, 1)

	poller := api.NewPoller(m.client, m.listID)
	events := m.events
	go func() {
		poller.Run(ctx, events)
		// Run is the sole sender; closing unblocks a reader the model has
		// already abandoned.
		close(events)
	}()

	return m.waitForPollEvent()
}

func (m *appModel) stopPolling() {
	if m.pollCancel != nil {
		m.pollCancel()
		m.pollCancel = nil
	}
	m.events = nil
	m.haveList = false
	m.showError = false
	m.tree = newTree()
	m.selectedID = -1
	m.editingID = -1
	m.pendingEditID = -1
}

func (m *appModel) waitForPollEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	session, events := m.pollSession, m.events
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return pollEventMsg{session: session, event: ev}
	}
}

func (m *appModel) setSelectorEntries(lists map[int]model.ListInfo) {
	ids := make([]int, 0, len(lists))
	for id, info := range lists {
		if info.Deleted {
			continue
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)

	entries := make([]list.Item, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, selectorEntry{id: id, info: lists[id]})
	}
	m.selector.SetItems(entries)
}
