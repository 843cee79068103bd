package tui

import (
	"context"

	"github.com/Birdy2014/einkaufszettel/internal/api"
	"github.com/Birdy2014/einkaufszettel/internal/model"
	"github.com/Birdy2014/einkaufszettel/internal/view"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func newModalInput(placeholder string) textinput.Model {
	in := textinput.New()
	in.Prompt = "> "
	in.Placeholder = placeholder
	in.Focus()
	return in
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.selector.SetSize(msg.Width, msg.Height-2)
		return m, nil

	case pollEventMsg:
		if msg.session != m.pollSession || m.events == nil {
			// Left over from a poll session that was torn down; a stale
			// snapshot must never become the current list's state.
			return m, nil
		}
		return m.handlePollEvent(msg.event)

	case listsMsg:
		m.selectorInit = true
		m.selectorErr = msg.err
		if msg.err == nil {
			m.setSelectorEntries(msg.lists)
		}
		return m, nil

	case itemCreatedMsg:
		if msg.err == nil {
			// The item arrives with the next snapshot; open its editor then.
			m.pendingEditID = msg.id
		}
		return m, nil

	case listCreatedMsg:
		if msg.err != nil {
			m.selectorErr = msg.err
			return m, nil
		}
		return m.openList(msg.id)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m appModel) handlePollEvent(ev api.Event) (tea.Model, tea.Cmd) {
	if ev.Err != nil {
		m.showError = true
		return m, m.waitForPollEvent()
	}

	// The server is authoritative; the snapshot replaces the previous one
	// wholesale even when its generation did not advance.
	m.snapshot = *ev.Snapshot
	m.listName = m.snapshot.Name
	m.haveList = true
	m.showError = false

	if m.snapshot.Deleted {
		// Somebody deleted the list under us; back to the selector.
		m.stopPolling()
		m.view = viewSelector
		m.modal = modalNone
		return m, m.fetchLists()
	}

	m.rebuild()
	return m, m.waitForPollEvent()
}

// rebuild recomputes the projection from the held snapshot and the live
// search filter and reconciles it onto the view tree. Runs synchronously;
// no partially applied render is ever observable.
func (m *appModel) rebuild() {
	p := view.Build(m.snapshot, m.search.Value())
	m.tree.reconcile(p)

	if m.editingID >= 0 && m.tree.node(m.editingID) == nil {
		// The edited item vanished from the snapshot (deleted or filtered
		// out); its node is gone and the editor dies with it.
		m.editingID = -1
		m.modal = modalNone
	}
	if m.pendingEditID >= 0 {
		if n := m.tree.node(m.pendingEditID); n != nil {
			m.openItemEditor(m.pendingEditID, n)
			m.pendingEditID = -1
		}
	}

	m.clampCursor()
}

// clampCursor keeps the cursor on the item it followed if that item is
// still visible, otherwise moves it to the nearest visible item.
func (m *appModel) clampCursor() {
	idx := m.tree.itemRowIndexes()
	if len(idx) == 0 {
		m.selectedID = -1
		return
	}
	for _, i := range idx {
		if m.tree.rows[i].node.attrs.ID == m.selectedID {
			return
		}
	}
	m.selectedID = m.tree.rows[idx[0]].node.attrs.ID
}

func (m *appModel) selectedNode() *itemNode {
	if m.selectedID < 0 {
		return nil
	}
	return m.tree.node(m.selectedID)
}

func (m *appModel) moveCursor(delta int) {
	idx := m.tree.itemRowIndexes()
	if len(idx) == 0 {
		return
	}
	pos := 0
	if m.selectedID >= 0 {
		for i, ri := range idx {
			if m.tree.rows[ri].node.attrs.ID == m.selectedID {
				pos = i + delta
				break
			}
		}
	}
	if pos < 0 {
		pos = 0
	}
	if pos >= len(idx) {
		pos = len(idx) - 1
	}
	m.selectedID = m.tree.rows[idx[pos]].node.attrs.ID
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.statusMsg = ""

	if msg.Type == tea.KeyCtrlC {
		m.stopPolling()
		return m, tea.Quit
	}

	if m.modal != modalNone {
		return m.handleModalKey(msg)
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch m.view {
	case viewSelector:
		return m.handleSelectorKey(msg)
	case viewList:
		return m.handleListKey(msg)
	}
	return m, nil
}

func (m appModel) handleSelectorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		if m.selector.FilterState() == list.Unfiltered {
			return m, tea.Quit
		}
	case "enter":
		if e, ok := m.selector.SelectedItem().(selectorEntry); ok {
			return m.openList(e.id)
		}
		return m, nil
	case "n":
		m.modal = modalNewList
		m.input = newModalInput("name")
		return m, nil
	}

	var cmd tea.Cmd
	m.selector, cmd = m.selector.Update(msg)
	return m, cmd
}

func (m appModel) openList(id int) (tea.Model, tea.Cmd) {
	m.stopPolling()
	m.view = viewList
	m.modal = modalNone
	m.listID = id
	m.snapshot = model.List{}
	return m, m.startPolling()
}

func (m appModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.stopPolling()
		return m, tea.Quit

	case "esc", "b":
		if m.search.Value() != "" && msg.String() == "esc" {
			m.search.SetValue("")
			m.rebuild()
			return m, nil
		}
		m.stopPolling()
		m.view = viewSelector
		return m, m.fetchLists()

	case "up", "k":
		m.moveCursor(-1)
		return m, nil

	case "down", "j":
		m.moveCursor(1)
		return m, nil

	case "enter", " ":
		m.toggleDone()
		return m, nil

	case "e":
		if n := m.selectedNode(); n != nil {
			m.openItemEditor(m.selectedID, n)
		}
		return m, nil

	case "a":
		return m, m.createItem()

	case "d":
		m.deleteItem(m.selectedID)
		return m, nil

	case "c":
		if n := m.selectedNode(); n != nil {
			m.modal = modalRenameCategory
			m.renameOldLabel = n.attrs.Category
			m.input = newModalInput("category")
			m.input.SetValue(n.attrs.Category)
		}
		return m, nil

	case "R":
		m.modal = modalRenameList
		m.input = newModalInput("name")
		m.input.SetValue(m.snapshot.Name)
		return m, nil

	case "D":
		m.modal = modalDeleteList
		return m, nil

	case "/":
		m.searching = true
		return m, m.search.Focus()

	case "y":
		if n := m.selectedNode(); n != nil {
			if err := clipboard.WriteAll(n.displayLine()); err == nil {
				m.statusMsg = "copied"
			}
		}
		return m, nil
	}
	return m, nil
}

func (m appModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "ctrl+u":
		m.search.SetValue("")
		m.rebuild()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	// The filter applies live on every keystroke; no network involved.
	m.rebuild()
	return m, cmd
}

func (m appModel) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalItemEdit:
		return m.handleItemEditKey(msg)

	case modalNewList:
		switch msg.String() {
		case "esc":
			m.modal = modalNone
			return m, nil
		case "enter":
			name := m.input.Value()
			m.modal = modalNone
			client := m.client
			return m, func() tea.Msg {
				id, err := client.CreateList(context.Background(), name)
				return listCreatedMsg{id: id, err: err}
			}
		}

	case modalRenameList:
		switch msg.String() {
		case "esc":
			m.modal = modalNone
			return m, nil
		case "enter":
			m.renameList(m.input.Value())
			m.modal = modalNone
			return m, nil
		}

	case modalDeleteList:
		switch msg.String() {
		case "y", "enter":
			m.deleteList()
			m.modal = modalNone
			m.stopPolling()
			m.view = viewSelector
			return m, m.fetchLists()
		case "n", "esc":
			m.modal = modalNone
			return m, nil
		}
		return m, nil

	case modalRenameCategory:
		switch msg.String() {
		case "esc":
			m.modal = modalNone
			return m, nil
		case "enter":
			m.renameCategory(m.renameOldLabel, m.input.Value())
			m.modal = modalNone
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) handleItemEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := m.tree.node(m.editingID)
	if n == nil || n.editor == nil {
		m.modal = modalNone
		m.editingID = -1
		return m, nil
	}

	switch msg.String() {
	case "esc":
		// Cancel must leave the record exactly as last confirmed: the
		// buffers are discarded, no partial write happens.
		n.closeEditor()
		m.modal = modalNone
		m.editingID = -1
		return m, nil

	case "enter":
		rec := n.submitEditor()
		m.modal = modalNone
		m.editingID = -1
		m.writeItem(n.attrs.ID, rec)
		return m, nil

	case "tab":
		n.editor.cycleFocus(false)
		return m, nil

	case "shift+tab":
		n.editor.cycleFocus(true)
		return m, nil

	case "ctrl+d":
		n.closeEditor()
		m.modal = modalNone
		m.editingID = -1
		m.deleteItem(n.attrs.ID)
		return m, nil
	}

	return m, n.editor.update(msg)
}

func (m *appModel) openItemEditor(id int, n *itemNode) {
	n.openEditor()
	m.selectedID = id
	m.editingID = id
	m.modal = modalItemEdit
}

// Edit coordinator: every user-initiated transition mutates the live node's
// attributes first (optimistic, zero latency) and then fires the write.
// Responses are never reconciled here; the next poll is the sole mechanism
// that confirms or corrects the optimistic state.

func (m *appModel) toggleDone() {
	n := m.selectedNode()
	if n == nil {
		return
	}
	n.attrs.Done = !n.attrs.Done
	m.writeItem(n.attrs.ID, n.attrs.record())
}

func (m *appModel) deleteItem(id int) {
	n := m.tree.node(id)
	if n == nil {
		return
	}
	n.attrs.Deleted = true
	m.writeItem(id, n.attrs.record())
}

func (m *appModel) createItem() tea.Cmd {
	client, listID := m.client, m.listID
	return func() tea.Msg {
		id, err := client.CreateItem(context.Background(), listID)
		return itemCreatedMsg{id: id, err: err}
	}
}

func (m *appModel) writeItem(id int, rec model.Item) {
	client, listID := m.client, m.listID
	api.FireAndForget("put item", func(ctx context.Context) error {
		return client.PutItem(ctx, listID, id, rec)
	})
}

func (m *appModel) renameList(name string) {
	// Optimistic for the title display only; the cached snapshot itself is
	// never touched by a write.
	m.listName = name
	client, listID := m.client, m.listID
	api.FireAndForget("put list", func(ctx context.Context) error {
		return client.PutList(ctx, listID, name, false)
	})
}

func (m *appModel) deleteList() {
	client, listID := m.client, m.listID
	name := m.snapshot.Name
	api.FireAndForget("delete list", func(ctx context.Context) error {
		return client.PutList(ctx, listID, name, true)
	})
}

func (m *appModel) renameCategory(oldName, newName string) {
	for _, n := range m.tree.nodes {
		if n.attrs.Category == oldName {
			n.attrs.Category = newName
		}
	}
	client, listID := m.client, m.listID
	api.FireAndForget("rename category", func(ctx context.Context) error {
		return client.RenameCategory(ctx, listID, oldName, newName)
	})
}
