package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	switch m.view {
	case viewSelector:
		return m.viewSelector()
	case viewList:
		return m.viewList()
	}
	return ""
}

func (m appModel) viewSelector() string {
	if m.modal == modalNewList {
		body := m.input.View() + "\n\n" + styleMuted().Render("enter: create   esc: cancel")
		return placeCentered(m.width, m.height, renderModalBox(m.width, "New list", body))
	}

	var b strings.Builder
	if !m.selectorInit {
		b.WriteString(styleMuted().Render("Loading lists…"))
		b.WriteString("\n")
	} else if m.selectorErr != nil {
		b.WriteString(styleErrorBanner().Render("Failed to reach server: " + m.selectorErr.Error()))
		b.WriteString("\n")
	}
	b.WriteString(m.selector.View())
	b.WriteString("\n")
	b.WriteString(styleMuted().Render("enter: open   n: new list   q: quit"))
	return b.String()
}

func (m appModel) viewList() string {
	if m.modal != modalNone {
		return m.viewModal()
	}

	var b strings.Builder

	title := m.listName
	if title == "" {
		title = "…"
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(truncate(title, m.width)))
	b.WriteString("\n")

	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}

	if m.showError {
		b.WriteString(styleErrorBanner().Render("Server unreachable, retrying…"))
		b.WriteString("\n")
	}

	if !m.haveList {
		b.WriteString(styleMuted().Render("Loading…"))
		return b.String()
	}

	b.WriteString(m.renderRows())
	b.WriteString("\n")

	help := "space: toggle   e: edit   a: add   d: delete   c: category   /: search   b: lists   q: quit"
	if m.statusMsg != "" {
		help = m.statusMsg
	}
	b.WriteString(styleMuted().Render(truncate(help, m.width)))
	return b.String()
}

// renderRows draws the reconciled row list, scrolled so the cursor stays
// visible.
func (m appModel) renderRows() string {
	rows := m.tree.rows
	if len(rows) == 0 {
		return styleMuted().Render("Nothing here yet. Press a to add an item.")
	}

	avail := m.height - 5
	if avail < 3 {
		avail = 3
	}

	cursorRow := -1
	for i, r := range rows {
		if r.kind == rowItem && r.node.attrs.ID == m.selectedID {
			cursorRow = i
			break
		}
	}

	start := 0
	if cursorRow >= 0 && cursorRow >= avail {
		start = cursorRow - avail + 1
	}
	end := start + avail
	if end > len(rows) {
		end = len(rows)
	}

	var lines []string
	for i := start; i < end; i++ {
		r := rows[i]
		switch r.kind {
		case rowSectionHeader:
			st := lipgloss.NewStyle().Bold(true)
			if r.done {
				st = faintIfDark(st.Foreground(colorMuted))
			}
			lines = append(lines, st.Render(r.label))
		case rowGroupHeader:
			lines = append(lines, styleCategoryHeader().Render(" "+r.label))
		case rowItem:
			selected := r.node.attrs.ID == m.selectedID
			lines = append(lines, "  "+r.node.render(m.width-2, selected))
		}
	}
	return strings.Join(lines, "\n")
}

func (m appModel) viewModal() string {
	var title, body string

	switch m.modal {
	case modalItemEdit:
		n := m.tree.node(m.editingID)
		if n == nil || n.editor == nil {
			return m.viewListWithoutModal()
		}
		title = "Edit item"
		body = n.editor.view()

	case modalRenameList:
		title = "Rename list"
		body = m.input.View() + "\n\n" + styleMuted().Render("enter: save   esc: cancel")

	case modalDeleteList:
		title = "Delete list"
		body = "Delete \"" + m.listName + "\"?\n\n" + styleMuted().Render("y: delete   n: cancel")

	case modalRenameCategory:
		title = "Rename category: " + groupLabel(m.renameOldLabel)
		body = m.input.View() + "\n\n" + styleMuted().Render("enter: rename   esc: cancel")
	}

	return placeCentered(m.width, m.height, renderModalBox(m.width, title, body))
}

// viewListWithoutModal exists for the edge where the modal's target node
// died between Update and View.
func (m appModel) viewListWithoutModal() string {
	m.modal = modalNone
	return m.viewList()
}
