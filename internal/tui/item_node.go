package tui

import (
	"strconv"
	"strings"

	"github.com/Birdy2014/einkaufszettel/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// itemAttrs is the entire externally observable state of an item node.
// Nothing else about a node influences how it renders.
type itemAttrs struct {
	ID       int
	Singular string
	Plural   string
	Category string
	Amount   int
	Done     bool
	Deleted  bool
}

func (a itemAttrs) record() model.Item {
	return model.Item{
		Singular: a.Singular,
		Plural:   a.Plural,
		Category: a.Category,
		Amount:   a.Amount,
		Done:     a.Done,
		Deleted:  a.Deleted,
	}
}

// itemNode is the live view node for one item id. Nodes are reused across
// renders for as long as their id stays visible, so transient interactive
// state pinned to a node (an open editor) survives concurrent edits by
// other users. apply updates attributes only; it never touches an open
// editor's field buffers, and it never triggers a write.
type itemNode struct {
	attrs  itemAttrs
	editor *itemEditor
}

func newItemNode(id int, it model.Item) *itemNode {
	n := &itemNode{}
	n.apply(id, it)
	return n
}

func (n *itemNode) apply(id int, it model.Item) {
	n.attrs = itemAttrs{
		ID:       id,
		Singular: it.Singular,
		Plural:   it.Plural,
		Category: it.Category,
		Amount:   it.Amount,
		Done:     it.Done,
		Deleted:  it.Deleted,
	}
}

func (n *itemNode) displayLine() string {
	rec := n.attrs.record()
	name := rec.DisplayName()
	if amount := rec.AmountText(); amount != "" {
		return amount + " " + name
	}
	return name
}

func (n *itemNode) render(width int, selected bool) string {
	line := " " + n.displayLine()
	line = padRight(line, width)

	st := lipgloss.NewStyle()
	if selected {
		st = styleSelected()
	}
	if n.attrs.Done {
		st = faintIfDark(st.Foreground(colorMuted))
	}
	return st.Render(line)
}

// itemEditor is the per-item edit surface, pre-populated from the node's
// attributes when opened. Confirmation writes all editable fields back as a
// batch; cancelling discards the buffers without touching the attributes.
type itemEditor struct {
	inputs [4]textinput.Model // singular, plural, amount, category
	focus  int
}

const (
	editSingular = iota
	editPlural
	editAmount
	editCategory
)

var editorLabels = [4]string{"Singular", "Plural", "Amount", "Category"}

func (n *itemNode) openEditor() {
	ed := &itemEditor{}
	values := [4]string{
		n.attrs.Singular,
		n.attrs.Plural,
		strconv.Itoa(n.attrs.Amount),
		n.attrs.Category,
	}
	for i := range ed.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.SetValue(values[i])
		ed.inputs[i] = in
	}
	ed.inputs[0].Focus()
	n.editor = ed
}

func (n *itemNode) closeEditor() {
	n.editor = nil
}

// submitEditor folds the edit buffers into the node's attributes and
// returns the resulting record. A non-numeric amount becomes 0, matching
// the wire format's "or 0" coercion.
func (n *itemNode) submitEditor() model.Item {
	ed := n.editor
	amount, err := strconv.Atoi(strings.TrimSpace(ed.inputs[editAmount].Value()))
	if err != nil {
		amount = 0
	}
	n.attrs.Singular = strings.TrimSpace(ed.inputs[editSingular].Value())
	n.attrs.Plural = strings.TrimSpace(ed.inputs[editPlural].Value())
	n.attrs.Amount = amount
	n.attrs.Category = strings.TrimSpace(ed.inputs[editCategory].Value())
	n.editor = nil
	return n.attrs.record()
}

func (ed *itemEditor) cycleFocus(back bool) {
	ed.inputs[ed.focus].Blur()
	if back {
		ed.focus = (ed.focus + len(ed.inputs) - 1) % len(ed.inputs)
	} else {
		ed.focus = (ed.focus + 1) % len(ed.inputs)
	}
	ed.inputs[ed.focus].Focus()
}

func (ed *itemEditor) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	ed.inputs[ed.focus], cmd = ed.inputs[ed.focus].Update(msg)
	return cmd
}

func (ed *itemEditor) view() string {
	var b strings.Builder
	for i, in := range ed.inputs {
		label := editorLabels[i]
		if i == ed.focus {
			b.WriteString(styleCategoryHeader().Render(label))
		} else {
			b.WriteString(styleMuted().Render(label))
		}
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styleMuted().Render("tab: next field   enter: save   esc: cancel   ctrl+d: delete item"))
	return b.String()
}
