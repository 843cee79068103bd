package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// truncate cuts s to at most width columns (ANSI-aware), appending an
// ellipsis when something was dropped.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if xansi.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return xansi.Cut(s, 0, 1)
	}
	return xansi.Cut(s, 0, width-1) + "…"
}

// padRight forces s to exactly width columns.
func padRight(s string, width int) string {
	s = truncate(s, width)
	if w := xansi.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

func modalBodyWidth(width int) int {
	w := width - 10
	if w > 60 {
		w = 60
	}
	if w < 20 {
		w = 20
	}
	return w
}

// renderModalBox draws a titled modal surface. No borders: some terminals
// show background artifacts when nesting bordered components inside a modal
// with a background color.
func renderModalBox(width int, title string, content string) string {
	bodyW := modalBodyWidth(width)

	header := lipgloss.NewStyle().
		Background(colorControlBg).
		Foreground(colorSurfaceFg).
		Bold(true).
		Width(bodyW + 2).
		Padding(0, 1).
		Render(truncate(title, bodyW))

	body := lipgloss.NewStyle().
		Foreground(colorSurfaceFg).
		Width(bodyW + 2).
		Padding(0, 1).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

// placeCentered centers a modal within the full screen area.
func placeCentered(width, height int, modal string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
}
