// Package tui is the interactive client: the list selector and the list
// view with its poll loop, reconciler and item editors.
package tui

import (
	"io"
	"log/slog"
	"os"

	"github.com/Birdy2014/einkaufszettel/internal/api"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the TUI against client. A listID > 0 skips the selector.
// debugLog, when non-empty, receives slog output; otherwise logging is
// discarded so it cannot scribble over the alternate screen.
func Run(client *api.Client, listID int, debugLog string) error {
	logSink := io.Discard
	if debugLog != "" {
		f, err := os.OpenFile(debugLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logSink = f
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logSink, nil)))

	applyColorProfilePreference()

	m := newAppModel(client, listID)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
