package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"stampcard/internal/appstate"
	"stampcard/internal/assets"
	"stampcard/internal/engine"
	"stampcard/internal/storage"
)

// Context carries the shared services into command Run methods. All of
// them are constructed once in main and injected here.
type Context struct {
	Store  storage.Provider
	Engine *engine.Service
	State  *appstate.Store
	Player assets.VoicePlayer
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
	streakStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// UserError turns a mutation failure into the message shown to the user.
// Transaction failures are transient and invite a retry; storage
// unavailability is structural and does not. Not-found is checked before
// the transaction case: a missing record surfacing through a rolled-back
// transaction is a lookup failure, not a transient one.
func UserError(err error) string {
	switch {
	case errors.Is(err, storage.ErrStorageUnavailable):
		return errStyle.Render("Storage is unavailable. Your data could not be opened; check the database path and restart.")
	case errors.Is(err, storage.ErrNotFound):
		return errStyle.Render(fmt.Sprintf("Not found: %v", err))
	case errors.Is(err, storage.ErrTransactionFailed):
		return errStyle.Render(fmt.Sprintf("The write did not go through (%v). No changes were saved; please try again.", err))
	default:
		return errStyle.Render(fmt.Sprintf("Error: %v", err))
	}
}
