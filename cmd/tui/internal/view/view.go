package view

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const dbTimeout = 5 * time.Second

// View is a screen reachable from the main menu.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// BackMsg asks the main model to return to the menu.
type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
