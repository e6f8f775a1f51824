package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fitchpad/fitchpad-cli/pkg/editor"
)

const statusDuration = 3 * time.Second

const allowedVariablesUnsupported = "Allowed variables are not supported by the configured checker"

// StatusMsg shows a message in the status bar for a few seconds
type StatusMsg string

type clearStatusMsg struct {
	seq int
}

// StorageChangedMsg reports that another process rewrote a stored key
type StorageChangedMsg struct {
	Key string
}

// cursorFixMsg applies a pending cursor after the textarea took the new
// text. text is the buffer the cursor was computed for; once the buffer
// has moved on the fix is dropped.
type cursorFixMsg struct {
	uri     string
	text    string
	pending editor.PendingCursor
}

// disposeMsg runs the session's queued document disposals
type disposeMsg struct{}

func disposeCmd() tea.Msg {
	return disposeMsg{}
}

// ForwardStorageChanges delivers watcher signals to the program until the
// channel closes. Run it in its own goroutine with Program.Send.
func ForwardStorageChanges(send func(tea.Msg), changes <-chan string) {
	for key := range changes {
		send(StorageChangedMsg{Key: key})
	}
}
