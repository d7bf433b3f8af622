// Package prompt holds the interactive exit acknowledgment.
package prompt

import (
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/project-ambr/ambr/internal/pkg/logger"
)

// IsInteractive reports whether stdin is attached to a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Acknowledge blocks until the user confirms, keeping console output visible
// when the launcher was started from a file manager. It returns immediately
// when stdin is not a terminal.
func Acknowledge(title string) {
	if !IsInteractive() {
		return
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Affirmative("Exit").
			Negative(""),
	))
	if err := form.Run(); err != nil {
		logger.Infof("Exit prompt closed: %v\n", err, logger.VerbosityLevelDebug)
	}
}
