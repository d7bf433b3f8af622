package spinner

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/yarlson/pin"
)

var hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFFF"))

// Spinner shows progress for one short-lived check.
type Spinner struct {
	pin    *pin.Pin
	cancel context.CancelFunc
}

func New(message string) *Spinner {
	return &Spinner{
		pin: pin.New(message,
			pin.WithSpinnerColor(pin.ColorCyan),
		),
	}
}

func (s *Spinner) Start(ctx context.Context) {
	s.cancel = s.pin.Start(ctx)
}

// Stop ends the spinner with a success message.
func (s *Spinner) Stop(message string) {
	s.pin.Stop(message)
	s.release()
}

// Fail ends the spinner with a failure message.
func (s *Spinner) Fail(message string) {
	s.pin.Fail(message)
	s.release()
}

// StopWithHint fails the spinner and prints a remediation hint underneath.
func (s *Spinner) StopWithHint(message, hint string) {
	s.Fail(message)
	if hint != "" {
		fmt.Println(hintStyle.Render("  hint: " + hint))
	}
}

func (s *Spinner) release() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
