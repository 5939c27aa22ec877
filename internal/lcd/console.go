package lcd

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var frameStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("63")).
	Foreground(lipgloss.Color("120")).
	Width(Columns)

// Frame renders two display lines inside a rounded box.
func Frame(line1, line2 string) string {
	return frameStyle.Render(string(glyphs(line1)) + "\n" + string(glyphs(line2)))
}

// Console writes each frame to w as a boxed 16x2 panel.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole creates a Console screen writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Show renders the frame.
func (c *Console) Show(line1, line2 string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintln(c.w, Frame(line1, line2)); err != nil {
		return fmt.Errorf("console screen: %w", err)
	}
	return nil
}
