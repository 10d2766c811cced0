// Package notify is the user-facing notification sink for memctl.
//
// Components report outcomes through the Notifier interface instead of
// writing to a shared global, so tests and the TUI can substitute their
// own sink. A process-wide default is created once at startup and lives
// for the life of the process.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Notifier receives user-facing outcome messages. Implementations must
// be safe for concurrent use.
type Notifier interface {
	// Success reports a completed operation.
	Success(format string, args ...interface{})

	// Info reports a neutral outcome, such as a cancelled bulk run.
	Info(format string, args ...interface{})

	// Warn reports a recoverable problem.
	Warn(format string, args ...interface{})

	// Error reports a failed operation.
	Error(format string, args ...interface{})
}

// Console styles.
var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))  //nolint:gochecknoglobals // Style constants.
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))  //nolint:gochecknoglobals // Style constants.
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")) //nolint:gochecknoglobals // Style constants.
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")) //nolint:gochecknoglobals // Style constants.
)

// Console writes styled notifications to a writer, one per line.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsole creates a Console notifier writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) write(style lipgloss.Style, prefix, format string, args []interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(c.out, style.Render(prefix)+" "+msg)
}

// Success implements Notifier.
func (c *Console) Success(format string, args ...interface{}) {
	c.write(successStyle, "✓", format, args)
}

// Info implements Notifier.
func (c *Console) Info(format string, args ...interface{}) {
	c.write(infoStyle, "•", format, args)
}

// Warn implements Notifier.
func (c *Console) Warn(format string, args ...interface{}) {
	c.write(warnStyle, "!", format, args)
}

// Error implements Notifier.
func (c *Console) Error(format string, args ...interface{}) {
	c.write(errorStyle, "✗", format, args)
}

// Discard is a Notifier that drops everything. Useful in tests.
type Discard struct{}

// Success implements Notifier.
func (Discard) Success(string, ...interface{}) {}

// Info implements Notifier.
func (Discard) Info(string, ...interface{}) {}

// Warn implements Notifier.
func (Discard) Warn(string, ...interface{}) {}

// Error implements Notifier.
func (Discard) Error(string, ...interface{}) {}
