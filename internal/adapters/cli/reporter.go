package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// ConsoleReporter prints run progress as coloured lines.
// It is safe for concurrent use; reservation workers report from their own goroutines.
type ConsoleReporter struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleReporter creates a reporter writing to out
func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: out}
}

func (r *ConsoleReporter) Info(msg string) {
	r.print(infoStyle, "›", msg)
}

func (r *ConsoleReporter) Success(msg string) {
	r.print(successStyle, "✓", msg)
}

func (r *ConsoleReporter) Warn(msg string) {
	r.print(warnStyle, "!", msg)
}

func (r *ConsoleReporter) Failure(msg string) {
	r.print(failureStyle, "✗", msg)
}

func (r *ConsoleReporter) print(style lipgloss.Style, icon, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "%s %s\n", style.Render(icon), style.Render(msg))
}

// Detail prints a dimmed secondary line, e.g. a field of the final summary
func (r *ConsoleReporter) Detail(label, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "  %s %s\n", faintStyle.Render(label+":"), value)
}
