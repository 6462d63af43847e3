package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// Console writes user-facing progress and errors. On a terminal the status
// line is rewritten in place; on a pipe every update is a plain line.
type Console struct {
	out      io.Writer
	errOut   io.Writer
	tty      bool
	renderer *lipgloss.Renderer
	active   bool
}

// NewConsole builds a Console for stderr. Progress goes to stderr so the
// generated message on stdout stays clean for piping.
func NewConsole() *Console {
	tty := term.IsTerminal(int(os.Stderr.Fd()))
	renderer := lipgloss.NewRenderer(os.Stderr)
	if !tty {
		renderer.SetColorProfile(termenv.Ascii)
	}
	return &Console{
		out:      os.Stdout,
		errOut:   os.Stderr,
		tty:      tty,
		renderer: renderer,
	}
}

// NewTestConsole builds a Console writing plain text to the given writers.
func NewTestConsole(out, errOut io.Writer) *Console {
	renderer := lipgloss.NewRenderer(errOut)
	renderer.SetColorProfile(termenv.Ascii)
	return &Console{out: out, errOut: errOut, renderer: renderer}
}

// Status replaces the current status line.
func (c *Console) Status(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	styled := c.renderer.NewStyle().Inherit(statusStyle).Render(line)
	if c.tty {
		fmt.Fprintf(c.errOut, "\r\033[K%s", styled)
		c.active = true
		return
	}
	fmt.Fprintln(c.errOut, line)
}

// Done clears any in-place status line.
func (c *Console) Done() {
	if c.tty && c.active {
		fmt.Fprint(c.errOut, "\r\033[K")
		c.active = false
	}
}

// Dim prints a secondary note, such as the excluded-file summary.
func (c *Console) Dim(format string, args ...any) {
	c.Done()
	line := fmt.Sprintf(format, args...)
	fmt.Fprintln(c.errOut, c.renderer.NewStyle().Inherit(dimStyle).Render(line))
}

// Error prints an error line to stderr.
func (c *Console) Error(format string, args ...any) {
	c.Done()
	line := fmt.Sprintf(format, args...)
	fmt.Fprintln(c.errOut, c.renderer.NewStyle().Inherit(errorStyle).Render("error: "+line))
}

// Print writes primary output, the generated commit message included, to
// stdout.
func (c *Console) Print(format string, args ...any) {
	c.Done()
	fmt.Fprintf(c.out, format, args...)
	if !strings.HasSuffix(format, "\n") {
		fmt.Fprintln(c.out)
	}
}
