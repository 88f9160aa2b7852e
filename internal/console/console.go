// Package console prints the human-facing progress messages of the
// generator. Diagnostics go through slog; this package is only for what the
// user is meant to read.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// Width is the column limit for wrapped messages. Problems are printed
// unwrapped so that file paths inside them stay intact.
const Width = 80

var (
	stepColor    = lipgloss.Color("#6B7280") // Gray
	successColor = lipgloss.Color("#10B981") // Green
	warningColor = lipgloss.Color("#F59E0B") // Amber/Yellow
	errorColor   = lipgloss.Color("#EF4444") // Red
)

// Reporter writes styled messages to an output and an error stream.
// Colour is only emitted when the stream is a terminal.
type Reporter struct {
	out    io.Writer
	errOut io.Writer

	step    lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	errFail lipgloss.Style
}

// New creates a Reporter writing to out and errOut.
func New(out, errOut io.Writer) *Reporter {
	outR := lipgloss.NewRenderer(out)
	errR := lipgloss.NewRenderer(errOut)
	return &Reporter{
		out:     out,
		errOut:  errOut,
		step:    outR.NewStyle().Foreground(stepColor),
		success: outR.NewStyle().Foreground(successColor).Bold(true),
		warning: outR.NewStyle().Foreground(warningColor),
		failure: outR.NewStyle().Foreground(errorColor),
		errFail: errR.NewStyle().Foreground(errorColor),
	}
}

// Stdio returns a Reporter bound to the process's standard streams.
func Stdio() *Reporter {
	return New(os.Stdout, os.Stderr)
}

// Step announces a pipeline step.
func (r *Reporter) Step(msg string) {
	fmt.Fprintln(r.out, r.step.Render(msg))
}

// Warn prints a non-fatal problem to the output stream.
func (r *Reporter) Warn(msg string) {
	fmt.Fprintln(r.out, r.warning.Render("warning: "+msg))
}

// Error prints a contained failure to the output stream. Processing is
// expected to continue afterwards.
func (r *Reporter) Error(err error) {
	fmt.Fprintln(r.out, r.failure.Render("error: "+err.Error()))
}

// Fatal prints a failure that ends the run to the error stream.
func (r *Reporter) Fatal(err error) {
	fmt.Fprintln(r.errOut, r.errFail.Render(err.Error()))
}

// Usage prints guidance for an invocation missing required input.
func (r *Reporter) Usage(msg string) {
	fmt.Fprintln(r.out, wordwrap.String(msg, Width))
}

// Done prints the closing banner.
func (r *Reporter) Done(msg string) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.success.Render(" * * * Done! * * *"))
	fmt.Fprintln(r.out, wordwrap.String(msg, Width))
}
