package runner

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// Reporter prints run progress for a human watching the terminal.
type Reporter struct {
	out io.Writer

	headerStyle  lipgloss.Style
	labelStyle   lipgloss.Style
	successStyle lipgloss.Style
	errorStyle   lipgloss.Style
	hintStyle    lipgloss.Style
}

// NewReporter creates a reporter. Colors are used only when out is a terminal.
func NewReporter(out io.Writer) *Reporter {
	if out == nil {
		out = io.Discard
	}
	r := lipgloss.NewRenderer(out)
	return &Reporter{
		out:          out,
		headerStyle:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		labelStyle:   r.NewStyle().Bold(true),
		successStyle: r.NewStyle().Foreground(lipgloss.Color("10")),
		errorStyle:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		hintStyle:    r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Header prints the banner shown before acquisition.
func (r *Reporter) Header(strategies []string) {
	fmt.Fprintln(r.out, r.headerStyle.Render("=== E2E Testing: "+strings.Join(strategies, " → ")+" ==="))
	fmt.Fprintln(r.out)
}

// Acquired prints the strategy that produced the session and the target URL.
func (r *Reporter) Acquired(strategy, url string) {
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "%s %s\n", r.labelStyle.Render("Using strategy:"), strategy)
	fmt.Fprintf(r.out, "%s %s\n\n", r.labelStyle.Render("Navigating to:"), url)
}

// Redirected prints the URL the page ended up on when it differs from the
// requested one.
func (r *Reporter) Redirected(url string) {
	fmt.Fprintf(r.out, "%s %s\n", r.labelStyle.Render("Redirected to:"), url)
}

// Title prints the loaded page title.
func (r *Reporter) Title(title string) {
	fmt.Fprintf(r.out, "%s %s\n", r.labelStyle.Render("Page title:"), title)
}

// Action prints the action about to run.
func (r *Reporter) Action(a *Action) {
	fmt.Fprintf(r.out, "\n%s %s\n", r.labelStyle.Render("Performing action:"), a.Raw)
}

// ActionDone prints the outcome of a successful action.
func (r *Reporter) ActionDone(a *Action) {
	var msg string
	switch a.Verb {
	case VerbClick:
		msg = fmt.Sprintf("Clicked: %s", a.Target)
	case VerbType:
		msg = fmt.Sprintf("Typed %q into %s", a.Value, a.Target)
	default:
		msg = "Done: " + a.String()
	}
	fmt.Fprintln(r.out, r.successStyle.Render(msg))
}

// Screenshot prints where the screenshot was written and its size.
func (r *Reporter) Screenshot(path string, size int) {
	fmt.Fprintf(r.out, "\n%s %s (%s)\n",
		r.successStyle.Render("Screenshot saved:"), path, humanize.Bytes(uint64(size)))
}

// Fallback prints the manual fallback instructions shown when no browser
// could be acquired.
func (r *Reporter) Fallback(tool string, commands []string) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.errorStyle.Render("=== All Playwright strategies failed ==="))
	fmt.Fprintf(r.out, "Final fallback: use the %s skill directly.\n\n", tool)
	fmt.Fprintln(r.out, "Example commands:")
	for _, cmd := range commands {
		fmt.Fprintln(r.out, r.hintStyle.Render("  "+cmd))
	}
	fmt.Fprintln(r.out)
}
