package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	md2note "github.com/alnah/go-md2note"
)

// reportStyles renders status lines for one writer. Colors are dropped
// automatically when w is not a terminal.
type reportStyles struct {
	ok, warn, fail, dim lipgloss.Style
}

func newReportStyles(w io.Writer) reportStyles {
	r := lipgloss.NewRenderer(w)
	return reportStyles{
		ok:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#3FB950")),
		warn: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#D29922")),
		fail: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#F85149")),
		dim:  r.NewStyle().Foreground(lipgloss.Color("#8B949E")),
	}
}

// printReport summarizes a composition run. Quiet mode prints only the
// degraded parts.
func printReport(w io.Writer, res *md2note.Result, elapsed time.Duration, quiet bool) {
	st := newReportStyles(w)
	failed := res.Failed()

	if !quiet || res.Degraded() {
		mark, style := "✓", st.ok
		if res.Degraded() {
			mark, style = "!", st.warn
		}
		fmt.Fprintf(w, "%s %s %s\n",
			style.Render(mark),
			style.Render(fmt.Sprintf("%q", res.Title)),
			st.dim.Render(fmt.Sprintf("(%d/%d blocks, save %s, %s, run %s)",
				len(res.Blocks)-len(failed), len(res.Blocks), res.Save,
				elapsed.Round(time.Millisecond), res.RunID)),
		)
	}

	for _, b := range failed {
		label := b.Kind.String()
		if b.Kind == md2note.KindImage && b.Upload != 0 {
			label += ", " + b.Upload.String()
		}
		fmt.Fprintf(w, "  %s block %d (%s): %v\n", st.fail.Render("x"), b.Index+1, label, b.Err)
	}
	for _, msg := range res.Warnings {
		fmt.Fprintf(w, "  %s %s\n", st.warn.Render("!"), msg)
	}
}

// printLoginReport confirms stored credentials.
func printLoginReport(w io.Writer, path string) {
	st := newReportStyles(w)
	fmt.Fprintf(w, "%s logged in %s\n", st.ok.Render("✓"), st.dim.Render("(credentials saved to "+path+")"))
}
