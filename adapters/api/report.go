package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"photoeccentric/domain/fit"
)

// handleRunReport renders a stored run as an HTML page built from a
// markdown summary.
func (a *App) handleRunReport(w http.ResponseWriter, r *http.Request) {
	run, err := a.loadRun(w, r)
	if run == nil || err != nil {
		return
	}

	md := renderRunMarkdown(run)

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.CompletePage,
		Title: fmt.Sprintf("Run %s", run.ID),
	})
	page := markdown.ToHTML([]byte(md), p, renderer)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(page); err != nil {
		a.log.Error("report write failed: %v", err)
	}
}

// renderRunMarkdown builds the markdown report body for a run.
func renderRunMarkdown(run *fit.Run) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Fit Run %s\n\n", run.ID)
	fmt.Fprintf(&b, "- **Target:** %s\n", run.TargetID)
	fmt.Fprintf(&b, "- **Stage:** %s\n", run.Stage)
	fmt.Fprintf(&b, "- **Geometry:** %d walkers x %d steps (%d burn-in), seed %d\n",
		run.Walkers, run.Steps, run.Discard, run.Seed)
	if !run.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "- **Created:** %s\n", run.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	}
	b.WriteString("\n## Parameters\n\n")
	b.WriteString("| Parameter | Median | -sigma | +sigma |\n")
	b.WriteString("|-----------|--------|--------|--------|\n")
	for _, label := range run.Result.Labels {
		bounds := run.Result.Uncertainties[label]
		fmt.Fprintf(&b, "| %s | %.6g | %.3g | %.3g |\n",
			label, run.Result.Estimates[label], bounds.Minus, bounds.Plus)
	}
	fmt.Fprintf(&b, "\n%d flattened posterior samples per parameter.\n", run.Result.SampleCount())

	return b.String()
}
