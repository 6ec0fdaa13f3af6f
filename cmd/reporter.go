package cmd

import (
	"fmt"
	"io"

	"github.com/kamal-hamza/imgcheck/internal/core/domain"
	"github.com/kamal-hamza/imgcheck/pkg/ui"
)

// consoleReporter prints progress lines while a report is built
type consoleReporter struct {
	out     io.Writer
	anxious bool
}

func newConsoleReporter(out io.Writer, anxious bool) *consoleReporter {
	return &consoleReporter{out: out, anxious: anxious}
}

func (r *consoleReporter) AssetFound(name domain.AssetName) {
	if r.anxious {
		fmt.Fprintln(r.out, ui.FormatFound(ui.IconAsset, fmt.Sprintf("Found image asset: %s", name)))
	}
}

func (r *consoleReporter) CatalogScanned(total int) {
	fmt.Fprintf(r.out, "Found %d images to check.\n\n", total)
}

func (r *consoleReporter) FileMatched(id domain.Identifier, path string) {
	if r.anxious {
		fmt.Fprintln(r.out, ui.FormatFound(ui.IconPin, fmt.Sprintf("Found '%s' in %s", id, path)))
	}
}

func (r *consoleReporter) EntryReady(e domain.UsageEntry) {
	times := ui.Plural(e.Count, "time", "times")
	if e.IsUnused() {
		fmt.Fprintln(r.out, ui.FormatUnused(fmt.Sprintf("Resource '%s' Name: '%s' is unused (found %d %s).",
			e.Identifier, e.Name, e.Count, times)))
		return
	}
	if r.anxious {
		fmt.Fprintln(r.out, ui.FormatUsed(fmt.Sprintf("Resource '%s' is used %d %s.", e.Identifier, e.Count, times)))
	}
}
