package cmd

import (
	"fmt"
	"io"
	"strings"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/imgcheck/internal/core/domain"
	"github.com/kamal-hamza/imgcheck/internal/core/services"
	"github.com/kamal-hamza/imgcheck/pkg/ui"
)

var exploreCmd = &cobra.Command{
	Use:     "explore <assetCatalogPath> <projectPath> [allowNbTimes]",
	Aliases: []string{"x"},
	Short:   "Fuzzy-search the report (alias: x)",
	Long: `Run the check quietly, then search the results with a fuzzy finder.

The preview window shows the identifier searched for, the verdict and every
file referencing the selected image.`,
	Args: checkArgs,
	RunE: runExplore,
}

func runExplore(cmd *cobra.Command, args []string) error {
	opts, err := resolveCheckOptions(cmd, args, appConfig)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.FormatRocket("Scanning project..."))

	report, err := reportService.Run(cmd.Context(), services.RunRequest{
		CatalogPath: opts.CatalogPath,
		ProjectPath: opts.ProjectPath,
		Extensions:  opts.Extensions,
		Threshold:   opts.Threshold,
	})
	if err != nil {
		return describeRunError(err, opts)
	}

	if len(report.Entries) == 0 {
		fmt.Fprintln(out, ui.FormatWarning("No images found in the asset catalog."))
		return nil
	}

	entries := report.Entries
	idx, err := fuzzyfinder.Find(
		entries,
		func(i int) string {
			return exploreLabel(entries[i])
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return explorePreview(entries[i], report.ProjectPath)
		}),
	)
	if err != nil {
		// User cancelled
		fmt.Fprintln(out, ui.FormatInfo("Explore cancelled."))
		return nil
	}

	printEntry(out, entries[idx], report.ProjectPath)
	return nil
}

// exploreLabel renders "Home_Icon  homeIcon  (3)" with a verdict marker
func exploreLabel(e domain.UsageEntry) string {
	marker := ui.IconUsed
	if e.IsUnused() {
		marker = ui.IconUnused
	}
	return fmt.Sprintf("%s %s  %s  (%d)", marker, e.Name, e.Identifier, e.Count)
}

func explorePreview(e domain.UsageEntry, projectRoot string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Asset:      %s\n", e.Name)
	fmt.Fprintf(&sb, "Pattern:    %s\n", e.Identifier.Pattern())
	fmt.Fprintf(&sb, "Verdict:    %s\n", e.Verdict)
	fmt.Fprintf(&sb, "Files:      %d\n\n", e.Count)
	for _, f := range e.Files {
		sb.WriteString("  " + relPath(projectRoot, f) + "\n")
	}
	return sb.String()
}

func printEntry(out io.Writer, e domain.UsageEntry, projectRoot string) {
	fmt.Fprintln(out, ui.RenderKeyValue("Asset", string(e.Name)))
	fmt.Fprintln(out, ui.RenderKeyValue("Identifier", string(e.Identifier)))
	fmt.Fprintln(out, ui.RenderKeyValue("Verdict", string(e.Verdict)))
	if len(e.Files) == 0 {
		fmt.Fprintln(out, ui.FormatMuted("No file references this image."))
		return
	}
	items := make([]string, 0, len(e.Files))
	for _, f := range e.Files {
		items = append(items, relPath(projectRoot, f))
	}
	fmt.Fprint(out, ui.RenderSimpleList(items))
}
