package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/imgcheck/internal/adapters/chart"
	"github.com/kamal-hamza/imgcheck/internal/core/domain"
	"github.com/kamal-hamza/imgcheck/internal/core/services"
	"github.com/kamal-hamza/imgcheck/pkg/ui"
)

var (
	copyFlag  bool
	chartFlag string
	failFlag  bool
)

func initCheckFlags() {
	f := rootCmd.Flags()
	f.BoolVar(&copyFlag, "copy", false, "Copy the unused image names to the clipboard")
	f.StringVar(&chartFlag, "chart", "", "Write an HTML bar chart of reference counts to this file")
	f.BoolVar(&failFlag, "fail", false, "Exit with status 1 when unused images are found")
}

func runCheck(cmd *cobra.Command, args []string) error {
	opts, err := resolveCheckOptions(cmd, args, appConfig)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	report, err := executeCheck(cmd.Context(), out, reportService, opts)
	if err != nil {
		return err
	}

	if copyFlag {
		copyUnused(out, report)
	}

	if chartFlag != "" {
		if err := chart.NewUsageChart(appConfig.ChartTitle).WriteFile(report, chartFlag); err != nil {
			return err
		}
		fmt.Fprintln(out, ui.FormatSuccess("Chart written to "+chartFlag))
	}

	fail := appConfig.FailOnUnused
	if cmd.Flags().Changed("fail") {
		fail = failFlag
	}
	if fail && report.UnusedCount() > 0 {
		return errUnusedFound
	}
	return nil
}

// executeCheck prints the banner, runs the report with a console reporter
// and prints the summary
func executeCheck(ctx context.Context, out io.Writer, svc *services.ReportService, opts checkOptions) (*domain.Report, error) {
	printBanner(out, opts)

	report, err := svc.Run(ctx, services.RunRequest{
		CatalogPath: opts.CatalogPath,
		ProjectPath: opts.ProjectPath,
		Extensions:  opts.Extensions,
		Threshold:   opts.Threshold,
		Reporter:    newConsoleReporter(out, opts.Anxious),
	})
	if err != nil {
		return nil, describeRunError(err, opts)
	}

	printSummary(out, report)
	return report, nil
}

// startError is a missing input path; the check never started
type startError struct {
	msg string
	err error
}

func (e *startError) Error() string { return e.msg }
func (e *startError) Unwrap() error { return e.err }

// describeRunError turns precondition failures into the user-facing message
func describeRunError(err error, opts checkOptions) error {
	switch {
	case errors.Is(err, services.ErrCatalogNotFound):
		return &startError{
			msg: fmt.Sprintf("Asset Catalog at %s does not exist, could not start tool", opts.CatalogPath),
			err: err,
		}
	case errors.Is(err, services.ErrProjectNotFound):
		return &startError{
			msg: fmt.Sprintf("Directory %s does not exist, could not start tool", opts.ProjectPath),
			err: err,
		}
	default:
		return err
	}
}

// formatFatal renders a command error for stderr
func formatFatal(err error) string {
	var se *startError
	if errors.As(err, &se) {
		return ui.FormatStop(err.Error())
	}
	return ui.FormatError(err.Error())
}

func printBanner(out io.Writer, opts checkOptions) {
	fmt.Fprintln(out, ui.StylePrimary.Render(ui.IconWave+" Welcome to imgcheck"))
	fmt.Fprintln(out, "This tool will check if image assets are unused in your project.")
	fmt.Fprintln(out, ui.FormatMuted(strings.Repeat("-", 56)))
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Will check images from Asset Catalog...\n\t%s\n", opts.CatalogPath)
	fmt.Fprintf(out, "%s from directory...\n\t%s\n\n", describeExtensions(opts.Extensions), opts.ProjectPath)

	if opts.Anxious {
		fmt.Fprintln(out, ui.FormatInfo("Anxious mode is enabled. It will print a lot of text."))
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, ui.FormatRocket("running ..."))
	fmt.Fprintln(out)
}

// describeExtensions renders "in all files" / "in files with extension swift" /
// "in files with extensions swift, m"
func describeExtensions(filter domain.ExtensionFilter) string {
	switch len(filter) {
	case 0:
		return "in all files"
	case 1:
		return "in files with extension " + filter[0]
	default:
		return "in files with extensions " + strings.Join(filter, ", ")
	}
}

func printSummary(out io.Writer, report *domain.Report) {
	fmt.Fprintln(out)

	if unused := report.Unused(); len(unused) > 0 {
		table := ui.NewTable(
			ui.TableColumn{Header: "Asset"},
			ui.TableColumn{Header: "Identifier"},
			ui.TableColumn{Header: "Files", Align: ui.AlignRight},
		)
		for _, e := range unused {
			table.AddRow(string(e.Name), string(e.Identifier), fmt.Sprintf("%d", e.Count))
		}
		fmt.Fprint(out, table.Render())
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, ui.RenderKeyValue("Images checked", fmt.Sprintf("%d", len(report.Entries))))
	fmt.Fprintln(out, ui.RenderKeyValue("Unused", fmt.Sprintf("%d", report.UnusedCount())))
	fmt.Fprintln(out, ui.RenderKeyValue("Took", report.Duration.Round(time.Millisecond).String()))
	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.StyleSuccess.Render(ui.IconDone+" finished!"))
}

func copyUnused(out io.Writer, report *domain.Report) {
	names := report.UnusedNames()
	if len(names) == 0 {
		fmt.Fprintln(out, ui.FormatInfo("Nothing to copy, every image is used."))
		return
	}
	if err := clipboard.WriteAll(strings.Join(names, "\n")); err != nil {
		fmt.Fprintln(out, ui.FormatWarning("Could not copy to clipboard: "+err.Error()))
		return
	}
	fmt.Fprintln(out, ui.FormatSuccess(fmt.Sprintf("Copied %d unused image names to clipboard", len(names))))
}

// relPath shortens path relative to root for display
func relPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}
