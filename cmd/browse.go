package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/imgcheck/internal/core/domain"
	"github.com/kamal-hamza/imgcheck/internal/core/services"
	"github.com/kamal-hamza/imgcheck/pkg/ui"
)

var browseCmd = &cobra.Command{
	Use:   "browse <assetCatalogPath> <projectPath> [allowNbTimes]",
	Short: "Interactive report table",
	Long: `Run the check and browse the results in a table.

Controls:
  - ↑/↓ : Navigate
  - u   : Toggle unused only
  - c   : Copy the selected asset name
  - q   : Quit`,
	Args: checkArgs,
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	opts, err := resolveCheckOptions(cmd, args, appConfig)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), ui.FormatRocket("Scanning project..."))

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
		fmt.Fprintln(cmd.OutOrStdout(), ui.FormatWarning("No images found in the asset catalog."))
		return nil
	}

	p := tea.NewProgram(newBrowseModel(report, clipboard.WriteAll))
	if _, err := p.Run(); err != nil {
		return err
	}

	return nil
}

// --- TUI Model ---

type browseModel struct {
	table      table.Model
	report     *domain.Report
	visible    []domain.UsageEntry
	unusedOnly bool
	status     string

	// copy writes to the clipboard; replaced in tests
	copy func(string) error
}

func newBrowseModel(report *domain.Report, copyFn func(string) error) browseModel {
	columns := []table.Column{
		{Title: "Asset", Width: 30},
		{Title: "Identifier", Width: 30},
		{Title: "Files", Width: 6},
		{Title: "Verdict", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ui.ColorMuted).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(ui.ColorDefault).
		Background(ui.ColorPrimary).
		Bold(true)
	t.SetStyles(s)

	m := browseModel{
		table:  t,
		report: report,
		copy:   copyFn,
	}
	m.refresh()
	return m
}

// refresh rebuilds the visible rows from the report and filter
func (m *browseModel) refresh() {
	if m.unusedOnly {
		m.visible = m.report.Unused()
	} else {
		m.visible = append([]domain.UsageEntry(nil), m.report.Entries...)
	}

	rows := make([]table.Row, 0, len(m.visible))
	for _, e := range m.visible {
		rows = append(rows, table.Row{
			safeTruncate(string(e.Name), 30),
			safeTruncate(string(e.Identifier), 30),
			fmt.Sprintf("%d", e.Count),
			string(e.Verdict),
		})
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

// selected returns the entry under the cursor
func (m browseModel) selected() (domain.UsageEntry, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.visible) {
		return domain.UsageEntry{}, false
	}
	return m.visible[idx], true
}

func (m browseModel) Init() tea.Cmd { return nil }

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "u":
			m.unusedOnly = !m.unusedOnly
			m.refresh()
			m.status = ""
			return m, nil

		case "c":
			if e, ok := m.selected(); ok {
				if err := m.copy(string(e.Name)); err != nil {
					m.status = "Copy failed: " + err.Error()
				} else {
					m.status = "Copied " + string(e.Name)
				}
			}
			return m, nil
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m browseModel) View() string {
	filter := "all images"
	if m.unusedOnly {
		filter = "unused only"
	}

	header := fmt.Sprintf(" %s Image Usage (%d/%d unused, %s) ",
		ui.IconAsset, m.report.UnusedCount(), len(m.report.Entries), filter)

	view := "\n" + ui.StyleTitle.Render(header) + "\n\n" + m.table.View() + "\n\n"
	if m.status != "" {
		view += " " + ui.FormatInfo(m.status) + "\n"
	}
	return view + ui.FormatMuted(" [u] Unused only  [c] Copy name  [q] Quit") + "\n"
}

// safeTruncate shortens s to maxLen terminal cells without splitting a rune
func safeTruncate(s string, maxLen int) string {
	if runewidth.StringWidth(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return runewidth.Truncate(s, maxLen, "")
	}
	return runewidth.Truncate(s, maxLen, "...")
}
