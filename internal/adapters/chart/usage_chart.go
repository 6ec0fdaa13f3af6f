package chart

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kamal-hamza/imgcheck/internal/core/domain"
)

const (
	colorUsed   = "#5cb85c"
	colorUnused = "#d9534f"
)

// UsageChart renders a report as an HTML bar chart of reference counts
type UsageChart struct {
	title string
}

// NewUsageChart creates a new chart renderer
func NewUsageChart(title string) *UsageChart {
	return &UsageChart{title: title}
}

// Render writes the chart page for report to w
func (c *UsageChart) Render(report *domain.Report, w io.Writer) error {
	names := make([]string, 0, len(report.Entries))
	items := make([]opts.BarData, 0, len(report.Entries))
	for _, e := range report.Entries {
		color := colorUsed
		if e.IsUnused() {
			color = colorUnused
		}
		names = append(names, string(e.Name))
		items = append(items, opts.BarData{
			Name:      string(e.Identifier),
			Value:     e.Count,
			ItemStyle: &opts.ItemStyle{Color: color},
		})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    c.title,
			Subtitle: fmt.Sprintf("%d assets, %d unused (threshold %d)", len(report.Entries), report.UnusedCount(), report.Threshold),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)
	bar.SetXAxis(names).AddSeries("files referencing asset", items)
	bar.SetSeriesOptions(
		charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{
			Name:  "threshold",
			YAxis: report.Threshold,
		}),
	)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// WriteFile renders the chart into the file at path
func (c *UsageChart) WriteFile(report *domain.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := c.Render(report, f); err != nil {
		return err
	}
	return f.Close()
}
