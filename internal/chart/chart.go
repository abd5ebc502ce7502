// Package chart renders the weekly commit table as a stacked bar chart.
package chart

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/ghweekly/ghweekly/internal/domain"
)

const dateFormat = "2006-01-02"

// Options control chart titles and dimensions.
type Options struct {
	// User is the GitHub username shown in the chart title.
	User string
	// Title overrides the default title when non-empty.
	Title string
}

func (o Options) title() string {
	if o.Title != "" {
		return o.Title
	}
	return fmt.Sprintf("Weekly GitHub Contributions by Repo (%s)", o.User)
}

// Write renders the table to path, choosing the format from the file
// extension: .html produces an interactive go-echarts page, anything else
// a PNG. An existing file at path is overwritten.
func Write(table *domain.WeeklyTable, o Options, path string) error {
	if strings.EqualFold(filepath.Ext(path), ".html") {
		return WriteHTML(table, o, path)
	}
	return WritePNG(table, o, path)
}

// WritePNG renders a stacked bar chart image: one bar per week-start date
// in ascending order, one segment per repository stacked bottom-to-top in
// column order. A table with no rows or no columns still produces a valid,
// blank chart.
func WritePNG(table *domain.WeeklyTable, o Options, path string) error {
	p := plot.New()
	p.Title.Text = o.title()
	p.X.Label.Text = "Start of the week (Monday)"
	p.Y.Label.Text = "Commits"
	p.Legend.Top = true
	p.X.Tick.Label.Rotation = -0.785 // ~45 degrees
	p.X.Tick.Label.XAlign = -1

	if table.Empty() {
		// NominalX panics on an empty label set, so an empty table gets an
		// annotated blank chart instead.
		note, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    []plotter.XY{{X: 0.5, Y: 0.5}},
			Labels: []string{"No data to display"},
		})
		if err != nil {
			return fmt.Errorf("failed to build empty chart annotation: %w", err)
		}
		p.Add(note)
		p.HideAxes()
		if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
			return fmt.Errorf("failed to write chart to %s: %w", path, err)
		}
		return nil
	}

	labels := make([]string, 0, len(table.Weeks()))
	for _, w := range table.Weeks() {
		labels = append(labels, w.Format(dateFormat))
	}

	var prev *plotter.BarChart
	for col, repo := range table.Repos() {
		counts := table.Column(col)
		values := make(plotter.Values, len(counts))
		for i, c := range counts {
			values[i] = float64(c)
		}
		bar, err := plotter.NewBarChart(values, vg.Points(18))
		if err != nil {
			return fmt.Errorf("failed to build bar series for %s: %w", repo.FullName(), err)
		}
		bar.Color = plotutil.Color(col)
		bar.LineStyle.Width = 0
		if prev != nil {
			bar.StackOn(prev)
		}
		p.Add(bar)
		p.Legend.Add(repo.ShortName(), bar)
		prev = bar
	}
	p.NominalX(labels...)

	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to write chart to %s: %w", path, err)
	}
	return nil
}

// WriteHTML renders the same table as an interactive echarts stacked bar page.
func WriteHTML(table *domain.WeeklyTable, o Options, path string) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    o.title(),
			Subtitle: "Start of the week (Monday)",
		}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: o.title()}),
	)

	labels := make([]string, 0, len(table.Weeks()))
	for _, w := range table.Weeks() {
		labels = append(labels, w.Format(dateFormat))
	}
	bar.SetXAxis(labels)

	for col, repo := range table.Repos() {
		counts := table.Column(col)
		data := make([]opts.BarData, len(counts))
		for i, c := range counts {
			data[i] = opts.BarData{Value: c}
		}
		bar.AddSeries(repo.ShortName(), data, charts.WithBarChartOpts(opts.BarChart{Stack: "commits"}))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write chart to %s: %w", path, err)
	}
	defer f.Close()
	if err := bar.Render(f); err != nil {
		return fmt.Errorf("failed to render chart to %s: %w", path, err)
	}
	return nil
}
