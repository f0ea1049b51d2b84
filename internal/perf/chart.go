package perf

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderChart writes an HTML page plotting every column against sample
// index.
func RenderChart(w io.Writer, title string, rows []Row) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: strconv.Itoa(len(rows)) + " samples"}),
		charts.WithLegendOpts(opts.Legend{Right: "10%"}),
	)

	xs := make([]string, len(rows))
	for i := range rows {
		xs[i] = strconv.Itoa(i)
	}
	line.SetXAxis(xs)
	for col, name := range Columns {
		data := make([]opts.LineData, len(rows))
		for i, r := range rows {
			data[i] = opts.LineData{Value: r.Values()[col]}
		}
		line.AddSeries(name, data)
	}
	if err := line.Render(w); err != nil {
		return fmt.Errorf("render perf chart: %w", err)
	}
	return nil
}

// RenderChartFile renders the chart into path.
func RenderChartFile(path, title string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render perf chart %s: %w", path, err)
	}
	if err := RenderChart(f, title, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
