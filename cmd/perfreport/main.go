// Command perfreport summarises a performance CSV and can render it as an
// HTML line chart.
package main

import (
	"flag"
	"fmt"
	"os"

	"tinderbox/internal/perf"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "perfreport:", err)
		os.Exit(1)
	}
}

func run() error {
	in := flag.String("in", "reports/perf.csv", "performance CSV to read")
	html := flag.String("html", "", "write an HTML chart to this path")
	title := flag.String("title", "Tinderbox performance", "chart title")
	flag.Parse()

	rows, err := perf.ReadFile(*in)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("%s: no samples", *in)
	}
	fmt.Printf("%d samples from %s\n\n", len(rows), *in)
	if err := perf.Summarize(rows).WriteTable(os.Stdout); err != nil {
		return err
	}
	if *html != "" {
		if err := perf.RenderChartFile(*html, *title, rows); err != nil {
			return err
		}
		fmt.Printf("\nChart written to %s\n", *html)
	}
	return nil
}
