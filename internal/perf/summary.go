package perf

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"
)

// ColumnSummary aggregates one column across all rows.
type ColumnSummary struct {
	Name          string
	Min, Max, Avg float64
}

// Summary aggregates a report.
type Summary struct {
	Samples int
	Columns []ColumnSummary
}

// Summarize computes min/max/avg for every column. An empty input yields a
// summary with zero samples and zeroed columns.
func Summarize(rows []Row) Summary {
	s := Summary{Samples: len(rows), Columns: make([]ColumnSummary, len(Columns))}
	for i, name := range Columns {
		s.Columns[i] = ColumnSummary{Name: name, Min: math.Inf(1), Max: math.Inf(-1)}
	}
	for _, r := range rows {
		for i, v := range r.Values() {
			c := &s.Columns[i]
			c.Min = min(c.Min, v)
			c.Max = max(c.Max, v)
			c.Avg += v
		}
	}
	for i := range s.Columns {
		c := &s.Columns[i]
		if len(rows) == 0 {
			c.Min, c.Max = 0, 0
			continue
		}
		c.Avg /= float64(len(rows))
	}
	return s
}

// Column returns the summary for name.
func (s Summary) Column(name string) (ColumnSummary, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSummary{}, false
}

// WriteTable prints the summary as an aligned text table.
func (s Summary) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "samples\t%d\n", s.Samples)
	fmt.Fprintln(tw, "column\tmin\tmax\tavg")
	for _, c := range s.Columns {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\n", c.Name, c.Min, c.Max, c.Avg)
	}
	return tw.Flush()
}
