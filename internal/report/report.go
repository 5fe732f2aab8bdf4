// Package report renders aggregated collections to the console, CSV files
// or an XLSX workbook. It never influences what was collected.
package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/arielsanchezmora/vdoc/internal/collector"
)

// Options controls where exports land and how files are named.
type Options struct {
	FolderPath string
	Prefix     string
	RunID      string
}

func (o Options) prefix() string {
	if o.Prefix == "" {
		return "vdoc"
	}
	return o.Prefix
}

// orderedKinds returns the result's kinds in a stable order.
func orderedKinds(res *collector.Result) []collector.ReportKind {
	kinds := make([]collector.ReportKind, 0, len(res.Collections))
	for k := range res.Collections {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Console writes every collection as a tab-aligned table, followed by the
// skipped-host and warning summaries.
func Console(w io.Writer, res *collector.Result) error {
	for _, kind := range orderedKinds(res) {
		col := res.Collections[kind]
		fmt.Fprintf(w, "\n%s (%d host(s))\n", col.Kind, len(col.Records))

		tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
		printRow(tw, col.Fields)
		for _, rec := range col.Records {
			printRow(tw, rec.Row())
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(res.Skipped) > 0 {
		fmt.Fprintf(w, "\nskipped hosts\n")
		tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
		printRow(tw, []string{"Hostname", "State"})
		for _, s := range res.Skipped {
			printRow(tw, []string{s.Host, string(s.State)})
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	for _, warn := range res.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
	return nil
}

func printRow(w io.Writer, row []string) {
	for i, cell := range row {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, cell)
	}
	fmt.Fprintln(w)
}
