package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/arielsanchezmora/vdoc/internal/collector"
)

// WriteCSV writes one CSV file per report kind plus, when hosts were
// skipped, a skipped-hosts file. It returns the written paths.
func WriteCSV(res *collector.Result, opts Options) ([]string, error) {
	stamp := time.Now().Format("20060102-150405")

	var paths []string
	for _, kind := range orderedKinds(res) {
		col := res.Collections[kind]
		path := filepath.Join(opts.FolderPath, fmt.Sprintf("%s-%s-%s.csv", opts.prefix(), kind, stamp))
		if err := writeCSVFile(path, col); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	if len(res.Skipped) > 0 {
		path := filepath.Join(opts.FolderPath, fmt.Sprintf("%s-skipped-%s.csv", opts.prefix(), stamp))
		rows := [][]string{{"Hostname", "State"}}
		for _, s := range res.Skipped {
			rows = append(rows, []string{s.Host, string(s.State)})
		}
		if err := writeRows(path, rows); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeCSVFile(path string, col *collector.ReportCollection) error {
	rows := make([][]string, 0, len(col.Records)+1)
	rows = append(rows, col.Fields)
	for _, rec := range col.Records {
		rows = append(rows, rec.Row())
	}
	return writeRows(path, rows)
}

func writeRows(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
