package report

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/arielsanchezmora/vdoc/internal/collector"
)

// WriteExcel writes the whole result as one workbook with a sheet per report
// kind, plus a skipped-hosts sheet when applicable.
func WriteExcel(res *collector.Result, opts Options) (string, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if opts.RunID != "" {
		if err := f.SetDocProps(&excelize.DocProperties{Identifier: opts.RunID}); err != nil {
			return "", err
		}
	}

	for i, kind := range orderedKinds(res) {
		col := res.Collections[kind]
		sheet := string(kind)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return "", err
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return "", err
			}
		}
		if err := writeSheet(f, sheet, col); err != nil {
			return "", err
		}
	}

	if len(res.Skipped) > 0 {
		const sheet = "skipped"
		if _, err := f.NewSheet(sheet); err != nil {
			return "", err
		}
		if err := setRow(f, sheet, 1, []string{"Hostname", "State"}); err != nil {
			return "", err
		}
		for i, s := range res.Skipped {
			if err := setRow(f, sheet, i+2, []string{s.Host, string(s.State)}); err != nil {
				return "", err
			}
		}
	}

	path := filepath.Join(opts.FolderPath, fmt.Sprintf("%s-%s.xlsx", opts.prefix(), time.Now().Format("20060102-150405")))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("saving workbook %s: %w", path, err)
	}
	return path, nil
}

func writeSheet(f *excelize.File, sheet string, col *collector.ReportCollection) error {
	if err := setRow(f, sheet, 1, col.Fields); err != nil {
		return err
	}
	for i, rec := range col.Records {
		if err := setRow(f, sheet, i+2, rec.Row()); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

// Export writes the requested formats. A workbook failure is not fatal: the
// data falls back to CSV files and the failure is reported as a warning.
func Export(res *collector.Result, opts Options, csvExport, excelExport bool) (paths []string, warnings []string, err error) {
	if excelExport {
		path, xlsxErr := WriteExcel(res, opts)
		if xlsxErr != nil {
			zap.S().Named("report").Warnf("workbook export failed, falling back to CSV: %v", xlsxErr)
			warnings = append(warnings, fmt.Sprintf("workbook export failed (%v), wrote CSV instead", xlsxErr))
			csvExport = true
		} else {
			paths = append(paths, path)
		}
	}
	if csvExport {
		csvPaths, csvErr := WriteCSV(res, opts)
		paths = append(paths, csvPaths...)
		if csvErr != nil {
			return paths, warnings, csvErr
		}
	}
	return paths, warnings, nil
}
