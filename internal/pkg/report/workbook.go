package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/project-ambr/ambr/internal/pkg/logger"
)

const defaultSheet = "Sheet1"

// Workbook maps sheet names to their tables.
type Workbook map[string]*Table

// NamedTable is one sheet of an output workbook. Cells of NumericColumns are
// written as numbers when they parse as integers.
type NamedTable struct {
	Name           string
	Table          *Table
	NumericColumns []string
}

// LoadWorkbook reads every sheet of an xlsx file. The first row of each sheet
// is its header.
func LoadWorkbook(path string) (Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warningf("failed to close workbook %s: %v\n", path, err)
		}
	}()

	wb := make(Workbook)
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q of %s: %w", sheet, path, err)
		}
		wb[sheet] = FromRecords(rows)
	}
	logger.Infof("Loaded %d sheet(s) from %s\n", len(wb), path, logger.VerbosityLevelDebug)

	return wb, nil
}

// WriteWorkbook writes the sheets, in order, to path.
func WriteWorkbook(path string, sheets []NamedTable) error {
	if len(sheets) == 0 {
		return fmt.Errorf("no sheets to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, s.Name); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", s.Name, err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return fmt.Errorf("failed to add sheet %q: %w", s.Name, err)
		}

		if err := writeSheet(f, s); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)

	return save(f, path)
}

// save writes the workbook next to path and renames it into place, so readers
// never see a partially written file.
func save(f *excelize.File, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := f.Write(tmp); err != nil {
		tmp.Close()

		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}

	return nil
}

func writeSheet(f *excelize.File, s NamedTable) error {
	t := s.Table
	if t == nil || len(t.Columns) == 0 {
		return nil
	}

	numeric := make(map[int]bool, len(s.NumericColumns))
	for _, c := range s.NumericColumns {
		if i := t.Index(c); i >= 0 {
			numeric[i] = true
		}
	}

	rows := append([][]string{t.Columns}, t.Rows...)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}

		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
			if i > 0 && numeric[j] {
				if n, err := strconv.Atoi(v); err == nil {
					values[j] = n
				}
			}
		}
		if err := f.SetSheetRow(s.Name, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d of sheet %q: %w", i+1, s.Name, err)
		}
	}

	return nil
}
