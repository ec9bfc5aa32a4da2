package sheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

type xlsxWorkbook struct {
	file  *excelize.File
	sheet string
}

// OpenXLSX decodes an Office Open XML workbook.
func OpenXLSX(r io.Reader, sheetName string) (Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx workbook: %w", err)
	}

	name := sheetName
	if name == "" {
		name = f.GetSheetName(f.GetActiveSheetIndex())
	}
	if name == "" {
		name = f.GetSheetName(0)
	}
	if name == "" {
		_ = f.Close()
		return nil, ErrNoWorksheet
	}

	if idx, err := f.GetSheetIndex(name); err != nil || idx < 0 {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %q", ErrNoWorksheet, name)
	}

	return &xlsxWorkbook{file: f, sheet: name}, nil
}

// Value returns the stored cell value, bypassing number formats so that
// "1.234,50" style display strings never reach the parser.
func (w *xlsxWorkbook) Value(column string, row int) (string, bool) {
	ref, err := excelize.JoinCellName(column, row)
	if err != nil {
		return "", false
	}

	v, err := w.file.GetCellValue(w.sheet, ref, excelize.Options{RawCellValue: true})
	if err != nil || v == "" {
		return "", false
	}
	return v, true
}

func (w *xlsxWorkbook) SheetName() string {
	return w.sheet
}

func (w *xlsxWorkbook) Close() error {
	return w.file.Close()
}
