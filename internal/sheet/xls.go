package sheet

import (
	"fmt"
	"io"
	"math"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// xlsCharset is the fallback charset for BIFF string records.
const xlsCharset = "utf-8"

type xlsWorkbook struct {
	sheet *xls.WorkSheet
}

// OpenXLS decodes a legacy BIFF (.xls) workbook.
func OpenXLS(r io.ReadSeeker, sheetName string) (wb Workbook, err error) {
	// The BIFF decoder panics on some malformed uploads.
	defer func() {
		if p := recover(); p != nil {
			wb, err = nil, fmt.Errorf("failed to decode xls workbook: %v", p)
		}
	}()

	book, err := xls.OpenReader(r, xlsCharset)
	if err != nil {
		return nil, fmt.Errorf("failed to open xls workbook: %w", err)
	}
	if book.NumSheets() == 0 {
		return nil, ErrNoWorksheet
	}

	if sheetName == "" {
		ws := book.GetSheet(0)
		if ws == nil {
			return nil, ErrNoWorksheet
		}
		return &xlsWorkbook{sheet: ws}, nil
	}

	for i := 0; i < book.NumSheets(); i++ {
		if ws := book.GetSheet(i); ws != nil && ws.Name == sheetName {
			return &xlsWorkbook{sheet: ws}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNoWorksheet, sheetName)
}

func (w *xlsWorkbook) Value(column string, row int) (string, bool) {
	col, err := excelize.ColumnNameToNumber(column)
	// Rows are keyed by uint16 in the decoder; larger indexes would wrap.
	if err != nil || row < 1 || row-1 > math.MaxUint16 || col-1 > math.MaxUint16 {
		return "", false
	}

	r := w.sheet.Row(row - 1)
	if r == nil {
		return "", false
	}

	v := r.Col(col - 1)
	if v == "" {
		return "", false
	}
	return v, true
}

func (w *xlsWorkbook) SheetName() string {
	return w.sheet.Name
}

// Close is a no-op; the BIFF decoder holds no resources after parsing.
func (w *xlsWorkbook) Close() error {
	return nil
}
