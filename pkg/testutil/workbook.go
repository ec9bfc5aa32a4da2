// Package testutil provides common utility functions for testing.
package testutil

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the sheet name used by generated workbooks.
const DefaultSheet = "Milkminder"

// FarmCells is a filled-in operations sheet: 30 days, 1000 L sold, 50 L not
// sold, 400 € invoiced, 40 cows in milk, 42 at period end and one corn line.
func FarmCells() map[string]interface{} {
	return map[string]interface{}{
		"A2": "Giorni", "B2": 30,
		"A3": "Latte venduto (L)", "B3": 1000,
		"A4": "Latte non venduto (L)", "B4": 50,
		"A5": "Fattura latte (€)", "B5": 400,
		"A6": "Vacche in lattazione", "B6": 40,
		"A7": "Vacche fine periodo", "B7": 42,
		"A11": "Alimento", "B11": "kg/capo/giorno", "C11": "€/t", "D11": "SS", "E11": "Capi",
		"A12": "Corn", "B12": 5, "C12": 250, "D12": 88, "E12": 40,
	}
}

// WorkbookBytes builds an .xlsx workbook holding cells on a single active
// sheet and returns its encoded bytes.
func WorkbookBytes(tb testing.TB, cells map[string]interface{}) []byte {
	tb.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), DefaultSheet); err != nil {
		tb.Fatalf("failed to rename sheet: %v", err)
	}
	for cell, value := range cells {
		if err := f.SetCellValue(DefaultSheet, cell, value); err != nil {
			tb.Fatalf("failed to set %s: %v", cell, err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		tb.Fatalf("failed to encode workbook: %v", err)
	}
	return buf.Bytes()
}
