package iofc

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/iwvelando/milkminder/internal/sheet"
	"github.com/iwvelando/milkminder/pkg/constants"
	"github.com/xuri/excelize/v2"
)

// HeaderInputs holds the period figures read from the top of the sheet.
type HeaderInputs struct {
	Days        int     `json:"days" validate:"gte=0"`
	MilkSold    float64 `json:"milkSold" validate:"gte=0"`
	MilkNotSold float64 `json:"milkNotSold" validate:"gte=0"`
	InvoiceEur  float64 `json:"invoiceEur" validate:"gte=0"`
	CowsInMilk  int     `json:"cowsInMilk" validate:"gte=0"`
	CowsEnd     int     `json:"cowsEnd" validate:"gte=0"`
}

// InputError reports a header cell that holds a value which cannot be read
// as its declared type.
type InputError struct {
	Cell  string
	Field string
	Raw   string
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("cell %s (%s): cannot read %q as a number: %v", e.Cell, e.Field, e.Raw, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// ParseHeaderInputs reads B2..B7. Empty cells count as zero; a cell holding
// anything other than a number is an *InputError.
func ParseHeaderInputs(src sheet.Source) (HeaderInputs, error) {
	var (
		h   HeaderInputs
		err error
	)

	if h.Days, err = readInt(src, constants.CellDays, "days"); err != nil {
		return HeaderInputs{}, err
	}
	if h.MilkSold, err = readFloat(src, constants.CellMilkSold, "milkSold"); err != nil {
		return HeaderInputs{}, err
	}
	if h.MilkNotSold, err = readFloat(src, constants.CellMilkNotSold, "milkNotSold"); err != nil {
		return HeaderInputs{}, err
	}
	if h.InvoiceEur, err = readFloat(src, constants.CellInvoice, "invoiceEur"); err != nil {
		return HeaderInputs{}, err
	}
	if h.CowsInMilk, err = readInt(src, constants.CellCowsInMilk, "cowsInMilk"); err != nil {
		return HeaderInputs{}, err
	}
	if h.CowsEnd, err = readInt(src, constants.CellCowsEnd, "cowsEnd"); err != nil {
		return HeaderInputs{}, err
	}

	return h, nil
}

func readFloat(src sheet.Source, cell, field string) (float64, error) {
	column, row, err := excelize.SplitCellName(cell)
	if err != nil {
		return 0, fmt.Errorf("invalid header coordinate %s: %w", cell, err)
	}

	raw, ok := src.Value(column, row)
	if !ok || strings.TrimSpace(raw) == "" {
		return 0, nil
	}

	v, err := parseNumber(raw)
	if err != nil {
		return 0, &InputError{Cell: cell, Field: field, Raw: raw, Err: err}
	}
	return v, nil
}

func readInt(src sheet.Source, cell, field string) (int, error) {
	v, err := readFloat(src, cell, field)
	if err != nil {
		return 0, err
	}
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, &InputError{Cell: cell, Field: field, Raw: strconv.FormatFloat(v, 'f', -1, 64), Err: strconv.ErrRange}
	}
	return int(v), nil
}

// parseNumber accepts plain numbers and text entries using a decimal comma
// ("12,5").
func parseNumber(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		v, err = strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	}
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}

// intOrZero is numberOrZero for whole counts; values outside int32 read as 0.
func intOrZero(raw string, ok bool) int {
	v := numberOrZero(raw, ok)
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0
	}
	return int(v)
}

// numberOrZero is parseNumber for cells where unreadable input means zero.
func numberOrZero(raw string, ok bool) float64 {
	if !ok {
		return 0
	}
	v, err := parseNumber(raw)
	if err != nil {
		return 0
	}
	return v
}
