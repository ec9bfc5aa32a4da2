// Package sheet exposes uploaded workbooks as cell sources addressable by
// column letter and 1-based row number.
package sheet

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	// ErrNoWorksheet is returned when a workbook holds no usable worksheet.
	ErrNoWorksheet = errors.New("no worksheet found")

	// ErrUnsupportedFormat is returned for file extensions no decoder handles.
	ErrUnsupportedFormat = errors.New("unsupported workbook format")
)

// Source yields the raw text of a cell. ok is false when the cell is absent
// or holds no value.
type Source interface {
	Value(column string, row int) (string, bool)
}

// Workbook is a Source backed by a decoded file. Callers must Close it.
type Workbook interface {
	Source
	SheetName() string
	Close() error
}

// Open decodes a workbook, picking the decoder from the file extension.
// An empty sheetName selects the active (or first) worksheet.
func Open(r io.Reader, filename, sheetName string) (Workbook, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xls":
		return OpenXLS(bytes.NewReader(data), sheetName)
	case ".xlsx", ".xlsm", ".xltx", ".xltm", "":
		return OpenXLSX(bytes.NewReader(data), sheetName)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// OpenFile is Open for a path on disk.
func OpenFile(path, sheetName string) (Workbook, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return Open(f, path, sheetName)
}

// Grid is an in-memory Source keyed by cell reference (e.g. "B2").
type Grid map[string]string

// Value implements Source.
func (g Grid) Value(column string, row int) (string, bool) {
	v, ok := g[strings.ToUpper(column)+strconv.Itoa(row)]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
