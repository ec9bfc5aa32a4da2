// Package validation provides common validation utilities.
package validation

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/iwvelando/milkminder/pkg/constants"
)

// SupportedExtensions lists the workbook file extensions accepted for upload.
var SupportedExtensions = []string{".xlsx", ".xlsm", ".xls"}

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON, format)
}

// ValidateWorkbookName checks that a file name carries a workbook extension.
func ValidateWorkbookName(name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return nil
		}
	}
	return fmt.Errorf("expected a workbook (%s), got %q", strings.Join(SupportedExtensions, ", "), name)
}
