package main

import (
	"errors"
	"fmt"

	"github.com/iwvelando/milkminder/internal/iofc"
	"github.com/iwvelando/milkminder/internal/sheet"
	"github.com/iwvelando/milkminder/pkg/output"
	"github.com/iwvelando/milkminder/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func reportCmd(a *app) *cobra.Command {
	var (
		outputFormat string
		sheetName    string
	)

	cmd := &cobra.Command{
		Use:   "report <workbook.xlsx|workbook.xls>",
		Short: "Compute feed cost and IOFC figures for a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// CLI flags take precedence over config
			format := a.conf.Output.Format
			if outputFormat != "" {
				format = outputFormat
			}
			if err := validation.ValidateOutputFormat(format); err != nil {
				return err
			}

			name := a.conf.Workbook.Sheet
			if sheetName != "" {
				name = sheetName
			}

			return runReport(cmd, a.logger, args[0], name, format)
		},
	}

	cmd.Flags().StringVar(&outputFormat, "output-format", "", "type of output override: pretty, csv, json")
	cmd.Flags().StringVar(&sheetName, "sheet", "", "worksheet to read (default: the active sheet)")

	return cmd
}

func runReport(cmd *cobra.Command, logger *zap.Logger, path, sheetName, format string) error {
	if err := validation.ValidateWorkbookName(path); err != nil {
		return err
	}

	wb, err := sheet.OpenFile(path, sheetName)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := wb.Close(); closeErr != nil {
			logger.Warn("failed to close workbook",
				zap.String("op", "main.runReport"),
				zap.Error(closeErr),
			)
		}
	}()

	report, err := iofc.ComputeWithLogger(logger, wb)
	if err != nil {
		var inputErr *iofc.InputError
		if errors.As(err, &inputErr) {
			logger.Error("workbook has unreadable header cells",
				zap.String("op", "main.runReport"),
				zap.String("cell", inputErr.Cell),
				zap.String("raw", inputErr.Raw),
			)
		}
		return fmt.Errorf("failed to compute report for %s: %w", path, err)
	}

	for _, warning := range report.Warnings {
		logger.Warn("Input warning: "+warning,
			zap.String("op", "main.runReport"),
		)
	}

	logger.Info("report computed",
		zap.String("op", "main.runReport"),
		zap.String("file", path),
		zap.String("sheet", wb.SheetName()),
		zap.Int("feedRows", len(report.Feed)),
	)

	return output.Write(cmd.OutOrStdout(), format, report)
}
