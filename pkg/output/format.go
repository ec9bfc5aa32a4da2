// Package output provides utilities for formatting and displaying IOFC reports.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/iwvelando/milkminder/internal/iofc"
	"github.com/iwvelando/milkminder/pkg/constants"
	"github.com/iwvelando/milkminder/pkg/format"
	"github.com/iwvelando/milkminder/pkg/mathutil"
)

// Write renders the report in the named output format.
func Write(w io.Writer, outputFormat string, report iofc.Report) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, report)
	case constants.OutputFormatCSV:
		return CsvFormat(w, report)
	case constants.OutputFormatJSON:
		return JSONFormat(w, report)
	default:
		return fmt.Errorf("unknown output format %s", outputFormat)
	}
}

// PrettyFormat outputs a human-readable summary followed by the feed lines.
func PrettyFormat(w io.Writer, report iofc.Report) error {
	amount := func(v float64) string { return format.Number(v, constants.AmountDecimals) }
	perLiter := func(v float64) string { return format.Number(v, constants.PerLiterDecimals) }

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "--- Results for %d days ---\n", report.Inputs.Days)
	fmt.Fprintf(tw, "Total milk produced (L)\t%s\n", amount(report.MilkTotal))
	fmt.Fprintf(tw, "Price per liter sold (€/L)\t%s\n", perLiter(report.PricePerLiterSold))
	fmt.Fprintf(tw, "Price per liter produced (€/L)\t%s\n", perLiter(report.PricePerLiterProduced))
	fmt.Fprintf(tw, "Total feed cost (€)\t%s\n", amount(report.MonthlyCostTotal))
	fmt.Fprintf(tw, "Total dry matter (kg)\t%s\n", amount(report.MonthlyDryMatterTotal))
	fmt.Fprintf(tw, "IOFC month (€)\t%s\n", amount(report.IOFCMonth))
	fmt.Fprintf(tw, "IOFC per cow per month (€)\t%s\n", amount(report.IOFCPerCowMonth))
	fmt.Fprintf(tw, "IOFC per liter (€/L)\t%s\n", perLiter(report.IOFCPerLiter))
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(report.Feed) > 0 {
		fmt.Fprintf(w, "\n")
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintf(tw, "Feed\tkg/head/day\t€/t\tDM\tHeads\tkg as fed/day\tkg DM/day\tkg as fed\tkg DM\tCost €\t\n")
		for _, item := range report.Feed {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\t\n",
				item.Type,
				amount(item.KgPerHeadDay),
				amount(item.PriceTon),
				amount(item.DryMatterFraction),
				item.Heads,
				amount(item.DailyAsFed),
				amount(item.DailyDryMatter),
				amount(item.MonthlyAsFed),
				amount(item.MonthlyDryMatter),
				amount(item.MonthlyCost),
			)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	for _, warning := range report.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	return nil
}

// CsvFormat outputs the feed lines in comma-separated value format followed
// by a totals row. Numbers are rounded to CSVDecimals and written without
// grouping.
func CsvFormat(w io.Writer, report iofc.Report) error {
	cw := csv.NewWriter(w)
	num := func(v float64) string {
		return strconv.FormatFloat(mathutil.RoundTo(v, constants.CSVDecimals), 'f', -1, 64)
	}

	records := [][]string{{
		"type", "kg_per_head_day", "price_ton", "dry_matter_fraction", "heads",
		"daily_as_fed", "daily_dry_matter", "monthly_as_fed", "monthly_dry_matter", "monthly_cost",
	}}
	for _, item := range report.Feed {
		records = append(records, []string{
			item.Type, num(item.KgPerHeadDay), num(item.PriceTon), num(item.DryMatterFraction),
			strconv.Itoa(item.Heads), num(item.DailyAsFed), num(item.DailyDryMatter),
			num(item.MonthlyAsFed), num(item.MonthlyDryMatter), num(item.MonthlyCost),
		})
	}
	records = append(records,
		[]string{"total", "", "", "", "", "", "", "", num(report.MonthlyDryMatterTotal), num(report.MonthlyCostTotal)},
		[]string{},
		[]string{"metric", "value"},
		[]string{"milk_total", num(report.MilkTotal)},
		[]string{"price_per_liter_sold", num(report.PricePerLiterSold)},
		[]string{"price_per_liter_produced", num(report.PricePerLiterProduced)},
		[]string{"iofc_month", num(report.IOFCMonth)},
		[]string{"iofc_per_cow_month", num(report.IOFCPerCowMonth)},
		[]string{"iofc_per_liter", num(report.IOFCPerLiter)},
	)

	if err := cw.WriteAll(records); err != nil {
		return err
	}
	return cw.Error()
}

// JSONFormat outputs the full report as indented JSON.
func JSONFormat(w io.Writer, report iofc.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
