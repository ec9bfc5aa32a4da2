package server

import (
	"strconv"

	"github.com/iwvelando/milkminder/internal/iofc"
	"github.com/iwvelando/milkminder/pkg/constants"
	"github.com/iwvelando/milkminder/pkg/format"
)

type pageData struct {
	Version  string
	FileName string
	Error    string
	Results  *resultsView
}

type figure struct {
	Label string
	Value string
	Unit  string
}

type feedRowView struct {
	Type             string
	KgPerHeadDay     string
	PriceTon         string
	DryMatter        string
	Heads            string
	DailyAsFed       string
	DailyDryMatter   string
	MonthlyAsFed     string
	MonthlyDryMatter string
	MonthlyCost      string
}

type resultsView struct {
	Days     int
	Summary  []figure
	Feed     []feedRowView
	Warnings []string
}

func amount(v float64) string {
	return format.Number(v, constants.AmountDecimals)
}

func perLiter(v float64) string {
	return format.Number(v, constants.PerLiterDecimals)
}

// newResultsView formats a report the way the upload page shows it.
func newResultsView(r iofc.Report) *resultsView {
	view := &resultsView{
		Days: r.Inputs.Days,
		Summary: []figure{
			{Label: "Totale latte prodotto", Value: amount(r.MilkTotal), Unit: "L"},
			{Label: "Prezzo €/L venduto", Value: perLiter(r.PricePerLiterSold)},
			{Label: "Prezzo €/L prodotto", Value: perLiter(r.PricePerLiterProduced)},
			{Label: "Totale € alimenti", Value: amount(r.MonthlyCostTotal)},
			{Label: "Totale kg SS", Value: amount(r.MonthlyDryMatterTotal)},
			{Label: "IOFC mese", Value: amount(r.IOFCMonth)},
			{Label: "IOFC/capo/mese", Value: amount(r.IOFCPerCowMonth)},
			{Label: "IOFC/L", Value: perLiter(r.IOFCPerLiter)},
		},
		Warnings: r.Warnings,
	}

	for _, item := range r.Feed {
		view.Feed = append(view.Feed, feedRowView{
			Type:             item.Type,
			KgPerHeadDay:     amount(item.KgPerHeadDay),
			PriceTon:         amount(item.PriceTon),
			DryMatter:        format.Number(item.DryMatterFraction*constants.PercentageMultiplier, 1) + "%",
			Heads:            strconv.Itoa(item.Heads),
			DailyAsFed:       amount(item.DailyAsFed),
			DailyDryMatter:   amount(item.DailyDryMatter),
			MonthlyAsFed:     amount(item.MonthlyAsFed),
			MonthlyDryMatter: amount(item.MonthlyDryMatter),
			MonthlyCost:      amount(item.MonthlyCost),
		})
	}

	return view
}
