// Package iofc computes feed cost and income over feed cost (IOFC) figures
// for one reporting period from a farm operations sheet.
package iofc

import (
	"github.com/iwvelando/milkminder/internal/sheet"
	"github.com/iwvelando/milkminder/pkg/constants"
	"github.com/iwvelando/milkminder/pkg/mathutil"
	"go.uber.org/zap"
)

// Report holds every derived figure for the period together with the inputs
// it was derived from.
type Report struct {
	Inputs HeaderInputs `json:"inputs"`
	Feed   []FeedItem   `json:"feed"`

	MilkTotal             float64 `json:"milkTotal"`
	PricePerLiterSold     float64 `json:"pricePerLiterSold"`
	PricePerLiterProduced float64 `json:"pricePerLiterProduced"`

	MonthlyCostTotal      float64 `json:"monthlyCostTotal"`
	MonthlyDryMatterTotal float64 `json:"monthlyDryMatterTotal"`

	IOFCMonth       float64 `json:"iofcMonth"`
	IOFCPerCowMonth float64 `json:"iofcPerCowMonth"`
	IOFCPerLiter    float64 `json:"iofcPerLiter"`

	Warnings []string `json:"warnings,omitempty"`
}

// Compute reads the header cells and feed table from src and derives the
// period report.
func Compute(src sheet.Source) (Report, error) {
	return ComputeWithLogger(zap.NewNop(), src)
}

// ComputeWithLogger is Compute with diagnostic logging.
func ComputeWithLogger(logger *zap.Logger, src sheet.Source) (Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	inputs, err := ParseHeaderInputs(src)
	if err != nil {
		logger.Debug("failed to parse header cells",
			zap.String("op", "iofc.Compute"),
			zap.Error(err),
		)
		return Report{}, err
	}

	items := ReadFeedTable(src, constants.FeedStartRow, constants.FeedMaxRow, inputs.Days)
	if len(items) == constants.FeedMaxRow-constants.FeedStartRow {
		logger.Warn("feed table reached the last readable row",
			zap.String("op", "iofc.Compute"),
			zap.Int("maxRow", constants.FeedMaxRow),
		)
	}

	report := NewReport(inputs, items)

	logger.Debug("report computed",
		zap.String("op", "iofc.Compute"),
		zap.Int("feedRows", len(items)),
		zap.Float64("monthlyCostTotal", report.MonthlyCostTotal),
		zap.Float64("iofcMonth", report.IOFCMonth),
	)

	return report, nil
}

// NewReport derives totals and ratios from already parsed inputs. Ratios
// whose denominator is zero are reported as 0.
func NewReport(inputs HeaderInputs, items []FeedItem) Report {
	r := Report{
		Inputs: inputs,
		Feed:   items,
	}

	r.MilkTotal = inputs.MilkSold + inputs.MilkNotSold
	r.PricePerLiterSold = mathutil.SafeDivide(inputs.InvoiceEur, inputs.MilkSold)
	r.PricePerLiterProduced = mathutil.SafeDivide(inputs.InvoiceEur, r.MilkTotal)

	costs := make([]float64, len(items))
	dryMatter := make([]float64, len(items))
	for i, item := range items {
		costs[i] = item.MonthlyCost
		dryMatter[i] = item.MonthlyDryMatter
	}
	r.MonthlyCostTotal = mathutil.Sum(costs)
	r.MonthlyDryMatterTotal = mathutil.Sum(dryMatter)

	r.IOFCMonth = inputs.InvoiceEur - r.MonthlyCostTotal
	r.IOFCPerCowMonth = mathutil.SafeDivide(r.IOFCMonth, float64(inputs.CowsInMilk))
	r.IOFCPerLiter = mathutil.SafeDivide(r.IOFCMonth, inputs.MilkSold)

	r.Warnings = Validate(inputs, items)

	return r
}
