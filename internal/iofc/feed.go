package iofc

import (
	"strings"

	"github.com/iwvelando/milkminder/internal/sheet"
	"github.com/iwvelando/milkminder/pkg/constants"
	"github.com/iwvelando/milkminder/pkg/mathutil"
)

// FeedItem is one ingredient line of the ration table with its daily and
// period totals.
type FeedItem struct {
	Row               int     `json:"row"`
	Type              string  `json:"type"`
	KgPerHeadDay      float64 `json:"kgPerHeadDay" validate:"gte=0"`
	PriceTon          float64 `json:"priceTon" validate:"gte=0"`
	DryMatterFraction float64 `json:"dryMatterFraction" validate:"gte=0,lte=1"`
	Heads             int     `json:"heads" validate:"gte=0"`

	DailyAsFed       float64 `json:"dailyAsFed"`
	DailyDryMatter   float64 `json:"dailyDryMatter"`
	MonthlyAsFed     float64 `json:"monthlyAsFed"`
	MonthlyDryMatter float64 `json:"monthlyDryMatter"`
	MonthlyCost      float64 `json:"monthlyCost"`
}

// NewFeedItem builds a line and its derived totals over days. dryMatter may
// be a fraction or a percentage; anything above 1 is divided by 100.
func NewFeedItem(feedType string, kgPerHeadDay, priceTon, dryMatter float64, heads, days int) FeedItem {
	item := FeedItem{
		Type:              normalizeType(feedType),
		KgPerHeadDay:      kgPerHeadDay,
		PriceTon:          priceTon,
		DryMatterFraction: mathutil.FromPercentage(dryMatter),
		Heads:             heads,
	}

	item.DailyAsFed = item.KgPerHeadDay * float64(item.Heads)
	item.DailyDryMatter = item.DailyAsFed * item.DryMatterFraction
	item.MonthlyAsFed = item.DailyAsFed * float64(days)
	item.MonthlyDryMatter = item.DailyDryMatter * float64(days)
	item.MonthlyCost = (item.MonthlyAsFed / constants.KgPerTon) * item.PriceTon

	return item
}

// ReadFeedTable scans rows startRow..maxRow-1 and stops early at the first
// row whose type cell is blank. Row maxRow is never read.
func ReadFeedTable(src sheet.Source, startRow, maxRow, days int) []FeedItem {
	var items []FeedItem

	for row := startRow; row < maxRow; row++ {
		raw, ok := src.Value(constants.ColumnFeedType, row)
		if !ok || normalizeType(raw) == "" {
			break
		}

		item := NewFeedItem(
			raw,
			numberOrZero(src.Value(constants.ColumnKgPerHeadDay, row)),
			numberOrZero(src.Value(constants.ColumnPriceTon, row)),
			numberOrZero(src.Value(constants.ColumnDryMatter, row)),
			intOrZero(src.Value(constants.ColumnHeads, row)),
			days,
		)
		item.Row = row
		items = append(items, item)
	}

	return items
}

func normalizeType(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
