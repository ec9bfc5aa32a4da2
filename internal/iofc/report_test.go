package iofc

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/iwvelando/milkminder/internal/sheet"
	"go.uber.org/zap"
)

const tolerance = 1e-9

func farmGrid() sheet.Grid {
	return sheet.Grid{
		"B2": "30",
		"B3": "1000",
		"B4": "50",
		"B5": "400",
		"B6": "40",
		"B7": "42",
		"A12": "corn", "B12": "5", "C12": "250", "D12": "88", "E12": "40",
	}
}

func assertClose(t *testing.T, name string, got, expected float64) {
	t.Helper()
	if math.Abs(got-expected) > tolerance {
		t.Errorf("%s = %v, expected %v", name, got, expected)
	}
}

func TestComputeSingleFeedRow(t *testing.T) {
	report, err := Compute(farmGrid())
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if len(report.Feed) != 1 {
		t.Fatalf("expected 1 feed item, got %d", len(report.Feed))
	}
	assertClose(t, "MonthlyAsFed", report.Feed[0].MonthlyAsFed, 6000)
	assertClose(t, "MonthlyCost", report.Feed[0].MonthlyCost, 1500)
	assertClose(t, "MilkTotal", report.MilkTotal, 1050)
	assertClose(t, "PricePerLiterSold", report.PricePerLiterSold, 0.4)
	assertClose(t, "PricePerLiterProduced", report.PricePerLiterProduced, 400.0/1050.0)
	assertClose(t, "MonthlyCostTotal", report.MonthlyCostTotal, 1500)
	assertClose(t, "MonthlyDryMatterTotal", report.MonthlyDryMatterTotal, 5280)
	assertClose(t, "IOFCMonth", report.IOFCMonth, -1100)
	assertClose(t, "IOFCPerCowMonth", report.IOFCPerCowMonth, -27.5)
	assertClose(t, "IOFCPerLiter", report.IOFCPerLiter, -1.1)

	if report.Inputs.CowsEnd != 42 {
		t.Errorf("expected cowsEnd 42, got %d", report.Inputs.CowsEnd)
	}
	if len(report.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", report.Warnings)
	}
}

func TestComputeFromXLS(t *testing.T) {
	wb, err := sheet.OpenFile("../sheet/testdata/farm.xls", "")
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer func() { _ = wb.Close() }()

	report, err := Compute(wb)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if len(report.Feed) != 1 || report.Feed[0].Type != "corn" {
		t.Fatalf("unexpected feed items: %+v", report.Feed)
	}
	assertClose(t, "MonthlyCostTotal", report.MonthlyCostTotal, 1500)
	assertClose(t, "IOFCMonth", report.IOFCMonth, -1100)
	assertClose(t, "IOFCPerCowMonth", report.IOFCPerCowMonth, -27.5)
}

func TestComputeNoFeedRows(t *testing.T) {
	grid := farmGrid()
	for _, cell := range []string{"A12", "B12", "C12", "D12", "E12"} {
		delete(grid, cell)
	}

	report, err := Compute(grid)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if len(report.Feed) != 0 {
		t.Fatalf("expected no feed items, got %d", len(report.Feed))
	}
	if report.MonthlyCostTotal != 0 || report.MonthlyDryMatterTotal != 0 {
		t.Errorf("expected zero feed totals, got cost %v dm %v", report.MonthlyCostTotal, report.MonthlyDryMatterTotal)
	}
	if report.IOFCMonth != report.Inputs.InvoiceEur {
		t.Errorf("expected IOFC month %v, got %v", report.Inputs.InvoiceEur, report.IOFCMonth)
	}
}

func TestComputeZeroDenominators(t *testing.T) {
	tests := []struct {
		name  string
		cells map[string]string
		check func(t *testing.T, r Report)
	}{
		{
			name:  "No milk sold",
			cells: map[string]string{"B3": "0", "B4": "0"},
			check: func(t *testing.T, r Report) {
				if r.PricePerLiterSold != 0 || r.IOFCPerLiter != 0 || r.PricePerLiterProduced != 0 {
					t.Errorf("expected zero per-liter ratios, got %+v", r)
				}
			},
		},
		{
			name:  "Milk sold cell empty",
			cells: map[string]string{"B3": ""},
			check: func(t *testing.T, r Report) {
				if r.PricePerLiterSold != 0 || r.IOFCPerLiter != 0 {
					t.Errorf("expected zero per-liter-sold ratios, got %+v", r)
				}
				assertClose(t, "PricePerLiterProduced", r.PricePerLiterProduced, 8)
			},
		},
		{
			name:  "No cows in milk",
			cells: map[string]string{"B6": "0"},
			check: func(t *testing.T, r Report) {
				if r.IOFCPerCowMonth != 0 {
					t.Errorf("expected zero IOFC per cow, got %v", r.IOFCPerCowMonth)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := farmGrid()
			for cell, value := range tt.cells {
				grid[cell] = value
			}
			report, err := Compute(grid)
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			for _, v := range []float64{report.PricePerLiterSold, report.PricePerLiterProduced, report.IOFCPerCowMonth, report.IOFCPerLiter} {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("non-finite ratio in %+v", report)
				}
			}
			tt.check(t, report)
		})
	}
}

func TestComputeInputError(t *testing.T) {
	tests := []struct {
		cell  string
		raw   string
		field string
	}{
		{"B2", "thirty", "days"},
		{"B3", "abc", "milkSold"},
		{"B5", "€400", "invoiceEur"},
		{"B7", "NaN", "cowsEnd"},
	}

	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			grid := farmGrid()
			grid[tt.cell] = tt.raw

			_, err := Compute(grid)
			if err == nil {
				t.Fatal("expected error for non-numeric header cell but got nil")
			}
			var inputErr *InputError
			if !errors.As(err, &inputErr) {
				t.Fatalf("expected *InputError, got %T: %v", err, err)
			}
			if inputErr.Cell != tt.cell || inputErr.Field != tt.field || inputErr.Raw != tt.raw {
				t.Errorf("unexpected error details: %+v", inputErr)
			}
		})
	}
}

func TestComputeHeaderCoercion(t *testing.T) {
	grid := farmGrid()
	grid["B2"] = " 30.0 "
	grid["B5"] = "400,5"
	grid["B6"] = "40.9"
	delete(grid, "B7")

	report, err := Compute(grid)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if report.Inputs.Days != 30 {
		t.Errorf("expected days 30, got %d", report.Inputs.Days)
	}
	if report.Inputs.InvoiceEur != 400.5 {
		t.Errorf("expected invoice 400.5, got %v", report.Inputs.InvoiceEur)
	}
	if report.Inputs.CowsInMilk != 40 {
		t.Errorf("expected truncated cows in milk 40, got %d", report.Inputs.CowsInMilk)
	}
	if report.Inputs.CowsEnd != 0 {
		t.Errorf("expected missing cows at end to read as 0, got %d", report.Inputs.CowsEnd)
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	grid := farmGrid()
	grid["A13"], grid["B13"], grid["C13"], grid["D13"], grid["E13"] = "Hay", "7.5", "130", "0.86", "40"

	first, err := ComputeWithLogger(zap.NewNop(), grid)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	second, err := ComputeWithLogger(nil, grid)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical reports, got %+v and %+v", first, second)
	}
}

func TestNewReportTotalsAreOrderIndependent(t *testing.T) {
	items := []FeedItem{
		NewFeedItem("corn", 5, 250, 88, 40, 30),
		NewFeedItem("hay", 7.3, 131.7, 0.86, 40, 30),
		NewFeedItem("soy", 1.9, 487.25, 89, 38, 30),
		NewFeedItem("minerals", 0.21, 1210, 98, 40, 30),
	}
	reversed := make([]FeedItem, len(items))
	for i, item := range items {
		reversed[len(items)-1-i] = item
	}

	inputs := HeaderInputs{Days: 30, MilkSold: 30000, InvoiceEur: 14000, CowsInMilk: 40}
	a := NewReport(inputs, items)
	b := NewReport(inputs, reversed)

	var sum float64
	for _, item := range items {
		sum += item.MonthlyCost
	}
	if math.Abs(a.MonthlyCostTotal-sum) > 1e-6 {
		t.Errorf("MonthlyCostTotal = %v, expected sum of lines %v", a.MonthlyCostTotal, sum)
	}
	if math.Abs(a.MonthlyCostTotal-b.MonthlyCostTotal) > 1e-6 {
		t.Errorf("order changed cost total: %v vs %v", a.MonthlyCostTotal, b.MonthlyCostTotal)
	}
	if math.Abs(a.MonthlyDryMatterTotal-b.MonthlyDryMatterTotal) > 1e-6 {
		t.Errorf("order changed dry matter total: %v vs %v", a.MonthlyDryMatterTotal, b.MonthlyDryMatterTotal)
	}
}

func TestReportWarnings(t *testing.T) {
	grid := farmGrid()
	grid["B3"] = "-10"
	grid["D12"] = "150"

	report, err := Compute(grid)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	joined := strings.Join(report.Warnings, "\n")
	if !strings.Contains(joined, "milkSold (B3)") {
		t.Errorf("expected negative milk sold warning, got %v", report.Warnings)
	}
	if !strings.Contains(joined, `feed "corn" dryMatterFraction (D12)`) {
		t.Errorf("expected dry matter warning, got %v", report.Warnings)
	}
	if report.PricePerLiterSold != 0 {
		t.Errorf("expected negative milk sold to degrade ratio to 0, got %v", report.PricePerLiterSold)
	}
}

func TestReportWarnsOnZeroDays(t *testing.T) {
	grid := farmGrid()
	delete(grid, "B2")

	report, err := Compute(grid)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if len(report.Warnings) != 1 || !strings.Contains(report.Warnings[0], "days (B2) is 0") {
		t.Errorf("expected zero days warning, got %v", report.Warnings)
	}
	if report.MonthlyCostTotal != 0 {
		t.Errorf("expected zero cost total for zero days, got %v", report.MonthlyCostTotal)
	}
}
