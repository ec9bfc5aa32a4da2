package iofc

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/iwvelando/milkminder/pkg/constants"
)

var validate = newValidator()

var headerCells = map[string]string{
	"days":        constants.CellDays,
	"milkSold":    constants.CellMilkSold,
	"milkNotSold": constants.CellMilkNotSold,
	"invoiceEur":  constants.CellInvoice,
	"cowsInMilk":  constants.CellCowsInMilk,
	"cowsEnd":     constants.CellCowsEnd,
}

var feedColumns = map[string]string{
	"kgPerHeadDay":      constants.ColumnKgPerHeadDay,
	"priceTon":          constants.ColumnPriceTon,
	"dryMatterFraction": constants.ColumnDryMatter,
	"heads":             constants.ColumnHeads,
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the documented value ranges and returns human readable
// warnings. Out of range values never stop the computation.
func Validate(inputs HeaderInputs, items []FeedItem) []string {
	var warnings []string

	if inputs.Days == 0 {
		warnings = append(warnings, fmt.Sprintf("days (%s) is 0; feed period totals will be 0", constants.CellDays))
	}

	for _, fe := range fieldErrors(inputs) {
		warnings = append(warnings, fmt.Sprintf("%s (%s) %s, got %v",
			fe.Field(), headerCells[fe.Field()], describe(fe), fe.Value()))
	}

	for _, item := range items {
		for _, fe := range fieldErrors(item) {
			warnings = append(warnings, fmt.Sprintf("feed %q %s (%s%d) %s, got %v",
				item.Type, fe.Field(), feedColumns[fe.Field()], item.Row, describe(fe), fe.Value()))
		}
	}

	return warnings
}

func fieldErrors(v interface{}) validator.ValidationErrors {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok {
		return errs
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return "should be at least " + fe.Param()
	case "lte":
		return "should be at most " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}
