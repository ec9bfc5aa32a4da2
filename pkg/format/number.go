// Package format renders figures for display.
package format

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultLanguage is the locale used for figures shown to farm staff: comma
// decimals and dot thousands separators.
var DefaultLanguage = language.Italian

// Number formats value with the given number of decimals in DefaultLanguage
// (e.g. "-1.234,56").
func Number(value float64, decimals int) string {
	return NumberIn(DefaultLanguage, value, decimals)
}

// NumberIn formats value with the given number of decimals for tag.
func NumberIn(tag language.Tag, value float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	p := message.NewPrinter(tag)
	return p.Sprintf(fmt.Sprintf("%%.%df", decimals), value)
}
