package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var weightPrinter = message.NewPrinter(language.English)

// FormatWeight renders a weight in kilograms with two decimals and thousands
// grouping, the way the printed slips and deduction remarks have always shown
// it (12,500.00).
func FormatWeight(kg float64) string {
	return weightPrinter.Sprintf("%.2f", kg)
}
