// Package format renders monetary values for human-readable output.
package format

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	if isNegativeCents(amount) {
		return "-$" + positive(amount)
	}
	return "$" + positive(amount)
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	if isNegativeCents(amount) {
		return "-" + positive(amount)
	}
	return positive(amount)
}

// Percent renders a percentage with up to four decimals (e.g., "4.5%").
func Percent(value float64) string {
	return strconv.FormatFloat(math.Round(value*10000)/10000, 'f', -1, 64) + "%"
}

func positive(amount float64) string {
	return printer.Sprintf("%.2f", math.Abs(amount))
}

// isNegativeCents avoids rendering "-$0.00" for values that round to zero.
func isNegativeCents(amount float64) bool {
	return math.Round(amount*100) < 0
}
