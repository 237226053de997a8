package dashboard

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// roundHalfEven rounds halves to the even neighbour
func roundHalfEven(v float64) int64 {
	return int64(math.RoundToEven(v))
}

// FormatCount renders 12345 as "12,345"
func FormatCount(v float64) string {
	return printer.Sprintf("%d", roundHalfEven(v))
}

// FormatCurrency renders 3000 as "$3,000"
func FormatCurrency(v float64) string {
	return "$" + FormatCount(v)
}

// FormatPercent renders 13.4 as "13%"
func FormatPercent(v float64) string {
	return FormatCount(v) + "%"
}
