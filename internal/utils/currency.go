package utils

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// maxFractionDigits mirrors the default precision of browser locale formatting.
const maxFractionDigits = 3

// NumberFormatter renders numbers with the digit grouping and separators of a
// locale, so en-IN yields 12,34,567 and de-DE yields 1.234.567.
type NumberFormatter struct {
	printer *message.Printer
}

// CurrencyFormatter prefixes locale-grouped amounts with a currency symbol.
type CurrencyFormatter struct {
	NumberFormatter
	symbol string
}

// NewNumberFormatter builds a formatter for tag.
func NewNumberFormatter(tag language.Tag) NumberFormatter {
	return NumberFormatter{printer: message.NewPrinter(tag)}
}

// NewCurrencyFormatter builds a formatter for tag that prefixes symbol.
func NewCurrencyFormatter(tag language.Tag, symbol string) CurrencyFormatter {
	return CurrencyFormatter{NumberFormatter: NewNumberFormatter(tag), symbol: symbol}
}

// Format renders v as symbol followed by the grouped number, e.g. ₹12,34,567.5.
// Negative amounts keep the sign after the symbol (₹-80).
func (f CurrencyFormatter) Format(v float64) string {
	return f.symbol + f.NumberFormatter.Format(v)
}

// Format renders v with grouping and at most three fraction digits; trailing
// zeros are trimmed.
func (f NumberFormatter) Format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	// Values that round to zero must not print as -0.
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0
	}
	return f.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(maxFractionDigits)))
}
