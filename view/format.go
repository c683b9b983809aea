package view

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var usd = message.NewPrinter(language.AmericanEnglish)

// FormatPrice renders whole dollars as en-US currency, e.g. $1,500,000.00.
func FormatPrice(dollars int64) string {
	return "$" + usd.Sprint(number.Decimal(dollars, number.Scale(2)))
}

// FormatDate is the en-US short date, e.g. 10/25/1991.
func FormatDate(t time.Time) string { return t.UTC().Format("1/2/2006") }

// ISODate is the machine-readable value for <time datetime>.
func ISODate(t time.Time) string { return t.UTC().Format(time.DateOnly) }
