package infra

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var clPrinter = message.NewPrinter(language.MustParse("es-CL"))

// FormatCLP renders an amount as whole Chilean pesos with locale grouping,
// e.g. 58000 -> "$58.000".
func FormatCLP(d decimal.Decimal) string {
	v := d.Round(0).IntPart()
	if v < 0 {
		return clPrinter.Sprintf("-$%d", -v)
	}
	return clPrinter.Sprintf("$%d", v)
}
