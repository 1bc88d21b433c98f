package billing

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatAmount renders an amount in minor units (cents) with its currency symbol,
// for example 1999 "usd" as "$ 19.99". Unknown currencies fall back to "1999 XYZ".
func FormatAmount(amount int64, code string) string {
	code = strings.ToUpper(code)
	unit, err := currency.ParseISO(code)
	if err != nil {
		return strconv.FormatInt(amount, 10) + " " + code
	}

	scale, _ := currency.Standard.Rounding(unit)
	value := float64(amount) / math.Pow10(scale)

	return message.NewPrinter(language.English).Sprint(currency.Symbol(unit.Amount(value)))
}
