package formatters

import (
	"strconv"
	"strings"
)

var currencySymbols = map[string]string{
	"GBP": "£",
	"USD": "$",
	"EUR": "€",
}

// FormatCurrency renders amount with its currency symbol and thousands separators.
// Unknown currency codes are used as the prefix verbatim; an empty code means GBP.
func FormatCurrency(amount int, currency string) string {
	if currency == "" {
		currency = "GBP"
	}
	symbol, ok := currencySymbols[currency]
	if !ok {
		symbol = currency
	}
	if amount < 0 {
		return "-" + symbol + groupThousands(-amount)
	}
	return symbol + groupThousands(amount)
}

func groupThousands(n int) string {
	digits := strconv.Itoa(n)
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// TrendEmoji returns the indicator shown next to a job market trend
func TrendEmoji(trend string) string {
	switch trend {
	case "Growing":
		return "📈"
	case "Declining":
		return "📉"
	default:
		return "📊"
	}
}
