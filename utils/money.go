package utils

import (
	"strconv"
	"strings"
)

// FormatPrice formats an integer amount as "$12.500" for COP and "$12,500 USD"
// style for other currencies. Amounts are whole units, no cents.
func FormatPrice(amount int64, currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	sep := byte(',')
	if currency == "" || currency == "COP" {
		sep = '.'
	}

	var b strings.Builder
	if amount < 0 {
		b.WriteString("-")
		amount = -amount
	}
	b.WriteString("$")

	s := strconv.FormatInt(amount, 10)
	rem := len(s) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(s[:rem])
	for i := rem; i < len(s); i += 3 {
		b.WriteByte(sep)
		b.WriteString(s[i : i+3])
	}

	if currency != "" && currency != "COP" {
		b.WriteString(" ")
		b.WriteString(currency)
	}
	return b.String()
}
