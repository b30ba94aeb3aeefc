package cli

import (
	"fmt"
	"strings"
)

// Rupiah formats an amount as "Rp 1.234.567" with Indonesian digit
// grouping. Fractions are dropped; the ledger works in whole rupiah.
func Rupiah(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	digits := fmt.Sprintf("%.0f", amount)

	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	if neg {
		return "-Rp " + b.String()
	}
	return "Rp " + b.String()
}
