package notify

import (
	"fmt"
	"strings"
)

// formatKES formats an amount as Kenyan shillings with thousands grouping,
// e.g. 12500 -> "KES 12,500.00".
func formatKES(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	whole := fmt.Sprintf("%.2f", amount)
	intPart, fracPart, _ := strings.Cut(whole, ".")

	var grouped strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(digit)
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("KES %s%s.%s", sign, grouped.String(), fracPart)
}
