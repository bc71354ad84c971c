package usecase

import (
	"fmt"
	"strings"
)

// FormatBRL renders a value as Brazilian currency: 1234.5 → "R$ 1.234,50".
func FormatBRL(value float64) string {
	neg := value < 0
	if neg {
		value = -value
	}

	whole := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(whole, ".", 2)
	intPart, decPart := parts[0], parts[1]

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digit)
	}

	out := fmt.Sprintf("R$ %s,%s", b.String(), decPart)
	if neg {
		out = "-" + out
	}
	return out
}
