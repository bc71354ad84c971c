package usecase

import (
	"regexp"
	"strconv"
	"strings"
)

// pricePatterns recognize a price expression, tried in order; first match
// wins. Accepted forms: "R$ 85,50", "85,50", "85.50", "85", "85 reais",
// "85,50 real", "R$85".
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^r\$\s*([0-9]+(?:[.,][0-9]{1,2})?)$`),
	regexp.MustCompile(`(?i)^([0-9]+(?:[.,][0-9]{1,2})?)\s*(?:reais|real|conto|contos|r\$)$`),
	regexp.MustCompile(`^([0-9]+(?:[.,][0-9]{1,2})?)$`),
}

// ParsePriceExpression extracts a strictly positive price from an utterance.
// Anything that does not parse to a positive number is not a price.
func ParsePriceExpression(text string) (float64, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, false
	}

	for _, re := range pricePatterns {
		m := re.FindStringSubmatch(trimmed)
		if len(m) != 2 {
			continue
		}
		raw := strings.ReplaceAll(m[1], ",", ".")
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil || val <= 0 {
			return 0, false
		}
		return val, true
	}
	return 0, false
}
