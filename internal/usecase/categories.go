package usecase

import (
	"strings"

	"github.com/yourusername/caderneta-bot/internal/domain/constants"
)

// CanonicalCategories is the fixed category set of the ledger.
var CanonicalCategories = []string{
	"alimentação",
	"transporte",
	"moradia",
	"saúde",
	"educação",
	"lazer",
	constants.SalesCategory,
	constants.FallbackCategory,
}

// categoryAliases maps loose vocabulary (synonyms, misspellings, English
// loanwords) to canonical categories. Anything missing falls back to "outros".
var categoryAliases = map[string]string{
	// alimentação
	"alimentacao":  "alimentação",
	"alimentação":  "alimentação",
	"comida":       "alimentação",
	"mercado":      "alimentação",
	"supermercado": "alimentação",
	"lanche":       "alimentação",
	"restaurante":  "alimentação",
	"ifood":        "alimentação",
	"food":         "alimentação",
	"feira":        "alimentação",
	"padaria":      "alimentação",

	// transporte
	"transporte":  "transporte",
	"uber":        "transporte",
	"99":          "transporte",
	"taxi":        "transporte",
	"táxi":        "transporte",
	"onibus":      "transporte",
	"ônibus":      "transporte",
	"busao":       "transporte",
	"busão":       "transporte",
	"gasolina":    "transporte",
	"combustivel": "transporte",
	"combustível": "transporte",
	"passagem":    "transporte",

	// moradia
	"moradia":     "moradia",
	"aluguel":     "moradia",
	"luz":         "moradia",
	"energia":     "moradia",
	"agua":        "moradia",
	"água":        "moradia",
	"internet":    "moradia",
	"condominio":  "moradia",
	"condomínio":  "moradia",
	"casa":        "moradia",

	// saúde
	"saude":    "saúde",
	"saúde":    "saúde",
	"remedio":  "saúde",
	"remédio":  "saúde",
	"farmacia": "saúde",
	"farmácia": "saúde",
	"medico":   "saúde",
	"médico":   "saúde",
	"dentista": "saúde",
	"health":   "saúde",

	// educação
	"educacao":    "educação",
	"educação":    "educação",
	"escola":      "educação",
	"faculdade":   "educação",
	"curso":       "educação",
	"livro":       "educação",
	"mensalidade": "educação",

	// lazer
	"lazer":    "lazer",
	"cinema":   "lazer",
	"festa":    "lazer",
	"viagem":   "lazer",
	"streaming": "lazer",
	"netflix":  "lazer",
	"jogo":     "lazer",
	"bar":      "lazer",

	// vendas
	"vendas": constants.SalesCategory,
	"venda":  constants.SalesCategory,
	"sale":   constants.SalesCategory,

	// outros
	"outros": constants.FallbackCategory,
	"outro":  constants.FallbackCategory,
	"geral":  constants.FallbackCategory,
}

// CanonicalCategory maps loose input to the canonical set; unknown input goes
// to the catch-all instead of failing.
func CanonicalCategory(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.Trim(key, ".,!?;:")
	if cat, ok := categoryAliases[key]; ok {
		return cat
	}
	return constants.FallbackCategory
}

// KnownCategoryToken reports whether the token maps to a real category, i.e.
// anything but the catch-all.
func KnownCategoryToken(raw string) bool {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.Trim(key, ".,!?;:")
	cat, ok := categoryAliases[key]
	return ok && cat != constants.FallbackCategory
}
