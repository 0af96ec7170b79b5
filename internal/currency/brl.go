// Package currency handles the pt-BR formatted currency strings the
// generation backend returns for estimated costs. The backend always emits
// this wire format (comma decimal separator, dot thousands, optional "R$"
// prefix); the parser here is deliberately specific to it, not a general
// locale parser.
package currency

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// ParseBRL converts a backend cost string such as "R$ 1.234,56" into its
// numeric value. Thousands dots are stripped and the decimal comma replaced
// before parsing.
func ParseBRL(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "R$")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, fmt.Errorf("empty currency value %q", s)
	}
	var b strings.Builder
	for _, r := range cleaned {
		switch {
		case r >= '0' && r <= '9', r == ',', r == '.', r == '-':
			b.WriteRune(r)
		case r == ' ':
			// ignore
		default:
			return 0, fmt.Errorf("unexpected character %q in currency value %q", r, s)
		}
	}
	normalized := strings.ReplaceAll(b.String(), ".", "")
	normalized = strings.Replace(normalized, ",", ".", 1)
	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable currency value %q: %w", s, err)
	}
	return value, nil
}

// FormatBRL renders a numeric value back into the pt-BR wire format.
func FormatBRL(v float64) string {
	return ptBR.Sprintf("R$ %.2f", v)
}
