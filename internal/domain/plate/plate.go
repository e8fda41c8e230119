// Package plate normaliza e valida placas brasileiras nos formatos
// antigo (AAA9999) e Mercosul (ABC1D23).
package plate

import (
	"regexp"
	"strings"
)

const MaxLen = 7

var (
	legacyRe   = regexp.MustCompile(`^[A-Z]{3}-?[0-9]{4}$`)
	mercosulRe = regexp.MustCompile(`^[A-Z]{3}[0-9][A-Z][0-9]{2}$`)
)

// Normalize formata a entrada enquanto o usuário digita: posições 0-2 letras,
// 3 dígito, 4 letra ou dígito, 5-6 dígitos. Caracteres fora da classe da
// posição corrente são descartados.
func Normalize(input string) string {
	var b strings.Builder
	b.Grow(MaxLen)

	n := 0
	for _, r := range strings.ToUpper(input) {
		if n == MaxLen {
			break
		}
		if !isLetter(r) && !isDigit(r) {
			continue
		}
		if !accepts(n, r) {
			continue
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

func accepts(pos int, r rune) bool {
	switch {
	case pos <= 2:
		return isLetter(r)
	case pos == 3:
		return isDigit(r)
	case pos == 4:
		return isLetter(r) || isDigit(r)
	default:
		return isDigit(r)
	}
}

// IsValid aceita LLLDDDD, LLL-DDDD e LLLDLDD.
func IsValid(p string) bool {
	p = strings.ToUpper(strings.TrimSpace(p))
	return legacyRe.MatchString(p) || mercosulRe.MatchString(p)
}

func isLetter(r rune) bool { return r >= 'A' && r <= 'Z' }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
