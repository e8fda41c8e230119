package whatsapp

import (
	"errors"
	"strings"
)

var ErrInvalidPhone = errors.New("whatsapp: telefone inválido")

// NormalizePhone deixa só dígitos e acrescenta o DDI 55 quando o número
// vem só com DDD.
func NormalizePhone(phone string) (string, error) {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case len(digits) == 10 || len(digits) == 11:
		return "55" + digits, nil
	case (len(digits) == 12 || len(digits) == 13) && strings.HasPrefix(digits, "55"):
		return digits, nil
	default:
		return "", ErrInvalidPhone
	}
}
