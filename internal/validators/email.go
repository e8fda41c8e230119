package validators

import (
	"context"
	"net"
	"strings"
	"time"
)

const lookupTimeout = 3 * time.Second

// NormalizeEmail deixa o e-mail no formato em que é gravado.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Resolver é o pedaço de net.Resolver usado na checagem de domínio.
type Resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// EmailValidator confere se o domínio do e-mail existe. A sintaxe fica com
// a tag `binding:"email"` do request.
type EmailValidator struct {
	resolver Resolver
}

// NewEmailValidator com resolver nil aceita qualquer domínio.
func NewEmailValidator(resolver Resolver) *EmailValidator {
	return &EmailValidator{resolver: resolver}
}

func (v *EmailValidator) DomainValid(ctx context.Context, email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}
	if v == nil || v.resolver == nil {
		return true
	}

	domain := email[at+1:]

	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	if mx, err := v.resolver.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := v.resolver.LookupIPAddr(ctx, domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}
