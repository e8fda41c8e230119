package notify

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// PasswordResetMailer monta e envia o link de redefinição de senha.
type PasswordResetMailer struct {
	sender      EmailSender
	frontendURL string
}

func NewPasswordResetMailer(sender EmailSender, frontendURL string) *PasswordResetMailer {
	return &PasswordResetMailer{
		sender:      sender,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

func (m *PasswordResetMailer) ResetLink(token string) string {
	return m.frontendURL + "/reset-password?token=" + url.QueryEscape(token)
}

func (m *PasswordResetMailer) SendReset(ctx context.Context, name, email, token string) error {
	link := m.ResetLink(token)

	body := fmt.Sprintf(
		"Olá, %s!\n\nRecebemos um pedido para redefinir sua senha na Alpha Clean.\n"+
			"Use o link abaixo em até 1 hora:\n\n%s\n\n"+
			"Se você não fez esse pedido, ignore este e-mail.",
		name, link,
	)
	html := fmt.Sprintf(
		`<p>Olá, %s!</p><p>Recebemos um pedido para redefinir sua senha na Alpha Clean.</p>`+
			`<p><a href="%s">Redefinir senha</a> (válido por 1 hora)</p>`+
			`<p>Se você não fez esse pedido, ignore este e-mail.</p>`,
		name, link,
	)

	return m.sender.Send(ctx, EmailMessage{
		To:      email,
		ToName:  name,
		Subject: "Alpha Clean - redefinição de senha",
		Body:    body,
		HTML:    html,
	})
}
