package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BruksfildServices01/alpha-clean/internal/dto"
)

type sender interface {
	Send(ctx context.Context, phone, message string) error
}

// Notifier avisa o cliente quando o serviço termina.
type Notifier struct {
	client sender
}

func NewNotifier(client *Client) *Notifier {
	return &Notifier{client: client}
}

func (n *Notifier) NotifyCompleted(ctx context.Context, ap dto.AppointmentView) error {
	if strings.TrimSpace(ap.Cliente.Telefone) == "" {
		return errors.New("cliente sem telefone cadastrado")
	}
	return n.client.Send(ctx, ap.Cliente.Telefone, CompletionMessage(ap))
}

func CompletionMessage(ap dto.AppointmentView) string {
	name := strings.TrimSpace(ap.Cliente.Nome)
	if first, _, ok := strings.Cut(name, " "); ok {
		name = first
	}
	if name == "" {
		name = "cliente"
	}

	vehicle := ap.ModeloVeiculo
	if ap.Placa != "" {
		vehicle = fmt.Sprintf("%s (%s)", ap.ModeloVeiculo, ap.Placa)
	}

	return fmt.Sprintf(
		"Olá, %s! 🚗✨\n\nSeu %s está pronto!\nServiço: %s\n\nObrigado por escolher a Alpha Clean.",
		name, vehicle, ap.Servico,
	)
}
