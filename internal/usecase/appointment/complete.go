package appointment

import (
	"context"

	"github.com/BruksfildServices01/alpha-clean/internal/audit"
	domain "github.com/BruksfildServices01/alpha-clean/internal/domain/appointment"
	"github.com/BruksfildServices01/alpha-clean/internal/dto"
	"github.com/BruksfildServices01/alpha-clean/internal/httperr"
	"github.com/BruksfildServices01/alpha-clean/internal/logging"
	"github.com/BruksfildServices01/alpha-clean/internal/timezone"
)

// CompletionNotifier avisa o cliente que o carro está pronto.
type CompletionNotifier interface {
	NotifyCompleted(ctx context.Context, ap dto.AppointmentView) error
}

type CompleteAppointmentInput struct {
	AppointmentID uint
	Status        string
	Notes         string
	SendWhatsApp  bool
}

// CompleteAppointmentOutput carrega o agendamento já finalizado e o
// resultado do aviso. Falha no aviso não desfaz a finalização.
type CompleteAppointmentOutput struct {
	Agendamento   dto.AppointmentView `json:"agendamento"`
	WhatsappSent  bool                `json:"whatsappSent"`
	WhatsappError string              `json:"whatsappError,omitempty"`
}

type CompleteAppointment struct {
	repo     domain.Repository
	audit    audit.Publisher
	notifier CompletionNotifier
	clock    timezone.Clock
	logger   *logging.Logger
}

func NewCompleteAppointment(
	repo domain.Repository,
	audit audit.Publisher,
	notifier CompletionNotifier,
	clock timezone.Clock,
	logger *logging.Logger,
) *CompleteAppointment {
	if logger == nil {
		logger = logging.Discard()
	}
	return &CompleteAppointment{
		repo:     repo,
		audit:    audit,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
	}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	actor Actor,
	in CompleteAppointmentInput,
) (*CompleteAppointmentOutput, error) {

	if in.Status != "" && in.Status != dto.StatusFinalizado {
		return nil, httperr.ErrBusiness("invalid_status")
	}

	ap, err := uc.repo.GetAppointment(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.Complete(ap, in.Notes, uc.clock()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "appointment_completed",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]bool{"send_whatsapp": in.SendWhatsApp},
	})

	out := &CompleteAppointmentOutput{Agendamento: domain.ToView(ap)}

	if !in.SendWhatsApp {
		return out, nil
	}

	if uc.notifier == nil {
		out.WhatsappError = "WhatsApp não configurado"
		return out, nil
	}

	if err := uc.notifier.NotifyCompleted(ctx, out.Agendamento); err != nil {
		uc.logger.Warn("whatsapp notification failed",
			"appointment_id", ap.ID,
			"error", err,
		)
		out.WhatsappError = err.Error()
		return out, nil
	}

	out.WhatsappSent = true
	return out, nil
}
