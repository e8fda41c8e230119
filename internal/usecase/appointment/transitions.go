package appointment

import (
	"context"

	"github.com/BruksfildServices01/alpha-clean/internal/audit"
	domain "github.com/BruksfildServices01/alpha-clean/internal/domain/appointment"
	"github.com/BruksfildServices01/alpha-clean/internal/httperr"
	"github.com/BruksfildServices01/alpha-clean/internal/models"
	"github.com/BruksfildServices01/alpha-clean/internal/timezone"
)

// ======================================================
// START
// ======================================================

type StartAppointment struct {
	repo  domain.Repository
	audit audit.Publisher
	clock timezone.Clock
}

func NewStartAppointment(
	repo domain.Repository,
	audit audit.Publisher,
	clock timezone.Clock,
) *StartAppointment {
	return &StartAppointment{repo: repo, audit: audit, clock: clock}
}

func (uc *StartAppointment) Execute(
	ctx context.Context,
	actor Actor,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.Start(ap, uc.clock()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "appointment_started",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}

// ======================================================
// CANCEL
// ======================================================

type CancelAppointment struct {
	repo  domain.Repository
	audit audit.Publisher
	clock timezone.Clock
}

func NewCancelAppointment(
	repo domain.Repository,
	audit audit.Publisher,
	clock timezone.Clock,
) *CancelAppointment {
	return &CancelAppointment{repo: repo, audit: audit, clock: clock}
}

// Execute cancela o agendamento. Cliente só cancela os próprios.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	actor Actor,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && ap.UserID != actor.UserID {
		return nil, httperr.ErrBusiness("forbidden")
	}

	if err := domain.Cancel(ap, uc.clock()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}

// ======================================================
// DELETE
// ======================================================

type DeleteAppointment struct {
	repo  domain.Repository
	audit audit.Publisher
}

func NewDeleteAppointment(
	repo domain.Repository,
	audit audit.Publisher,
) *DeleteAppointment {
	return &DeleteAppointment{repo: repo, audit: audit}
}

func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	actor Actor,
	appointmentID uint,
) error {

	if err := uc.repo.DeleteAppointment(ctx, appointmentID); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "appointment_deleted",
		Entity:   "appointment",
		EntityID: &appointmentID,
	})

	return nil
}
