package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/alpha-clean/internal/audit"
	domain "github.com/BruksfildServices01/alpha-clean/internal/domain/appointment"
	"github.com/BruksfildServices01/alpha-clean/internal/domain/plate"
	"github.com/BruksfildServices01/alpha-clean/internal/httperr"
	"github.com/BruksfildServices01/alpha-clean/internal/models"
	"github.com/BruksfildServices01/alpha-clean/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	UserID uint

	ServiceID    uint
	VehicleModel string
	Color        string
	Plate        string

	Date  string
	Time  string
	Notes string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo       domain.Repository
	audit      audit.Publisher
	clock      timezone.Clock
	minAdvance time.Duration
}

func NewCreateAppointment(
	repo domain.Repository,
	audit audit.Publisher,
	clock timezone.Clock,
	minAdvance time.Duration,
) *CreateAppointment {
	return &CreateAppointment{
		repo:       repo,
		audit:      audit,
		clock:      clock,
		minAdvance: minAdvance,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Campos obrigatórios
	// --------------------------------------------------
	in.VehicleModel = strings.TrimSpace(in.VehicleModel)
	in.Plate = plate.Normalize(in.Plate)

	if in.ServiceID == 0 || in.VehicleModel == "" || in.Plate == "" ||
		in.Date == "" || in.Time == "" {
		return nil, httperr.ErrBusiness("missing_fields")
	}

	if !plate.IsValid(in.Plate) {
		return nil, httperr.ErrBusiness("invalid_plate")
	}

	// --------------------------------------------------
	// 2️⃣ Data / hora no fuso da loja
	// --------------------------------------------------
	now := uc.clock()
	loc := now.Location()

	start, err := time.ParseInLocation("2006-01-02 15:04", in.Date+" "+in.Time, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	if start.Before(now) {
		return nil, httperr.ErrBusiness("date_in_past")
	}

	// --------------------------------------------------
	// 3️⃣ Serviço
	// --------------------------------------------------
	svc, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.Active {
		return nil, httperr.ErrBusiness("service_inactive")
	}

	// --------------------------------------------------
	// 4️⃣ Horário precisa existir e ter vaga
	// --------------------------------------------------
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	slots, capacity, err := loadSlots(ctx, uc.repo, domain.AvailabilityInput{
		Date: day,
		Now:  now,
	}, uc.minAdvance)
	if err != nil {
		return nil, err
	}

	slot, ok := domain.FindSlot(slots, start.Format(domain.TimeLayout))
	if !ok || !slot.Bookable() {
		return nil, httperr.ErrBusiness("slot_unavailable")
	}

	// --------------------------------------------------
	// 5️⃣ Criação sob lock do horário
	// --------------------------------------------------
	ap := &models.Appointment{
		UserID:       in.UserID,
		ServiceID:    svc.ID,
		VehicleModel: in.VehicleModel,
		Color:        strings.TrimSpace(in.Color),
		Plate:        in.Plate,
		Date:         start.Format(domain.DateLayout),
		Time:         start.Format(domain.TimeLayout),
		Status:       string(domain.InitialStatus()),
		Price:        svc.Price,
		Notes:        strings.TrimSpace(in.Notes),
	}

	if err := uc.repo.CreateWithinCapacity(ctx, ap, capacity); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 6️⃣ Auditoria
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		UserID:   &in.UserID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]string{"data": ap.Date, "horario": ap.Time},
	})

	ap.Service = *svc
	return ap, nil
}
