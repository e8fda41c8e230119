package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/alpha-clean/internal/domain/appointment"
	"github.com/BruksfildServices01/alpha-clean/internal/dto"
	"github.com/BruksfildServices01/alpha-clean/internal/httperr"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ListAppointmentsInput struct {
	Status   string
	Date     string
	Page     int
	PageSize int
}

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

// Execute lista todos para admin e apenas os próprios para cliente.
func (uc *ListAppointments) Execute(
	ctx context.Context,
	actor Actor,
	in ListAppointmentsInput,
) (dto.Page[dto.AppointmentView], error) {

	if in.Status != "" && !domain.Status(in.Status).Valid() {
		return dto.Page[dto.AppointmentView]{}, httperr.ErrBusiness("invalid_status")
	}

	if in.Page < 1 {
		in.Page = 1
	}
	if in.PageSize < 1 {
		in.PageSize = defaultPageSize
	}
	if in.PageSize > maxPageSize {
		in.PageSize = maxPageSize
	}

	filter := domain.ListFilter{
		Status:   in.Status,
		Date:     in.Date,
		Page:     in.Page,
		PageSize: in.PageSize,
	}
	if !actor.IsAdmin() {
		uid := actor.UserID
		filter.UserID = &uid
	}

	apps, total, err := uc.repo.ListAppointments(ctx, filter)
	if err != nil {
		return dto.Page[dto.AppointmentView]{}, err
	}

	return dto.NewPage(domain.ToViews(apps), total, in.Page, in.PageSize), nil
}
