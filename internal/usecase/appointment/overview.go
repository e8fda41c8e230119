package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/alpha-clean/internal/domain/appointment"
	"github.com/BruksfildServices01/alpha-clean/internal/domain/calendar"
	"github.com/BruksfildServices01/alpha-clean/internal/domain/dashboard"
	"github.com/BruksfildServices01/alpha-clean/internal/httperr"
	"github.com/BruksfildServices01/alpha-clean/internal/timezone"
)

// Overview atende as telas administrativas: calendário, dia e dashboard.
type Overview struct {
	repo  domain.Repository
	clock timezone.Clock
}

func NewOverview(repo domain.Repository, clock timezone.Clock) *Overview {
	return &Overview{repo: repo, clock: clock}
}

func (uc *Overview) Calendar(
	ctx context.Context,
	month string,
) ([]calendar.DayCell, error) {

	m, err := calendar.ParseMonth(month)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_month")
	}

	// a grade inclui até 6 dias dos meses vizinhos
	first := time.Date(m.Year(), m.Month(), 1, 0, 0, 0, 0, time.UTC)
	from := first.AddDate(0, 0, -6).Format(domain.DateLayout)
	to := first.AddDate(0, 1, 5).Format(domain.DateLayout)

	apps, err := uc.repo.ListAppointmentsBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return calendar.Build(m, domain.ToViews(apps), uc.clock()), nil
}

func (uc *Overview) Day(
	ctx context.Context,
	date string,
) (calendar.DayDetail, error) {

	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return calendar.DayDetail{}, httperr.ErrBusiness("invalid_date")
	}

	apps, err := uc.repo.ListAppointmentsBetween(ctx, date, date)
	if err != nil {
		return calendar.DayDetail{}, err
	}

	return calendar.Detail(date, domain.ToViews(apps)), nil
}

// Dashboard conta por status sobre todo o histórico; receita do dia e do mês
// são recortadas em dashboard.Summarize.
func (uc *Overview) Dashboard(ctx context.Context) (dashboard.Summary, error) {
	apps, err := uc.repo.ListAppointmentsBetween(ctx, domain.MinDate, domain.MaxDate)
	if err != nil {
		return dashboard.Summary{}, err
	}

	return dashboard.Summarize(domain.ToViews(apps), uc.clock()), nil
}
