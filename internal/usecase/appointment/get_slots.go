package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/alpha-clean/internal/domain/appointment"
	"github.com/BruksfildServices01/alpha-clean/internal/httperr"
	"github.com/BruksfildServices01/alpha-clean/internal/timezone"
)

type GetSlots struct {
	repo       domain.Repository
	clock      timezone.Clock
	minAdvance time.Duration
}

func NewGetSlots(
	repo domain.Repository,
	clock timezone.Clock,
	minAdvance time.Duration,
) *GetSlots {
	return &GetSlots{
		repo:       repo,
		clock:      clock,
		minAdvance: minAdvance,
	}
}

func (uc *GetSlots) Execute(
	ctx context.Context,
	date string,
) ([]domain.SlotInfo, error) {

	now := uc.clock()
	day, err := time.ParseInLocation(domain.DateLayout, date, now.Location())
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	slots, _, err := loadSlots(ctx, uc.repo, domain.AvailabilityInput{
		Date: day,
		Now:  now,
	}, uc.minAdvance)
	return slots, err
}

// loadSlots busca expediente e ocupação e devolve os horários da data junto
// com a capacidade do dia.
func loadSlots(
	ctx context.Context,
	repo domain.Repository,
	in domain.AvailabilityInput,
	minAdvance time.Duration,
) ([]domain.SlotInfo, int, error) {

	weekday := int(in.Date.Weekday())

	wh, err := repo.GetWorkingHours(ctx, weekday)
	if err != nil {
		return nil, 0, err
	}
	if wh == nil {
		wh = domain.DefaultWorkingHours(weekday)
	}

	date := in.Date.Format(domain.DateLayout)
	taken, err := repo.CountActiveBySlot(ctx, date)
	if err != nil {
		return nil, 0, err
	}

	capacity := wh.Capacity
	if capacity <= 0 {
		capacity = 1
	}

	earliest := in.Now.Add(minAdvance)
	return domain.BuildSlots(in.Date, wh, taken, earliest), capacity, nil
}
