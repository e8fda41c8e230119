package appointment

import (
	"time"

	"github.com/BruksfildServices01/alpha-clean/internal/models"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	// intervalo fechado que cobre qualquer data gravada
	MinDate = "0001-01-01"
	MaxDate = "9999-12-31"
)

type AvailabilityInput struct {
	Date time.Time // meia-noite da data, no fuso da loja
	Now  time.Time
}

// SlotInfo é a capacidade restante de um horário em uma data.
type SlotInfo struct {
	Horario    string `json:"horario"`
	Disponivel int    `json:"disponivel"`
}

func (s SlotInfo) Bookable() bool {
	return s.Disponivel > 0
}

// DefaultWorkingHours é usado quando o dia da semana não tem expediente
// cadastrado: segunda a sábado, 08:00-18:00 com almoço, domingo fechado.
func DefaultWorkingHours(weekday int) *models.WorkingHours {
	return &models.WorkingHours{
		Weekday:     weekday,
		Active:      weekday != int(time.Sunday),
		StartTime:   "08:00",
		EndTime:     "18:00",
		LunchStart:  "12:00",
		LunchEnd:    "13:00",
		SlotMinutes: 60,
		Capacity:    2,
	}
}

// BuildSlots gera os horários do expediente descontando almoço, horários
// anteriores a earliest e a ocupação já registrada.
func BuildSlots(
	date time.Time,
	wh *models.WorkingHours,
	taken map[string]int,
	earliest time.Time,
) []SlotInfo {

	slots := []SlotInfo{}
	if wh == nil || !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
		return slots
	}

	step := time.Duration(wh.SlotMinutes) * time.Minute
	if step <= 0 {
		step = time.Hour
	}

	capacity := wh.Capacity
	if capacity <= 0 {
		capacity = 1
	}

	loc := date.Location()
	parseHM := func(hm string) (time.Time, bool) {
		t, err := time.Parse(TimeLayout, hm)
		if err != nil {
			return time.Time{}, false
		}
		return time.Date(
			date.Year(), date.Month(), date.Day(),
			t.Hour(), t.Minute(), 0, 0,
			loc,
		), true
	}

	dayStart, ok1 := parseHM(wh.StartTime)
	dayEnd, ok2 := parseHM(wh.EndTime)
	if !ok1 || !ok2 {
		return slots
	}

	lunchStart, hasLunchStart := parseHM(wh.LunchStart)
	lunchEnd, hasLunchEnd := parseHM(wh.LunchEnd)
	hasLunch := hasLunchStart && hasLunchEnd

	for cur := dayStart; !cur.Add(step).After(dayEnd); cur = cur.Add(step) {
		slotEnd := cur.Add(step)

		// almoço
		if hasLunch && cur.Before(lunchEnd) && slotEnd.After(lunchStart) {
			continue
		}

		// passado / antecedência mínima
		if cur.Before(earliest) {
			continue
		}

		hm := cur.Format(TimeLayout)
		free := capacity - taken[hm]
		if free < 0 {
			free = 0
		}

		slots = append(slots, SlotInfo{Horario: hm, Disponivel: free})
	}

	return slots
}

// FindSlot procura o horário na lista obtida para a data.
func FindSlot(slots []SlotInfo, horario string) (SlotInfo, bool) {
	for _, s := range slots {
		if s.Horario == horario {
			return s, true
		}
	}
	return SlotInfo{}, false
}
