// Package calendar monta a grade mensal e o detalhe do dia usados pelo
// painel administrativo.
package calendar

import (
	"time"

	"github.com/BruksfildServices01/alpha-clean/internal/dto"
)

const dateLayout = "2006-01-02"

type DayCell struct {
	Date           string                `json:"date"`
	Day            int                   `json:"day"`
	IsCurrentMonth bool                  `json:"isCurrentMonth"`
	IsToday        bool                  `json:"isToday"`
	Agendamentos   []dto.AppointmentView `json:"agendamentos"`
	Stats          DayStats              `json:"stats"`
}

// Build devolve semanas completas (domingo a sábado) cobrindo o mês de
// month. today só marca a célula, não interfere na agregação.
func Build(month time.Time, appts []dto.AppointmentView, today time.Time) []DayCell {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	start := first.AddDate(0, 0, -int(first.Weekday()))
	end := last.AddDate(0, 0, int(time.Saturday-last.Weekday()))

	todayStr := today.Format(dateLayout)

	cells := make([]DayCell, 0, 42)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := d.Format(dateLayout)
		dayAppts := filterByDate(appts, date)

		cells = append(cells, DayCell{
			Date:           date,
			Day:            d.Day(),
			IsCurrentMonth: d.Month() == first.Month() && d.Year() == first.Year(),
			IsToday:        date == todayStr,
			Agendamentos:   dayAppts,
			Stats:          computeStats(dayAppts),
		})
	}

	return cells
}

// ParseMonth aceita "YYYY-MM".
func ParseMonth(s string) (time.Time, error) {
	return time.Parse("2006-01", s)
}
