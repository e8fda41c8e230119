package calendar

import (
	"sort"

	"github.com/BruksfildServices01/alpha-clean/internal/dto"
)

type DayDetail struct {
	Date         string                `json:"data"`
	Stats        DayStats              `json:"stats"`
	Agendamentos []dto.AppointmentView `json:"agendamentos"`
}

// Detail filtra a data e ordena por horário. HH:MM com zero à esquerda
// ordena corretamente como string.
func Detail(date string, appts []dto.AppointmentView) DayDetail {
	dayAppts := filterByDate(appts, date)

	sort.SliceStable(dayAppts, func(i, j int) bool {
		return dayAppts[i].Horario < dayAppts[j].Horario
	})

	return DayDetail{
		Date:         date,
		Stats:        computeStats(dayAppts),
		Agendamentos: dayAppts,
	}
}
