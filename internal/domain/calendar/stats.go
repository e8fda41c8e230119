package calendar

import "github.com/BruksfildServices01/alpha-clean/internal/dto"

// DayStats são os contadores de um dia. Receita soma apenas finalizados.
type DayStats struct {
	Total       int     `json:"total"`
	Agendados   int     `json:"agendados"`
	EmAndamento int     `json:"em_andamento"`
	Finalizados int     `json:"finalizados"`
	Cancelados  int     `json:"cancelados"`
	Receita     float64 `json:"receita"`
}

func computeStats(appts []dto.AppointmentView) DayStats {
	var s DayStats
	for _, a := range appts {
		s.Total++
		switch a.Status {
		case dto.StatusAgendado:
			s.Agendados++
		case dto.StatusEmAndamento:
			s.EmAndamento++
		case dto.StatusFinalizado:
			s.Finalizados++
			s.Receita += a.Valor
		case dto.StatusCancelado:
			s.Cancelados++
		}
	}
	return s
}

func filterByDate(appts []dto.AppointmentView, date string) []dto.AppointmentView {
	out := []dto.AppointmentView{}
	for _, a := range appts {
		if a.Data == date {
			out = append(out, a)
		}
	}
	return out
}
