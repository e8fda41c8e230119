// Package dashboard reduz a lista de agendamentos aos indicadores do painel.
package dashboard

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/alpha-clean/internal/dto"
)

type Summary struct {
	Total          int     `json:"total"`
	Agendados      int     `json:"agendados"`
	EmAndamento    int     `json:"em_andamento"`
	Finalizados    int     `json:"finalizados"`
	Cancelados     int     `json:"cancelados"`
	HojeTotal      int     `json:"hoje_total"`
	ReceitaHoje    float64 `json:"receita_hoje"`
	ReceitaMes     float64 `json:"receita_mes"`
	TicketMedio    float64 `json:"ticket_medio"`
	ProximoHorario string  `json:"proximo_horario,omitempty"`
}

// Summarize compara datas como string (YYYY-MM-DD); today já deve estar no
// fuso da loja.
func Summarize(appts []dto.AppointmentView, today time.Time) Summary {
	todayStr := today.Format("2006-01-02")
	monthPrefix := today.Format("2006-01")
	nowHM := today.Format("15:04")

	var s Summary
	var monthDone int
	for _, a := range appts {
		s.Total++

		switch a.Status {
		case dto.StatusAgendado:
			s.Agendados++
		case dto.StatusEmAndamento:
			s.EmAndamento++
		case dto.StatusFinalizado:
			s.Finalizados++
		case dto.StatusCancelado:
			s.Cancelados++
		}

		isToday := strings.HasPrefix(a.Data, todayStr)
		if isToday {
			s.HojeTotal++
		}

		if a.Status == dto.StatusFinalizado {
			if isToday {
				s.ReceitaHoje += a.Valor
			}
			if strings.HasPrefix(a.Data, monthPrefix) {
				s.ReceitaMes += a.Valor
				monthDone++
			}
		}

		if isToday && a.Status == dto.StatusAgendado && a.Horario >= nowHM {
			if s.ProximoHorario == "" || a.Horario < s.ProximoHorario {
				s.ProximoHorario = a.Horario
			}
		}
	}

	if monthDone > 0 {
		s.TicketMedio = s.ReceitaMes / float64(monthDone)
	}

	return s
}
