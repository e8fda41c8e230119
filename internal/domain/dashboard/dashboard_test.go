package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/alpha-clean/internal/dto"
)

func TestSummarize(t *testing.T) {
	today := time.Date(2024, 5, 10, 11, 30, 0, 0, time.UTC)
	appts := []dto.AppointmentView{
		{Data: "2024-05-10", Horario: "09:00", Status: dto.StatusFinalizado, Valor: 80},
		{Data: "2024-05-10", Horario: "10:00", Status: dto.StatusEmAndamento, Valor: 60},
		{Data: "2024-05-10", Horario: "15:00", Status: dto.StatusAgendado, Valor: 60},
		{Data: "2024-05-10", Horario: "13:00", Status: dto.StatusAgendado, Valor: 60},
		{Data: "2024-05-10", Horario: "08:00", Status: dto.StatusAgendado, Valor: 60},
		{Data: "2024-05-02", Horario: "09:00", Status: dto.StatusFinalizado, Valor: 40},
		{Data: "2024-05-03", Horario: "09:00", Status: dto.StatusCancelado, Valor: 500},
		{Data: "2024-04-30", Horario: "09:00", Status: dto.StatusFinalizado, Valor: 1000},
	}

	s := Summarize(appts, today)

	assert.Equal(t, 8, s.Total)
	assert.Equal(t, 3, s.Agendados)
	assert.Equal(t, 1, s.EmAndamento)
	assert.Equal(t, 3, s.Finalizados)
	assert.Equal(t, 1, s.Cancelados)
	assert.Equal(t, 5, s.HojeTotal)
	assert.Equal(t, 80.0, s.ReceitaHoje)
	assert.Equal(t, 120.0, s.ReceitaMes)
	assert.Equal(t, 60.0, s.TicketMedio)
	assert.Equal(t, "13:00", s.ProximoHorario)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, time.Now())
	assert.Equal(t, Summary{}, s)
}

func TestSummarize_RevenueIgnoresNonFinalized(t *testing.T) {
	today := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	s := Summarize([]dto.AppointmentView{
		{Data: "2024-05-10", Status: dto.StatusCancelado, Valor: 100},
		{Data: "2024-05-10", Status: dto.StatusAgendado, Valor: 100},
	}, today)

	assert.Zero(t, s.ReceitaHoje)
	assert.Zero(t, s.ReceitaMes)
	assert.Zero(t, s.TicketMedio)
}
