package appointment

import (
	"github.com/BruksfildServices01/alpha-clean/internal/dto"
	"github.com/BruksfildServices01/alpha-clean/internal/models"
)

// ToView monta o formato canônico a partir do registro com User e Service
// pré-carregados.
func ToView(ap *models.Appointment) dto.AppointmentView {
	return dto.AppointmentView{
		ID:            ap.ID,
		Data:          ap.Date,
		Horario:       ap.Time,
		ServicoID:     ap.ServiceID,
		Servico:       ap.Service.Name,
		ModeloVeiculo: ap.VehicleModel,
		Cor:           ap.Color,
		Placa:         ap.Plate,
		Status:        ap.Status,
		Valor:         ap.Price,
		Observacoes:   ap.Notes,
		Cliente: dto.ClientSnapshot{
			ID:       ap.User.ID,
			Nome:     ap.User.Name,
			Email:    ap.User.Email,
			Telefone: ap.User.Phone,
		},
		CreatedAt: ap.CreatedAt,
		UpdatedAt: ap.UpdatedAt,
	}
}

func ToViews(aps []models.Appointment) []dto.AppointmentView {
	out := make([]dto.AppointmentView, 0, len(aps))
	for i := range aps {
		out = append(out, ToView(&aps[i]))
	}
	return out
}
