package dto

import "time"

// Status de agendamento, na forma como trafegam no JSON.
const (
	StatusAgendado    = "agendado"
	StatusEmAndamento = "em_andamento"
	StatusFinalizado  = "finalizado"
	StatusCancelado   = "cancelado"
)

// ClientSnapshot é a cópia desnormalizada do cliente embutida no agendamento.
type ClientSnapshot struct {
	ID       uint   `json:"id"`
	Nome     string `json:"nome"`
	Email    string `json:"email"`
	Telefone string `json:"telefone"`
}

// AppointmentView é o formato canônico de um agendamento consumido pelo
// calendário, pelo detalhe do dia e pelos indicadores do dashboard.
type AppointmentView struct {
	ID            uint           `json:"id"`
	Data          string         `json:"data"`
	Horario       string         `json:"horario"`
	ServicoID     uint           `json:"servico_id"`
	Servico       string         `json:"servico"`
	ModeloVeiculo string         `json:"modelo_veiculo"`
	Cor           string         `json:"cor"`
	Placa         string         `json:"placa"`
	Status        string         `json:"status"`
	Valor         float64        `json:"valor"`
	Observacoes   string         `json:"observacoes,omitempty"`
	Cliente       ClientSnapshot `json:"cliente"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}
