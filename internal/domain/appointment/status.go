package appointment

import (
	"github.com/BruksfildServices01/alpha-clean/internal/dto"
	"github.com/BruksfildServices01/alpha-clean/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled  Status = dto.StatusAgendado
	StatusInProgress Status = dto.StatusEmAndamento
	StatusCompleted  Status = dto.StatusFinalizado
	StatusCancelled  Status = dto.StatusCancelado
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Active indica se o agendamento ainda ocupa vaga no horário.
func (s Status) Active() bool {
	return s == StatusScheduled || s == StatusInProgress
}

// ===============================
// Validations
// ===============================

// CanStart define se o atendimento pode ser iniciado
func CanStart(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanComplete define se um agendamento pode ser finalizado
func CanComplete(current Status) error {
	if !current.Active() {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanCancel define se um agendamento pode ser cancelado
func CanCancel(current Status) error {
	if !current.Active() {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func InitialStatus() Status {
	return StatusScheduled
}
