package appointment

import (
	"context"

	"github.com/BruksfildServices01/alpha-clean/internal/models"
)

type ListFilter struct {
	UserID   *uint
	Status   string
	Date     string
	Page     int
	PageSize int
}

type Repository interface {
	// -------- Service --------
	GetService(
		ctx context.Context,
		serviceID uint,
	) (*models.Service, error)

	// -------- Availability --------
	GetWorkingHours(
		ctx context.Context,
		weekday int,
	) (*models.WorkingHours, error)

	// CountActiveBySlot devolve quantos agendamentos ativos ocupam cada
	// horário (HH:MM) da data.
	CountActiveBySlot(
		ctx context.Context,
		date string,
	) (map[string]int, error)

	// -------- Appointment (create) --------

	// CreateWithinCapacity grava o agendamento se o horário ainda tiver
	// vaga, sob lock das linhas do mesmo horário.
	CreateWithinCapacity(
		ctx context.Context,
		ap *models.Appointment,
		capacity int,
	) error

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		appointmentID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	DeleteAppointment(
		ctx context.Context,
		appointmentID uint,
	) error

	// -------- Listing --------
	ListAppointments(
		ctx context.Context,
		filter ListFilter,
	) ([]models.Appointment, int64, error)

	// ListAppointmentsBetween lista por data (YYYY-MM-DD), intervalo fechado.
	ListAppointmentsBetween(
		ctx context.Context,
		from string,
		to string,
	) ([]models.Appointment, error)
}
