package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"index;not null" json:"usuario_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	ServiceID uint    `gorm:"index;not null" json:"servico_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	VehicleModel string `gorm:"size:100;not null" json:"modelo_veiculo"`
	Color        string `gorm:"size:50" json:"cor"`
	Plate        string `gorm:"size:8;not null" json:"placa"`

	// data (YYYY-MM-DD) e horário (HH:MM) ficam separados, como o front consome
	Date string `gorm:"size:10;index:idx_appointments_slot;not null" json:"data"`
	Time string `gorm:"column:slot_time;size:5;index:idx_appointments_slot;not null" json:"horario"`

	Status string  `gorm:"size:20;index;default:'agendado'" json:"status"`
	Price  float64 `json:"valor"`

	Notes           string `gorm:"size:500" json:"observacoes"`
	CompletionNotes string `gorm:"size:500" json:"notas_conclusao"`

	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
