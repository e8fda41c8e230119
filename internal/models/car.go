package models

import "time"

type Car struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index;not null" json:"usuario_id"`

	VehicleModel string `gorm:"size:100;not null" json:"modelo_veiculo"`
	Color        string `gorm:"size:50" json:"cor,omitempty"`
	Plate        string `gorm:"size:8;not null" json:"placa"`
	Year         *int   `json:"ano,omitempty"`
	Brand        string `gorm:"size:50" json:"marca,omitempty"`
	Notes        string `gorm:"size:255" json:"observacoes,omitempty"`
	IsDefault    bool   `gorm:"default:false" json:"is_default"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
