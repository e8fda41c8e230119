package models

import "time"

// Serviço oferecido pelo lava-jato (lavagem simples, polimento, ...)
type Service struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string  `gorm:"size:100;not null" json:"nome"`
	Description string  `gorm:"size:255" json:"descricao"`
	Price       float64 `gorm:"not null" json:"preco"`
	DurationMin int     `gorm:"default:60" json:"duracao_minutos"`
	Active      bool    `gorm:"default:true" json:"ativo"`
	ImageURL    string  `gorm:"size:500" json:"imagem_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
