package models

import "time"

// Expediente de um dia da semana (0 = domingo).
// Capacity é o número de boxes de lavagem atendendo em paralelo.
type WorkingHours struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Weekday int `gorm:"uniqueIndex" json:"weekday"`

	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	LunchStart  string `json:"lunch_start"`
	LunchEnd    string `json:"lunch_end"`
	SlotMinutes int    `gorm:"default:60" json:"slot_minutes"`
	Capacity    int    `gorm:"default:2" json:"capacity"`
	Active      bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
