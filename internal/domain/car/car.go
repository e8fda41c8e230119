// Package car concentra a regra do carro padrão do cliente.
package car

import (
	"strings"

	"github.com/BruksfildServices01/alpha-clean/internal/domain/plate"
	"github.com/BruksfildServices01/alpha-clean/internal/httperr"
	"github.com/BruksfildServices01/alpha-clean/internal/models"
)

// MarkDefault devolve uma cópia da lista com apenas id como padrão. Se id
// não estiver na lista, a cópia sai sem nenhum padrão.
func MarkDefault(cars []models.Car, id uint) []models.Car {
	out := make([]models.Car, len(cars))
	for i, c := range cars {
		c.IsDefault = c.ID == id
		out[i] = c
	}
	return out
}

// Default devolve o carro padrão da lista, se houver.
func Default(cars []models.Car) (models.Car, bool) {
	for _, c := range cars {
		if c.IsDefault {
			return c, true
		}
	}
	return models.Car{}, false
}

// Successor escolhe quem herda o padrão quando o carro removido era o
// padrão: o mais recente dos restantes.
func Successor(remaining []models.Car) (models.Car, bool) {
	if len(remaining) == 0 {
		return models.Car{}, false
	}
	best := remaining[0]
	for _, c := range remaining[1:] {
		if c.CreatedAt.After(best.CreatedAt) ||
			(c.CreatedAt.Equal(best.CreatedAt) && c.ID > best.ID) {
			best = c
		}
	}
	return best, true
}

// Prepare limpa os campos digitados e valida modelo e placa.
func Prepare(c *models.Car) error {
	c.VehicleModel = strings.TrimSpace(c.VehicleModel)
	c.Color = strings.TrimSpace(c.Color)
	c.Brand = strings.TrimSpace(c.Brand)
	c.Plate = plate.Normalize(c.Plate)

	if c.VehicleModel == "" || c.Plate == "" {
		return httperr.ErrBusiness("missing_fields")
	}
	if !plate.IsValid(c.Plate) {
		return httperr.ErrBusiness("invalid_plate")
	}
	if c.Year != nil && (*c.Year < 1900 || *c.Year > 2100) {
		return httperr.ErrBusiness("invalid_year")
	}
	return nil
}
