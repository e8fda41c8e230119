package client

import (
	"errors"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/alpha-clean/internal/domain/appointment"
	"github.com/BruksfildServices01/alpha-clean/internal/domain/car"
	"github.com/BruksfildServices01/alpha-clean/internal/domain/plate"
	"github.com/BruksfildServices01/alpha-clean/internal/httperr"
	"github.com/BruksfildServices01/alpha-clean/internal/models"
)

var (
	ErrMissingFields = errors.New("preencha todos os campos obrigatórios")
	ErrInvalidPlate  = errors.New("placa inválida: use ABC1234 ou ABC1D23")
	ErrInvalidDate   = errors.New("data ou horário inválido")
	ErrInvalidYear   = errors.New("ano inválido")
)

// BookingForm é o corpo de POST /api/agendamentos.
type BookingForm struct {
	ServiceID    uint   `json:"servico_id"`
	VehicleModel string `json:"modelo_veiculo"`
	Color        string `json:"cor,omitempty"`
	Plate        string `json:"placa"`
	Date         string `json:"data"`
	Time         string `json:"horario"`
	Notes        string `json:"observacoes,omitempty"`
}

// Validate normaliza o formulário e bloqueia o envio de dados que o
// servidor recusaria.
func (f *BookingForm) Validate() error {
	f.VehicleModel = strings.TrimSpace(f.VehicleModel)
	f.Color = strings.TrimSpace(f.Color)
	f.Notes = strings.TrimSpace(f.Notes)
	f.Plate = plate.Normalize(f.Plate)

	if f.ServiceID == 0 || f.VehicleModel == "" || f.Plate == "" || f.Date == "" || f.Time == "" {
		return ErrMissingFields
	}
	if !plate.IsValid(f.Plate) {
		return ErrInvalidPlate
	}
	if _, err := time.Parse(domain.DateLayout+" "+domain.TimeLayout, f.Date+" "+f.Time); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// Validate aplica as mesmas regras do servidor ao cadastro de carro.
func (in *CarInput) Validate() error {
	m := models.Car{
		VehicleModel: in.VehicleModel,
		Color:        in.Color,
		Plate:        in.Plate,
		Year:         in.Year,
		Brand:        in.Brand,
	}
	if err := car.Prepare(&m); err != nil {
		switch {
		case httperr.IsBusiness(err, "invalid_plate"):
			return ErrInvalidPlate
		case httperr.IsBusiness(err, "invalid_year"):
			return ErrInvalidYear
		default:
			return ErrMissingFields
		}
	}

	in.VehicleModel, in.Color, in.Plate, in.Brand = m.VehicleModel, m.Color, m.Plate, m.Brand
	in.Notes = strings.TrimSpace(in.Notes)
	return nil
}
