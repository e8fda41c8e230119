package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/BruksfildServices01/alpha-clean/internal/dto"
	"github.com/BruksfildServices01/alpha-clean/internal/models"
)

// Appointment é a forma canônica de um agendamento do lado do cliente.
// Só NormalizeAppointment conhece os apelidos que o backend já usou.
type Appointment struct {
	ID           uint
	Date         string
	Time         string
	ServiceID    uint
	Service      string
	VehicleModel string
	Color        string
	Plate        string
	Status       string
	Price        float64
	Notes        string
	Client       ClientInfo
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type ClientInfo struct {
	ID    uint
	Name  string
	Email string
	Phone string
}

// View devolve o agendamento no formato consumido pelos redutores de
// calendário e dashboard.
func (a Appointment) View() dto.AppointmentView {
	return dto.AppointmentView{
		ID:            a.ID,
		Data:          a.Date,
		Horario:       a.Time,
		ServicoID:     a.ServiceID,
		Servico:       a.Service,
		ModeloVeiculo: a.VehicleModel,
		Cor:           a.Color,
		Placa:         a.Plate,
		Status:        a.Status,
		Valor:         a.Price,
		Observacoes:   a.Notes,
		Cliente: dto.ClientSnapshot{
			ID:       a.Client.ID,
			Nome:     a.Client.Name,
			Email:    a.Client.Email,
			Telefone: a.Client.Phone,
		},
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func Views(apps []Appointment) []dto.AppointmentView {
	out := make([]dto.AppointmentView, 0, len(apps))
	for _, a := range apps {
		out = append(out, a.View())
	}
	return out
}

type record map[string]any

// NormalizeAppointment aceita qualquer uma das variantes de payload e
// devolve um Appointment canônico.
func NormalizeAppointment(raw json.RawMessage) (Appointment, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var r record
	if err := dec.Decode(&r); err != nil {
		return Appointment{}, fmt.Errorf("client: decode appointment: %w", err)
	}
	if r == nil {
		return Appointment{}, fmt.Errorf("client: empty appointment payload")
	}

	a := Appointment{
		ID:           uint(r.number("id")),
		ServiceID:    uint(r.number("servico_id", "service_id")),
		Service:      r.serviceName(),
		VehicleModel: r.str("modelo_veiculo", "veiculo"),
		Color:        r.str("cor"),
		Plate:        r.str("placa"),
		Status:       strings.ToLower(r.str("status")),
		Price:        r.number("valor", "servico_valor", "price", "preco"),
		Notes:        r.str("observacoes", "notes"),
		Client:       r.client(),
		CreatedAt:    r.timestamp("created_at"),
		UpdatedAt:    r.timestamp("updated_at"),
	}

	a.Date, a.Time = r.str("data"), r.str("horario")
	if a.Date == "" || a.Time == "" {
		d, t := splitDateTime(r.str("datetime"))
		if a.Date == "" {
			a.Date = d
		}
		if a.Time == "" {
			a.Time = t
		}
	}
	if len(a.Time) > 5 {
		a.Time = a.Time[:5] // HH:MM:SS
	}

	return a, nil
}

// NormalizeAppointments ignora registros que não decodificam.
func NormalizeAppointments(raws []json.RawMessage) []Appointment {
	out := make([]Appointment, 0, len(raws))
	for _, raw := range raws {
		a, err := NormalizeAppointment(raw)
		if err != nil {
			continue
		}
		out = append(out, a)
	}
	return out
}

// EnrichPrices preenche o valor de registros que vieram sem preço usando a
// tabela de serviços.
func EnrichPrices(apps []Appointment, services []models.Service) []Appointment {
	byID := make(map[uint]models.Service, len(services))
	byName := make(map[string]models.Service, len(services))
	for _, s := range services {
		byID[s.ID] = s
		byName[strings.ToLower(s.Name)] = s
	}

	out := make([]Appointment, len(apps))
	for i, a := range apps {
		if a.Price == 0 {
			if s, ok := byID[a.ServiceID]; ok && a.ServiceID != 0 {
				a.Price = s.Price
			} else if s, ok := byName[strings.ToLower(a.Service)]; ok {
				a.Price = s.Price
			}
		}
		out[i] = a
	}
	return out
}

// --------- helpers ---------

func (r record) str(keys ...string) string {
	for _, k := range keys {
		if v, ok := r[k]; ok {
			switch s := v.(type) {
			case string:
				if s = strings.TrimSpace(s); s != "" {
					return s
				}
			case json.Number:
				return s.String()
			}
		}
	}
	return ""
}

// number aceita número JSON ou string numérica ("80", "80,50").
func (r record) number(keys ...string) float64 {
	for _, k := range keys {
		v, ok := r[k]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case json.Number:
			if f, err := n.Float64(); err == nil {
				return f
			}
		case string:
			s := strings.ReplaceAll(strings.TrimSpace(n), ",", ".")
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f
			}
		}
	}
	return 0
}

func (r record) nested(key string) record {
	if m, ok := r[key].(map[string]any); ok {
		return record(m)
	}
	return nil
}

func (r record) serviceName() string {
	if s := r.nested("servico"); s != nil {
		if name := s.str("nome", "name"); name != "" {
			return name
		}
	}
	return r.str("servico", "servico_nome", "service_name", "title")
}

func (r record) client() ClientInfo {
	if c := r.nested("cliente"); c != nil {
		return ClientInfo{
			ID:    uint(c.number("id")),
			Name:  c.str("nome", "name"),
			Email: c.str("email"),
			Phone: c.str("telefone", "phone"),
		}
	}
	return ClientInfo{
		ID:    uint(r.number("usuario_id", "cliente_id")),
		Name:  r.str("cliente_nome"),
		Email: r.str("cliente_email"),
		Phone: r.str("cliente_telefone"),
	}
}

func (r record) timestamp(key string) time.Time {
	s := r.str(key)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// splitDateTime aceita RFC3339 ou "YYYY-MM-DD HH:MM". A data é a parte
// literal do texto, sem conversão de fuso.
func splitDateTime(s string) (string, string) {
	s = strings.TrimSpace(s)
	if len(s) < 10 {
		return "", ""
	}
	if _, err := time.Parse("2006-01-02", s[:10]); err != nil {
		return "", ""
	}
	date := s[:10]
	rest := strings.TrimLeft(s[10:], "T ")
	if len(rest) < 5 {
		return date, ""
	}
	if _, err := time.Parse("15:04", rest[:5]); err != nil {
		return date, ""
	}
	return date, rest[:5]
}
