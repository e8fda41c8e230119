package client

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/alpha-clean/internal/models"
)

func TestNormalizeAppointmentAliases(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Appointment
	}{
		{
			name: "canonical server shape",
			raw: `{"id":1,"data":"2027-05-10","horario":"09:00","servico_id":3,"servico":"Lavagem completa",
				"modelo_veiculo":"Onix","cor":"Prata","placa":"ABC1D23","status":"agendado","valor":80,
				"cliente":{"id":10,"nome":"Ana","email":"ana@x.com","telefone":"11999990000"}}`,
			want: Appointment{
				ID: 1, Date: "2027-05-10", Time: "09:00", ServiceID: 3, Service: "Lavagem completa",
				VehicleModel: "Onix", Color: "Prata", Plate: "ABC1D23", Status: "agendado", Price: 80,
				Client: ClientInfo{ID: 10, Name: "Ana", Email: "ana@x.com", Phone: "11999990000"},
			},
		},
		{
			name: "legacy aliases and string numbers",
			raw: `{"id":"7","datetime":"2027-05-10T14:30:00-03:00","servico_nome":"Polimento",
				"veiculo":"Gol","placa":"ABC1234","status":"FINALIZADO","servico_valor":"150,50",
				"cliente_nome":"Bruno"}`,
			want: Appointment{
				ID: 7, Date: "2027-05-10", Time: "14:30", Service: "Polimento", VehicleModel: "Gol",
				Plate: "ABC1234", Status: "finalizado", Price: 150.5, Client: ClientInfo{Name: "Bruno"},
			},
		},
		{
			name: "nested service object and english keys",
			raw: `{"id":2,"datetime":"2027-05-11 08:00","servico":{"id":4,"nome":"Higienização"},
				"price":200,"cliente":{"name":"Carla","phone":"11911112222"}}`,
			want: Appointment{
				ID: 2, Date: "2027-05-11", Time: "08:00", Service: "Higienização", Price: 200,
				Client: ClientInfo{Name: "Carla", Phone: "11911112222"},
			},
		},
		{
			name: "title and preco with seconds in horario",
			raw:  `{"id":3,"data":"2027-05-12","horario":"10:00:00","title":"Enceramento","preco":90}`,
			want: Appointment{ID: 3, Date: "2027-05-12", Time: "10:00", Service: "Enceramento", Price: 90},
		},
		{
			name: "service_name alias",
			raw:  `{"id":4,"service_name":"Motor","valor":null}`,
			want: Appointment{ID: 4, Service: "Motor"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeAppointment(json.RawMessage(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeAppointmentRejectsGarbage(t *testing.T) {
	_, err := NormalizeAppointment(json.RawMessage(`[1,2]`))
	assert.Error(t, err)

	_, err = NormalizeAppointment(json.RawMessage(`null`))
	assert.Error(t, err)

	apps := NormalizeAppointments([]json.RawMessage{
		json.RawMessage(`{"id":1}`),
		json.RawMessage(`"x"`),
	})
	assert.Len(t, apps, 1)
}

func TestEnrichPrices(t *testing.T) {
	services := []models.Service{
		{ID: 1, Name: "Lavagem completa", Price: 80},
		{ID: 2, Name: "Polimento", Price: 150},
	}
	apps := []Appointment{
		{ID: 1, ServiceID: 1},
		{ID: 2, Service: "polimento"},
		{ID: 3, ServiceID: 2, Price: 120},
		{ID: 4, Service: "Desconhecido"},
	}

	got := EnrichPrices(apps, services)
	assert.Equal(t, 80.0, got[0].Price)
	assert.Equal(t, 150.0, got[1].Price)
	assert.Equal(t, 120.0, got[2].Price, "preço já informado é mantido")
	assert.Zero(t, got[3].Price)
	assert.Zero(t, apps[0].Price, "entrada não é alterada")
}
