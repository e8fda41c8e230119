package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/alpha-clean/internal/dto"
	"github.com/BruksfildServices01/alpha-clean/internal/logging"
	"github.com/BruksfildServices01/alpha-clean/internal/metrics"
	"github.com/BruksfildServices01/alpha-clean/internal/middleware"
	"github.com/BruksfildServices01/alpha-clean/internal/models"
	"github.com/BruksfildServices01/alpha-clean/internal/timezone"
	"github.com/BruksfildServices01/alpha-clean/internal/usecase/appointment"
)

type appointmentFixture struct {
	router *gin.Engine
	repo   *memAppointments
	audit  *recordingAudit
	reg    *prometheus.Registry
	admin  string
	ana    string
	bruno  string
}

func newAppointmentFixture(t *testing.T) *appointmentFixture {
	t.Helper()

	repo := newMemAppointments()
	rec := &recordingAudit{}
	clock := timezone.Fixed(fixedNow)
	minAdvance := 30 * time.Minute
	reg := prometheus.NewRegistry()

	h := NewAppointmentHandler(AppointmentUseCases{
		Create:   appointment.NewCreateAppointment(repo, rec, clock, minAdvance),
		Slots:    appointment.NewGetSlots(repo, clock, minAdvance),
		List:     appointment.NewListAppointments(repo),
		Start:    appointment.NewStartAppointment(repo, rec, clock),
		Complete: appointment.NewCompleteAppointment(repo, rec, nil, clock, logging.Discard()),
		Cancel:   appointment.NewCancelAppointment(repo, rec, clock),
		Delete:   appointment.NewDeleteAppointment(repo, rec),
		Overview: appointment.NewOverview(repo, clock),
	}, metrics.New(reg), logging.Discard())

	r := gin.New()
	api := r.Group("/api", authed())
	api.GET("/agendamentos", h.List)
	api.POST("/agendamentos", h.Create)
	api.GET("/agendamentos/slots", h.Slots)
	api.DELETE("/agendamentos/:id/cancel", h.Cancel)

	admin := api.Group("/", middleware.RequireRole(models.RoleAdmin))
	admin.PATCH("/agendamentos/:id/start", h.Start)
	admin.PATCH("/agendamentos/:id/complete", h.Complete)
	admin.DELETE("/agendamentos/:id", h.Delete)
	admin.GET("/agendamentos/calendar", h.Calendar)
	admin.GET("/agendamentos/dia", h.Day)
	admin.GET("/dashboard", h.Dashboard)

	return &appointmentFixture{
		router: r,
		repo:   repo,
		audit:  rec,
		reg:    reg,
		admin:  tokenFor(t, 1, models.RoleAdmin),
		ana:    tokenFor(t, 10, models.RoleCliente),
		bruno:  tokenFor(t, 11, models.RoleCliente),
	}
}

func decodeError(t *testing.T, body []byte) string {
	t.Helper()
	var e struct {
		Code string `json:"error_code"`
	}
	require.NoError(t, json.Unmarshal(body, &e))
	return e.Code
}

const validBooking = `{
	"servico_id": 1,
	"modelo_veiculo": "Onix",
	"cor": "Prata",
	"placa": "abc-1d23",
	"data": "2027-05-11",
	"horario": "09:00"
}`

func TestCreateAppointment(t *testing.T) {
	f := newAppointmentFixture(t)

	w := doJSON(f.router, http.MethodPost, "/api/agendamentos", f.ana, validBooking)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var view dto.AppointmentView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "ABC1D23", view.Placa)
	assert.Equal(t, dto.StatusAgendado, view.Status)
	assert.Equal(t, 80.0, view.Valor)
	assert.Equal(t, "Lavagem completa", view.Servico)

	assert.Equal(t, 1.0, bookingCount(t, f.reg, "created"))
}

func TestCreateAppointmentValidation(t *testing.T) {
	f := newAppointmentFixture(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed json", `{`, http.StatusBadRequest, "invalid_request"},
		{"missing fields", `{"servico_id":1}`, http.StatusBadRequest, "missing_fields"},
		{"bad plate", `{"servico_id":1,"modelo_veiculo":"Gol","placa":"AB12","data":"2027-05-11","horario":"09:00"}`, http.StatusBadRequest, "invalid_plate"},
		{"past date", `{"servico_id":1,"modelo_veiculo":"Gol","placa":"ABC1234","data":"2027-05-01","horario":"09:00"}`, http.StatusBadRequest, "date_in_past"},
		{"unknown service", `{"servico_id":9,"modelo_veiculo":"Gol","placa":"ABC1234","data":"2027-05-11","horario":"09:00"}`, http.StatusNotFound, "service_not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(f.router, http.MethodPost, "/api/agendamentos", f.ana, tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w.Body.Bytes()))
		})
	}
}

func TestCreateAppointmentFullSlot(t *testing.T) {
	f := newAppointmentFixture(t)

	// capacidade padrão: 2 boxes
	for i := 0; i < 2; i++ {
		f.repo.seed(models.Appointment{
			UserID: 11, ServiceID: 1, Date: "2027-05-11", Time: "09:00",
			Status: dto.StatusAgendado, Plate: "XYZ9999",
		})
	}

	w := doJSON(f.router, http.MethodPost, "/api/agendamentos", f.ana, validBooking)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "slot_unavailable", decodeError(t, w.Body.Bytes()))

	assert.Equal(t, 1.0, bookingCount(t, f.reg, "slot_unavailable"))
}

func TestSlotsEndpoint(t *testing.T) {
	f := newAppointmentFixture(t)
	f.repo.seed(models.Appointment{
		UserID: 11, ServiceID: 1, Date: "2027-05-11", Time: "09:00", Status: dto.StatusAgendado,
	})

	w := doJSON(f.router, http.MethodGet, "/api/agendamentos/slots?data=2027-05-11", f.ana, "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data  string `json:"data"`
		Slots []struct {
			Horario    string `json:"horario"`
			Disponivel int    `json:"disponivel"`
		} `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "2027-05-11", body.Data)
	require.NotEmpty(t, body.Slots)
	assert.Equal(t, "08:00", body.Slots[0].Horario)
	assert.Equal(t, "09:00", body.Slots[1].Horario)
	assert.Equal(t, 1, body.Slots[1].Disponivel)

	w = doJSON(f.router, http.MethodGet, "/api/agendamentos/slots", f.ana, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing_date", decodeError(t, w.Body.Bytes()))

	w = doJSON(f.router, http.MethodGet, "/api/agendamentos/slots?data=11/05/2027", f.ana, "")
	assert.Equal(t, "invalid_date", decodeError(t, w.Body.Bytes()))
}

func TestCancelOwnership(t *testing.T) {
	f := newAppointmentFixture(t)
	f.repo.seed(models.Appointment{
		UserID: 10, ServiceID: 1, Date: "2027-05-11", Time: "10:00", Status: dto.StatusAgendado,
	})

	w := doJSON(f.router, http.MethodDelete, "/api/agendamentos/1/cancel", f.bruno, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(f.router, http.MethodDelete, "/api/agendamentos/1/cancel", f.ana, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"cancelado"`)

	w = doJSON(f.router, http.MethodDelete, "/api/agendamentos/1/cancel", f.ana, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "invalid_state", decodeError(t, w.Body.Bytes()))

	w = doJSON(f.router, http.MethodDelete, "/api/agendamentos/abc/cancel", f.ana, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompleteWithoutWhatsAppIsPartialSuccess(t *testing.T) {
	f := newAppointmentFixture(t)
	f.repo.seed(models.Appointment{
		UserID: 10, ServiceID: 1, Date: "2027-05-10", Time: "10:00", Status: dto.StatusAgendado, Price: 80,
	})

	w := doJSON(f.router, http.MethodPatch, "/api/agendamentos/1/complete", f.ana,
		`{"status":"finalizado","sendWhatsApp":true}`)
	assert.Equal(t, http.StatusForbidden, w.Code, "cliente não finaliza")

	w = doJSON(f.router, http.MethodPatch, "/api/agendamentos/1/complete", f.admin,
		`{"status":"finalizado","notes":"Tudo certo","sendWhatsApp":true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out appointment.CompleteAppointmentOutput
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, dto.StatusFinalizado, out.Agendamento.Status)
	assert.False(t, out.WhatsappSent)
	assert.NotEmpty(t, out.WhatsappError)
}

func TestCompleteEmptyBody(t *testing.T) {
	f := newAppointmentFixture(t)
	f.repo.seed(models.Appointment{
		UserID: 10, ServiceID: 1, Date: "2027-05-10", Time: "10:00", Status: dto.StatusEmAndamento,
	})

	w := doJSON(f.router, http.MethodPatch, "/api/agendamentos/1/complete", f.admin, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"whatsappSent":false`)
}

func TestListScopesClientToOwnAppointments(t *testing.T) {
	f := newAppointmentFixture(t)
	f.repo.seed(models.Appointment{UserID: 10, ServiceID: 1, Date: "2027-05-11", Time: "09:00", Status: dto.StatusAgendado})
	f.repo.seed(models.Appointment{UserID: 11, ServiceID: 1, Date: "2027-05-11", Time: "10:00", Status: dto.StatusAgendado})

	var page dto.Page[dto.AppointmentView]

	w := doJSON(f.router, http.MethodGet, "/api/agendamentos", f.ana, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, "Ana", page.Data[0].Cliente.Nome)

	w = doJSON(f.router, http.MethodGet, "/api/agendamentos", f.admin, "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.EqualValues(t, 2, page.Total)
}

func TestAdminOverviewEndpoints(t *testing.T) {
	f := newAppointmentFixture(t)
	f.repo.seed(models.Appointment{UserID: 10, ServiceID: 1, Date: "2027-05-10", Time: "10:00", Status: dto.StatusFinalizado, Price: 100})
	f.repo.seed(models.Appointment{UserID: 11, ServiceID: 1, Date: "2027-05-10", Time: "09:00", Status: dto.StatusAgendado, Price: 80})

	w := doJSON(f.router, http.MethodGet, "/api/agendamentos/calendar?mes=2027-05", f.admin, "")
	require.Equal(t, http.StatusOK, w.Code)
	var cal struct {
		Dias []json.RawMessage `json:"dias"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cal))
	assert.Zero(t, len(cal.Dias)%7)

	w = doJSON(f.router, http.MethodGet, "/api/agendamentos/calendar?mes=maio", f.admin, "")
	assert.Equal(t, "invalid_month", decodeError(t, w.Body.Bytes()))

	w = doJSON(f.router, http.MethodGet, "/api/agendamentos/dia?data=2027-05-10", f.admin, "")
	require.Equal(t, http.StatusOK, w.Code)
	var day struct {
		Agendamentos []dto.AppointmentView `json:"agendamentos"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &day))
	require.Len(t, day.Agendamentos, 2)
	assert.Equal(t, "09:00", day.Agendamentos[0].Horario)

	w = doJSON(f.router, http.MethodGet, "/api/dashboard", f.admin, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"receita_hoje":100`)

	w = doJSON(f.router, http.MethodGet, "/api/dashboard", f.ana, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteAppointment(t *testing.T) {
	f := newAppointmentFixture(t)
	f.repo.seed(models.Appointment{UserID: 10, ServiceID: 1, Date: "2027-05-10", Time: "10:00", Status: dto.StatusAgendado})

	w := doJSON(f.router, http.MethodDelete, "/api/agendamentos/1", f.admin, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(f.router, http.MethodDelete, "/api/agendamentos/1", f.admin, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "appointment_not_found", decodeError(t, w.Body.Bytes()))
}

func bookingCount(t *testing.T, reg *prometheus.Registry, result string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "alphaclean_appointments_booking_attempts_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "result" && l.GetValue() == result {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
