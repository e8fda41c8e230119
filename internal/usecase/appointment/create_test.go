package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/alpha-clean/internal/httperr"
	"github.com/BruksfildServices01/alpha-clean/internal/models"
	"github.com/BruksfildServices01/alpha-clean/internal/timezone"
)

func newCreate(repo *fakeRepo, rec *recordingAudit) *CreateAppointment {
	return NewCreateAppointment(repo, rec, timezone.Fixed(fixedNow), 30*time.Minute)
}

func validInput() CreateAppointmentInput {
	return CreateAppointmentInput{
		UserID:       10,
		ServiceID:    1,
		VehicleModel: " Onix ",
		Color:        "Prata",
		Plate:        "abc1d23",
		Date:         "2027-05-10",
		Time:         "10:00",
		Notes:        "chave na portaria",
	}
}

func TestCreateAppointment_Success(t *testing.T) {
	repo := newFakeRepo()
	rec := &recordingAudit{}

	ap, err := newCreate(repo, rec).Execute(context.Background(), validInput())
	require.NoError(t, err)

	assert.NotZero(t, ap.ID)
	assert.Equal(t, "agendado", ap.Status)
	assert.Equal(t, "ABC1D23", ap.Plate)
	assert.Equal(t, "Onix", ap.VehicleModel)
	assert.Equal(t, 80.0, ap.Price)
	assert.Equal(t, "2027-05-10", ap.Date)
	assert.Equal(t, "10:00", ap.Time)
	assert.Equal(t, "Lavagem completa", ap.Service.Name)
	assert.Equal(t, []string{"appointment_created"}, rec.actions())
}

func TestCreateAppointment_LegacyPlateWithDashIsStoredWithoutIt(t *testing.T) {
	in := validInput()
	in.Plate = "ABC-1234"

	ap, err := newCreate(newFakeRepo(), &recordingAudit{}).Execute(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "ABC1234", ap.Plate)
}

func TestCreateAppointment_PlateIsNormalizedBeforeValidation(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"abc-1d23", "ABC1D23"},
		{"abc 1234", "ABC1234"},
		{"ABC.1D23", "ABC1D23"},
		{" abc/1234 ", "ABC1234"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			in := validInput()
			in.Plate = tt.input

			ap, err := newCreate(newFakeRepo(), &recordingAudit{}).Execute(context.Background(), in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ap.Plate)
		})
	}
}

func TestCreateAppointment_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateAppointmentInput)
		code   string
	}{
		{"missing model", func(in *CreateAppointmentInput) { in.VehicleModel = "  " }, "missing_fields"},
		{"missing service", func(in *CreateAppointmentInput) { in.ServiceID = 0 }, "missing_fields"},
		{"plate without letters", func(in *CreateAppointmentInput) { in.Plate = "1234" }, "missing_fields"},
		{"missing time", func(in *CreateAppointmentInput) { in.Time = "" }, "missing_fields"},
		{"invalid plate", func(in *CreateAppointmentInput) { in.Plate = "AB12345" }, "invalid_plate"},
		{"invalid date", func(in *CreateAppointmentInput) { in.Date = "10/05/2027" }, "invalid_date_or_time"},
		{"past date", func(in *CreateAppointmentInput) { in.Date = "2027-05-09" }, "date_in_past"},
		{"unknown service", func(in *CreateAppointmentInput) { in.ServiceID = 99 }, "service_not_found"},
		{"inactive service", func(in *CreateAppointmentInput) { in.ServiceID = 2 }, "service_inactive"},
		{"inside min advance", func(in *CreateAppointmentInput) { in.Time = "08:00" }, "slot_unavailable"},
		{"lunch break", func(in *CreateAppointmentInput) { in.Time = "12:00" }, "slot_unavailable"},
		{"off grid", func(in *CreateAppointmentInput) { in.Time = "10:30" }, "slot_unavailable"},
		{"sunday", func(in *CreateAppointmentInput) { in.Date = "2027-05-16" }, "slot_unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			rec := &recordingAudit{}
			in := validInput()
			tt.mutate(&in)

			_, err := newCreate(repo, rec).Execute(context.Background(), in)

			require.Error(t, err)
			assert.True(t, httperr.IsBusiness(err, tt.code), "got %v", err)
			assert.Empty(t, rec.actions())
			assert.Empty(t, repo.apps)
		})
	}
}

func TestCreateAppointment_FullSlot(t *testing.T) {
	repo := newFakeRepo()
	repo.add(models.Appointment{UserID: 11, ServiceID: 1, Date: "2027-05-10", Time: "10:00", Status: "agendado"})
	repo.add(models.Appointment{UserID: 11, ServiceID: 1, Date: "2027-05-10", Time: "10:00", Status: "em_andamento"})

	_, err := newCreate(repo, &recordingAudit{}).Execute(context.Background(), validInput())
	assert.True(t, httperr.IsBusiness(err, "slot_unavailable"))
}

func TestCreateAppointment_CancelledDoesNotTakeCapacity(t *testing.T) {
	repo := newFakeRepo()
	repo.add(models.Appointment{UserID: 11, ServiceID: 1, Date: "2027-05-10", Time: "10:00", Status: "agendado"})
	repo.add(models.Appointment{UserID: 11, ServiceID: 1, Date: "2027-05-10", Time: "10:00", Status: "cancelado"})

	_, err := newCreate(repo, &recordingAudit{}).Execute(context.Background(), validInput())
	assert.NoError(t, err)
}

func TestCreateAppointment_UsesConfiguredWorkingHours(t *testing.T) {
	repo := newFakeRepo()
	repo.workingHours[int(time.Monday)] = models.WorkingHours{
		Weekday:     int(time.Monday),
		Active:      true,
		StartTime:   "09:00",
		EndTime:     "11:00",
		SlotMinutes: 30,
		Capacity:    1,
	}

	in := validInput()
	in.Time = "10:30"
	_, err := newCreate(repo, &recordingAudit{}).Execute(context.Background(), in)
	require.NoError(t, err)

	_, err = newCreate(repo, &recordingAudit{}).Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "slot_unavailable"))
}
