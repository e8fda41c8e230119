package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/alpha-clean/internal/audit"
	"github.com/BruksfildServices01/alpha-clean/internal/auth"
	domain "github.com/BruksfildServices01/alpha-clean/internal/domain/appointment"
	"github.com/BruksfildServices01/alpha-clean/internal/domain/car"
	"github.com/BruksfildServices01/alpha-clean/internal/httperr"
	"github.com/BruksfildServices01/alpha-clean/internal/logging"
	"github.com/BruksfildServices01/alpha-clean/internal/middleware"
	"github.com/BruksfildServices01/alpha-clean/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// segunda-feira
var fixedNow = time.Date(2027, 5, 10, 8, 0, 0, 0, time.UTC)

// ------------------------------------------------------
// appointments
// ------------------------------------------------------

type memAppointments struct {
	mu       sync.Mutex
	services map[uint]models.Service
	users    map[uint]models.User
	apps     map[uint]*models.Appointment
	nextID   uint
}

func newMemAppointments() *memAppointments {
	return &memAppointments{
		services: map[uint]models.Service{
			1: {ID: 1, Name: "Lavagem completa", Price: 80, Active: true},
		},
		users: map[uint]models.User{
			10: {ID: 10, Name: "Ana", Phone: "11999990000", Role: models.RoleCliente},
			11: {ID: 11, Name: "Bruno", Role: models.RoleCliente},
		},
		apps:   map[uint]*models.Appointment{},
		nextID: 1,
	}
}

func (m *memAppointments) seed(ap models.Appointment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ap.ID = m.nextID
	m.nextID++
	m.apps[ap.ID] = &ap
}

func (m *memAppointments) hydrate(ap models.Appointment) models.Appointment {
	ap.User = m.users[ap.UserID]
	ap.Service = m.services[ap.ServiceID]
	return ap
}

func (m *memAppointments) GetService(_ context.Context, id uint) (*models.Service, error) {
	svc, ok := m.services[id]
	if !ok {
		return nil, httperr.ErrBusiness("service_not_found")
	}
	return &svc, nil
}

func (m *memAppointments) GetWorkingHours(context.Context, int) (*models.WorkingHours, error) {
	return nil, nil
}

func (m *memAppointments) CountActiveBySlot(_ context.Context, date string) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	taken := map[string]int{}
	for _, ap := range m.apps {
		if ap.Date == date && domain.Status(ap.Status).Active() {
			taken[ap.Time]++
		}
	}
	return taken, nil
}

func (m *memAppointments) CreateWithinCapacity(_ context.Context, ap *models.Appointment, capacity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, other := range m.apps {
		if other.Date == ap.Date && other.Time == ap.Time && domain.Status(other.Status).Active() {
			n++
		}
	}
	if n >= capacity {
		return httperr.ErrBusiness("slot_unavailable")
	}
	ap.ID = m.nextID
	m.nextID++
	cp := *ap
	m.apps[ap.ID] = &cp
	return nil
}

func (m *memAppointments) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ap, ok := m.apps[id]
	if !ok {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	cp := m.hydrate(*ap)
	return &cp, nil
}

func (m *memAppointments) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *ap
	m.apps[ap.ID] = &cp
	return nil
}

func (m *memAppointments) DeleteAppointment(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.apps[id]; !ok {
		return httperr.ErrBusiness("appointment_not_found")
	}
	delete(m.apps, id)
	return nil
}

func (m *memAppointments) ListAppointments(_ context.Context, f domain.ListFilter) ([]models.Appointment, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Appointment{}
	for id := uint(1); id < m.nextID; id++ {
		ap, ok := m.apps[id]
		if !ok || (f.UserID != nil && ap.UserID != *f.UserID) {
			continue
		}
		out = append(out, m.hydrate(*ap))
	}
	return out, int64(len(out)), nil
}

func (m *memAppointments) ListAppointmentsBetween(_ context.Context, from, to string) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Appointment{}
	for id := uint(1); id < m.nextID; id++ {
		ap, ok := m.apps[id]
		if ok && ap.Date >= from && ap.Date <= to {
			out = append(out, m.hydrate(*ap))
		}
	}
	return out, nil
}

var _ domain.Repository = (*memAppointments)(nil)

// ------------------------------------------------------
// cars
// ------------------------------------------------------

type memCars struct {
	cars   []models.Car
	nextID uint
}

func (m *memCars) List(_ context.Context, userID uint) ([]models.Car, error) {
	out := []models.Car{}
	for _, c := range m.cars {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCars) Get(_ context.Context, userID, carID uint) (*models.Car, error) {
	for _, c := range m.cars {
		if c.ID == carID && c.UserID == userID {
			cp := c
			return &cp, nil
		}
	}
	return nil, httperr.ErrBusiness("car_not_found")
}

func (m *memCars) Create(ctx context.Context, c *models.Car) error {
	mine, _ := m.List(ctx, c.UserID)
	if len(mine) == 0 {
		c.IsDefault = true
	}
	m.nextID++
	c.ID = m.nextID
	c.CreatedAt = fixedNow.Add(time.Duration(c.ID) * time.Minute)
	m.cars = append(m.cars, *c)
	return nil
}

func (m *memCars) Update(ctx context.Context, c *models.Car) error {
	for i, cur := range m.cars {
		if cur.ID == c.ID && cur.UserID == c.UserID {
			m.cars[i] = *c
			return nil
		}
	}
	return httperr.ErrBusiness("car_not_found")
}

func (m *memCars) Delete(ctx context.Context, userID, carID uint) error {
	for i, cur := range m.cars {
		if cur.ID == carID && cur.UserID == userID {
			m.cars = append(m.cars[:i], m.cars[i+1:]...)
			if cur.IsDefault {
				rest, _ := m.List(ctx, userID)
				if next, ok := car.Successor(rest); ok {
					_, err := m.SetDefault(ctx, userID, next.ID)
					return err
				}
			}
			return nil
		}
	}
	return httperr.ErrBusiness("car_not_found")
}

func (m *memCars) SetDefault(ctx context.Context, userID, carID uint) ([]models.Car, error) {
	if _, err := m.Get(ctx, userID, carID); err != nil {
		return nil, err
	}
	for i := range m.cars {
		if m.cars[i].UserID == userID {
			m.cars[i].IsDefault = m.cars[i].ID == carID
		}
	}
	return m.List(ctx, userID)
}

var _ car.Repository = (*memCars)(nil)

// ------------------------------------------------------
// helpers
// ------------------------------------------------------

type recordingAudit struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *recordingAudit) Dispatch(ev audit.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

var testIssuer = auth.NewIssuer("test-secret", time.Hour)

func tokenFor(t *testing.T, userID uint, role string) string {
	t.Helper()
	token, _, err := testIssuer.Issue(userID, role)
	require.NoError(t, err)
	return token
}

func authed() gin.HandlerFunc {
	return middleware.AuthMiddleware(testIssuer, nil, logging.Discard())
}

func doJSON(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
