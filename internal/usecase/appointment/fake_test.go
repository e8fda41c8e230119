package appointment

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/BruksfildServices01/alpha-clean/internal/audit"
	domain "github.com/BruksfildServices01/alpha-clean/internal/domain/appointment"
	"github.com/BruksfildServices01/alpha-clean/internal/dto"
	"github.com/BruksfildServices01/alpha-clean/internal/httperr"
	"github.com/BruksfildServices01/alpha-clean/internal/models"
)

// fakeRepo guarda tudo em memória.
type fakeRepo struct {
	mu           sync.Mutex
	services     map[uint]models.Service
	users        map[uint]models.User
	workingHours map[int]models.WorkingHours
	apps         map[uint]*models.Appointment
	nextID       uint
	listErr      error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		services: map[uint]models.Service{
			1: {ID: 1, Name: "Lavagem completa", Price: 80, Active: true},
			2: {ID: 2, Name: "Polimento", Price: 200, Active: false},
		},
		users: map[uint]models.User{
			10: {ID: 10, Name: "Ana", Phone: "11999990000", Role: models.RoleCliente},
			11: {ID: 11, Name: "Bruno", Role: models.RoleCliente},
		},
		workingHours: map[int]models.WorkingHours{},
		apps:         map[uint]*models.Appointment{},
		nextID:       1,
	}
}

func (f *fakeRepo) add(ap models.Appointment) *models.Appointment {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ap.ID == 0 {
		ap.ID = f.nextID
	}
	if ap.ID >= f.nextID {
		f.nextID = ap.ID + 1
	}
	cp := ap
	f.apps[ap.ID] = &cp
	return &cp
}

func (f *fakeRepo) GetService(_ context.Context, id uint) (*models.Service, error) {
	svc, ok := f.services[id]
	if !ok {
		return nil, httperr.ErrBusiness("service_not_found")
	}
	return &svc, nil
}

func (f *fakeRepo) GetWorkingHours(_ context.Context, weekday int) (*models.WorkingHours, error) {
	wh, ok := f.workingHours[weekday]
	if !ok {
		return nil, nil
	}
	return &wh, nil
}

func (f *fakeRepo) CountActiveBySlot(_ context.Context, date string) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	taken := map[string]int{}
	for _, ap := range f.apps {
		if ap.Date == date && domain.Status(ap.Status).Active() {
			taken[ap.Time]++
		}
	}
	return taken, nil
}

func (f *fakeRepo) CreateWithinCapacity(_ context.Context, ap *models.Appointment, capacity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, other := range f.apps {
		if other.Date == ap.Date && other.Time == ap.Time && domain.Status(other.Status).Active() {
			n++
		}
	}
	if n >= capacity {
		return httperr.ErrBusiness("slot_unavailable")
	}
	ap.ID = f.nextID
	f.nextID++
	cp := *ap
	f.apps[ap.ID] = &cp
	return nil
}

func (f *fakeRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ap, ok := f.apps[id]
	if !ok {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	cp := *ap
	cp.User = f.users[cp.UserID]
	cp.Service = f.services[cp.ServiceID]
	return &cp, nil
}

func (f *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *ap
	f.apps[ap.ID] = &cp
	return nil
}

func (f *fakeRepo) DeleteAppointment(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.apps[id]; !ok {
		return httperr.ErrBusiness("appointment_not_found")
	}
	delete(f.apps, id)
	return nil
}

func (f *fakeRepo) sorted(match func(*models.Appointment) bool) []models.Appointment {
	out := []models.Appointment{}
	for _, ap := range f.apps {
		if match(ap) {
			cp := *ap
			cp.User = f.users[cp.UserID]
			cp.Service = f.services[cp.ServiceID]
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeRepo) ListAppointments(_ context.Context, filter domain.ListFilter) ([]models.Appointment, int64, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.sorted(func(ap *models.Appointment) bool {
		if filter.UserID != nil && ap.UserID != *filter.UserID {
			return false
		}
		if filter.Status != "" && ap.Status != filter.Status {
			return false
		}
		if filter.Date != "" && ap.Date != filter.Date {
			return false
		}
		return true
	})
	start := (filter.Page - 1) * filter.PageSize
	if start > len(all) {
		start = len(all)
	}
	end := start + filter.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

func (f *fakeRepo) ListAppointmentsBetween(_ context.Context, from, to string) ([]models.Appointment, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(func(ap *models.Appointment) bool {
		return ap.Date >= from && ap.Date <= to
	}), nil
}

var _ domain.Repository = (*fakeRepo)(nil)

type recordingAudit struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *recordingAudit) Dispatch(ev audit.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingAudit) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []string{}
	for _, ev := range r.events {
		out = append(out, ev.Action)
	}
	return out
}

type fakeNotifier struct {
	sent []dto.AppointmentView
	err  error
}

func (n *fakeNotifier) NotifyCompleted(_ context.Context, ap dto.AppointmentView) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, ap)
	return nil
}

var errBoom = errors.New("boom")

// segunda-feira, 10/05/2027 08:00 em UTC
var fixedNow = time.Date(2027, 5, 10, 8, 0, 0, 0, time.UTC)
