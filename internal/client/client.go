// Package client é o cliente tipado da API da Alpha Clean. Concentra as
// regras do lado do cliente: sessão explícita, normalização de registros,
// seleção de horário e validação antes do envio.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	domain "github.com/BruksfildServices01/alpha-clean/internal/domain/appointment"
	"github.com/BruksfildServices01/alpha-clean/internal/domain/calendar"
	"github.com/BruksfildServices01/alpha-clean/internal/domain/car"
	"github.com/BruksfildServices01/alpha-clean/internal/domain/dashboard"
	"github.com/BruksfildServices01/alpha-clean/internal/logging"
	"github.com/BruksfildServices01/alpha-clean/internal/models"
	"github.com/BruksfildServices01/alpha-clean/internal/reports"
)

const maxPageSize = 100

var ErrNotLoggedIn = errors.New("client: not logged in")

type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Store      Store
	Logger     *logging.Logger
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	store      Store
	logger     *logging.Logger
}

// APIError é uma resposta não-2xx da API, com o código de negócio e a
// mensagem pronta para o usuário.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api: %d: %s", e.Status, e.Message)
}

// IsCode diz se err é um APIError com o código informado.
func IsCode(err error, code string) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Code == code
}

func IsUnauthorized(err error) bool {
	var ae *APIError
	return errors.Is(err, ErrNotLoggedIn) || (errors.As(err, &ae) && ae.Status == http.StatusUnauthorized)
}

func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("client: base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("client: base URL: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	store := cfg.Store
	if store == nil {
		store = NewMemoryStore()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		store:      store,
		logger:     logger,
	}, nil
}

func (c *Client) Session() (*Session, error) {
	return c.store.Load()
}

// ======================================================
// AUTH
// ======================================================

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type RegisterInput struct {
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Password string `json:"senha"`
	Phone    string `json:"telefone,omitempty"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var out authResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email": email,
		"senha": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return c.startSession(out)
}

func (c *Client) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	var out authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", in, &out); err != nil {
		return nil, err
	}
	return c.startSession(out)
}

// Logout revoga o token no servidor e apaga a sessão local mesmo se a
// revogação falhar.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	if clearErr := c.store.Clear(); clearErr != nil {
		return clearErr
	}
	if err != nil && !IsUnauthorized(err) {
		return err
	}
	return nil
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out struct {
		User *models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, errors.New("client: /auth/me without user")
	}
	return out.User, nil
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/auth/forgot-password", map[string]string{"email": email}, nil)
}

func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	return c.do(ctx, http.MethodPost, "/auth/reset-password", map[string]string{
		"token": token,
		"senha": password,
	}, nil)
}

func (c *Client) startSession(out authResponse) (*Session, error) {
	if out.Token == "" {
		return nil, errors.New("client: login response without token")
	}
	s := &Session{
		Token:  out.Token,
		UserID: out.User.ID,
		Role:   out.User.Role,
		Name:   out.User.Name,
		Email:  out.User.Email,
	}
	if err := c.store.Save(s); err != nil {
		return nil, err
	}
	return s, nil
}

// ======================================================
// SERVICES
// ======================================================

func (c *Client) Services(ctx context.Context, activeOnly bool) ([]models.Service, error) {
	path := "/api/services"
	if activeOnly {
		path += "?ativo=true"
	}
	var out []models.Service
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ======================================================
// APPOINTMENTS
// ======================================================

type ListOptions struct {
	Page     int
	PageSize int
	Status   string
	Date     string
}

type Page struct {
	Items      []Appointment
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

func (c *Client) Appointments(ctx context.Context, opts ListOptions) (*Page, error) {
	q := url.Values{}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(opts.PageSize))
	}
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	if opts.Date != "" {
		q.Set("data", opts.Date)
	}

	path := "/api/agendamentos"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return decodePage(raw)
}

// AllAppointments percorre todas as páginas.
func (c *Client) AllAppointments(ctx context.Context, status string) ([]Appointment, error) {
	var all []Appointment
	for page := 1; ; page++ {
		p, err := c.Appointments(ctx, ListOptions{Page: page, PageSize: maxPageSize, Status: status})
		if err != nil {
			return nil, err
		}
		all = append(all, p.Items...)
		if len(p.Items) == 0 || page >= p.TotalPages {
			return all, nil
		}
	}
}

// PricedAppointments é AllAppointments com os valores zerados completados
// pela tabela de serviços.
func (c *Client) PricedAppointments(ctx context.Context, status string) ([]Appointment, error) {
	var apps []Appointment
	services, err := c.withServices(ctx, func(ctx context.Context) error {
		var err error
		apps, err = c.AllAppointments(ctx, status)
		return err
	})
	if err != nil {
		return nil, err
	}
	return EnrichPrices(apps, services), nil
}

// PricedPage é Appointments com os valores zerados completados.
func (c *Client) PricedPage(ctx context.Context, opts ListOptions) (*Page, error) {
	var page *Page
	services, err := c.withServices(ctx, func(ctx context.Context) error {
		var err error
		page, err = c.Appointments(ctx, opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	page.Items = EnrichPrices(page.Items, services)
	return page, nil
}

// withServices roda fetch em paralelo com a busca dos serviços.
func (c *Client) withServices(ctx context.Context, fetch func(context.Context) error) ([]models.Service, error) {
	var services []models.Service

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return fetch(gctx) })
	g.Go(func() error {
		var err error
		services, err = c.Services(gctx, false)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return services, nil
}

// Slots implementa SlotFetcher.
func (c *Client) Slots(ctx context.Context, date string) ([]domain.SlotInfo, error) {
	var out struct {
		Slots []domain.SlotInfo `json:"slots"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/agendamentos/slots?data="+url.QueryEscape(date), nil, &out); err != nil {
		return nil, err
	}
	if out.Slots == nil {
		out.Slots = []domain.SlotInfo{}
	}
	return out.Slots, nil
}

// CreateAppointment valida o formulário antes de qualquer chamada.
func (c *Client) CreateAppointment(ctx context.Context, form BookingForm) (*Appointment, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	return c.appointmentCall(ctx, http.MethodPost, "/api/agendamentos", form)
}

// Book confere o horário escolhido contra a última lista do picker e só
// então envia. 409 slot_unavailable volta como erro normal, sem retry.
func (c *Client) Book(ctx context.Context, form BookingForm, picker *SlotPicker) (*Appointment, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if err := picker.Validate(form.Date, form.Time); err != nil {
		return nil, err
	}

	ap, err := c.appointmentCall(ctx, http.MethodPost, "/api/agendamentos", form)
	if err != nil {
		return nil, err
	}

	// a vaga consumida vem do servidor; falha no reload não desfaz a reserva
	if _, err := picker.Load(ctx, form.Date); err != nil {
		c.logger.Warn("slot reload after booking failed", "date", form.Date, "error", err)
	}
	return ap, nil
}

func (c *Client) StartAppointment(ctx context.Context, id uint) (*Appointment, error) {
	return c.appointmentCall(ctx, http.MethodPatch, fmt.Sprintf("/api/agendamentos/%d/start", id), nil)
}

func (c *Client) CancelAppointment(ctx context.Context, id uint) (*Appointment, error) {
	return c.appointmentCall(ctx, http.MethodDelete, fmt.Sprintf("/api/agendamentos/%d/cancel", id), nil)
}

func (c *Client) DeleteAppointment(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/agendamentos/%d", id), nil, nil)
}

// Completion é o resultado de finalizar: o aviso por WhatsApp pode falhar
// sem desfazer a finalização.
type Completion struct {
	Appointment   Appointment
	WhatsappSent  bool
	WhatsappError string
}

func (c *Client) CompleteAppointment(ctx context.Context, id uint, notes string, sendWhatsApp bool) (*Completion, error) {
	var out struct {
		Agendamento   json.RawMessage `json:"agendamento"`
		WhatsappSent  bool            `json:"whatsappSent"`
		WhatsappError string          `json:"whatsappError"`
	}
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/agendamentos/%d/complete", id), map[string]any{
		"status":       "finalizado",
		"notes":        notes,
		"sendWhatsApp": sendWhatsApp,
	}, &out)
	if err != nil {
		return nil, err
	}

	ap, err := NormalizeAppointment(out.Agendamento)
	if err != nil {
		return nil, err
	}
	return &Completion{
		Appointment:   ap,
		WhatsappSent:  out.WhatsappSent,
		WhatsappError: out.WhatsappError,
	}, nil
}

func (c *Client) appointmentCall(ctx context.Context, method, path string, body any) (*Appointment, error) {
	var raw json.RawMessage
	if err := c.do(ctx, method, path, body, &raw); err != nil {
		return nil, err
	}
	ap, err := NormalizeAppointment(raw)
	if err != nil {
		return nil, err
	}
	return &ap, nil
}

// ======================================================
// ADMIN OVERVIEW
// ======================================================

func (c *Client) Dashboard(ctx context.Context) (*dashboard.Summary, error) {
	var out dashboard.Summary
	if err := c.do(ctx, http.MethodGet, "/api/dashboard", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MonthGrid monta localmente a grade do mês a partir da lista completa.
func (c *Client) MonthGrid(ctx context.Context, month string, today time.Time) ([]calendar.DayCell, error) {
	m, err := calendar.ParseMonth(month)
	if err != nil {
		return nil, fmt.Errorf("client: month %q: %w", month, err)
	}

	apps, err := c.PricedAppointments(ctx, "")
	if err != nil {
		return nil, err
	}
	return calendar.Build(m, Views(apps), today), nil
}

func (c *Client) MonthlyRevenue(ctx context.Context, year int) ([]reports.MonthRevenue, error) {
	var out struct {
		Meses []reports.MonthRevenue `json:"meses"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/reports/monthly-revenue?year="+strconv.Itoa(year), nil, &out); err != nil {
		return nil, err
	}
	return out.Meses, nil
}

// ======================================================
// CARS
// ======================================================

type CarInput struct {
	VehicleModel string `json:"modelo_veiculo"`
	Color        string `json:"cor,omitempty"`
	Plate        string `json:"placa"`
	Year         *int   `json:"ano,omitempty"`
	Brand        string `json:"marca,omitempty"`
	Notes        string `json:"observacoes,omitempty"`
	IsDefault    bool   `json:"is_default"`
}

func (c *Client) Cars(ctx context.Context) ([]models.Car, error) {
	var out []models.Car
	if err := c.do(ctx, http.MethodGet, "/api/cars", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DefaultCar(ctx context.Context) (*models.Car, error) {
	var out models.Car
	if err := c.do(ctx, http.MethodGet, "/api/cars/default", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCar(ctx context.Context, in CarInput) (*models.Car, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out models.Car
	if err := c.do(ctx, http.MethodPost, "/api/cars", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCar(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/cars/%d", id), nil, nil)
}

// SetDefaultCar devolve a lista do servidor, que é a referência. Resposta
// sem lista força um novo GET; a lista local nunca é remendada.
func (c *Client) SetDefaultCar(ctx context.Context, id uint) ([]models.Car, error) {
	var out []models.Car
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/cars/%d/default", id), nil, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		var err error
		if out, err = c.Cars(ctx); err != nil {
			return nil, err
		}
	}

	defaults := 0
	for _, cr := range out {
		if cr.IsDefault {
			defaults++
		}
	}
	if d, ok := car.Default(out); !ok || defaults != 1 || d.ID != id {
		return out, fmt.Errorf("client: server did not confirm car %d as the only default", id)
	}
	return out, nil
}

// ======================================================
// TRANSPORT
// ======================================================

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: marshal body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	s, err := c.store.Load()
	if err != nil {
		return err
	}
	if s.Valid() {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	} else if requiresSession(path) {
		return ErrNotLoggedIn
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("api request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("client: read body: %w", err)
	}

	if resp.StatusCode >= 300 {
		apiErr := decodeAPIError(resp.StatusCode, data)
		if resp.StatusCode == http.StatusUnauthorized && s.Valid() {
			// sessão vencida ou revogada
			_ = c.store.Clear()
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("client: decode %s: %w", path, err)
	}
	return nil
}

func requiresSession(path string) bool {
	switch {
	case strings.HasPrefix(path, "/api/services"):
		return false
	case strings.HasPrefix(path, "/api/"),
		path == "/auth/me",
		path == "/auth/logout":
		return true
	default:
		return false
	}
}

func decodeAPIError(status int, data []byte) *APIError {
	e := &APIError{Status: status}

	var payload struct {
		Code    string `json:"error_code"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		e.Code = payload.Code
		e.Message = payload.Message
		if e.Message == "" {
			e.Message = payload.Error
		}
	}
	if e.Message == "" {
		e.Message = genericMessage(status)
	}
	return e
}

func genericMessage(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return "Sessão expirada. Faça login novamente."
	case status == http.StatusForbidden:
		return "Você não tem permissão para esta ação."
	case status >= 500:
		return "Erro no servidor. Tente novamente em instantes."
	default:
		return "Não foi possível concluir a operação."
	}
}

// decodePage aceita o envelope paginado ou uma lista simples.
func decodePage(raw json.RawMessage) (*Page, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("client: decode list: %w", err)
		}
		apps := NormalizeAppointments(items)
		return &Page{Items: apps, Total: int64(len(apps)), Page: 1, PageSize: len(apps), TotalPages: 1}, nil
	}

	var env struct {
		Data       []json.RawMessage `json:"data"`
		Total      int64             `json:"total"`
		Page       int               `json:"page"`
		PageSize   int               `json:"page_size"`
		TotalPages int               `json:"total_pages"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("client: decode page: %w", err)
	}
	return &Page{
		Items:      NormalizeAppointments(env.Data),
		Total:      env.Total,
		Page:       env.Page,
		PageSize:   env.PageSize,
		TotalPages: env.TotalPages,
	}, nil
}
