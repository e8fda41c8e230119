package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/alpha-clean/internal/domain/appointment"
	"github.com/BruksfildServices01/alpha-clean/internal/httperr"
	"github.com/BruksfildServices01/alpha-clean/internal/httpresp"
	"github.com/BruksfildServices01/alpha-clean/internal/logging"
	"github.com/BruksfildServices01/alpha-clean/internal/metrics"
	"github.com/BruksfildServices01/alpha-clean/internal/middleware"
	"github.com/BruksfildServices01/alpha-clean/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create   *appointment.CreateAppointment
	slots    *appointment.GetSlots
	list     *appointment.ListAppointments
	start    *appointment.StartAppointment
	complete *appointment.CompleteAppointment
	cancel   *appointment.CancelAppointment
	remove   *appointment.DeleteAppointment
	overview *appointment.Overview

	metrics *metrics.Metrics
	logger  *logging.Logger
}

type AppointmentUseCases struct {
	Create   *appointment.CreateAppointment
	Slots    *appointment.GetSlots
	List     *appointment.ListAppointments
	Start    *appointment.StartAppointment
	Complete *appointment.CompleteAppointment
	Cancel   *appointment.CancelAppointment
	Delete   *appointment.DeleteAppointment
	Overview *appointment.Overview
}

func NewAppointmentHandler(
	uc AppointmentUseCases,
	m *metrics.Metrics,
	logger *logging.Logger,
) *AppointmentHandler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &AppointmentHandler{
		create:   uc.Create,
		slots:    uc.Slots,
		list:     uc.List,
		start:    uc.Start,
		complete: uc.Complete,
		cancel:   uc.Cancel,
		remove:   uc.Delete,
		overview: uc.Overview,
		metrics:  m,
		logger:   logger,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ServiceID    uint   `json:"servico_id" binding:"required"`
	VehicleModel string `json:"modelo_veiculo" binding:"required"`
	Color        string `json:"cor"`
	Plate        string `json:"placa" binding:"required"`
	Date         string `json:"data" binding:"required"`
	Time         string `json:"horario" binding:"required"`
	Notes        string `json:"observacoes"`
}

type CompleteAppointmentRequest struct {
	Status       string `json:"status"`
	Notes        string `json:"notes"`
	SendWhatsApp bool   `json:"sendWhatsApp"`
}

func actorFrom(c *gin.Context) appointment.Actor {
	return appointment.Actor{
		UserID: middleware.UserID(c),
		Role:   middleware.UserRole(c),
	}
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	out, err := h.list.Execute(c.Request.Context(), actorFrom(c), appointment.ListAppointmentsInput{
		Status:   c.Query("status"),
		Date:     c.Query("data"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	httpresp.OK(c, out)
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if !bindJSON(c, &req) {
		h.metrics.ObserveBooking("invalid")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), appointment.CreateAppointmentInput{
		UserID:       middleware.UserID(c),
		ServiceID:    req.ServiceID,
		VehicleModel: req.VehicleModel,
		Color:        req.Color,
		Plate:        req.Plate,
		Date:         req.Date,
		Time:         req.Time,
		Notes:        req.Notes,
	})
	if err != nil {
		h.metrics.ObserveBooking(bookingResult(err))
		writeError(c, h.logger, err)
		return
	}

	h.metrics.ObserveBooking("created")
	httpresp.Created(c, domain.ToView(ap))
}

func bookingResult(err error) string {
	switch {
	case httperr.IsBusiness(err, "slot_unavailable"):
		return "slot_unavailable"
	case isBusiness(err):
		return "invalid"
	default:
		return "error"
	}
}

// ======================================================
// SLOTS
// ======================================================

func (h *AppointmentHandler) Slots(c *gin.Context) {
	date := c.Query("data")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "Informe a data.")
		return
	}

	slots, err := h.slots.Execute(c.Request.Context(), date)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if slots == nil {
		slots = []domain.SlotInfo{}
	}

	httpresp.OK(c, gin.H{
		"data":  date,
		"slots": slots,
	})
}

// ======================================================
// STATE CHANGES
// ======================================================

func (h *AppointmentHandler) Start(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	ap, err := h.start.Execute(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	httpresp.OK(c, domain.ToView(ap))
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	// corpo vazio vale como {"status":"finalizado"}
	var req CompleteAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		invalidRequest(c)
		return
	}

	out, err := h.complete.Execute(c.Request.Context(), actorFrom(c), appointment.CompleteAppointmentInput{
		AppointmentID: id,
		Status:        req.Status,
		Notes:         req.Notes,
		SendWhatsApp:  req.SendWhatsApp,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	if req.SendWhatsApp {
		h.metrics.ObserveWhatsApp(out.WhatsappSent)
	}

	httpresp.OK(c, out)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	httpresp.OK(c, domain.ToView(ap))
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.remove.Execute(c.Request.Context(), actorFrom(c), id); err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ======================================================
// ADMIN OVERVIEW
// ======================================================

func (h *AppointmentHandler) Calendar(c *gin.Context) {
	cells, err := h.overview.Calendar(c.Request.Context(), c.Query("mes"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	httpresp.OK(c, gin.H{
		"mes":  c.Query("mes"),
		"dias": cells,
	})
}

func (h *AppointmentHandler) Day(c *gin.Context) {
	detail, err := h.overview.Day(c.Request.Context(), c.Query("data"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	httpresp.OK(c, detail)
}

func (h *AppointmentHandler) Dashboard(c *gin.Context) {
	summary, err := h.overview.Dashboard(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	httpresp.OK(c, summary)
}
