package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/alpha-clean/internal/audit"
	"github.com/BruksfildServices01/alpha-clean/internal/domain/car"
	"github.com/BruksfildServices01/alpha-clean/internal/httperr"
	"github.com/BruksfildServices01/alpha-clean/internal/httpresp"
	"github.com/BruksfildServices01/alpha-clean/internal/logging"
	"github.com/BruksfildServices01/alpha-clean/internal/middleware"
	"github.com/BruksfildServices01/alpha-clean/internal/models"
)

type CarHandler struct {
	repo   car.Repository
	audit  audit.Publisher
	logger *logging.Logger
}

func NewCarHandler(repo car.Repository, pub audit.Publisher, logger *logging.Logger) *CarHandler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &CarHandler{repo: repo, audit: pub, logger: logger}
}

// --------- Requests ---------

type CarRequest struct {
	VehicleModel string `json:"modelo_veiculo" binding:"required"`
	Color        string `json:"cor"`
	Plate        string `json:"placa" binding:"required"`
	Year         *int   `json:"ano"`
	Brand        string `json:"marca"`
	Notes        string `json:"observacoes"`
	IsDefault    bool   `json:"is_default"`
}

func (r CarRequest) toModel(userID uint) models.Car {
	return models.Car{
		UserID:       userID,
		VehicleModel: r.VehicleModel,
		Color:        r.Color,
		Plate:        r.Plate,
		Year:         r.Year,
		Brand:        r.Brand,
		Notes:        r.Notes,
		IsDefault:    r.IsDefault,
	}
}

// --------- Handlers ---------

func (h *CarHandler) List(c *gin.Context) {
	cars, err := h.repo.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if cars == nil {
		cars = []models.Car{}
	}
	httpresp.OK(c, cars)
}

func (h *CarHandler) Default(c *gin.Context) {
	cars, err := h.repo.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	d, ok := car.Default(cars)
	if !ok {
		httperr.NotFound(c, "car_not_found", "Nenhum carro padrão cadastrado.")
		return
	}
	httpresp.OK(c, d)
}

func (h *CarHandler) Create(c *gin.Context) {
	var req CarRequest
	if !bindJSON(c, &req) {
		return
	}

	m := req.toModel(middleware.UserID(c))
	if err := car.Prepare(&m); err != nil {
		writeError(c, h.logger, err)
		return
	}

	if err := h.repo.Create(c.Request.Context(), &m); err != nil {
		writeError(c, h.logger, err)
		return
	}

	writeAudit(c, h.audit, "car_created", "car", &m.ID, nil)
	httpresp.Created(c, m)
}

func (h *CarHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req CarRequest
	if !bindJSON(c, &req) {
		return
	}

	m := req.toModel(middleware.UserID(c))
	m.ID = id
	if err := car.Prepare(&m); err != nil {
		writeError(c, h.logger, err)
		return
	}

	if err := h.repo.Update(c.Request.Context(), &m); err != nil {
		writeError(c, h.logger, err)
		return
	}

	writeAudit(c, h.audit, "car_updated", "car", &m.ID, nil)
	httpresp.OK(c, m)
}

func (h *CarHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		writeError(c, h.logger, err)
		return
	}

	writeAudit(c, h.audit, "car_deleted", "car", &id, nil)
	c.Status(http.StatusNoContent)
}

// SetDefault devolve a lista inteira; o cliente substitui a sua por ela.
func (h *CarHandler) SetDefault(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	cars, err := h.repo.SetDefault(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	writeAudit(c, h.audit, "car_default_changed", "car", &id, nil)
	httpresp.OK(c, cars)
}
