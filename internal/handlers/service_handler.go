package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/alpha-clean/internal/audit"
	"github.com/BruksfildServices01/alpha-clean/internal/httperr"
	"github.com/BruksfildServices01/alpha-clean/internal/httpresp"
	"github.com/BruksfildServices01/alpha-clean/internal/infra/storage"
	"github.com/BruksfildServices01/alpha-clean/internal/logging"
	"github.com/BruksfildServices01/alpha-clean/internal/middleware"
	"github.com/BruksfildServices01/alpha-clean/internal/models"
)

type ServiceHandler struct {
	db     *gorm.DB
	images *storage.ImageStore
	audit  audit.Publisher
	logger *logging.Logger
}

func NewServiceHandler(
	db *gorm.DB,
	images *storage.ImageStore,
	pub audit.Publisher,
	logger *logging.Logger,
) *ServiceHandler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &ServiceHandler{db: db, images: images, audit: pub, logger: logger}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name        string  `json:"nome" binding:"required"`
	Description string  `json:"descricao"`
	Price       float64 `json:"preco" binding:"gte=0"`
	DurationMin int     `json:"duracao_minutos"`
	Active      *bool   `json:"ativo"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"nome,omitempty"`
	Description *string  `json:"descricao,omitempty"`
	Price       *float64 `json:"preco,omitempty"`
	DurationMin *int     `json:"duracao_minutos,omitempty"`
	Active      *bool    `json:"ativo,omitempty"`
}

// --------- Handlers ---------

// List é público. Visitantes e clientes só enxergam os ativos.
func (h *ServiceHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context())

	switch strings.TrimSpace(c.Query("ativo")) {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	if query := strings.ToLower(strings.TrimSpace(c.Query("query"))); query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("name ASC").Find(&services).Error; err != nil {
		writeError(c, h.logger, err)
		return
	}
	if services == nil {
		services = []models.Service{}
	}

	httpresp.OK(c, services)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	svc, ok := h.load(c)
	if !ok {
		return
	}
	httpresp.OK(c, svc)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(c, h.logger, httperr.ErrBusiness("missing_fields"))
		return
	}

	svc := models.Service{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		DurationMin: req.DurationMin,
		Active:      true,
	}
	if svc.DurationMin <= 0 {
		svc.DurationMin = 60
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&svc).Error; err != nil {
		writeError(c, h.logger, err)
		return
	}

	// gorm ignora false com default:true no Create
	if !svc.Active {
		h.db.WithContext(c.Request.Context()).
			Model(&svc).
			Update("active", false)
	}

	writeAudit(c, h.audit, "service_created", "service", &svc.ID, nil)
	httpresp.Created(c, svc)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	svc, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Name != nil {
		svc.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		svc.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.DurationMin != nil && *req.DurationMin > 0 {
		svc.DurationMin = *req.DurationMin
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if svc.Name == "" || svc.Price < 0 {
		writeError(c, h.logger, httperr.ErrBusiness("missing_fields"))
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Save(svc).Error; err != nil {
		writeError(c, h.logger, err)
		return
	}

	writeAudit(c, h.audit, "service_updated", "service", &svc.ID, nil)
	httpresp.OK(c, svc)
}

// Delete desativa quando já existe agendamento apontando para o serviço.
func (h *ServiceHandler) Delete(c *gin.Context) {
	svc, ok := h.load(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var used int64
	if err := h.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("service_id = ?", svc.ID).
		Count(&used).Error; err != nil {
		writeError(c, h.logger, err)
		return
	}

	if used > 0 {
		if err := h.db.WithContext(ctx).
			Model(svc).
			Update("active", false).Error; err != nil {
			writeError(c, h.logger, err)
			return
		}
		writeAudit(c, h.audit, "service_deactivated", "service", &svc.ID, nil)
		httpresp.OK(c, gin.H{"message": "Serviço possui agendamentos e foi desativado."})
		return
	}

	if err := h.db.WithContext(ctx).Delete(svc).Error; err != nil {
		writeError(c, h.logger, err)
		return
	}

	if err := h.images.DeleteByURL(ctx, svc.ImageURL); err != nil {
		h.logger.Warn("service image cleanup failed", "service_id", svc.ID, "error", err)
	}

	writeAudit(c, h.audit, "service_deleted", "service", &svc.ID, nil)
	c.Status(http.StatusNoContent)
}

// UploadImage recebe multipart "imagem", converte para WebP e grava no S3.
func (h *ServiceHandler) UploadImage(c *gin.Context) {
	if !h.images.Enabled() {
		httperr.Write(c, http.StatusServiceUnavailable, "storage_disabled", "Upload de imagens não configurado.")
		return
	}

	svc, ok := h.load(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, storage.MaxUploadBytes)
	fh, err := c.FormFile("imagem")
	if err != nil {
		httperr.BadRequest(c, "missing_image", "Envie a imagem no campo \"imagem\".")
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	defer f.Close()

	ctx := c.Request.Context()
	url, err := h.images.UploadServiceImage(ctx, svc.ID, f)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidImage) {
			httperr.BadRequest(c, "invalid_image", "Formato de imagem não suportado.")
			return
		}
		writeError(c, h.logger, err)
		return
	}

	previous := svc.ImageURL
	if err := h.db.WithContext(ctx).
		Model(svc).
		Update("image_url", url).Error; err != nil {
		writeError(c, h.logger, err)
		return
	}
	svc.ImageURL = url

	if err := h.images.DeleteByURL(ctx, previous); err != nil {
		h.logger.Warn("old service image cleanup failed", "service_id", svc.ID, "error", err)
	}

	writeAudit(c, h.audit, "service_image_uploaded", "service", &svc.ID, map[string]string{"url": url})
	httpresp.OK(c, svc)
}

func (h *ServiceHandler) load(c *gin.Context) (*models.Service, bool) {
	id, ok := paramID(c)
	if !ok {
		return nil, false
	}

	q := h.db.WithContext(c.Request.Context())
	// inativos só para admin
	if middleware.UserRole(c) != models.RoleAdmin {
		q = q.Where("active = ?", true)
	}

	var svc models.Service
	if err := q.First(&svc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(c, h.logger, httperr.ErrBusiness("service_not_found"))
			return nil, false
		}
		writeError(c, h.logger, err)
		return nil, false
	}
	return &svc, true
}
