package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/alpha-clean/internal/httperr"
	"github.com/BruksfildServices01/alpha-clean/internal/httpresp"
	"github.com/BruksfildServices01/alpha-clean/internal/logging"
	"github.com/BruksfildServices01/alpha-clean/internal/whatsapp"
)

// WhatsAppHandler repassa os comandos do painel para o microserviço.
type WhatsAppHandler struct {
	client *whatsapp.Client
	logger *logging.Logger
}

func NewWhatsAppHandler(client *whatsapp.Client, logger *logging.Logger) *WhatsAppHandler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &WhatsAppHandler{client: client, logger: logger}
}

type WhatsAppTestRequest struct {
	Phone string `json:"phone" binding:"required"`
}

func (h *WhatsAppHandler) Status(c *gin.Context) {
	if !h.enabled(c) {
		return
	}
	out, err := h.client.Status(c.Request.Context())
	h.reply(c, out, err)
}

func (h *WhatsAppHandler) QR(c *gin.Context) {
	if !h.enabled(c) {
		return
	}
	out, err := h.client.QR(c.Request.Context())
	h.reply(c, out, err)
}

func (h *WhatsAppHandler) Connect(c *gin.Context) {
	if !h.enabled(c) {
		return
	}
	out, err := h.client.Connect(c.Request.Context())
	h.reply(c, out, err)
}

func (h *WhatsAppHandler) Disconnect(c *gin.Context) {
	if !h.enabled(c) {
		return
	}
	out, err := h.client.Disconnect(c.Request.Context())
	h.reply(c, out, err)
}

func (h *WhatsAppHandler) Test(c *gin.Context) {
	if !h.enabled(c) {
		return
	}

	var req WhatsAppTestRequest
	if !bindJSON(c, &req) {
		return
	}

	out, err := h.client.SendTest(c.Request.Context(), req.Phone)
	if errors.Is(err, whatsapp.ErrInvalidPhone) {
		httperr.BadRequest(c, "invalid_phone", "Telefone inválido. Use DDD + número.")
		return
	}
	h.reply(c, out, err)
}

func (h *WhatsAppHandler) enabled(c *gin.Context) bool {
	if h.client == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "whatsapp_disabled", "WhatsApp não configurado.")
		return false
	}
	return true
}

func (h *WhatsAppHandler) reply(c *gin.Context, out any, err error) {
	if err == nil {
		httpresp.OK(c, out)
		return
	}

	h.logger.Warn("whatsapp service call failed", "path", c.FullPath(), "error", err)

	var apiErr *whatsapp.APIError
	if errors.As(err, &apiErr) {
		httperr.BadGateway(c, "whatsapp_error", apiErr.Message)
		return
	}
	httperr.BadGateway(c, "whatsapp_unreachable", "Serviço de WhatsApp indisponível.")
}
