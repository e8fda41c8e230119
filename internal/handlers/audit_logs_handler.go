package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/alpha-clean/internal/audit"
	"github.com/BruksfildServices01/alpha-clean/internal/httpresp"
	"github.com/BruksfildServices01/alpha-clean/internal/logging"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	store  *audit.Logger
	logger *logging.Logger
}

func NewAuditLogsHandler(store *audit.Logger, logger *logging.Logger) *AuditLogsHandler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &AuditLogsHandler{store: store, logger: logger}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	// --------------------------------------------------
	// Filtros opcionais
	// --------------------------------------------------

	f := audit.Filter{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
		Page:   page,
		Limit:  limit,
	}

	if from, err := time.Parse("2006-01-02", c.Query("from")); err == nil {
		f.From = &from
	}
	if to, err := time.Parse("2006-01-02", c.Query("to")); err == nil {
		f.To = &to
	}

	logs, total, err := h.store.Query(c.Request.Context(), f)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	f = f.Normalize()
	httpresp.Paginated(c, logs, total, f.Page, f.Limit)
}
