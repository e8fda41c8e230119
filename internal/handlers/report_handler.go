package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/alpha-clean/internal/httpresp"
	"github.com/BruksfildServices01/alpha-clean/internal/logging"
	"github.com/BruksfildServices01/alpha-clean/internal/reports"
	"github.com/BruksfildServices01/alpha-clean/internal/timezone"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	repo   *reports.Repository
	clock  timezone.Clock
	logger *logging.Logger
}

func NewReportHandler(repo *reports.Repository, clock timezone.Clock, logger *logging.Logger) *ReportHandler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &ReportHandler{repo: repo, clock: clock, logger: logger}
}

func (h *ReportHandler) MonthlyRevenue(c *gin.Context) {
	year, ok := yearParam(c, h.clock)
	if !ok {
		return
	}

	rows, err := h.repo.MonthlyRevenue(c.Request.Context(), year)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	httpresp.OK(c, gin.H{"ano": year, "meses": rows})
}

func (h *ReportHandler) TopServices(c *gin.Context) {
	year, ok := yearParam(c, h.clock)
	if !ok {
		return
	}

	rows, err := h.repo.TopServices(c.Request.Context(), year, limitParam(c, 5, 50))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if rows == nil {
		rows = []reports.ServiceRank{}
	}

	httpresp.OK(c, gin.H{"ano": year, "servicos": rows})
}

func (h *ReportHandler) TopClients(c *gin.Context) {
	year, ok := yearParam(c, h.clock)
	if !ok {
		return
	}

	rows, err := h.repo.TopClients(c.Request.Context(), year, limitParam(c, 5, 50))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if rows == nil {
		rows = []reports.ClientRank{}
	}

	httpresp.OK(c, gin.H{"ano": year, "clientes": rows})
}

func (h *ReportHandler) Stats(c *gin.Context) {
	year, ok := yearParam(c, h.clock)
	if !ok {
		return
	}

	stats, err := h.repo.Stats(c.Request.Context(), year)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	httpresp.OK(c, stats)
}

// Export devolve o xlsx anual como anexo.
func (h *ReportHandler) Export(c *gin.Context) {
	year, ok := yearParam(c, h.clock)
	if !ok {
		return
	}

	wb, err := h.repo.Collect(c.Request.Context(), year)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	f, err := wb.Build()
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", "attachment; filename="+wb.FileName())
	if err := f.Write(c.Writer); err != nil {
		h.logger.Error("xlsx write failed", "year", year, "error", err)
	}
}
