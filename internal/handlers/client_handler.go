package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/alpha-clean/internal/httpresp"
	"github.com/BruksfildServices01/alpha-clean/internal/logging"
	"github.com/BruksfildServices01/alpha-clean/internal/models"
)

type ClientHandler struct {
	db     *gorm.DB
	logger *logging.Logger
}

func NewClientHandler(db *gorm.DB, logger *logging.Logger) *ClientHandler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &ClientHandler{db: db, logger: logger}
}

// ClientSummary é o cliente com os números usados na listagem do painel.
type ClientSummary struct {
	models.User
	TotalAgendamentos int64   `json:"total_agendamentos"`
	TotalGasto        float64 `json:"total_gasto"`
}

// ======================================================
// LIST CLIENTS (ADMIN)
// ======================================================
func (h *ClientHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).
		Model(&models.User{}).
		Select(`users.*,
			COUNT(appointments.id) AS total_agendamentos,
			COALESCE(SUM(CASE WHEN appointments.status = 'finalizado' THEN appointments.price ELSE 0 END), 0) AS total_gasto`).
		Joins("LEFT JOIN appointments ON appointments.user_id = users.id").
		Where("users.role = ?", models.RoleCliente).
		Group("users.id")

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(users.name) LIKE ? OR users.phone LIKE ? OR LOWER(users.email) LIKE ?",
			like, like, like,
		)
	}

	var clients []ClientSummary
	if err := q.
		Order("users.created_at DESC").
		Scan(&clients).Error; err != nil {

		writeError(c, h.logger, err)
		return
	}
	if clients == nil {
		clients = []ClientSummary{}
	}

	httpresp.OK(c, clients)
}
