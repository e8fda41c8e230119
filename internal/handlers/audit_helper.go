package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/alpha-clean/internal/audit"
	"github.com/BruksfildServices01/alpha-clean/internal/middleware"
)

// writeAudit publica o evento em nome do usuário autenticado, se houver.
func writeAudit(
	c *gin.Context,
	pub audit.Publisher,
	action string,
	entity string,
	entityID *uint,
	meta any,
) {
	if pub == nil {
		return
	}

	var userID *uint
	if uid := middleware.UserID(c); uid != 0 {
		userID = &uid
	}

	pub.Dispatch(audit.Event{
		UserID:   userID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Metadata: meta,
	})
}
