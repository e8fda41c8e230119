package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/alpha-clean/internal/httperr"
	"github.com/BruksfildServices01/alpha-clean/internal/timezone"
)

// --------------------------------------------------
// Ano e limite dos relatórios
// --------------------------------------------------

// yearParam usa ?year= ou o ano corrente no fuso da loja.
func yearParam(c *gin.Context, clock timezone.Clock) (int, bool) {
	raw := c.Query("year")
	if raw == "" {
		return clock().Year(), true
	}

	year, err := strconv.Atoi(raw)
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Ano inválido.")
		return 0, false
	}
	return year, true
}

func limitParam(c *gin.Context, def, max int) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
