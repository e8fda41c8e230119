package httpresp

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/alpha-clean/internal/dto"
)

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

func Paginated[T any](c *gin.Context, data []T, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewPage(data, total, page, pageSize))
}
