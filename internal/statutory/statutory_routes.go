package statutory

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	tables := r.Group("/statutory-rates")
	{
		tables.GET("", h.GetAll)
		tables.GET("/:id", h.GetById)
		tables.POST("", h.Create)
		tables.POST("/preview", h.PreviewDeductions)
		tables.DELETE("/:id", h.Delete)
	}
}
