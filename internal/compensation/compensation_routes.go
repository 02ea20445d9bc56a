package compensation

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	compensations := r.Group("/compensations")
	{
		compensations.GET("", h.GetAll)
		compensations.GET("/current", h.GetCurrent)
		compensations.GET("/:id", h.GetById)
		compensations.POST("", h.Create)
		compensations.DELETE("/:id", h.Delete)
	}
}
