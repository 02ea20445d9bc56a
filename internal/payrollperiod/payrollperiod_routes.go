package payrollperiod

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	periods := r.Group("/payroll-periods")
	{
		periods.GET("", h.GetAll)
		periods.GET("/:id", h.GetById)
		periods.POST("", h.Create)
		periods.PATCH("/:id/status", h.UpdateStatus)
	}
}
