package timeentry

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	entries := r.Group("/time-entries")
	{
		entries.GET("", h.GetAll)
		entries.POST("/clock-in", h.ClockIn)
		entries.POST("/clock-out", h.ClockOut)
		entries.POST("/breaks/start", h.StartBreak)
		entries.POST("/breaks/end", h.EndBreak)
	}
}
