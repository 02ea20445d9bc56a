package overtime

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	overtimes := r.Group("/overtimes")
	{
		overtimes.GET("", h.GetAll)
		overtimes.GET("/:id", h.GetById)
		overtimes.POST("", h.Create)
		overtimes.POST("/:id/approve", h.Approve)
		overtimes.POST("/:id/reject", h.Reject)
		overtimes.POST("/:id/cancel", h.Cancel)
	}
}
