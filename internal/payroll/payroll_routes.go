package payroll

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	payrolls := r.Group("/payrolls")
	{
		payrolls.GET("", handler.GetAll)
		payrolls.GET("/:id", handler.GetById)
		payrolls.GET("/:id/logs", handler.GetLogs)
		payrolls.GET("/:id/payslip/download", handler.DownloadPayslip)
		if redisClient != nil {
			payrolls.POST("", middleware.Idempotency(redisClient), handler.Generate)
		} else {
			payrolls.POST("", handler.Generate)
		}
		payrolls.POST("/:id/compute", handler.Compute)
		payrolls.POST("/:id/approve", handler.Approve)
		payrolls.POST("/:id/release", handler.Release)
		payrolls.POST("/:id/void", handler.Void)
	}
}
