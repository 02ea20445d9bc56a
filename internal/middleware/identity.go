package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity membaca identitas yang sudah diverifikasi gateway auth di depan
// service ini. Tanpa company id yang valid, request ditolak.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID := c.GetHeader("X-Company-ID")
		if _, err := uuid.Parse(companyID); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "UNAUTHORIZED",
				"message": "missing or invalid company identity",
			})
			return
		}
		c.Set("company_id", companyID)

		employeeID := c.GetHeader("X-Employee-ID")
		if employeeID != "" {
			if _, err := uuid.Parse(employeeID); err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"code":    "UNAUTHORIZED",
					"message": "invalid employee identity",
				})
				return
			}
			c.Set("employee_id", employeeID)
		}

		c.Next()
	}
}
