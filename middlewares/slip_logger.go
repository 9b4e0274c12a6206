package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/tokenworks/servicepos-app/utils"
)

func SlipLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.InfoLogger.Printf("Generating slip for token: %s", c.Param("id"))

		c.Next()

		if c.Writer.Status() == 200 {
			utils.InfoLogger.Printf("Slip generated successfully for token: %s", c.Param("id"))
		} else {
			utils.ErrorLogger.Printf("Failed to generate slip for token: %s", c.Param("id"))
		}
	}
}
