package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tokenworks/servicepos-app/utils"
)

// ManagerOnly membatasi endpoint hanya untuk role manager
func ManagerOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("role")

		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}

		if userRole != "manager" {
			utils.RespondError(c, http.StatusForbidden, fmt.Errorf("manager access required"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// RoleCheck memvalidasi role dari path parameter (dipakai endpoint websocket)
func RoleCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.Param("role")
		userRole, exists := c.Get("role")

		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}

		switch role {
		case "manager":
			if userRole != "manager" {
				utils.RespondError(c, http.StatusForbidden, fmt.Errorf("manager access required"))
				c.Abort()
				return
			}
		case "employee":
			if userRole != "employee" && userRole != "manager" {
				utils.RespondError(c, http.StatusForbidden, fmt.Errorf("employee access required"))
				c.Abort()
				return
			}
		}

		c.Next()
	}
}
