package router

import (
	"net/http"

	"github.com/netoguild-rgb/crm-seguros-cg-sub000/controllers"

	"github.com/gin-gonic/gin"
)

// Adminizer blocks access when user is not superadmin.
func Adminizer() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := controllers.GetUserLogged(c)
		if !ok {
			controllers.RespondError(c, "unauthorized", http.StatusUnauthorized)
			c.Abort()
			return
		}
		if !user.IsSuperadmin() {
			controllers.RespondError(c, "superadmin required", http.StatusForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
