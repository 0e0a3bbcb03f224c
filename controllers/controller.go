package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RespondError(c *gin.Context, msg string, code int) {
	c.JSON(code, gin.H{"error": msg})
}

func RespondSuccess(c *gin.Context, payload any) {
	c.JSON(200, payload)
}

// RespondPlanRequired devolve 403 carregando o plano mínimo necessário,
// pro cliente conseguir montar o prompt de upgrade.
func RespondPlanRequired(c *gin.Context, minPlan string) {
	c.JSON(http.StatusForbidden, gin.H{
		"error":         "plan_required",
		"required_plan": minPlan,
	})
}
