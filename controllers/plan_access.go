package controllers

import (
	"net/http"
	"time"

	dbpkg "github.com/netoguild-rgb/crm-seguros-cg-sub000/db"
	"github.com/netoguild-rgb/crm-seguros-cg-sub000/models"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

// CurrentPlan resolve o plano efetivo do usuário agora.
// Sem assinatura (ou erro de leitura) = free: o resolver nunca abre acesso
// por falha.
func CurrentPlan(db *gorm.DB, userID int64) string {
	var sub models.Subscription
	if err := db.Where("user_id = ?", userID).First(&sub).Error; err != nil {
		return models.PLAN_FREE
	}
	return sub.EffectivePlan(time.Now())
}

// RequireFeature barra a rota quando o plano do usuário não enxerga a
// feature. É a checagem server-side: o gating do front é só aconselhamento.
func RequireFeature(feature string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUserLogged(c)
		if !ok {
			RespondError(c, "unauthorized", http.StatusUnauthorized)
			c.Abort()
			return
		}

		db := dbpkg.DBInstance(c)
		if db == nil {
			RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
			c.Abort()
			return
		}

		plan := CurrentPlan(db, user.ID)
		if !models.HasAccess(plan, feature) {
			RespondPlanRequired(c, models.MinimumPlanFor(feature))
			c.Abort()
			return
		}

		c.Next()
	}
}
