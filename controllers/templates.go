package controllers

import (
	"net/http"

	dbpkg "github.com/netoguild-rgb/crm-seguros-cg-sub000/db"
	"github.com/netoguild-rgb/crm-seguros-cg-sub000/models"

	"github.com/gin-gonic/gin"
)

// GET /api/templates
// Marketplace de templates. Todo mundo vê o catálogo inteiro; o corpo do
// template só vem nos packs que o plano do usuário destrava (limiar de rank,
// exceto enterprise que é o teto). Packs bloqueados voltam com unlocked=false
// e o plano mínimo, pro front montar o prompt de upgrade.
func GetTemplates(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	plan := CurrentPlan(db, user.ID)

	var templates []models.Template
	if err := db.Order("pack asc, id asc").Find(&templates).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	out := make([]gin.H, 0, len(templates))
	for _, tpl := range templates {
		unlocked := true
		requiredPlan := models.PLAN_FREE
		if feature, gated := models.TemplatePackFeature(tpl.Pack); gated {
			requiredPlan = models.MinimumPlanFor(feature)
			unlocked = models.HasAccess(plan, feature)
		}

		item := gin.H{
			"id":            tpl.ID,
			"key":           tpl.Key,
			"name":          tpl.Name,
			"description":   tpl.Description,
			"pack":          tpl.Pack,
			"price_cents":   tpl.PriceCents,
			"unlocked":      unlocked,
			"required_plan": requiredPlan,
		}
		if unlocked {
			item["body"] = tpl.Body
		}
		out = append(out, item)
	}

	RespondSuccess(c, gin.H{"plan": plan, "templates": out})
}
