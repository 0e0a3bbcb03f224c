package controllers

import (
	"net/http"
	"time"

	dbpkg "github.com/netoguild-rgb/crm-seguros-cg-sub000/db"
	"github.com/netoguild-rgb/crm-seguros-cg-sub000/models"

	"github.com/gin-gonic/gin"
)

// GET /api/leads/stats
// Três janelas simultâneas por status: total, mês-calendário e dia-calendário
// correntes, cortadas pelo created_at do lead em fronteiras de calendário
// local (meia-noite / dia 1º), não janelas móveis de 24h/30d.
func GetLeadStats(c *gin.Context) {
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

	var leads []models.Lead
	if err := db.Where("user_id = ?", user.ID).Find(&leads).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	now := time.Now()
	buckets := models.CountLeadBuckets(leads, now)

	RespondSuccess(c, gin.H{
		"as_of":   now.Format(time.RFC3339),
		"buckets": buckets,
	})
}
