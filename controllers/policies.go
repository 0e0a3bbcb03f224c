package controllers

import (
	"net/http"

	dbpkg "github.com/netoguild-rgb/crm-seguros-cg-sub000/db"
	"github.com/netoguild-rgb/crm-seguros-cg-sub000/models"

	"github.com/gin-gonic/gin"
)

func findTenantPolicy(c *gin.Context, userID int64, policyID int64) (*models.Policy, bool) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return nil, false
	}

	var policy models.Policy
	if err := db.Where("id = ? AND user_id = ?", policyID, userID).First(&policy).Error; err != nil {
		RespondError(c, "apólice não encontrada", http.StatusNotFound)
		return nil, false
	}
	return &policy, true
}

// GET /api/policies
func GetPolicies(c *gin.Context) {
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

	var policies []models.Policy
	if err := db.Where("user_id = ?", user.ID).Order("id desc").Find(&policies).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"policies": policies})
}

// GET /api/policies/:id
func GetPolicyByID(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	policy, ok := findTenantPolicy(c, user.ID, id)
	if !ok {
		return
	}

	RespondSuccess(c, gin.H{"policy": policy})
}

// POST /api/policies
func CreatePolicy(c *gin.Context) {
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

	var policy models.Policy
	if err := c.Bind(&policy); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	if missing := policy.MissingFields(); missing != "" {
		RespondError(c, "Faltando campo "+missing, http.StatusBadRequest)
		return
	}
	if policy.Status == "" {
		policy.Status = models.POLICY_STATUS_PENDING
	}
	if !models.ValidPolicyStatus(policy.Status) {
		RespondError(c, "status inválido", http.StatusBadRequest)
		return
	}

	// apólice pode referenciar um lead, mas só do próprio tenant
	if policy.LeadID > 0 {
		var lead models.Lead
		if err := db.Where("id = ? AND user_id = ?", policy.LeadID, user.ID).First(&lead).Error; err != nil {
			RespondError(c, "lead não encontrado", http.StatusNotFound)
			return
		}
	}

	policy.ID = 0
	policy.UserID = user.ID

	if err := db.Create(&policy).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"policy": policy})
}

// PUT /api/policies/:id
func UpdatePolicy(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	policy, ok := findTenantPolicy(c, user.ID, id)
	if !ok {
		return
	}

	var body models.Policy
	if err := c.Bind(&body); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	if body.Number != "" {
		policy.Number = body.Number
	}
	if body.Insurer != "" {
		policy.Insurer = body.Insurer
	}
	if body.InsuranceType != "" {
		policy.InsuranceType = body.InsuranceType
	}
	if body.Status != "" {
		if !models.ValidPolicyStatus(body.Status) {
			RespondError(c, "status inválido", http.StatusBadRequest)
			return
		}
		policy.Status = body.Status
	}
	if body.PremiumCents > 0 {
		policy.PremiumCents = body.PremiumCents
	}
	if body.StartsAt != nil {
		policy.StartsAt = body.StartsAt
	}
	if body.ExpiresAt != nil {
		policy.ExpiresAt = body.ExpiresAt
	}

	db := dbpkg.DBInstance(c)
	if err := db.Save(policy).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"policy": policy})
}

// DELETE /api/policies/:id
func DeletePolicy(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	if _, ok := findTenantPolicy(c, user.ID, id); !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if err := db.Delete(&models.Policy{}, "id = ? AND user_id = ?", id, user.ID).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"status": "deleted"})
}
