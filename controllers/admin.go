package controllers

import (
	"net/http"
	"strings"
	"time"

	dbpkg "github.com/netoguild-rgb/crm-seguros-cg-sub000/db"
	"github.com/netoguild-rgb/crm-seguros-cg-sub000/models"

	"github.com/gin-gonic/gin"
)

// GET /api/admin/users (superadmin)
// Query params:
// - plan=free|basic|pro|enterprise (optional)
// - q=texto (optional) -> busca em name + email
// - limit (optional, default: 50, max: 200)
// - offset (optional, default: 0)
func AdminGetUsers(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	plan := strings.TrimSpace(c.Query("plan"))
	q := strings.TrimSpace(c.Query("q"))
	limit := clampInt(queryInt(c, "limit", 50), 1, 200)
	offset := clampInt(queryInt(c, "offset", 0), 0, 1_000_000)

	query := db.Model(&models.User{})

	if plan != "" {
		if !models.ValidPlanTier(plan) {
			RespondError(c, "plan inválido", http.StatusBadRequest)
			return
		}
		query = query.
			Joins("JOIN subscriptions ON subscriptions.user_id = users.id").
			Where("subscriptions.plan = ?", plan)
	}
	if q != "" {
		like := "%" + q + "%"
		query = query.Where("users.name LIKE ? OR users.email LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	var users []models.User
	if err := query.Order("users.id asc").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	out := make([]gin.H, 0, len(users))
	now := time.Now()
	for _, u := range users {
		var sub models.Subscription
		effective := models.PLAN_FREE
		if err := db.Where("user_id = ?", u.ID).First(&sub).Error; err == nil {
			effective = sub.EffectivePlan(now)
		}
		u.Password = ""
		out = append(out, gin.H{"user": u, "plan": effective})
	}

	RespondSuccess(c, gin.H{
		"total":  total,
		"limit":  limit,
		"offset": offset,
		"users":  out,
	})
}

// PUT /api/admin/users/:id/plan (superadmin)
// Body: { "plan": "free|basic|pro|enterprise" }
// Mutação direta do plano, sem passar pelo billing.
func AdminSetUserPlan(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var req PlanChangeRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if !models.ValidPlanTier(req.Plan) {
		RespondError(c, "plan inválido", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		RespondError(c, "usuário não encontrado", http.StatusNotFound)
		return
	}

	sub, err := getOrCreateSubscription(db, user.ID)
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	now := time.Now()
	periodEnd := now.AddDate(0, 1, 0)
	updates := map[string]any{
		"plan":                 req.Plan,
		"status":               models.SUBSCRIPTION_STATUS_ACTIVE,
		"current_period_start": &now,
		"current_period_end":   &periodEnd,
	}
	if req.Plan == models.PLAN_FREE {
		updates["current_period_start"] = nil
		updates["current_period_end"] = nil
	}

	if err := db.Model(sub).Updates(updates).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"subscription": sub})
}

// PUT /api/admin/users/:id/role (superadmin)
// Body: { "role": "user|superadmin" }
func AdminSetUserRole(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	type Request struct {
		Role string `json:"role" form:"role"`
	}
	var req Request
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if !models.ValidUserRole(req.Role) {
		RespondError(c, "role inválido", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		RespondError(c, "usuário não encontrado", http.StatusNotFound)
		return
	}

	if err := db.Model(&user).Update("role", req.Role).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	user.Password = ""
	RespondSuccess(c, gin.H{"user": user})
}

// DELETE /api/admin/users/:id (superadmin)
// Remove o usuário e todos os dados do tenant.
func AdminDeleteUser(c *gin.Context) {
	logged, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	if id == logged.ID {
		RespondError(c, "não é possível remover a própria conta", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		RespondError(c, "usuário não encontrado", http.StatusNotFound)
		return
	}

	tx := db.Begin()
	for _, del := range []error{
		tx.Exec("DELETE FROM campaign_deliveries WHERE campaign_id IN (SELECT id FROM campaigns WHERE user_id = ?)", id).Error,
		tx.Delete(&models.Lead{}, "user_id = ?", id).Error,
		tx.Delete(&models.Message{}, "user_id = ?", id).Error,
		tx.Delete(&models.Conversation{}, "user_id = ?", id).Error,
		tx.Delete(&models.Campaign{}, "user_id = ?", id).Error,
		tx.Delete(&models.Policy{}, "user_id = ?", id).Error,
		tx.Delete(&models.Subscription{}, "user_id = ?", id).Error,
		tx.Delete(&models.RefreshToken{}, "user_id = ?", id).Error,
		tx.Delete(&models.PasswordReset{}, "user_id = ?", id).Error,
		tx.Delete(&models.User{}, "id = ?", id).Error,
	} {
		if del != nil {
			tx.Rollback()
			RespondError(c, del.Error(), http.StatusBadRequest)
			return
		}
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"status": "deleted"})
}
