package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	dbpkg "github.com/netoguild-rgb/crm-seguros-cg-sub000/db"
	"github.com/netoguild-rgb/crm-seguros-cg-sub000/models"
	"github.com/netoguild-rgb/crm-seguros-cg-sub000/tools"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
)

type PlanChangeRequest struct {
	Plan string `json:"plan" form:"plan"`
}

// getOrCreateSubscription garante a linha única de assinatura do usuário.
// Usuários antigos (pré-registro-com-assinatura) ganham a linha free aqui.
func getOrCreateSubscription(db *gorm.DB, userID int64) (*models.Subscription, error) {
	var sub models.Subscription
	err := db.Where("user_id = ?", userID).First(&sub).Error
	if err == nil {
		return &sub, nil
	}
	if !gorm.IsRecordNotFoundError(err) {
		return nil, err
	}
	sub = models.Subscription{
		UserID: userID,
		Plan:   models.PLAN_FREE,
		Status: models.SUBSCRIPTION_STATUS_ACTIVE,
	}
	if err := db.Create(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// GET /api/stripe/subscription
func GetSubscription(c *gin.Context) {
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

	sub, err := getOrCreateSubscription(db, user.ID)
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{
		"subscription":   sub,
		"effective_plan": sub.EffectivePlan(time.Now()),
	})
}

func priceForPlan(plan string) string {
	switch plan {
	case models.PLAN_BASIC:
		return conf.Stripe.PriceBasic
	case models.PLAN_PRO:
		return conf.Stripe.PricePro
	case models.PLAN_ENTERPRISE:
		return conf.Stripe.PriceEnt
	}
	return ""
}

// POST /api/stripe/create-checkout-session
// Body: { "plan": "basic|pro|enterprise" }
func CreateCheckoutSession(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req PlanChangeRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if !models.ValidPlanTier(req.Plan) || req.Plan == models.PLAN_FREE {
		RespondError(c, "plan inválido", http.StatusBadRequest)
		return
	}

	if !stripeAPI.Configured() {
		RespondError(c, "stripe não configurado; use /api/stripe/demo-upgrade", http.StatusBadRequest)
		return
	}

	priceID := priceForPlan(req.Plan)
	if priceID == "" {
		RespondError(c, "price não configurado para o plano "+req.Plan, http.StatusBadRequest)
		return
	}

	successURL := getenv("CHECKOUT_SUCCESS_URL", "https://app.example.com/billing?status=success")
	cancelURL := getenv("CHECKOUT_CANCEL_URL", "https://app.example.com/billing?status=cancel")

	session, err := stripeAPI.CreateCheckoutSession(c.Request.Context(), user.Email, priceID, req.Plan, successURL, cancelURL)
	if err != nil {
		RespondError(c, "falha ao criar sessão de checkout: "+err.Error(), http.StatusBadGateway)
		return
	}

	RespondSuccess(c, gin.H{"session_id": session.ID, "url": session.URL})
}

// applyPlanUpgrade aplica o resultado de um checkout bem-sucedido:
// plano ativo com janela de período iniciando agora.
func applyPlanUpgrade(db *gorm.DB, userID int64, plan string, stripeSubID string) (*models.Subscription, error) {
	sub, err := getOrCreateSubscription(db, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	periodEnd := now.AddDate(0, 1, 0)

	updates := map[string]any{
		"plan":                 plan,
		"status":               models.SUBSCRIPTION_STATUS_ACTIVE,
		"current_period_start": &now,
		"current_period_end":   &periodEnd,
	}
	if stripeSubID != "" {
		updates["stripe_subscription_id"] = stripeSubID
	}

	if err := db.Model(sub).Updates(updates).Error; err != nil {
		return nil, err
	}
	return sub, nil
}

// POST /api/stripe/demo-upgrade
// Fallback quando não há chave de pagamento configurada: do ponto de vista do
// cliente se comporta como um checkout concluído — o plano vira na hora.
func DemoUpgrade(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	if stripeAPI.Configured() {
		RespondError(c, "stripe configurado; use o checkout real", http.StatusBadRequest)
		return
	}

	var req PlanChangeRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if !models.ValidPlanTier(req.Plan) || req.Plan == models.PLAN_FREE {
		RespondError(c, "plan inválido", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	sub, err := applyPlanUpgrade(db, user.ID, req.Plan, "demo_"+uuid.New().String())
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{
		"subscription":   sub,
		"effective_plan": sub.EffectivePlan(time.Now()),
	})
}

// POST /api/stripe/cancel
// Cancela na virada do período: status vira canceled, acesso segue até
// current_period_end (downgrade nunca é imediato).
func CancelSubscription(c *gin.Context) {
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

	sub, err := getOrCreateSubscription(db, user.ID)
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	if sub.Plan == models.PLAN_FREE {
		RespondError(c, "não há assinatura paga para cancelar", http.StatusBadRequest)
		return
	}

	if stripeAPI.Configured() && sub.StripeSubscriptionID != "" && !strings.HasPrefix(sub.StripeSubscriptionID, "demo_") {
		if err := stripeAPI.CancelAtPeriodEnd(c.Request.Context(), sub.StripeSubscriptionID); err != nil {
			RespondError(c, "falha ao cancelar no stripe: "+err.Error(), http.StatusBadGateway)
			return
		}
	}

	if err := db.Model(sub).Update("status", models.SUBSCRIPTION_STATUS_CANCELED).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{
		"subscription":   sub,
		"effective_plan": sub.EffectivePlan(time.Now()),
	})
}

type stripeEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID            string            `json:"id"`
			CustomerEmail string            `json:"customer_email"`
			Subscription  string            `json:"subscription"`
			Metadata      map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// POST /api/stripe/webhook (public, assinado)
// Só tratamos checkout.session.completed; o resto é ack e ignora.
func StripeWebhook(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		RespondError(c, "failed to read body", http.StatusBadRequest)
		return
	}

	sig := c.GetHeader("Stripe-Signature")
	if !tools.VerifyStripeSignature(raw, sig, conf.Stripe.WebhookSecret, time.Now(), 5*time.Minute) {
		RespondError(c, "invalid signature", http.StatusUnauthorized)
		return
	}

	var event stripeEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		RespondError(c, "invalid json", http.StatusBadRequest)
		return
	}

	if event.Type != "checkout.session.completed" {
		RespondSuccess(c, gin.H{"received": true})
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	email := strings.TrimSpace(event.Data.Object.CustomerEmail)
	plan := strings.TrimSpace(event.Data.Object.Metadata["plan"])
	if email == "" || !models.ValidPlanTier(plan) || plan == models.PLAN_FREE {
		RespondError(c, "evento sem email/plan utilizáveis", http.StatusBadRequest)
		return
	}

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		RespondError(c, "usuário do checkout não encontrado", http.StatusNotFound)
		return
	}

	if _, err := applyPlanUpgrade(db, user.ID, plan, event.Data.Object.Subscription); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	log.Printf("stripe webhook: upgrade aplicado user_id=%d plan=%s", user.ID, plan)
	RespondSuccess(c, gin.H{"received": true})
}
