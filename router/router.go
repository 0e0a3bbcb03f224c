package router

import (
	"log"

	"github.com/netoguild-rgb/crm-seguros-cg-sub000/config"
	"github.com/netoguild-rgb/crm-seguros-cg-sub000/controllers"
	"github.com/netoguild-rgb/crm-seguros-cg-sub000/middleware"
	"github.com/netoguild-rgb/crm-seguros-cg-sub000/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Initialize wires all routes and middlewares:
// public + authenticated + superadmin, com as features pagas atrás do
// RequireFeature (a checagem de plano que vale é a do servidor).
func Initialize(r *gin.Engine, cfg config.Configuration) {
	_ = cfg

	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.Metrics())

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "ok")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	// Webhooks (assinados, sem bearer)
	api.POST("/stripe/webhook", Logger(), controllers.StripeWebhook)
	api.POST("/webhook/whatsapp/:userId", Logger(), controllers.WhatsAppWebhook)

	// Public (no auth)
	api.POST("/auth/register", Logger(), controllers.Register)
	api.POST("/auth/login", Logger(), controllers.Login)
	api.POST("/auth/refresh", Logger(), controllers.Refresh)
	api.POST("/auth/forgot-password", Logger(), controllers.ForgotPassword)
	api.POST("/auth/reset-password", Logger(), controllers.ResetPassword)

	// Authenticated routes (token + usuário não bloqueado)
	auth := api.Group("")
	auth.Use(controllers.AuthRequired())
	auth.Use(Authorizer())

	auth.GET("/auth/me", Logger(), controllers.Me)

	// Leads / kanban
	auth.GET("/leads", Logger(), controllers.GetLeads)
	auth.GET("/leads/stats", Logger(), controllers.GetLeadStats)
	auth.POST("/leads", Logger(), controllers.CreateLead)
	auth.GET("/leads/:id", Logger(), controllers.GetLeadByID)
	auth.PATCH("/leads/:id", Logger(), controllers.UpdateLead)
	auth.DELETE("/leads/:id", Logger(), controllers.DeleteLead)

	// Billing
	auth.GET("/stripe/subscription", Logger(), controllers.GetSubscription)
	auth.POST("/stripe/create-checkout-session", Logger(), controllers.CreateCheckoutSession)
	auth.POST("/stripe/cancel", Logger(), controllers.CancelSubscription)
	auth.POST("/stripe/demo-upgrade", Logger(), controllers.DemoUpgrade)

	// Marketplace de templates (catálogo aberto; packs pagos por limiar)
	auth.GET("/templates", Logger(), controllers.GetTemplates)

	// Inbox WhatsApp (basic+)
	inbox := auth.Group("")
	inbox.Use(controllers.RequireFeature(models.FEATURE_INBOX))
	inbox.GET("/conversations", Logger(), controllers.GetConversations)
	inbox.GET("/conversations/:id", Logger(), controllers.GetConversationByID)
	inbox.POST("/conversations/:id/read", Logger(), controllers.MarkConversationRead)
	inbox.POST("/messages", Logger(), controllers.SendMessage)

	// Campanhas (basic+)
	campaigns := auth.Group("")
	campaigns.Use(controllers.RequireFeature(models.FEATURE_CAMPAIGNS))
	campaigns.GET("/campaigns", Logger(), controllers.GetCampaigns)
	campaigns.POST("/campaigns", Logger(), controllers.CreateCampaign)
	campaigns.PUT("/campaigns/:id", Logger(), controllers.UpdateCampaign)
	campaigns.DELETE("/campaigns/:id", Logger(), controllers.DeleteCampaign)

	// Apólices (enterprise only)
	policies := auth.Group("")
	policies.Use(controllers.RequireFeature(models.FEATURE_POLICIES))
	policies.GET("/policies", Logger(), controllers.GetPolicies)
	policies.GET("/policies/:id", Logger(), controllers.GetPolicyByID)
	policies.POST("/policies", Logger(), controllers.CreatePolicy)
	policies.PUT("/policies/:id", Logger(), controllers.UpdatePolicy)
	policies.DELETE("/policies/:id", Logger(), controllers.DeletePolicy)

	// Admin routes (superadmin)
	admin := auth.Group("")
	admin.Use(Adminizer())
	admin.GET("/admin/users", Logger(), controllers.AdminGetUsers)
	admin.PUT("/admin/users/:id/plan", Logger(), controllers.AdminSetUserPlan)
	admin.PUT("/admin/users/:id/role", Logger(), controllers.AdminSetUserRole)
	admin.DELETE("/admin/users/:id", Logger(), controllers.AdminDeleteUser)

	log.Printf("Routes initialized")
}
