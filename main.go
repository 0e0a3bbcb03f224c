package main

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/netoguild-rgb/crm-seguros-cg-sub000/config"
	"github.com/netoguild-rgb/crm-seguros-cg-sub000/controllers"
	dbpkg "github.com/netoguild-rgb/crm-seguros-cg-sub000/db"
	"github.com/netoguild-rgb/crm-seguros-cg-sub000/models"
	"github.com/netoguild-rgb/crm-seguros-cg-sub000/router"
	"github.com/netoguild-rgb/crm-seguros-cg-sub000/tools"
	"github.com/netoguild-rgb/crm-seguros-cg-sub000/workers"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	"github.com/joho/godotenv"
)

func main() {
	// .env é opcional; em produção as envs vêm do ambiente
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.json"
	}
	conf := config.Get(configPath)

	dbpkg.SetConfigurations(conf)
	controllers.SetConfigurations(conf)

	database, err := dbpkg.Connect()
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer database.Close()

	// Saída WhatsApp: gateway Evolution se configurado, senão memória (dev)
	if conf.WhatsApp.GatewayURL != "" && conf.WhatsApp.GatewayAPIKey != "" {
		controllers.SetWhatsAppSender(tools.EvolutionSender{
			BaseURL:  conf.WhatsApp.GatewayURL,
			APIKey:   conf.WhatsApp.GatewayAPIKey,
			Instance: conf.WhatsApp.Instance,
		})
		log.Printf("whatsapp: gateway evolution em %s", conf.WhatsApp.GatewayURL)
	} else {
		log.Printf("whatsapp: gateway não configurado, usando sender em memória")
	}

	// Email: SMTP se configurado, senão log
	if conf.SMTP.Host != "" && conf.SMTP.User != "" {
		controllers.SetMailer(tools.SMTPMailer{
			Host: conf.SMTP.Host,
			Port: conf.SMTP.Port,
			User: conf.SMTP.User,
			Pass: conf.SMTP.Pass,
			From: conf.SMTP.From,
		})
	}

	controllers.SetStripeClient(tools.StripeClient{
		SecretKey:     conf.Stripe.SecretKey,
		WebhookSecret: conf.Stripe.WebhookSecret,
	})
	if conf.Stripe.SecretKey == "" {
		log.Printf("stripe: sem chave configurada, upgrades via demo-upgrade")
	}

	seedSuperadmin(database)
	seedTemplates(database)

	workers.StartCampaignDispatcher(database, campaignSender(conf))

	r := gin.New()
	r.Use(dbpkg.SetDBtoContext(database))
	router.Initialize(r, conf)

	log.Printf("CRM listening on :%s", conf.ApiPort)
	log.Fatal(r.Run(":" + conf.ApiPort))
}

// campaignSender espelha a escolha de sender dos controllers pro worker.
func campaignSender(conf config.Configuration) tools.WhatsAppSender {
	if conf.WhatsApp.GatewayURL != "" && conf.WhatsApp.GatewayAPIKey != "" {
		return tools.EvolutionSender{
			BaseURL:  conf.WhatsApp.GatewayURL,
			APIKey:   conf.WhatsApp.GatewayAPIKey,
			Instance: conf.WhatsApp.Instance,
		}
	}
	return tools.NewMemorySender()
}

// seedSuperadmin cria o superadmin inicial a partir de SUPERADMIN_EMAIL e
// SUPERADMIN_PASSWORD. Sem as envs, ou com o email já cadastrado, não faz nada.
func seedSuperadmin(db *gorm.DB) {
	email := strings.ToLower(strings.TrimSpace(os.Getenv("SUPERADMIN_EMAIL")))
	password := os.Getenv("SUPERADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return
	}

	encoded := tools.EncryptTextSHA512(email + ":" + tools.EncryptTextSHA512(password))
	user := models.User{
		Name:     "Superadmin",
		Email:    email,
		Password: encoded,
		Role:     models.USER_ROLE_SUPERADMIN,
		Status:   models.USER_STATUS_AVAILABLE,
	}

	tx := db.Begin()
	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		log.Printf("seed: superadmin create error: %v", err)
		return
	}
	sub := models.Subscription{
		UserID: user.ID,
		Plan:   models.PLAN_ENTERPRISE,
		Status: models.SUBSCRIPTION_STATUS_ACTIVE,
	}
	if err := tx.Create(&sub).Error; err != nil {
		tx.Rollback()
		log.Printf("seed: superadmin subscription error: %v", err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		log.Printf("seed: superadmin commit error: %v", err)
		return
	}
	log.Printf("seed: superadmin %s criado", email)
}

// seedTemplates popula o marketplace na primeira subida. O catálogo é global
// (sem tenant); se já houver linhas, não mexe.
func seedTemplates(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.Template{}).Count(&count).Error; err != nil || count > 0 {
		return
	}

	seeds := []models.Template{
		{Key: "welcome", Name: "Boas-vindas", Pack: models.PLAN_FREE,
			Description: "Primeira mensagem para um lead novo",
			Body:        "Olá {{nome}}! Sou {{corretor}}, seu corretor de seguros. Como posso ajudar?"},
		{Key: "payment-reminder", Name: "Cobrança amigável", Pack: models.PLAN_BASIC,
			Description: "Lembrete de pagamento da apólice",
			Body:        "Oi {{nome}}, passando para lembrar do pagamento da sua apólice. Qualquer dúvida, me chama!"},
		{Key: "proposal-ready", Name: "Proposta enviada", Pack: models.PLAN_PRO,
			Description: "Aviso de proposta pronta para revisão",
			Body:        "{{nome}}, sua proposta de seguro {{tipo}} está pronta. Posso te ligar para revisar os detalhes?"},
		{Key: "cold-lead", Name: "Recuperação de lead frio", Pack: models.PLAN_PRO,
			Description: "Reaquecimento de lead parado",
			Body:        "Oi {{nome}}, faz um tempo que conversamos sobre seguro {{tipo}}. Os valores mudaram, quer uma nova cotação?"},
		{Key: "policy-renewal", Name: "Renovação de apólice", Pack: models.PLAN_ENTERPRISE,
			Description: "Aviso de vencimento próximo",
			Body:        "{{nome}}, sua apólice {{tipo}} vence em {{dias}} dias. Vamos garantir a renovação sem carência?"},
		{Key: "claim-first-steps", Name: "Sinistro: primeiros passos", Pack: models.PLAN_ENTERPRISE,
			Description: "Checklist inicial de sinistro",
			Body:        "{{nome}}, recebi o aviso do sinistro. Vou precisar dos documentos a seguir para abrir o processo: {{lista}}."},
	}

	now := time.Now()
	for i := range seeds {
		seeds[i].CreatedAt = &now
		if err := db.Create(&seeds[i]).Error; err != nil {
			log.Printf("seed: template %q error: %v", seeds[i].Name, err)
		}
	}
	log.Printf("seed: %d templates criados", len(seeds))
}
