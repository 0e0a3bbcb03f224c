package config

import (
	"encoding/json"
	"log"
	"os"
)

type Configuration struct {
	ApiPort string `json:"api_port"`
	LogPath string `json:"log_path"`

	Database string `json:"database"` // "sqlite3" ou "postgres"
	DbHost   string `json:"db_host"`
	DbPort   string `json:"db_port"`
	DbUser   string `json:"db_user"`
	DbName   string `json:"db_name"`
	DbPass   string `json:"db_pass"`

	Security struct {
		JwtSecret           string `json:"jwt_secret"`
		RefreshCodeLen      int    `json:"refresh_code_len"`
		RefreshCodeMaxValid int    `json:"refresh_code_max_valid_days"`
	} `json:"security"`

	Stripe struct {
		SecretKey     string `json:"secret_key"`
		WebhookSecret string `json:"webhook_secret"`
		PriceBasic    string `json:"price_basic"`
		PricePro      string `json:"price_pro"`
		PriceEnt      string `json:"price_enterprise"`
	} `json:"stripe"`

	WhatsApp struct {
		GatewayURL    string `json:"gateway_url"`
		GatewayAPIKey string `json:"gateway_api_key"`
		Instance      string `json:"instance"`
		WebhookSecret string `json:"webhook_secret"`
	} `json:"whatsapp"`

	SMTP struct {
		Host string `json:"host"`
		Port int    `json:"port"`
		User string `json:"user"`
		Pass string `json:"pass"`
		From string `json:"from"`
	} `json:"smtp"`
}

// Get carrega o config.json e aplica defaults + overrides de env.
// Env vence o arquivo: facilita trocar segredo sem rebuild.
func Get(path string) Configuration {
	var c Configuration

	if b, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(b, &c); err != nil {
			log.Fatal(err)
		}
	} else {
		log.Printf("config: %s não encontrado, usando env/defaults", path)
	}

	// overrides de env
	if v := os.Getenv("PORT"); v != "" {
		c.ApiPort = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Security.JwtSecret = v
	}
	if v := os.Getenv("STRIPE_SECRET_KEY"); v != "" {
		c.Stripe.SecretKey = v
	}
	if v := os.Getenv("STRIPE_WEBHOOK_SECRET"); v != "" {
		c.Stripe.WebhookSecret = v
	}
	if v := os.Getenv("WHATSAPP_GATEWAY_URL"); v != "" {
		c.WhatsApp.GatewayURL = v
	}
	if v := os.Getenv("WHATSAPP_GATEWAY_APIKEY"); v != "" {
		c.WhatsApp.GatewayAPIKey = v
	}
	if v := os.Getenv("WHATSAPP_INSTANCE"); v != "" {
		c.WhatsApp.Instance = v
	}
	if v := os.Getenv("WHATSAPP_WEBHOOK_SECRET"); v != "" {
		c.WhatsApp.WebhookSecret = v
	}

	// defaults (pra evitar nil/zero chato)
	if c.ApiPort == "" {
		c.ApiPort = "8080"
	}
	if c.LogPath == "" {
		c.LogPath = "logs/server.log"
	}
	if c.Database == "" {
		c.Database = "sqlite3"
	}
	if c.Security.RefreshCodeLen <= 0 {
		c.Security.RefreshCodeLen = 32
	}
	if c.Security.RefreshCodeMaxValid <= 0 {
		c.Security.RefreshCodeMaxValid = 30
	}
	if c.Security.JwtSecret == "" {
		c.Security.JwtSecret = "CHANGE_ME"
	}
	if c.SMTP.Port <= 0 {
		c.SMTP.Port = 587
	}

	return c
}
