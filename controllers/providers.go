package controllers

import (
	"github.com/netoguild-rgb/crm-seguros-cg-sub000/config"
	"github.com/netoguild-rgb/crm-seguros-cg-sub000/tools"
)

// Colaboradores externos, escolhidos por configuração no main.
// Mesmo padrão do db.SetConfigurations: setter no boot, nunca troca em runtime.
var (
	conf      config.Configuration
	waSender  tools.WhatsAppSender = tools.NewMemorySender()
	mailer    tools.Mailer         = tools.LogMailer{}
	stripeAPI tools.StripeClient
)

func SetConfigurations(configuration config.Configuration) {
	conf = configuration
}

func SetWhatsAppSender(sender tools.WhatsAppSender) {
	if sender != nil {
		waSender = sender
	}
}

func SetMailer(m tools.Mailer) {
	if m != nil {
		mailer = m
	}
}

func SetStripeClient(client tools.StripeClient) {
	stripeAPI = client
}
