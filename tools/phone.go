package tools

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
)

// NormalizeWhatsAppPhone normaliza um telefone para o formato internacional
// aceito pelo WhatsApp (apenas dígitos, com DDI, sem '+').
//
// Heurística atual (Brasil):
// - remove tudo que não é dígito
// - se vier com 10/11 dígitos, assume BR e prefixa 55
// - se já vier com DDI (>= 12 dígitos), mantém
func NormalizeWhatsAppPhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty phone")
	}

	// mantém apenas dígitos
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	phone := b.String()
	phone = strings.TrimLeft(phone, "0")

	// BR comum (DDD+numero): 10 ou 11 dígitos -> prefixa 55
	if len(phone) == 10 || len(phone) == 11 {
		phone = "55" + phone
	}

	// validação bem leve: DDI + número
	if len(phone) < 12 {
		return "", fmt.Errorf("invalid phone length: %d", len(phone))
	}
	return phone, nil
}

// WaMeLink monta o link de clique-pra-conversar (https://wa.me/<phone>),
// opcionalmente com texto pré-preenchido. O telefone passa pela mesma
// normalização do envio via gateway.
func WaMeLink(rawPhone string, text string) (string, error) {
	phone, err := NormalizeWhatsAppPhone(rawPhone)
	if err != nil {
		return "", err
	}
	link := "https://wa.me/" + phone
	if strings.TrimSpace(text) != "" {
		link += "?text=" + url.QueryEscape(text)
	}
	return link, nil
}
