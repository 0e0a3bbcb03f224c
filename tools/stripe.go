package tools

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const stripeAPIBase = "https://api.stripe.com/v1"

// StripeClient fala com a API REST do Stripe (form-encoded, Bearer com a
// secret key). Sem SDK: mesmo estilo dos outros providers.
type StripeClient struct {
	SecretKey     string
	WebhookSecret string
}

// Configured indica se existe chave real. Sem chave, o billing opera no
// caminho demo-upgrade.
func (s StripeClient) Configured() bool {
	return strings.TrimSpace(s.SecretKey) != ""
}

type StripeCheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreateCheckoutSession cria uma sessão de checkout de assinatura para um
// price já cadastrado no Stripe. O plano interno viaja em metadata pra voltar
// no webhook de conclusão.
func (s StripeClient) CreateCheckoutSession(ctx context.Context, customerEmail, priceID, plan, successURL, cancelURL string) (*StripeCheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("customer_email", customerEmail)
	form.Set("line_items[0][price]", priceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("metadata[plan]", plan)
	form.Set("success_url", successURL)
	form.Set("cancel_url", cancelURL)

	var session StripeCheckoutSession
	if err := s.post(ctx, "/checkout/sessions", form, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CancelAtPeriodEnd marca a assinatura pra encerrar na virada do período.
// O acesso segue valendo até current_period_end.
func (s StripeClient) CancelAtPeriodEnd(ctx context.Context, subscriptionID string) error {
	form := url.Values{}
	form.Set("cancel_at_period_end", "true")
	return s.post(ctx, "/subscriptions/"+subscriptionID, form, nil)
}

func (s StripeClient) post(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, stripeAPIBase+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.SecretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("stripe api error: status=%d body=%s", resp.StatusCode, string(body))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// VerifyStripeSignature valida o header Stripe-Signature de um webhook
// (formato "t=<unix>,v1=<hex>", HMAC-SHA256 de "<t>.<payload>").
// Rejeita timestamps fora da janela de tolerância.
func VerifyStripeSignature(payload []byte, header string, secret string, now time.Time, tolerance time.Duration) bool {
	if strings.TrimSpace(secret) == "" || strings.TrimSpace(header) == "" {
		return false
	}

	var ts string
	var sigs []string
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			ts = kv[1]
		case "v1":
			sigs = append(sigs, kv[1])
		}
	}
	if ts == "" || len(sigs) == 0 {
		return false
	}

	tsInt, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return false
	}
	age := now.Sub(time.Unix(tsInt, 0))
	if age < -tolerance || age > tolerance {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(ts))
	_, _ = mac.Write([]byte("."))
	_, _ = mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range sigs {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return true
		}
	}
	return false
}
