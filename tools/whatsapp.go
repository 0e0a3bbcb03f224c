package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"
)

// WhatsAppSender é a porta de saída de mensagens do inbox e das campanhas.
// Duas implementações: EvolutionSender (gateway real) e MemorySender
// (fixture para dev/testes). A escolha é feita por configuração no boot,
// nunca por catch-and-substitute dentro dos controllers.
type WhatsAppSender interface {
	SendText(ctx context.Context, to string, text string) error
}

// EvolutionSender fala com um gateway compatível com a Evolution API.
type EvolutionSender struct {
	BaseURL  string
	APIKey   string
	Instance string
}

func (s EvolutionSender) SendText(ctx context.Context, to string, text string) error {
	if s.BaseURL == "" || s.APIKey == "" || s.Instance == "" {
		return fmt.Errorf("evolution gateway not configured")
	}

	phone, err := NormalizeWhatsAppPhone(to)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/message/sendText/%s", strings.TrimRight(s.BaseURL, "/"), s.Instance)

	reqBody := map[string]any{
		"number": phone,
		"text":   text,
	}

	b, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("apikey", s.APIKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("evolution api error: status=%d body=%s", resp.StatusCode, string(body))
	}
	return nil
}

// MemorySender guarda os envios em memória e loga. Usada quando o gateway
// não está configurado (dev) e nos testes.
type MemorySender struct {
	mu   sync.Mutex
	sent []SentRecord
}

type SentRecord struct {
	To   string
	Text string
}

func NewMemorySender() *MemorySender {
	return &MemorySender{}
}

func (s *MemorySender) SendText(_ context.Context, to string, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, SentRecord{To: to, Text: text})
	log.Printf("[whatsapp][memory] to=%s text=%q", to, text)
	return nil
}

// Sent devolve uma cópia dos envios registrados.
func (s *MemorySender) Sent() []SentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SentRecord, len(s.sent))
	copy(out, s.sent)
	return out
}
