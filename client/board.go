// Package client implementa o lado consumidor do kanban de leads: um board em
// memória com atualização otimista. Mover um card aplica a mudança local na
// hora, empurra pro backend em background e reverte pro status anterior se o
// servidor recusar. Não há retry silencioso; o chamador decide o que fazer com
// o erro.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/netoguild-rgb/crm-seguros-cg-sub000/models"
)

// StatusPusher persiste a mudança de status de um lead. Implementações:
// HTTPPusher (API real) e MemoryPusher (testes).
type StatusPusher interface {
	PushStatus(ctx context.Context, leadID int64, status string) error
}

// BoardLead é a projeção mínima de um lead que o board precisa.
type BoardLead struct {
	ID     int64
	Name   string
	Status string
}

// Board mantém o estado local do kanban. Seguro para uso concorrente.
type Board struct {
	pusher StatusPusher

	mu       sync.Mutex
	leads    map[int64]*BoardLead
	inFlight map[int64]bool
}

func NewBoard(pusher StatusPusher) *Board {
	return &Board{
		pusher:   pusher,
		leads:    map[int64]*BoardLead{},
		inFlight: map[int64]bool{},
	}
}

// Load substitui o estado local pelo snapshot vindo do servidor.
// Status ausente entra como NEW, igual ao backend.
func (b *Board) Load(leads []BoardLead) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.leads = make(map[int64]*BoardLead, len(leads))
	for _, lead := range leads {
		l := lead
		if strings.TrimSpace(l.Status) == "" {
			l.Status = models.LEAD_STATUS_NEW
		}
		b.leads[l.ID] = &l
	}
}

// Column devolve os leads atualmente na coluna dada.
func (b *Board) Column(status string) []BoardLead {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []BoardLead
	for _, lead := range b.leads {
		if lead.Status == status {
			out = append(out, *lead)
		}
	}
	return out
}

// Status devolve o status local de um lead.
func (b *Board) Status(leadID int64) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	lead, ok := b.leads[leadID]
	if !ok {
		return "", false
	}
	return lead.Status, true
}

// Move aplica a transição localmente e persiste no servidor. Se o push
// falhar, o card volta pra coluna de origem e o erro sobe pro chamador.
// Um segundo Move no mesmo lead enquanto o primeiro está em voo é recusado,
// senão o revert do primeiro desfaria o segundo.
func (b *Board) Move(ctx context.Context, leadID int64, to string) error {
	if !models.ValidLeadStatus(to) {
		return fmt.Errorf("status inválido: %q", to)
	}

	b.mu.Lock()
	lead, ok := b.leads[leadID]
	if !ok {
		b.mu.Unlock()
		return fmt.Errorf("lead %d não está no board", leadID)
	}
	if b.inFlight[leadID] {
		b.mu.Unlock()
		return fmt.Errorf("lead %d já tem movimento em andamento", leadID)
	}

	from := lead.Status
	if from == to {
		b.mu.Unlock()
		return nil
	}

	// otimista: muda local antes da resposta do servidor
	lead.Status = to
	b.inFlight[leadID] = true
	b.mu.Unlock()

	err := b.pusher.PushStatus(ctx, leadID, to)

	b.mu.Lock()
	delete(b.inFlight, leadID)
	if err != nil {
		if current, still := b.leads[leadID]; still {
			current.Status = from
		}
	}
	b.mu.Unlock()

	if err != nil {
		return fmt.Errorf("mover lead %d para %s: %w", leadID, to, err)
	}
	return nil
}

/************************************************
/**** MARK: PUSHERS ****/
/************************************************/

// HTTPPusher persiste via PATCH /api/leads/:id com bearer token.
type HTTPPusher struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

func NewHTTPPusher(baseURL, token string) *HTTPPusher {
	return &HTTPPusher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *HTTPPusher) PushStatus(ctx context.Context, leadID int64, status string) error {
	url := fmt.Sprintf("%s/api/leads/%d", p.BaseURL, leadID)

	body, _ := json.Marshal(map[string]any{"status": status})
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+p.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("api error: status=%d body=%s", resp.StatusCode, string(raw))
	}
	return nil
}

// MemoryPusher registra os pushes e pode ser programado pra falhar.
type MemoryPusher struct {
	mu     sync.Mutex
	pushes []PushRecord
	fail   func(leadID int64, status string) error
}

type PushRecord struct {
	LeadID int64
	Status string
}

func NewMemoryPusher() *MemoryPusher {
	return &MemoryPusher{}
}

// FailWith injeta uma função de erro chamada a cada push.
func (p *MemoryPusher) FailWith(fn func(leadID int64, status string) error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fail = fn
}

func (p *MemoryPusher) PushStatus(_ context.Context, leadID int64, status string) error {
	p.mu.Lock()
	fail := p.fail
	p.mu.Unlock()

	if fail != nil {
		if err := fail(leadID, status); err != nil {
			return err
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.pushes = append(p.pushes, PushRecord{LeadID: leadID, Status: status})
	return nil
}

// Pushes devolve uma cópia dos pushes aceitos.
func (p *MemoryPusher) Pushes() []PushRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PushRecord, len(p.pushes))
	copy(out, p.pushes)
	return out
}
