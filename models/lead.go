package models

import (
	"encoding/json"
	"strings"
	"time"
)

/************************************************
/**** MARK: LEAD STATUS ****/
/************************************************/
const LEAD_STATUS_NEW = "NEW"
const LEAD_STATUS_NEGOTIATION = "NEGOTIATION"
const LEAD_STATUS_CLOSED = "CLOSED"
const LEAD_STATUS_LOST = "LOST"

// Lead representa um lead do funil de vendas (kanban).
// Escopado por user_id: um lead só existe dentro do tenant do corretor.
type Lead struct {
	ID            int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	UserID        int64      `gorm:"not null;index" json:"user_id"`
	Name          string     `gorm:"not null" json:"name" form:"name"`
	Phone         string     `gorm:"default:''" json:"phone" form:"phone"`
	Email         string     `gorm:"default:''" json:"email" form:"email"`
	TaxID         string     `gorm:"column:tax_id;default:''" json:"tax_id" form:"tax_id"`
	InsuranceType string     `gorm:"default:''" json:"insurance_type" form:"insurance_type"`
	Status        string     `gorm:"default:'NEW';index" json:"status" form:"status"`
	FolderLink    string     `gorm:"default:''" json:"folder_link" form:"folder_link"`
	ExtraData     string     `gorm:"type:text" json:"-"`
	CreatedAt     *time.Time `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
}

// ValidLeadStatus valida o enum antes de qualquer transição.
// O kanban é livre: qualquer status alcança qualquer outro em uma transição,
// então a única validação é pertencer ao conjunto.
func ValidLeadStatus(status string) bool {
	switch status {
	case LEAD_STATUS_NEW, LEAD_STATUS_NEGOTIATION, LEAD_STATUS_CLOSED, LEAD_STATUS_LOST:
		return true
	}
	return false
}

// EffectiveStatus trata status ausente como NEW (default-on-missing, não erro).
// Leads importados de captação externa podem chegar sem status.
func (lead Lead) EffectiveStatus() string {
	s := strings.TrimSpace(lead.Status)
	if s == "" {
		return LEAD_STATUS_NEW
	}
	return s
}

// LeadStatuses lista os status na ordem usada para agrupamento em relatório.
// A ordem é só de apresentação; não existe ordem imposta nas transições.
func LeadStatuses() []string {
	return []string{LEAD_STATUS_NEW, LEAD_STATUS_NEGOTIATION, LEAD_STATUS_CLOSED, LEAD_STATUS_LOST}
}

/************************************************
/**** MARK: EXTRA DATA ****/
/************************************************/

// Campos de primeira classe do lead; nunca entram no saco genérico.
var leadKnownKeys = map[string]struct{}{
	"id": {}, "user_id": {}, "name": {}, "phone": {}, "email": {},
	"tax_id": {}, "insurance_type": {}, "status": {}, "folder_link": {},
	"created_at": {}, "updated_at": {},
}

// LeadExtraValue é o conjunto fechado de escalares aceitos no saco de dados
// extras: texto, número ou link. Exatamente um dos campos é preenchido.
type LeadExtraValue struct {
	Text   *string  `json:"text,omitempty"`
	Number *float64 `json:"number,omitempty"`
	Link   *string  `json:"link,omitempty"`
}

// FoldExtraData separa, de um payload arbitrário, o que vai pro saco de dados
// extras. Chaves conhecidas são ignoradas; valores não escalares também.
// Strings começando com http(s):// viram Link.
func FoldExtraData(payload map[string]any) map[string]LeadExtraValue {
	out := map[string]LeadExtraValue{}
	for k, v := range payload {
		key := strings.ToLower(strings.TrimSpace(k))
		if key == "" {
			continue
		}
		if _, known := leadKnownKeys[key]; known {
			continue
		}
		switch val := v.(type) {
		case string:
			s := val
			if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
				out[key] = LeadExtraValue{Link: &s}
			} else {
				out[key] = LeadExtraValue{Text: &s}
			}
		case float64:
			n := val
			out[key] = LeadExtraValue{Number: &n}
		}
	}
	return out
}

// GetExtraData decodifica o blob persistido. Blob vazio/corrompido vira mapa
// vazio: dado extra nunca derruba a leitura do lead.
func (lead Lead) GetExtraData() map[string]LeadExtraValue {
	out := map[string]LeadExtraValue{}
	raw := strings.TrimSpace(lead.ExtraData)
	if raw == "" {
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return map[string]LeadExtraValue{}
	}
	return out
}

// SetExtraData serializa o mapa tipado de volta pro blob.
func (lead *Lead) SetExtraData(extra map[string]LeadExtraValue) error {
	if len(extra) == 0 {
		lead.ExtraData = ""
		return nil
	}
	b, err := json.Marshal(extra)
	if err != nil {
		return err
	}
	lead.ExtraData = string(b)
	return nil
}

func (lead Lead) MissingFields() string {
	if lead.Name == "" {
		return "name"
	}
	return ""
}
