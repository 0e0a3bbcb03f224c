package models

import "time"

/************************************************
/**** MARK: CAMPAIGN STATUS ****/
/************************************************/
const CAMPAIGN_STATUS_ACTIVE = "active"
const CAMPAIGN_STATUS_PAUSED = "paused"
const CAMPAIGN_STATUS_ENDED = "ended"

// Campaign é um disparo de mensagens WhatsApp para um recorte de leads do
// tenant. O worker de campanhas varre as ativas e envia em lotes.
type Campaign struct {
	ID int64 `gorm:"primary_key;AUTO_INCREMENT" json:"id"`

	UserID int64  `gorm:"not null;index" json:"user_id"`
	Name   string `gorm:"not null" json:"name" form:"name"`
	Status string `gorm:"not null;default:'active';index" json:"status"`

	// Recorte da audiência. Vazio = todos os leads do tenant.
	TargetInsuranceType string `gorm:"default:''" json:"target_insurance_type" form:"target_insurance_type"`
	TargetLeadStatus    string `gorm:"default:''" json:"target_lead_status" form:"target_lead_status"`

	MessageBody string     `gorm:"type:text" json:"message_body" form:"message_body"`
	SentCount   int64      `gorm:"not null;default:0" json:"sent_count"`
	LastRunAt   *time.Time `json:"last_run_at"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

func ValidCampaignStatus(status string) bool {
	switch status {
	case CAMPAIGN_STATUS_ACTIVE, CAMPAIGN_STATUS_PAUSED, CAMPAIGN_STATUS_ENDED:
		return true
	}
	return false
}

func (campaign Campaign) MissingFields() string {
	if campaign.Name == "" {
		return "name"
	} else if campaign.MessageBody == "" {
		return "message_body"
	}
	return ""
}

// CampaignDelivery registra um envio de campanha para um lead, evitando
// mandar a mesma campanha duas vezes pro mesmo contato.
type CampaignDelivery struct {
	ID         int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	CampaignID int64      `gorm:"not null;index;unique_index:ux_campaign_lead" json:"campaign_id"`
	LeadID     int64      `gorm:"not null;index;unique_index:ux_campaign_lead" json:"lead_id"`
	CreatedAt  *time.Time `json:"created_at"`
}
