package workers

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/netoguild-rgb/crm-seguros-cg-sub000/models"
	"github.com/netoguild-rgb/crm-seguros-cg-sub000/tools"

	"github.com/jinzhu/gorm"
)

// Quantos leads uma campanha alcança por tick. Mantém o worker previsível e
// evita estourar rate limit do gateway.
const campaignBatchSize = 25

// StartCampaignDispatcher starts a loop that delivers active campaigns in
// batches. Cada tick varre as campanhas ativas, resolve a audiência restante
// e envia via gateway, registrando cada entrega para nunca repetir um lead.
func StartCampaignDispatcher(db *gorm.DB, sender tools.WhatsAppSender) {
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for range ticker.C {
			processActiveCampaigns(db, sender)
		}
	}()
}

func processActiveCampaigns(db *gorm.DB, sender tools.WhatsAppSender) {
	var campaigns []models.Campaign
	if err := db.
		Where("status = ?", models.CAMPAIGN_STATUS_ACTIVE).
		Order("last_run_at asc, id asc").
		Limit(20).
		Find(&campaigns).Error; err != nil {
		log.Printf("campaign worker: query error: %v", err)
		return
	}

	for _, campaign := range campaigns {
		dispatchCampaignBatch(db, sender, campaign)
	}
}

// tenantHasCampaignAccess reavalia o plano do dono a cada tick. Downgrade no
// meio de uma campanha pausa os envios imediatamente, sem depender de request.
func tenantHasCampaignAccess(db *gorm.DB, userID int64, now time.Time) bool {
	var sub models.Subscription
	if err := db.Where("user_id = ?", userID).First(&sub).Error; err != nil {
		return false
	}
	return models.HasAccess(sub.EffectivePlan(now), models.FEATURE_CAMPAIGNS)
}

func dispatchCampaignBatch(db *gorm.DB, sender tools.WhatsAppSender, campaign models.Campaign) {
	now := time.Now()

	if !tenantHasCampaignAccess(db, campaign.UserID, now) {
		res := db.Model(&models.Campaign{}).
			Where("id = ? AND status = ?", campaign.ID, models.CAMPAIGN_STATUS_ACTIVE).
			Update("status", models.CAMPAIGN_STATUS_PAUSED)
		if res.Error == nil && res.RowsAffected > 0 {
			log.Printf("campaign worker: campaign=%d paused (plano do tenant não cobre campanhas)", campaign.ID)
		}
		return
	}

	leads, err := pendingCampaignLeads(db, campaign)
	if err != nil {
		log.Printf("campaign worker: campaign=%d audience error: %v", campaign.ID, err)
		return
	}

	if len(leads) == 0 {
		// audiência esgotada: campanha termina sozinha
		res := db.Model(&models.Campaign{}).
			Where("id = ? AND status = ?", campaign.ID, models.CAMPAIGN_STATUS_ACTIVE).
			Updates(map[string]any{
				"status":      models.CAMPAIGN_STATUS_ENDED,
				"last_run_at": &now,
			})
		if res.Error == nil && res.RowsAffected > 0 {
			log.Printf("campaign worker: campaign=%d ended (audiência esgotada)", campaign.ID)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	sent := int64(0)
	for _, lead := range leads {
		// claim otimista por (campaign, lead): o unique index segura corrida
		// entre instâncias do worker
		delivery := models.CampaignDelivery{CampaignID: campaign.ID, LeadID: lead.ID}
		if err := db.Create(&delivery).Error; err != nil {
			continue
		}

		if err := sender.SendText(ctx, lead.Phone, campaign.MessageBody); err != nil {
			log.Printf("campaign worker: campaign=%d lead=%d send error: %v", campaign.ID, lead.ID, err)
			// devolve o lead pra fila; próximo tick tenta de novo
			_ = db.Delete(&models.CampaignDelivery{}, "campaign_id = ? AND lead_id = ?", campaign.ID, lead.ID).Error
			continue
		}
		sent++
	}

	updates := map[string]any{"last_run_at": &now}
	if sent > 0 {
		updates["sent_count"] = gorm.Expr("sent_count + ?", sent)
	}
	if err := db.Model(&models.Campaign{}).Where("id = ?", campaign.ID).
		Updates(updates).Error; err != nil {
		log.Printf("campaign worker: campaign=%d update error: %v", campaign.ID, err)
	}
}

// pendingCampaignLeads resolve a audiência restante: leads do tenant com
// telefone, dentro do recorte da campanha e ainda sem entrega registrada.
func pendingCampaignLeads(db *gorm.DB, campaign models.Campaign) ([]models.Lead, error) {
	query := db.
		Where("user_id = ?", campaign.UserID).
		Where("phone != ''").
		Where("id NOT IN (SELECT lead_id FROM campaign_deliveries WHERE campaign_id = ?)", campaign.ID)

	if t := strings.TrimSpace(campaign.TargetInsuranceType); t != "" {
		query = query.Where("insurance_type = ?", t)
	}
	if s := strings.TrimSpace(campaign.TargetLeadStatus); s != "" {
		query = query.Where("status = ?", s)
	}

	var leads []models.Lead
	if err := query.Order("id asc").Limit(campaignBatchSize).Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}
