package controllers

import (
	"net/http"

	dbpkg "github.com/netoguild-rgb/crm-seguros-cg-sub000/db"
	"github.com/netoguild-rgb/crm-seguros-cg-sub000/models"

	"github.com/gin-gonic/gin"
)

func findTenantCampaign(c *gin.Context, userID int64, campaignID int64) (*models.Campaign, bool) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return nil, false
	}

	var campaign models.Campaign
	if err := db.Where("id = ? AND user_id = ?", campaignID, userID).First(&campaign).Error; err != nil {
		RespondError(c, "campanha não encontrada", http.StatusNotFound)
		return nil, false
	}
	return &campaign, true
}

// GET /api/campaigns
func GetCampaigns(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var campaigns []models.Campaign
	if err := db.Where("user_id = ?", user.ID).Order("id desc").Find(&campaigns).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"campaigns": campaigns})
}

// POST /api/campaigns
func CreateCampaign(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var campaign models.Campaign
	if err := c.Bind(&campaign); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	if missing := campaign.MissingFields(); missing != "" {
		RespondError(c, "Faltando campo "+missing, http.StatusBadRequest)
		return
	}
	if campaign.TargetLeadStatus != "" && !models.ValidLeadStatus(campaign.TargetLeadStatus) {
		RespondError(c, "target_lead_status inválido", http.StatusBadRequest)
		return
	}

	campaign.ID = 0
	campaign.UserID = user.ID
	campaign.Status = models.CAMPAIGN_STATUS_ACTIVE
	campaign.SentCount = 0

	if err := db.Create(&campaign).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"campaign": campaign})
}

// PUT /api/campaigns/:id
// Usado também pra pausar/retomar/encerrar via campo status.
func UpdateCampaign(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	campaign, ok := findTenantCampaign(c, user.ID, id)
	if !ok {
		return
	}

	var body models.Campaign
	if err := c.Bind(&body); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	if body.Name != "" {
		campaign.Name = body.Name
	}
	if body.MessageBody != "" {
		campaign.MessageBody = body.MessageBody
	}
	if body.Status != "" {
		if !models.ValidCampaignStatus(body.Status) {
			RespondError(c, "status inválido", http.StatusBadRequest)
			return
		}
		campaign.Status = body.Status
	}
	if body.TargetLeadStatus != "" {
		if !models.ValidLeadStatus(body.TargetLeadStatus) {
			RespondError(c, "target_lead_status inválido", http.StatusBadRequest)
			return
		}
		campaign.TargetLeadStatus = body.TargetLeadStatus
	}
	if body.TargetInsuranceType != "" {
		campaign.TargetInsuranceType = body.TargetInsuranceType
	}

	db := dbpkg.DBInstance(c)
	if err := db.Save(campaign).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"campaign": campaign})
}

// DELETE /api/campaigns/:id
func DeleteCampaign(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	if _, ok := findTenantCampaign(c, user.ID, id); !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if err := db.Delete(&models.Campaign{}, "id = ? AND user_id = ?", id, user.ID).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if err := db.Delete(&models.CampaignDelivery{}, "campaign_id = ?", id).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"status": "deleted"})
}
