package workers

import (
	"fmt"
	"testing"
	"time"

	dbpkg "github.com/netoguild-rgb/crm-seguros-cg-sub000/db"
	"github.com/netoguild-rgb/crm-seguros-cg-sub000/models"
	"github.com/netoguild-rgb/crm-seguros-cg-sub000/tools"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWorkerDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	database.DB().SetMaxOpenConns(1)
	database.LogMode(false)
	dbpkg.AutoMigrate(database)
	t.Cleanup(func() { database.Close() })
	return database
}

func createCampaignTenant(t *testing.T, db *gorm.DB, plan string) models.User {
	t.Helper()
	user := models.User{Name: "Corretor", Email: fmt.Sprintf("%s@camp.test", plan), Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	sub := models.Subscription{UserID: user.ID, Plan: plan, Status: models.SUBSCRIPTION_STATUS_ACTIVE}
	require.NoError(t, db.Create(&sub).Error)
	return user
}

func TestDispatchSendsOnceAndEnds(t *testing.T) {
	db := setupWorkerDB(t)
	user := createCampaignTenant(t, db, models.PLAN_BASIC)

	for i := 0; i < 3; i++ {
		lead := models.Lead{
			UserID: user.ID, Name: fmt.Sprintf("Lead %d", i),
			Phone: fmt.Sprintf("551199999000%d", i), Status: models.LEAD_STATUS_NEW,
		}
		require.NoError(t, db.Create(&lead).Error)
	}
	// lead sem telefone fica fora da audiência
	semFone := models.Lead{UserID: user.ID, Name: "Sem Fone", Status: models.LEAD_STATUS_NEW}
	require.NoError(t, db.Create(&semFone).Error)

	campaign := models.Campaign{
		UserID: user.ID, Name: "Boas-vindas", Status: models.CAMPAIGN_STATUS_ACTIVE,
		MessageBody: "Olá!",
	}
	require.NoError(t, db.Create(&campaign).Error)

	sender := tools.NewMemorySender()

	// primeiro tick envia pra audiência toda
	processActiveCampaigns(db, sender)
	assert.Len(t, sender.Sent(), 3)

	var persisted models.Campaign
	require.NoError(t, db.First(&persisted, campaign.ID).Error)
	assert.Equal(t, int64(3), persisted.SentCount)
	assert.Equal(t, models.CAMPAIGN_STATUS_ACTIVE, persisted.Status)

	// segundo tick não reenvia e encerra a campanha
	processActiveCampaigns(db, sender)
	assert.Len(t, sender.Sent(), 3)

	require.NoError(t, db.First(&persisted, campaign.ID).Error)
	assert.Equal(t, models.CAMPAIGN_STATUS_ENDED, persisted.Status)
}

func TestDispatchHonorsAudienceFilters(t *testing.T) {
	db := setupWorkerDB(t)
	user := createCampaignTenant(t, db, models.PLAN_PRO)

	auto := models.Lead{UserID: user.ID, Name: "Auto", Phone: "5511999990001",
		InsuranceType: "auto", Status: models.LEAD_STATUS_NEW}
	vida := models.Lead{UserID: user.ID, Name: "Vida", Phone: "5511999990002",
		InsuranceType: "vida", Status: models.LEAD_STATUS_NEW}
	require.NoError(t, db.Create(&auto).Error)
	require.NoError(t, db.Create(&vida).Error)

	campaign := models.Campaign{
		UserID: user.ID, Name: "Só auto", Status: models.CAMPAIGN_STATUS_ACTIVE,
		TargetInsuranceType: "auto", MessageBody: "Promo de seguro auto",
	}
	require.NoError(t, db.Create(&campaign).Error)

	sender := tools.NewMemorySender()
	processActiveCampaigns(db, sender)

	sent := sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "5511999990001", sent[0].To)
}

func TestDispatchPausesWhenPlanLosesCampaigns(t *testing.T) {
	db := setupWorkerDB(t)
	user := createCampaignTenant(t, db, models.PLAN_FREE)

	lead := models.Lead{UserID: user.ID, Name: "Lead", Phone: "5511999990009",
		Status: models.LEAD_STATUS_NEW}
	require.NoError(t, db.Create(&lead).Error)

	campaign := models.Campaign{
		UserID: user.ID, Name: "Sem plano", Status: models.CAMPAIGN_STATUS_ACTIVE,
		MessageBody: "não deve sair",
	}
	require.NoError(t, db.Create(&campaign).Error)

	sender := tools.NewMemorySender()
	processActiveCampaigns(db, sender)

	assert.Empty(t, sender.Sent())

	var persisted models.Campaign
	require.NoError(t, db.First(&persisted, campaign.ID).Error)
	assert.Equal(t, models.CAMPAIGN_STATUS_PAUSED, persisted.Status)
}

func TestDispatchSkipsExpiredSubscription(t *testing.T) {
	db := setupWorkerDB(t)
	user := createCampaignTenant(t, db, models.PLAN_BASIC)

	past := time.Now().AddDate(0, 0, -1)
	require.NoError(t, db.Model(&models.Subscription{}).Where("user_id = ?", user.ID).
		Updates(map[string]any{
			"status":             models.SUBSCRIPTION_STATUS_CANCELED,
			"current_period_end": &past,
		}).Error)

	lead := models.Lead{UserID: user.ID, Name: "Lead", Phone: "5511999990008",
		Status: models.LEAD_STATUS_NEW}
	require.NoError(t, db.Create(&lead).Error)

	campaign := models.Campaign{
		UserID: user.ID, Name: "Expirada", Status: models.CAMPAIGN_STATUS_ACTIVE,
		MessageBody: "não sai",
	}
	require.NoError(t, db.Create(&campaign).Error)

	sender := tools.NewMemorySender()
	processActiveCampaigns(db, sender)

	assert.Empty(t, sender.Sent())
}
