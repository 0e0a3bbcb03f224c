package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/netoguild-rgb/crm-seguros-cg-sub000/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadStatusTransitions(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "leads@test.com", models.PLAN_FREE)

	r := newTestRouter(database)
	auth := r.Group("", asUser(user))
	auth.POST("/leads", CreateLead)
	auth.PATCH("/leads/:id", UpdateLead)

	w := performJSON(r, "POST", "/leads", map[string]any{"name": "Ana", "phone": "11999998888"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decodeBody(t, w)["lead"].(map[string]any)
	assert.Equal(t, models.LEAD_STATUS_NEW, created["status"])
	leadID := int64(created["id"].(float64))

	// kanban livre: qualquer status alcança qualquer outro
	for _, status := range models.LeadStatuses() {
		w := performJSON(r, "PATCH", fmt.Sprintf("/leads/%d", leadID), map[string]any{"status": status})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		got := decodeBody(t, w)["lead"].(map[string]any)
		assert.Equal(t, status, got["status"])

		var persisted models.Lead
		require.NoError(t, database.First(&persisted, leadID).Error)
		assert.Equal(t, status, persisted.Status)
	}
}

func TestUpdateLeadRejectsInvalidStatus(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "leads2@test.com", models.PLAN_FREE)

	lead := models.Lead{UserID: user.ID, Name: "Bruno", Status: models.LEAD_STATUS_NEGOTIATION}
	require.NoError(t, database.Create(&lead).Error)

	r := newTestRouter(database)
	r.PATCH("/leads/:id", asUser(user), UpdateLead)

	w := performJSON(r, "PATCH", fmt.Sprintf("/leads/%d", lead.ID), map[string]any{"status": "WON"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// status não mudou
	var persisted models.Lead
	require.NoError(t, database.First(&persisted, lead.ID).Error)
	assert.Equal(t, models.LEAD_STATUS_NEGOTIATION, persisted.Status)
}

func TestLeadTenantIsolation(t *testing.T) {
	database := setupTestDB(t)
	owner := createTestUser(t, database, "owner@test.com", models.PLAN_FREE)
	intruder := createTestUser(t, database, "intruder@test.com", models.PLAN_FREE)

	lead := models.Lead{UserID: owner.ID, Name: "Carla"}
	require.NoError(t, database.Create(&lead).Error)

	r := newTestRouter(database)
	r.GET("/leads/:id", asUser(intruder), GetLeadByID)
	r.PATCH("/leads/:id", asUser(intruder), UpdateLead)
	r.DELETE("/leads/:id", asUser(intruder), DeleteLead)

	// lead de outro tenant responde igual a lead inexistente
	for _, method := range []string{"GET", "PATCH", "DELETE"} {
		w := performJSON(r, method, fmt.Sprintf("/leads/%d", lead.ID), map[string]any{"status": models.LEAD_STATUS_LOST})
		assert.Equal(t, http.StatusNotFound, w.Code, method)
	}

	var count int64
	database.Model(&models.Lead{}).Where("id = ?", lead.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateLeadFoldsExtraData(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "extra@test.com", models.PLAN_FREE)

	r := newTestRouter(database)
	r.POST("/leads", asUser(user), CreateLead)
	r.GET("/leads/:id", asUser(user), GetLeadByID)

	w := performJSON(r, "POST", "/leads", map[string]any{
		"name":      "Diego",
		"phone":     "11988887777",
		"placa":     "XYZ9876",
		"valor":     2500.0,
		"documento": "https://docs.example.com/d/1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	lead := decodeBody(t, w)["lead"].(map[string]any)
	extra := lead["extra_data"].(map[string]any)
	require.Len(t, extra, 3)
	assert.Equal(t, "XYZ9876", extra["placa"].(map[string]any)["text"])
	assert.Equal(t, 2500.0, extra["valor"].(map[string]any)["number"])
	assert.Equal(t, "https://docs.example.com/d/1", extra["documento"].(map[string]any)["link"])

	// wa.me pronto pro front
	assert.Equal(t, "https://wa.me/5511988887777", lead["wa_me_link"])
}

func TestGetLeadsFilters(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "filters@test.com", models.PLAN_FREE)

	for i, status := range []string{
		models.LEAD_STATUS_NEW, models.LEAD_STATUS_NEW,
		models.LEAD_STATUS_CLOSED, models.LEAD_STATUS_LOST,
	} {
		lead := models.Lead{UserID: user.ID, Name: fmt.Sprintf("Lead %d", i), Status: status}
		require.NoError(t, database.Create(&lead).Error)
	}

	r := newTestRouter(database)
	r.GET("/leads", asUser(user), GetLeads)

	w := performJSON(r, "GET", "/leads?status=NEW", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(2), body["total"])

	w = performJSON(r, "GET", "/leads?status=RASCUNHO", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetLeadStats(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "stats@test.com", models.PLAN_FREE)

	for _, status := range []string{models.LEAD_STATUS_NEW, models.LEAD_STATUS_CLOSED} {
		lead := models.Lead{UserID: user.ID, Name: "L", Status: status}
		require.NoError(t, database.Create(&lead).Error)
	}

	r := newTestRouter(database)
	r.GET("/leads/stats", asUser(user), GetLeadStats)

	w := performJSON(r, "GET", "/leads/stats", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	buckets := decodeBody(t, w)["buckets"].(map[string]any)
	total := buckets["total"].(map[string]any)
	assert.Equal(t, float64(1), total[models.LEAD_STATUS_NEW])
	assert.Equal(t, float64(1), total[models.LEAD_STATUS_CLOSED])

	// lead criado agora entra nas três janelas
	day := buckets["day"].(map[string]any)
	assert.Equal(t, float64(1), day[models.LEAD_STATUS_NEW])
}
