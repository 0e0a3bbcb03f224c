package controllers

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/netoguild-rgb/crm-seguros-cg-sub000/models"
	"github.com/netoguild-rgb/crm-seguros-cg-sub000/tools"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSender struct{}

func (failingSender) SendText(context.Context, string, string) error {
	return fmt.Errorf("gateway indisponível")
}

func TestSendMessageCreatesConversation(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "inbox@test.com", models.PLAN_BASIC)

	sender := tools.NewMemorySender()
	SetWhatsAppSender(sender)
	t.Cleanup(func() { SetWhatsAppSender(tools.NewMemorySender()) })

	r := newTestRouter(database)
	r.POST("/messages", asUser(user), SendMessage)

	w := performJSON(r, "POST", "/messages", map[string]any{
		"contact_phone": "5511999998888",
		"contact_name":  "Ana",
		"text":          "Olá! Sua cotação está pronta.",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	msg := decodeBody(t, w)["message"].(map[string]any)
	assert.Equal(t, models.MESSAGE_DIRECTION_OUT, msg["direction"])
	assert.Equal(t, models.MESSAGE_STATUS_SENT, msg["status"])
	assert.NotEmpty(t, msg["external_id"])

	var conv models.Conversation
	require.NoError(t, database.Where("user_id = ? AND contact_phone = ?", user.ID, "5511999998888").
		First(&conv).Error)
	assert.Equal(t, "Olá! Sua cotação está pronta.", conv.LastMessage)
	require.NotNil(t, conv.LastMessageAt)

	sent := sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "5511999998888", sent[0].To)

	// segunda mensagem pro mesmo contato reusa a conversa
	w = performJSON(r, "POST", "/messages", map[string]any{
		"contact_phone": "5511999998888",
		"text":          "Posso te ligar?",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var convCount int64
	database.Model(&models.Conversation{}).Where("user_id = ?", user.ID).Count(&convCount)
	assert.Equal(t, int64(1), convCount)
}

func TestSendMessageGatewayFailureLeavesNoGhostRow(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "inbox-fail@test.com", models.PLAN_BASIC)

	SetWhatsAppSender(failingSender{})
	t.Cleanup(func() { SetWhatsAppSender(tools.NewMemorySender()) })

	r := newTestRouter(database)
	r.POST("/messages", asUser(user), SendMessage)

	w := performJSON(r, "POST", "/messages", map[string]any{
		"contact_phone": "5511999998888",
		"text":          "essa não sai",
	})
	require.Equal(t, http.StatusBadGateway, w.Code)

	// nenhuma mensagem marcada como enviada
	var count int64
	database.Model(&models.Message{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestMarkConversationReadOnlyResetsCounter(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "read@test.com", models.PLAN_BASIC)

	now := time.Now()
	conv := models.Conversation{
		UserID: user.ID, ContactPhone: "5511988887777",
		LastMessage: "oi", LastMessageAt: &now, UnreadCount: 7,
	}
	require.NoError(t, database.Create(&conv).Error)

	for i := 0; i < 3; i++ {
		msg := models.Message{
			UserID: user.ID, ConversationID: conv.ID,
			Direction: models.MESSAGE_DIRECTION_IN, Status: models.MESSAGE_STATUS_READ,
			Text: fmt.Sprintf("mensagem %d", i),
		}
		require.NoError(t, database.Create(&msg).Error)
	}

	r := newTestRouter(database)
	r.POST("/conversations/:id/read", asUser(user), MarkConversationRead)
	r.GET("/conversations/:id", asUser(user), GetConversationByID)

	w := performJSON(r, "POST", fmt.Sprintf("/conversations/%d/read", conv.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var persisted models.Conversation
	require.NoError(t, database.First(&persisted, conv.ID).Error)
	assert.Equal(t, int64(0), persisted.UnreadCount)
	// mark-read não toca no preview nem nas mensagens
	assert.Equal(t, "oi", persisted.LastMessage)

	w = performJSON(r, "GET", fmt.Sprintf("/conversations/%d", conv.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	messages := decodeBody(t, w)["messages"].([]any)
	assert.Len(t, messages, 3)
}

func TestConversationTenantIsolation(t *testing.T) {
	database := setupTestDB(t)
	owner := createTestUser(t, database, "conv-owner@test.com", models.PLAN_BASIC)
	intruder := createTestUser(t, database, "conv-intruder@test.com", models.PLAN_BASIC)

	conv := models.Conversation{UserID: owner.ID, ContactPhone: "5511977776666"}
	require.NoError(t, database.Create(&conv).Error)

	r := newTestRouter(database)
	r.GET("/conversations/:id", asUser(intruder), GetConversationByID)

	w := performJSON(r, "GET", fmt.Sprintf("/conversations/%d", conv.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func whatsappUpsertPayload(jid, pushName, text, externalID string) map[string]any {
	return map[string]any{
		"event": "messages.upsert",
		"data": map[string]any{
			"key": map[string]any{
				"remoteJid": jid,
				"fromMe":    false,
				"id":        externalID,
			},
			"pushName": pushName,
			"message":  map[string]any{"conversation": text},
		},
	}
}

func TestWhatsAppWebhookInbound(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "wh@test.com", models.PLAN_BASIC)

	r := newTestRouter(database)
	r.POST("/webhook/whatsapp/:userId", WhatsAppWebhook)

	path := fmt.Sprintf("/webhook/whatsapp/%d", user.ID)
	payload := whatsappUpsertPayload("5511966665555@s.whatsapp.net", "Cliente", "quero uma cotação", "ext-1")

	w := performJSON(r, "POST", path, payload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var conv models.Conversation
	require.NoError(t, database.Where("user_id = ? AND contact_phone = ?", user.ID, "5511966665555").
		First(&conv).Error)
	assert.Equal(t, "Cliente", conv.ContactName)
	assert.Equal(t, int64(1), conv.UnreadCount)
	assert.Equal(t, "quero uma cotação", conv.LastMessage)

	// redelivery do mesmo evento não duplica
	w = performJSON(r, "POST", path, payload)
	require.Equal(t, http.StatusOK, w.Code)

	var msgCount int64
	database.Model(&models.Message{}).Where("user_id = ?", user.ID).Count(&msgCount)
	assert.Equal(t, int64(1), msgCount)

	require.NoError(t, database.First(&conv, conv.ID).Error)
	assert.Equal(t, int64(1), conv.UnreadCount)
}

func TestWhatsAppWebhookDeliveryStatusNeverRegresses(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "wh-status@test.com", models.PLAN_BASIC)

	conv := models.Conversation{UserID: user.ID, ContactPhone: "5511955554444"}
	require.NoError(t, database.Create(&conv).Error)
	msg := models.Message{
		UserID: user.ID, ConversationID: conv.ID,
		Direction: models.MESSAGE_DIRECTION_OUT, Status: models.MESSAGE_STATUS_SENT,
		Text: "enviada", ExternalID: "out-1",
	}
	require.NoError(t, database.Create(&msg).Error)

	r := newTestRouter(database)
	r.POST("/webhook/whatsapp/:userId", WhatsAppWebhook)
	path := fmt.Sprintf("/webhook/whatsapp/%d", user.ID)

	update := func(status string) {
		payload := map[string]any{
			"event": "messages.update",
			"data": map[string]any{
				"key":    map[string]any{"remoteJid": "5511955554444@s.whatsapp.net", "id": "out-1"},
				"status": status,
			},
		}
		w := performJSON(r, "POST", path, payload)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	update("READ")
	var persisted models.Message
	require.NoError(t, database.First(&persisted, msg.ID).Error)
	assert.Equal(t, models.MESSAGE_STATUS_READ, persisted.Status)

	// ack atrasado de delivered chega depois do read e é ignorado
	update("DELIVERY_ACK")
	require.NoError(t, database.First(&persisted, msg.ID).Error)
	assert.Equal(t, models.MESSAGE_STATUS_READ, persisted.Status)
}

func TestWhatsAppWebhookBlockedUser(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "wh-blocked@test.com", models.PLAN_BASIC)
	require.NoError(t, database.Model(&models.User{}).Where("id = ?", user.ID).
		Update("status", models.USER_STATUS_BLOCKED).Error)

	r := newTestRouter(database)
	r.POST("/webhook/whatsapp/:userId", WhatsAppWebhook)

	payload := whatsappUpsertPayload("5511944443333@s.whatsapp.net", "X", "oi", "ext-9")
	w := performJSON(r, "POST", fmt.Sprintf("/webhook/whatsapp/%d", user.ID), payload)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
