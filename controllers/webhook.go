package controllers

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"
	"time"

	dbpkg "github.com/netoguild-rgb/crm-seguros-cg-sub000/db"
	"github.com/netoguild-rgb/crm-seguros-cg-sub000/models"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

// Payload no formato da Evolution API (eventos messages.upsert e
// messages.update). Estrutura mínima: só o que consumimos.
type WhatsAppWebhookPayload struct {
	Event    string `json:"event"`
	Instance string `json:"instance"`
	Data     struct {
		Key struct {
			RemoteJid string `json:"remoteJid"`
			FromMe    bool   `json:"fromMe"`
			ID        string `json:"id"`
		} `json:"key"`
		PushName string `json:"pushName"`
		Message  struct {
			Conversation string `json:"conversation"`
		} `json:"message"`
		Status string `json:"status"`
	} `json:"data"`
}

func resolveWebhookUserID(c *gin.Context) (int64, bool) {
	param := strings.TrimSpace(c.Param("userId"))
	if param == "" {
		RespondError(c, "userId é obrigatório", http.StatusBadRequest)
		return 0, false
	}
	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, "userId inválido", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// phoneFromJid extrai o telefone de um JID ("5511999998888@s.whatsapp.net").
func phoneFromJid(jid string) string {
	if i := strings.Index(jid, "@"); i > 0 {
		return jid[:i]
	}
	return jid
}

// POST /api/webhook/whatsapp/:userId (public, autenticado por apikey)
// Recebe eventos do gateway Evolution: mensagem inbound vira linha no log da
// conversa e incrementa o contador de não lidas; update de entrega avança o
// status da mensagem outbound (nunca regride).
func WhatsAppWebhook(c *gin.Context) {
	secret := conf.WhatsApp.WebhookSecret
	if secret != "" {
		provided := strings.TrimSpace(c.GetHeader("apikey"))
		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			RespondError(c, "forbidden", http.StatusForbidden)
			return
		}
	}

	userID, ok := resolveWebhookUserID(c)
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		RespondError(c, "usuário não encontrado", http.StatusNotFound)
		return
	}
	if user.Status != models.USER_STATUS_AVAILABLE {
		RespondError(c, "usuário não está ativo", http.StatusForbidden)
		return
	}

	var payload WhatsAppWebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		RespondError(c, "invalid json", http.StatusBadRequest)
		return
	}

	switch payload.Event {
	case "messages.upsert":
		handleInboundMessage(c, db, userID, payload)
	case "messages.update":
		handleDeliveryUpdate(c, db, userID, payload)
	default:
		// responde rápido pro gateway; evento desconhecido é só ack
		RespondSuccess(c, gin.H{"received": true})
	}
}

func handleInboundMessage(c *gin.Context, db *gorm.DB, userID int64, payload WhatsAppWebhookPayload) {
	if payload.Data.Key.FromMe {
		RespondSuccess(c, gin.H{"received": true})
		return
	}

	text := strings.TrimSpace(payload.Data.Message.Conversation)
	phone := phoneFromJid(payload.Data.Key.RemoteJid)
	if text == "" || phone == "" {
		RespondSuccess(c, gin.H{"received": true})
		return
	}

	// dedupe por id externo do gateway
	externalID := strings.TrimSpace(payload.Data.Key.ID)
	if externalID != "" {
		var existing models.Message
		if err := db.Where("user_id = ? AND external_id = ?", userID, externalID).
			First(&existing).Error; err == nil {
			RespondSuccess(c, gin.H{"received": true})
			return
		}
	}

	var conv models.Conversation
	err := db.Where("user_id = ? AND contact_phone = ?", userID, phone).First(&conv).Error
	if err != nil {
		if !gorm.IsRecordNotFoundError(err) {
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
		conv = models.Conversation{
			UserID:       userID,
			ContactName:  strings.TrimSpace(payload.Data.PushName),
			ContactPhone: phone,
		}
		if err := db.Create(&conv).Error; err != nil {
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
	}

	msg := models.Message{
		UserID:         userID,
		ConversationID: conv.ID,
		Direction:      models.MESSAGE_DIRECTION_IN,
		Status:         models.MESSAGE_STATUS_READ,
		Text:           text,
		ExternalID:     externalID,
	}
	if err := db.Create(&msg).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	now := time.Now()
	updates := map[string]any{
		"last_message":    text,
		"last_message_at": &now,
		"unread_count":    gorm.Expr("unread_count + 1"),
		"online":          true,
	}
	if conv.ContactName == "" && strings.TrimSpace(payload.Data.PushName) != "" {
		updates["contact_name"] = strings.TrimSpace(payload.Data.PushName)
	}
	if err := db.Model(&models.Conversation{}).Where("id = ?", conv.ID).
		Updates(updates).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"received": true})
}

// handleDeliveryUpdate avança o status de entrega de uma mensagem outbound.
// Mapeia os acks da Evolution: DELIVERY_ACK -> delivered, READ -> read.
func handleDeliveryUpdate(c *gin.Context, db *gorm.DB, userID int64, payload WhatsAppWebhookPayload) {
	externalID := strings.TrimSpace(payload.Data.Key.ID)
	if externalID == "" {
		RespondSuccess(c, gin.H{"received": true})
		return
	}

	var next string
	switch strings.ToUpper(strings.TrimSpace(payload.Data.Status)) {
	case "DELIVERY_ACK", "DELIVERED":
		next = models.MESSAGE_STATUS_DELIVERED
	case "READ":
		next = models.MESSAGE_STATUS_READ
	default:
		RespondSuccess(c, gin.H{"received": true})
		return
	}

	var msg models.Message
	if err := db.Where("user_id = ? AND external_id = ?", userID, externalID).
		First(&msg).Error; err != nil {
		RespondSuccess(c, gin.H{"received": true})
		return
	}

	if !models.CanAdvanceMessageStatus(msg.Status, next) {
		RespondSuccess(c, gin.H{"received": true})
		return
	}

	if err := db.Model(&msg).Update("status", next).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"received": true})
}
