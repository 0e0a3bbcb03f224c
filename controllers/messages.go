package controllers

import (
	"net/http"
	"strings"
	"time"

	dbpkg "github.com/netoguild-rgb/crm-seguros-cg-sub000/db"
	"github.com/netoguild-rgb/crm-seguros-cg-sub000/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SendMessageRequest struct {
	ConversationID int64  `json:"conversation_id" form:"conversation_id"`
	ContactPhone   string `json:"contact_phone" form:"contact_phone"`
	ContactName    string `json:"contact_name" form:"contact_name"`
	Text           string `json:"text" form:"text"`
}

// POST /api/messages
// Envia uma mensagem outbound. Aceita conversation_id (conversa existente)
// ou contact_phone (abre conversa nova). O envio pro gateway acontece ANTES
// de persistir como "sent": falha upstream devolve 502 e não deixa mensagem
// fantasma marcada como enviada.
func SendMessage(c *gin.Context) {
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

	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		RespondError(c, "text é obrigatório", http.StatusBadRequest)
		return
	}

	var conv models.Conversation
	if req.ConversationID > 0 {
		found, ok := findTenantConversation(c, user.ID, req.ConversationID)
		if !ok {
			return
		}
		conv = *found
	} else if strings.TrimSpace(req.ContactPhone) != "" {
		// reusa conversa existente pro mesmo contato, senão cria
		err := db.Where("user_id = ? AND contact_phone = ?", user.ID, req.ContactPhone).
			First(&conv).Error
		if err != nil {
			conv = models.Conversation{
				UserID:       user.ID,
				ContactName:  strings.TrimSpace(req.ContactName),
				ContactPhone: strings.TrimSpace(req.ContactPhone),
			}
			if err := db.Create(&conv).Error; err != nil {
				RespondError(c, err.Error(), http.StatusBadRequest)
				return
			}
		}
	} else {
		RespondError(c, "conversation_id ou contact_phone é obrigatório", http.StatusBadRequest)
		return
	}

	if err := waSender.SendText(c.Request.Context(), conv.ContactPhone, req.Text); err != nil {
		// falha do provedor sobe como está; o cliente mostra erro genérico
		RespondError(c, "falha ao enviar pro gateway: "+err.Error(), http.StatusBadGateway)
		return
	}

	now := time.Now()
	msg := models.Message{
		UserID:         user.ID,
		ConversationID: conv.ID,
		Direction:      models.MESSAGE_DIRECTION_OUT,
		Status:         models.MESSAGE_STATUS_SENT,
		Text:           req.Text,
		ExternalID:     uuid.New().String(),
	}
	if err := db.Create(&msg).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	if err := db.Model(&models.Conversation{}).
		Where("id = ?", conv.ID).
		Updates(map[string]any{
			"last_message":    req.Text,
			"last_message_at": &now,
		}).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"message": msg})
}
