package controllers

import (
	"net/http"

	dbpkg "github.com/netoguild-rgb/crm-seguros-cg-sub000/db"
	"github.com/netoguild-rgb/crm-seguros-cg-sub000/models"

	"github.com/gin-gonic/gin"
)

func findTenantConversation(c *gin.Context, userID int64, convID int64) (*models.Conversation, bool) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return nil, false
	}

	var conv models.Conversation
	if err := db.Where("id = ? AND user_id = ?", convID, userID).First(&conv).Error; err != nil {
		RespondError(c, "conversa não encontrada", http.StatusNotFound)
		return nil, false
	}
	return &conv, true
}

// GET /api/conversations
// Ordenadas pela última mensagem (mais recente primeiro).
func GetConversations(c *gin.Context) {
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

	var conversations []models.Conversation
	if err := db.Where("user_id = ?", user.ID).
		Order("last_message_at desc, id desc").
		Find(&conversations).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"conversations": conversations})
}

// GET /api/conversations/:id
// Devolve a conversa + mensagens em ordem de inserção (created_at, id).
// Mensagens nunca são reordenadas depois de inseridas.
func GetConversationByID(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	conv, ok := findTenantConversation(c, user.ID, id)
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)

	var messages []models.Message
	if err := db.Where("conversation_id = ?", conv.ID).
		Order("created_at asc, id asc").
		Find(&messages).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"conversation": conv, "messages": messages})
}

// POST /api/conversations/:id/read
// Zera o contador de não lidas — exatamente quando a conversa é aberta.
// Não toca em ordem nem conteúdo das mensagens.
func MarkConversationRead(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	conv, ok := findTenantConversation(c, user.ID, id)
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if err := db.Model(&models.Conversation{}).
		Where("id = ?", conv.ID).
		Update("unread_count", 0).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	conv.UnreadCount = 0
	RespondSuccess(c, gin.H{"conversation": conv})
}
