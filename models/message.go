package models

import "time"

/************************************************
/**** MARK: MESSAGE DIRECTION ****/
/************************************************/
const MESSAGE_DIRECTION_IN = "in"
const MESSAGE_DIRECTION_OUT = "out"

/************************************************
/**** MARK: MESSAGE STATUS ****/
/************************************************/
const MESSAGE_STATUS_SENT = "sent"
const MESSAGE_STATUS_DELIVERED = "delivered"
const MESSAGE_STATUS_READ = "read"

// Message é uma mensagem dentro de uma conversa, ordenada por
// (created_at, id). Nunca é reordenada depois de inserida.
type Message struct {
	ID             int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	UserID         int64      `gorm:"not null;index" json:"user_id"`
	ConversationID int64      `gorm:"not null;index" json:"conversation_id"`
	Direction      string     `gorm:"not null" json:"direction"`
	Status         string     `gorm:"not null;default:'sent'" json:"status"`
	Text           string     `gorm:"type:text" json:"text" form:"text"`
	ExternalID     string     `gorm:"default:'';index" json:"external_id"`
	CreatedAt      *time.Time `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at"`
}

// messageStatusRank: sent < delivered < read.
func messageStatusRank(status string) int {
	switch status {
	case MESSAGE_STATUS_DELIVERED:
		return 1
	case MESSAGE_STATUS_READ:
		return 2
	default:
		return 0
	}
}

// CanAdvanceMessageStatus garante progressão monotônica do status de entrega:
// read nunca regride para delivered/sent.
func CanAdvanceMessageStatus(current string, next string) bool {
	switch next {
	case MESSAGE_STATUS_SENT, MESSAGE_STATUS_DELIVERED, MESSAGE_STATUS_READ:
	default:
		return false
	}
	return messageStatusRank(next) > messageStatusRank(current)
}
