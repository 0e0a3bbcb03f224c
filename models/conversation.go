package models

import "time"

// Conversation representa uma conversa do inbox WhatsApp com um contato.
// O contador de não lidas zera exatamente quando a conversa é aberta
// (mark-read); mensagens dentro dela são um log append-only.
type Conversation struct {
	ID            int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	UserID        int64      `gorm:"not null;index" json:"user_id"`
	ContactName   string     `gorm:"default:''" json:"contact_name" form:"contact_name"`
	ContactPhone  string     `gorm:"not null;index" json:"contact_phone" form:"contact_phone"`
	LastMessage   string     `gorm:"type:text" json:"last_message"`
	LastMessageAt *time.Time `json:"last_message_at"`
	UnreadCount   int64      `gorm:"not null;default:0" json:"unread_count"`
	Online        bool       `gorm:"not null;default:false" json:"online"`
	CreatedAt     *time.Time `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
}
